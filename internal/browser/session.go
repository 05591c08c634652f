// Package browser owns the headless browser session. The rest of the system
// only ever sees rendered-DOM snapshots taken here.
package browser

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/stealth"

	"feedsheet/internal/config"
	"feedsheet/internal/types"
)

// Session wraps one browser with one active page. It must be opened
// explicitly; page-dependent operations fail with NotReadyError until then.
type Session struct {
	cfg     config.BrowserConfig
	browser *rod.Browser
	page    *rod.Page
	logger  *slog.Logger
}

// NewSession creates an unopened session.
func NewSession(cfg config.BrowserConfig, logger *slog.Logger) *Session {
	return &Session{
		cfg:    cfg,
		logger: logger.With("component", "browser"),
	}
}

// Open launches the browser and creates the page.
func (s *Session) Open() error {
	l := launcher.New().
		Headless(s.cfg.Headless).
		Set("disable-gpu").
		Set("disable-dev-shm-usage").
		Set("no-sandbox").
		Set("disable-blink-features", "AutomationControlled")
	if s.cfg.UserDataDir != "" {
		l = l.UserDataDir(s.cfg.UserDataDir)
	}

	controlURL, err := l.Launch()
	if err != nil {
		return fmt.Errorf("launch browser: %w", err)
	}

	browser := rod.New().ControlURL(controlURL)
	if err := browser.Connect(); err != nil {
		return fmt.Errorf("connect browser: %w", err)
	}

	page, err := stealth.Page(browser)
	if err != nil {
		_ = browser.Close()
		return fmt.Errorf("stealth page: %w", err)
	}

	s.browser = browser
	s.page = page
	s.logger.Info("browser session ready", "headless", s.cfg.Headless)
	return nil
}

// Ready reports whether the session has an active page.
func (s *Session) Ready() bool { return s.page != nil }

// Navigate loads a URL and waits for the page to settle. Exceeding the
// configured timeout surfaces as an error, never a hang.
func (s *Session) Navigate(rawURL string) error {
	if s.page == nil {
		return &types.NotReadyError{Component: "browser page"}
	}

	err := s.page.Timeout(s.cfg.NavigationTimeout).Navigate(rawURL)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return fmt.Errorf("navigate %s: %w", rawURL, types.ErrTimeout)
		}
		return fmt.Errorf("navigate %s: %w", rawURL, err)
	}

	if err := s.page.Timeout(s.cfg.NavigationTimeout).WaitStable(300 * time.Millisecond); err != nil {
		s.logger.Warn("page stability timeout, continuing", "url", rawURL, "error", err)
	}
	return nil
}

// NavigateSearch loads the live-search view for a query.
func (s *Session) NavigateSearch(query string) error {
	return s.Navigate(s.cfg.BaseURL + "/search?q=" + url.QueryEscape(query) + "&f=live")
}

// Snapshot captures the current rendered DOM.
func (s *Session) Snapshot() (*types.Snapshot, error) {
	if s.page == nil {
		return nil, &types.NotReadyError{Component: "browser page"}
	}

	html, err := s.page.HTML()
	if err != nil {
		return nil, fmt.Errorf("capture page html: %w", err)
	}

	pageURL := ""
	if info, err := s.page.Info(); err == nil && info != nil {
		pageURL = info.URL
	}
	return types.NewSnapshot(html, pageURL), nil
}

// Scroll advances the feed one viewport-ish step in a few uneven hops, then
// pauses so newly loaded content settles.
func (s *Session) Scroll(ctx context.Context, scrollDelay, readingTime time.Duration) error {
	if s.page == nil {
		return &types.NotReadyError{Component: "browser page"}
	}

	hops := []int{250, 400, 350}
	for _, px := range hops {
		if err := ctx.Err(); err != nil {
			return err
		}
		if _, err := s.page.Eval(fmt.Sprintf("() => window.scrollBy(0, %d)", px)); err != nil {
			return fmt.Errorf("scroll: %w", err)
		}
		time.Sleep(scrollDelay / time.Duration(len(hops)))
	}
	time.Sleep(readingTime)
	return nil
}

// Close shuts the browser down.
func (s *Session) Close() error {
	s.page = nil
	if s.browser != nil {
		err := s.browser.Close()
		s.browser = nil
		return err
	}
	return nil
}
