// Package tools exposes the collector and exporter as remotely invokable
// tools. The Service is the single owner of run-scoped state: the last
// collected batch and profile live here and nowhere else.
package tools

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"feedsheet/internal/browser"
	"feedsheet/internal/collector"
	"feedsheet/internal/config"
	"feedsheet/internal/extract"
	"feedsheet/internal/sheets"
	"feedsheet/internal/storage"
	"feedsheet/internal/types"
)

// Service wires the browser session, extraction, collection and export
// together behind the tool surface. Collaborators initialize explicitly:
// page-dependent tools fail with NotReady until OpenBrowser succeeds, and
// export tools fail with NotReady until ConnectSheets succeeds.
type Service struct {
	cfg       *config.Config
	logger    *slog.Logger
	session   *browser.Session
	extractor *extract.Extractor
	collect   *collector.Collector

	writer  *sheets.Writer
	archive storage.Archive

	mu          sync.Mutex
	lastPosts   []*types.Post
	lastProfile *types.Profile
}

// NewService creates the tool service.
func NewService(cfg *config.Config, logger *slog.Logger) *Service {
	extractor := extract.New(logger)
	return &Service{
		cfg:       cfg,
		logger:    logger.With("component", "tools"),
		session:   browser.NewSession(cfg.Browser, logger),
		extractor: extractor,
		collect:   collector.New(extractor, logger),
	}
}

// OpenBrowser launches the browser and lands on the home feed.
func (s *Service) OpenBrowser() error {
	if err := s.session.Open(); err != nil {
		return err
	}
	return s.session.Navigate(s.cfg.Browser.BaseURL + "/home")
}

// Navigate loads an arbitrary page in the session.
func (s *Service) Navigate(rawURL string) error {
	return s.session.Navigate(rawURL)
}

// ConnectSheets initializes the spreadsheet backend per config.
func (s *Service) ConnectSheets(ctx context.Context) error {
	switch s.cfg.Sheets.Backend {
	case "memory":
		s.writer = sheets.NewWriter(sheets.NewMemory(), s.logger)
	default:
		client := sheets.NewRestClient(s.cfg.Sheets.SpreadsheetID, s.cfg.Sheets.Token, s.logger)
		if err := client.Connect(ctx); err != nil {
			return err
		}
		s.writer = sheets.NewWriter(client, s.logger)
	}
	return nil
}

// UseSheetAPI swaps in a specific backend. Used by tests and dry runs.
func (s *Service) UseSheetAPI(api sheets.SheetAPI) {
	s.writer = sheets.NewWriter(api, s.logger)
}

// SetArchive attaches an optional batch archive.
func (s *Service) SetArchive(archive storage.Archive) {
	s.archive = archive
}

// Close releases the browser and archive.
func (s *Service) Close() error {
	var firstErr error
	if err := s.session.Close(); err != nil {
		firstErr = err
	}
	if s.archive != nil {
		if err := s.archive.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// CollectRequest are the collect_posts inputs.
type CollectRequest struct {
	MaxCount      int `json:"max_count"`
	ScrollDelayMs int `json:"scroll_delay_ms"`
	ReadingTimeMs int `json:"reading_time_ms"`
}

// CollectResult summarizes a collection run.
type CollectResult struct {
	Summary string        `json:"summary"`
	Count   int           `json:"count"`
	Posts   []*types.Post `json:"posts"`
}

// CollectPosts scrolls the current feed and accumulates deduplicated posts.
// The batch is retained as the service's last collected batch.
func (s *Service) CollectPosts(ctx context.Context, req CollectRequest) (*CollectResult, error) {
	if !s.session.Ready() {
		return nil, &types.ToolError{Tool: "collect_posts", Err: &types.NotReadyError{Component: "browser page"}}
	}

	target := req.MaxCount
	if target <= 0 {
		target = s.cfg.Collector.DefaultCount
	}
	if target > s.cfg.Collector.MaxCount {
		target = s.cfg.Collector.MaxCount
	}

	scrollDelay, readingTime := s.pacing(req)
	pager := browser.NewFeedPager(s.session, scrollDelay, readingTime)
	posts, err := s.collect.Collect(ctx, pager, target)
	if err != nil {
		return nil, &types.ToolError{Tool: "collect_posts", Err: err}
	}

	s.mu.Lock()
	s.lastPosts = posts
	s.mu.Unlock()

	if s.archive != nil {
		if err := s.archive.StorePosts(posts); err != nil {
			s.logger.Error("batch archive failed", "error", err)
		}
	}

	return &CollectResult{
		Summary: fmt.Sprintf("collected %d posts (target %d)", len(posts), target),
		Count:   len(posts),
		Posts:   posts,
	}, nil
}

// GetProfile extracts the profile from the current page.
func (s *Service) GetProfile(_ context.Context) (*types.Profile, error) {
	if !s.session.Ready() {
		return nil, &types.ToolError{Tool: "get_profile", Err: &types.NotReadyError{Component: "browser page"}}
	}

	snap, err := s.session.Snapshot()
	if err != nil {
		return nil, &types.ToolError{Tool: "get_profile", Err: err}
	}
	profile := s.extractor.Profile(snap)

	s.mu.Lock()
	s.lastProfile = profile
	s.mu.Unlock()

	if s.archive != nil {
		if err := s.archive.StoreProfile(profile); err != nil {
			s.logger.Error("profile archive failed", "error", err)
		}
	}
	return profile, nil
}

// SearchRequest are the search inputs.
type SearchRequest struct {
	Query         string `json:"query"`
	MaxResults    int    `json:"max_results"`
	ScrollDelayMs int    `json:"scroll_delay_ms"`
	ReadingTimeMs int    `json:"reading_time_ms"`
}

// Search navigates to the live-search view for the query and then collects
// posts from it.
func (s *Service) Search(ctx context.Context, req SearchRequest) (*CollectResult, error) {
	if !s.session.Ready() {
		return nil, &types.ToolError{Tool: "search", Err: &types.NotReadyError{Component: "browser page"}}
	}
	if req.Query == "" {
		return nil, &types.ToolError{Tool: "search", Err: fmt.Errorf("query must not be empty")}
	}

	if err := s.session.NavigateSearch(req.Query); err != nil {
		return nil, &types.ToolError{Tool: "search", Err: err}
	}

	result, err := s.CollectPosts(ctx, CollectRequest{
		MaxCount:      req.MaxResults,
		ScrollDelayMs: req.ScrollDelayMs,
		ReadingTimeMs: req.ReadingTimeMs,
	})
	if err != nil {
		return nil, &types.ToolError{Tool: "search", Err: err}
	}
	result.Summary = fmt.Sprintf("search %q: %s", req.Query, result.Summary)
	return result, nil
}

// DebugPageStructure reports element counts per candidate pattern for the
// current page. Absence of matches is the report, never an error.
func (s *Service) DebugPageStructure(_ context.Context) (*extract.StructureReport, error) {
	if !s.session.Ready() {
		return nil, &types.ToolError{Tool: "debug_page_structure", Err: &types.NotReadyError{Component: "browser page"}}
	}
	snap, err := s.session.Snapshot()
	if err != nil {
		return nil, &types.ToolError{Tool: "debug_page_structure", Err: err}
	}
	report := s.extractor.Structure(snap)
	return &report, nil
}

// TestSelectors reports text samples from each field's winning pattern.
func (s *Service) TestSelectors(_ context.Context) (*extract.StructureReport, error) {
	if !s.session.Ready() {
		return nil, &types.ToolError{Tool: "test_selectors", Err: &types.NotReadyError{Component: "browser page"}}
	}
	snap, err := s.session.Snapshot()
	if err != nil {
		return nil, &types.ToolError{Tool: "test_selectors", Err: err}
	}
	report := s.extractor.SelectorSamples(snap)
	return &report, nil
}

// ExportRequest are the export tool inputs. SpreadsheetID overrides the
// configured destination spreadsheet and Posts overrides the last collected
// batch when supplied.
type ExportRequest struct {
	SpreadsheetID string        `json:"spreadsheet_id,omitempty"`
	Worksheet     string        `json:"worksheet"`
	Posts         []*types.Post `json:"posts,omitempty"`
}

// destination resolves the per-call spreadsheet, defaulting to the
// configured one.
func (s *Service) destination(req ExportRequest) string {
	if req.SpreadsheetID != "" {
		return req.SpreadsheetID
	}
	return s.cfg.Sheets.SpreadsheetID
}

// ExportPosts appends the batch to the posts worksheet, defaulting to the
// last collected batch and today's worksheet.
func (s *Service) ExportPosts(ctx context.Context, req ExportRequest) (types.WriteResult, error) {
	if s.writer == nil {
		return types.WriteResult{}, &types.ToolError{Tool: "export_posts", Err: &types.NotReadyError{Component: "sheets client"}}
	}

	posts := req.Posts
	if posts == nil {
		s.mu.Lock()
		posts = s.lastPosts
		s.mu.Unlock()
	}
	if len(posts) == 0 {
		return types.WriteResult{}, &types.ToolError{Tool: "export_posts", Err: types.ErrNoBatch}
	}

	worksheet := req.Worksheet
	if worksheet == "" {
		worksheet = sheets.DefaultWorksheetName(time.Now())
	}

	result, err := s.writer.Append(ctx, s.destination(req), worksheet, sheets.PostColumns, sheets.PostRows(posts))
	if err != nil {
		return result, &types.ToolError{Tool: "export_posts", Err: err}
	}
	return result, nil
}

// ExportProfile appends the last collected profile to a profile worksheet.
func (s *Service) ExportProfile(ctx context.Context, req ExportRequest) (types.WriteResult, error) {
	if s.writer == nil {
		return types.WriteResult{}, &types.ToolError{Tool: "export_profile", Err: &types.NotReadyError{Component: "sheets client"}}
	}

	s.mu.Lock()
	profile := s.lastProfile
	s.mu.Unlock()
	if profile == nil {
		return types.WriteResult{}, &types.ToolError{Tool: "export_profile", Err: types.ErrNoBatch}
	}

	worksheet := req.Worksheet
	if worksheet == "" {
		worksheet = "profile-" + sheets.DefaultWorksheetName(time.Now())
	}

	result, err := s.writer.Append(ctx, s.destination(req), worksheet, sheets.ProfileColumns, sheets.ProfileRows(profile))
	if err != nil {
		return result, &types.ToolError{Tool: "export_profile", Err: err}
	}
	return result, nil
}

// LastBatch returns the most recently collected posts.
func (s *Service) LastBatch() []*types.Post {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastPosts
}

func (s *Service) pacing(req CollectRequest) (time.Duration, time.Duration) {
	scrollDelay := s.cfg.Collector.ScrollDelay
	if req.ScrollDelayMs > 0 {
		scrollDelay = time.Duration(req.ScrollDelayMs) * time.Millisecond
	}
	readingTime := s.cfg.Collector.ReadingTime
	if req.ReadingTimeMs > 0 {
		readingTime = time.Duration(req.ReadingTimeMs) * time.Millisecond
	}
	return scrollDelay, readingTime
}
