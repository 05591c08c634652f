// Package extract turns rendered-page snapshots into normalized posts and
// profiles. It never fails on a single malformed element: per-element errors
// are logged and the element is skipped.
package extract

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"feedsheet/internal/selectors"
	"feedsheet/internal/types"
)

const (
	// minTextLen is the minimum normalized text length for a post to be kept.
	minTextLen = 5

	// rawTextCeiling and truncatedLen implement the truncation rule:
	// bodies longer than the ceiling are cut to truncatedLen plus ellipsis.
	rawTextCeiling = 500
	truncatedLen   = 280
)

// Extractor converts snapshots into posts and profiles.
type Extractor struct {
	logger *slog.Logger
}

// New creates an Extractor.
func New(logger *slog.Logger) *Extractor {
	return &Extractor{
		logger: logger.With("component", "extractor"),
	}
}

// Posts extracts every post from one snapshot. Containers are tried in
// registry order; when none match, the heuristic scan runs instead. A page
// with nothing recognizable yields an empty slice, not an error.
func (e *Extractor) Posts(snap *types.Snapshot) []*types.Post {
	root, err := snap.Root()
	if err != nil {
		e.logger.Warn("snapshot parse failed", "url", snap.URL, "error", err)
		return nil
	}

	containers := selectors.FindAll(root, selectors.PostContainers)
	if len(containers) == 0 {
		e.logger.Info("no structured containers matched, using heuristic scan", "url", snap.URL)
		containers = e.heuristicCandidates(root)
	}

	collectedAt := time.Now()
	posts := make([]*types.Post, 0, len(containers))
	for i, container := range containers {
		post, err := e.resolvePost(container, i, collectedAt)
		if err != nil {
			e.logger.Warn("element skipped", "index", i, "error", err)
			continue
		}
		if post == nil {
			continue
		}
		posts = append(posts, post)
	}

	e.logger.Debug("extraction complete", "url", snap.URL, "containers", len(containers), "posts", len(posts))
	return posts
}

// resolvePost resolves every field of one container element independently.
// Returns (nil, nil) when the element fails the minimum-length invariant.
func (e *Extractor) resolvePost(container *goquery.Selection, index int, collectedAt time.Time) (post *types.Post, err error) {
	defer func() {
		if r := recover(); r != nil {
			post = nil
			err = &types.ExtractError{Index: index, Err: fmt.Errorf("panic: %v", r)}
		}
	}()

	containerText := strings.TrimSpace(container.Text())

	text := e.resolveText(container, containerText)
	if len([]rune(text)) < minTextLen {
		return nil, nil
	}

	post = &types.Post{
		ID:          syntheticID(collectedAt, index),
		Text:        text,
		Timestamp:   e.resolveTimestamp(container, containerText, collectedAt),
		Author:      e.resolveAuthor(container, containerText, index),
		Likes:       e.resolveCount(container, selectors.LikeButtons, containerText),
		Reposts:     e.resolveCount(container, selectors.RepostButtons, containerText),
		Replies:     e.resolveCount(container, selectors.ReplyButtons, containerText),
		CollectedAt: collectedAt,
	}

	if ctx, ok := selectors.FindFirst(container, selectors.SocialContext); ok {
		post.IsRepost = true
		if orig, ok := selectors.HandleToken(ctx.Text()); ok {
			post.OriginalAuthor = orig
		}
	}

	return post, nil
}

// resolveText returns the first non-empty structured text match, falling
// back to the container's own text. Either way the truncation rule applies.
func (e *Extractor) resolveText(container *goquery.Selection, containerText string) string {
	for _, p := range selectors.PostText {
		for _, m := range p.Matches(container) {
			if t := strings.TrimSpace(m.Text()); t != "" {
				return truncate(t)
			}
		}
	}
	return truncate(containerText)
}

func (e *Extractor) resolveTimestamp(container *goquery.Selection, containerText string, collectedAt time.Time) string {
	if el, ok := selectors.FindFirst(container, selectors.PostTimestamps); ok {
		if dt, exists := el.Attr("datetime"); exists && dt != "" {
			return dt
		}
	}
	if token, ok := selectors.RelativeTimeToken(containerText); ok {
		return token
	}
	return collectedAt.Format(time.RFC3339)
}

// resolveAuthor walks profile links of the first matching pattern, skipping
// post permalinks, then falls back to an "@handle" token in the text, then
// to a positional placeholder.
func (e *Extractor) resolveAuthor(container *goquery.Selection, containerText string, index int) string {
	for _, link := range selectors.FindAll(container, selectors.AuthorLinks) {
		href, exists := link.Attr("href")
		if !exists || strings.Contains(href, selectors.StatusLinkMarker) {
			continue
		}
		handle := strings.TrimPrefix(strings.TrimPrefix(strings.Trim(href, "/"), "@"), "@")
		if i := strings.IndexByte(handle, '/'); i >= 0 {
			handle = handle[:i]
		}
		if handle != "" {
			return handle
		}
	}
	if handle, ok := selectors.HandleToken(containerText); ok {
		return handle
	}
	return fmt.Sprintf("user_%d", index)
}

// resolveCount parses one engagement counter. A parse of 0 falls back to
// the first integer token of the whole container text; that fallback is
// shared across all three counters and can misattribute numbers.
func (e *Extractor) resolveCount(container *goquery.Selection, patterns []selectors.Pattern, containerText string) int {
	if el, ok := selectors.FindFirst(container, patterns); ok {
		raw, exists := el.Attr("aria-label")
		if !exists || raw == "" {
			raw = el.Text()
		}
		if n := selectors.ParseCount(raw); n > 0 {
			return n
		}
	}
	return selectors.FirstInteger(containerText)
}

func truncate(text string) string {
	runes := []rune(text)
	if len(runes) <= rawTextCeiling {
		return text
	}
	return string(runes[:truncatedLen]) + "..."
}

// syntheticID derives a within-run identifier from collection time and
// position. It is deliberately content-independent: two extractions of the
// same real post in different snapshots get different ids, so downstream
// dedup only suppresses re-extraction of an unchanged snapshot.
func syntheticID(collectedAt time.Time, index int) string {
	return fmt.Sprintf("post_%d_%d", collectedAt.UnixMilli(), index)
}
