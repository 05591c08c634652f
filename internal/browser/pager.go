package browser

import (
	"context"
	"time"

	"feedsheet/internal/types"
)

// FeedPager adapts a Session to the collection loop's page capability:
// snapshot the DOM, scroll with human-like pacing between snapshots.
type FeedPager struct {
	session     *Session
	scrollDelay time.Duration
	readingTime time.Duration
}

// NewFeedPager wraps a session with the given pacing.
func NewFeedPager(session *Session, scrollDelay, readingTime time.Duration) *FeedPager {
	return &FeedPager{
		session:     session,
		scrollDelay: scrollDelay,
		readingTime: readingTime,
	}
}

// Snapshot captures the current rendered DOM.
func (p *FeedPager) Snapshot() (*types.Snapshot, error) {
	return p.session.Snapshot()
}

// Advance scrolls the feed so the next snapshot sees new content.
func (p *FeedPager) Advance(ctx context.Context) error {
	return p.session.Scroll(ctx, p.scrollDelay, p.readingTime)
}
