// Package collector drives repeated extraction across scroll steps, bounded
// by a target count and an iteration budget.
package collector

import (
	"context"
	"log/slog"

	"feedsheet/internal/types"
)

// assumedPostsPerScroll sizes the iteration budget. It is a heuristic upper
// bound on yield, not a guarantee.
const assumedPostsPerScroll = 3

// Pager is the capability the loop needs from a live page: capture the
// rendered DOM, and advance the underlying page state before the next
// capture. The advance action is opaque; human-like pacing lives behind it.
type Pager interface {
	Snapshot() (*types.Snapshot, error)
	Advance(ctx context.Context) error
}

// Extractor converts one snapshot into posts.
type Extractor interface {
	Posts(snap *types.Snapshot) []*types.Post
}

// Collector accumulates deduplicated posts across scroll iterations.
type Collector struct {
	extractor Extractor
	logger    *slog.Logger
}

// New creates a Collector.
func New(extractor Extractor, logger *slog.Logger) *Collector {
	return &Collector{
		extractor: extractor,
		logger:    logger.With("component", "collector"),
	}
}

// Collect extracts posts from page until target distinct posts are found or
// the scroll budget runs out. Posts accumulate in first-seen order; later
// duplicates by synthetic id are dropped.
func (c *Collector) Collect(ctx context.Context, page Pager, target int) ([]*types.Post, error) {
	if target <= 0 {
		return nil, nil
	}

	budget := (target + assumedPostsPerScroll - 1) / assumedPostsPerScroll
	seen := make(map[string]struct{}, target)
	var posts []*types.Post

	for iter := 0; iter < budget; iter++ {
		snap, err := page.Snapshot()
		if err != nil {
			return nil, err
		}

		for _, post := range c.extractor.Posts(snap) {
			if _, dup := seen[post.ID]; dup {
				continue
			}
			seen[post.ID] = struct{}{}
			posts = append(posts, post)
			if len(posts) >= target {
				break
			}
		}

		c.logger.Debug("scroll iteration done",
			"iteration", iter+1,
			"budget", budget,
			"collected", len(posts),
		)

		if len(posts) >= target {
			break
		}
		if iter+1 < budget {
			if err := page.Advance(ctx); err != nil {
				return nil, err
			}
		}
	}

	if len(posts) > target {
		posts = posts[:target]
	}
	c.logger.Info("collection finished", "posts", len(posts), "target", target)
	return posts, nil
}
