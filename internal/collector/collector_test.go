package collector

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"

	"feedsheet/internal/types"
)

var testLogger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

// scriptedPager counts calls and can be forced to fail.
type scriptedPager struct {
	snapshots int
	advances  int
	snapErr   error
	advErr    error
}

func (p *scriptedPager) Snapshot() (*types.Snapshot, error) {
	if p.snapErr != nil {
		return nil, p.snapErr
	}
	p.snapshots++
	return types.NewSnapshot("<html></html>", "https://x.com/home"), nil
}

func (p *scriptedPager) Advance(context.Context) error {
	if p.advErr != nil {
		return p.advErr
	}
	p.advances++
	return nil
}

// scriptedExtractor yields one pre-built batch of ids per snapshot.
type scriptedExtractor struct {
	batches [][]string
	call    int
}

func (e *scriptedExtractor) Posts(*types.Snapshot) []*types.Post {
	if e.call >= len(e.batches) {
		return nil
	}
	ids := e.batches[e.call]
	e.call++
	posts := make([]*types.Post, len(ids))
	for i, id := range ids {
		posts[i] = &types.Post{ID: id, Text: "body " + id}
	}
	return posts
}

func ids(posts []*types.Post) []string {
	out := make([]string, len(posts))
	for i, p := range posts {
		out[i] = p.ID
	}
	return out
}

func TestCollectDeduplicatesInFirstSeenOrder(t *testing.T) {
	// Scroll overlap repeats c; it must appear once, at its first position.
	ext := &scriptedExtractor{batches: [][]string{
		{"a", "b", "c"},
		{"c", "d", "e"},
	}}
	pager := &scriptedPager{}

	posts, err := New(ext, testLogger).Collect(context.Background(), pager, 6)
	if err != nil {
		t.Fatalf("collect: %v", err)
	}

	want := []string{"a", "b", "c", "d", "e"}
	got := ids(posts)
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
	if pager.advances != 1 {
		t.Errorf("advances = %d, want 1", pager.advances)
	}
}

func TestCollectStopsAtTarget(t *testing.T) {
	ext := &scriptedExtractor{batches: [][]string{
		{"a", "b", "c"},
		{"d", "e", "f"},
	}}
	pager := &scriptedPager{}

	posts, err := New(ext, testLogger).Collect(context.Background(), pager, 2)
	if err != nil {
		t.Fatalf("collect: %v", err)
	}
	if len(posts) != 2 {
		t.Fatalf("got %d posts, want 2", len(posts))
	}
	if pager.snapshots != 1 || pager.advances != 0 {
		t.Errorf("snapshots/advances = %d/%d, want 1/0", pager.snapshots, pager.advances)
	}
}

func TestCollectBudgetBoundsIterations(t *testing.T) {
	// One new post per scroll cannot reach a target of 7; the loop must stop
	// after ceil(7/3) = 3 snapshots with 2 advances between them.
	ext := &scriptedExtractor{batches: [][]string{
		{"a"}, {"b"}, {"c"}, {"d"}, {"e"},
	}}
	pager := &scriptedPager{}

	posts, err := New(ext, testLogger).Collect(context.Background(), pager, 7)
	if err != nil {
		t.Fatalf("collect: %v", err)
	}
	if len(posts) != 3 {
		t.Errorf("got %d posts, want 3", len(posts))
	}
	if pager.snapshots != 3 {
		t.Errorf("snapshots = %d, want 3", pager.snapshots)
	}
	if pager.advances != 2 {
		t.Errorf("advances = %d, want 2", pager.advances)
	}
}

func TestCollectZeroTarget(t *testing.T) {
	pager := &scriptedPager{}
	posts, err := New(&scriptedExtractor{}, testLogger).Collect(context.Background(), pager, 0)
	if err != nil {
		t.Fatalf("collect: %v", err)
	}
	if posts != nil {
		t.Errorf("got %v, want nil", posts)
	}
	if pager.snapshots != 0 {
		t.Errorf("snapshots = %d, want 0", pager.snapshots)
	}
}

func TestCollectPropagatesPagerErrors(t *testing.T) {
	snapErr := errors.New("page gone")
	if _, err := New(&scriptedExtractor{}, testLogger).Collect(
		context.Background(), &scriptedPager{snapErr: snapErr}, 5); !errors.Is(err, snapErr) {
		t.Errorf("snapshot error not propagated, got %v", err)
	}

	advErr := errors.New("scroll failed")
	ext := &scriptedExtractor{batches: [][]string{{"a"}, {"b"}}}
	if _, err := New(ext, testLogger).Collect(
		context.Background(), &scriptedPager{advErr: advErr}, 5); !errors.Is(err, advErr) {
		t.Errorf("advance error not propagated, got %v", err)
	}
}
