// Package storage archives collected batches locally. The spreadsheet stays
// the durable store; archives exist so a collection run is not lost when an
// export never happens.
package storage

import "feedsheet/internal/types"

// Archive is the interface for batch archive backends.
type Archive interface {
	// StorePosts persists one collected batch.
	StorePosts(posts []*types.Post) error

	// StoreProfile persists one collected profile.
	StoreProfile(profile *types.Profile) error

	// Close flushes pending writes and releases resources.
	Close() error

	// Name returns the backend identifier.
	Name() string
}
