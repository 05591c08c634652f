package storage

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"feedsheet/internal/types"
)

// MongoArchive writes batches to MongoDB collections, posts and profiles
// separately.
type MongoArchive struct {
	client   *mongo.Client
	posts    *mongo.Collection
	profiles *mongo.Collection
	mu       sync.Mutex
	count    int
	logger   *slog.Logger
}

// NewMongoArchive connects to MongoDB and verifies it with a ping.
func NewMongoArchive(uri, database string, logger *slog.Logger) (*MongoArchive, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongodb connect: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("mongodb ping: %w", err)
	}

	db := client.Database(database)
	return &MongoArchive{
		client:   client,
		posts:    db.Collection("posts"),
		profiles: db.Collection("profiles"),
		logger:   logger.With("component", "mongo_archive"),
	}, nil
}

func (a *MongoArchive) Name() string { return "mongodb" }

func (a *MongoArchive) StorePosts(posts []*types.Post) error {
	if len(posts) == 0 {
		return nil
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	docs := make([]any, len(posts))
	for i, p := range posts {
		docs[i] = p
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if _, err := a.posts.InsertMany(ctx, docs); err != nil {
		return fmt.Errorf("mongodb insert posts: %w", err)
	}
	a.count += len(posts)
	a.logger.Debug("posts archived in mongodb", "count", len(posts), "total", a.count)
	return nil
}

func (a *MongoArchive) StoreProfile(profile *types.Profile) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if _, err := a.profiles.InsertOne(ctx, profile); err != nil {
		return fmt.Errorf("mongodb insert profile: %w", err)
	}
	return nil
}

func (a *MongoArchive) Close() error {
	a.logger.Info("mongodb archive closing", "total_posts", a.count)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return a.client.Disconnect(ctx)
}

// MultiArchive fans out to multiple backends.
type MultiArchive struct {
	backends []Archive
	logger   *slog.Logger
}

// NewMultiArchive creates an archive that writes to every backend.
func NewMultiArchive(backends []Archive, logger *slog.Logger) *MultiArchive {
	return &MultiArchive{
		backends: backends,
		logger:   logger.With("component", "multi_archive"),
	}
}

func (a *MultiArchive) Name() string { return "multi" }

func (a *MultiArchive) StorePosts(posts []*types.Post) error {
	var firstErr error
	for _, backend := range a.backends {
		if err := backend.StorePosts(posts); err != nil {
			a.logger.Error("archive backend failed", "backend", backend.Name(), "error", err)
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}

func (a *MultiArchive) StoreProfile(profile *types.Profile) error {
	var firstErr error
	for _, backend := range a.backends {
		if err := backend.StoreProfile(profile); err != nil {
			a.logger.Error("archive backend failed", "backend", backend.Name(), "error", err)
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}

func (a *MultiArchive) Close() error {
	var firstErr error
	for _, backend := range a.backends {
		if err := backend.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
