package storage

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"feedsheet/internal/types"
)

// JSONLArchive writes records as newline-delimited JSON (streaming writes).
type JSONLArchive struct {
	path   string
	file   *os.File
	enc    *json.Encoder
	mu     sync.Mutex
	count  int
	logger *slog.Logger
}

// NewJSONLArchive creates a JSONL archive at the given path.
func NewJSONLArchive(outputPath string, logger *slog.Logger) (*JSONLArchive, error) {
	dir := filepath.Dir(outputPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create archive dir: %w", err)
	}

	f, err := os.OpenFile(outputPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open archive file: %w", err)
	}

	return &JSONLArchive{
		path:   outputPath,
		file:   f,
		enc:    json.NewEncoder(f),
		logger: logger.With("component", "jsonl_archive"),
	}, nil
}

func (a *JSONLArchive) Name() string { return "jsonl" }

func (a *JSONLArchive) StorePosts(posts []*types.Post) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	for _, p := range posts {
		if err := a.enc.Encode(p); err != nil {
			return fmt.Errorf("encode post: %w", err)
		}
		a.count++
	}
	a.logger.Debug("posts archived", "count", len(posts), "total", a.count)
	return nil
}

func (a *JSONLArchive) StoreProfile(profile *types.Profile) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if err := a.enc.Encode(profile); err != nil {
		return fmt.Errorf("encode profile: %w", err)
	}
	return nil
}

func (a *JSONLArchive) Close() error {
	a.logger.Info("archive closed", "path", a.path, "records", a.count)
	if a.file != nil {
		return a.file.Close()
	}
	return nil
}
