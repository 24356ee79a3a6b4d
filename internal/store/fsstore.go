package store

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// FileStore keeps each document as one <key>.json file under a base
// directory, matching the layout users.json, <uid>/expenses.json and so
// on. It does no locking; see the package contract.
type FileStore struct {
	dir string
}

func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

func (s *FileStore) path(key string) string {
	return filepath.Join(s.dir, filepath.FromSlash(key)+".json")
}

// Load implements DocumentStore.
func (s *FileStore) Load(ctx context.Context, key string, v any) error {
	data, err := os.ReadFile(s.path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		slog.WarnContext(ctx, "Document read failed, treating as empty",
			"key", key, "error", err)
		return nil
	}
	decodeDocument(ctx, key, data, v)
	return nil
}

// Save implements DocumentStore. Documents are written indented with
// two spaces so they stay hand-inspectable.
func (s *FileStore) Save(ctx context.Context, key string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal document %s: %w", key, err)
	}

	path := s.path(key)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create partition for %s: %w", key, err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write document %s: %w", key, err)
	}

	slog.DebugContext(ctx, "Document saved", "key", key, "bytes", len(data))
	return nil
}
