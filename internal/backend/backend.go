// Package backend selects and assembles the document store configured
// for the process.
package backend

import (
	"fmt"
	"log/slog"

	"kharcha/internal/config"
	"kharcha/internal/store"
)

// Type identifies a document store implementation.
type Type string

const (
	FileBackend   Type = "file"
	SQLiteBackend Type = "sqlite"
	MemoryBackend Type = "memory"
)

// IsValid returns true if the backend type is known.
func (t Type) IsValid() bool {
	switch t {
	case FileBackend, SQLiteBackend, MemoryBackend:
		return true
	default:
		return false
	}
}

// String implements fmt.Stringer
func (t Type) String() string {
	return string(t)
}

// CleanupFunc releases backend resources.
type CleanupFunc func() error

// Result contains the assembled store and optional cleanup function.
type Result struct {
	Store   store.DocumentStore
	Cleanup CleanupFunc
}

// Open builds the document store named by the configuration.
func Open(cfg *config.Config, logger *slog.Logger) (*Result, error) {
	if logger == nil {
		logger = slog.Default()
	}

	backendType := Type(cfg.DataBackend)
	if !backendType.IsValid() {
		return nil, fmt.Errorf("invalid backend type: %s", cfg.DataBackend)
	}

	switch backendType {
	case SQLiteBackend:
		s, err := store.NewSQLiteStore(cfg.SQLiteDBPath)
		if err != nil {
			return nil, fmt.Errorf("initialize sqlite store: %w", err)
		}
		logger.Info("Initialized sqlite backend", "db_path", cfg.SQLiteDBPath)
		return &Result{Store: s, Cleanup: s.Close}, nil

	case MemoryBackend:
		logger.Info("Initialized memory backend")
		return &Result{Store: store.NewMemoryStore()}, nil

	default:
		s, err := store.NewFileStore(cfg.DataDir)
		if err != nil {
			return nil, fmt.Errorf("initialize file store: %w", err)
		}
		logger.Info("Initialized file backend", "data_dir", cfg.DataDir)
		return &Result{Store: s}, nil
	}
}
