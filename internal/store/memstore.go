package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
)

// MemoryStore is an in-memory DocumentStore used by tests and the
// memory backend. Documents are kept as marshalled bytes so Load and
// Save go through the same encoding path as the durable backends.
type MemoryStore struct {
	mu   sync.RWMutex
	docs map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{docs: make(map[string][]byte)}
}

// Load implements DocumentStore.
func (s *MemoryStore) Load(ctx context.Context, key string, v any) error {
	s.mu.RLock()
	data, ok := s.docs[key]
	s.mu.RUnlock()
	if !ok {
		return nil
	}
	decodeDocument(ctx, key, data, v)
	return nil
}

// Save implements DocumentStore.
func (s *MemoryStore) Save(_ context.Context, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal document %s: %w", key, err)
	}
	s.mu.Lock()
	s.docs[key] = data
	s.mu.Unlock()
	return nil
}

// Corrupt overwrites a document with raw bytes, bypassing encoding.
// Tests use it to exercise the corrupt-content contract.
func (s *MemoryStore) Corrupt(key string, data []byte) {
	s.mu.Lock()
	s.docs[key] = data
	s.mu.Unlock()
}
