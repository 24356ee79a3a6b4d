package auth

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"sync"
	"time"
)

// SessionStore maps opaque session tokens to user ids. Sessions are
// ephemeral: they live between login and logout and are never
// persisted.
type SessionStore interface {
	// Create issues a new token bound to the user id.
	Create(userID string) (token string, err error)

	// Get resolves a token to its user id.
	Get(token string) (userID string, ok bool)

	// Delete invalidates a token. Deleting an unknown token is a no-op.
	Delete(token string)
}

type sessionEntry struct {
	userID    string
	expiresAt time.Time
}

// MemorySessionStore is the in-process SessionStore. Expired entries
// are swept by a background goroutine.
type MemorySessionStore struct {
	mu           sync.Mutex
	sessions     map[string]sessionEntry
	ttl          time.Duration
	stopCleanup  chan struct{}
	shutdownOnce sync.Once
}

func NewMemorySessionStore(ttl time.Duration) *MemorySessionStore {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	s := &MemorySessionStore{
		sessions:    make(map[string]sessionEntry),
		ttl:         ttl,
		stopCleanup: make(chan struct{}),
	}
	go s.startCleanup()
	return s
}

// Create implements SessionStore.
func (s *MemorySessionStore) Create(userID string) (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate session token: %w", err)
	}
	token := hex.EncodeToString(buf)

	s.mu.Lock()
	s.sessions[token] = sessionEntry{
		userID:    userID,
		expiresAt: time.Now().Add(s.ttl),
	}
	s.mu.Unlock()

	return token, nil
}

// Get implements SessionStore.
func (s *MemorySessionStore) Get(token string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.sessions[token]
	if !ok {
		return "", false
	}
	if time.Now().After(entry.expiresAt) {
		delete(s.sessions, token)
		return "", false
	}
	return entry.userID, true
}

// Delete implements SessionStore.
func (s *MemorySessionStore) Delete(token string) {
	s.mu.Lock()
	delete(s.sessions, token)
	s.mu.Unlock()
}

func (s *MemorySessionStore) startCleanup() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.cleanupExpired()
		case <-s.stopCleanup:
			return
		}
	}
}

func (s *MemorySessionStore) cleanupExpired() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	for token, entry := range s.sessions {
		if now.After(entry.expiresAt) {
			delete(s.sessions, token)
		}
	}
}

// Stop gracefully stops the cleanup goroutine.
func (s *MemorySessionStore) Stop() {
	s.shutdownOnce.Do(func() {
		close(s.stopCleanup)
	})
}
