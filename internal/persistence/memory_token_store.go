package persistence

import (
	"context"
	"sync"

	"github.com/telecom-ops/admin-console/internal/domain"
)

// MemoryTokenStore holds the token for the lifetime of the process only.
type MemoryTokenStore struct {
	mu    sync.RWMutex
	token string
	set   bool
}

// NewMemoryTokenStore returns an empty store.
func NewMemoryTokenStore() *MemoryTokenStore {
	return &MemoryTokenStore{}
}

// Load returns the held token or domain.ErrNoToken.
func (s *MemoryTokenStore) Load(context.Context) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.set {
		return "", domain.ErrNoToken
	}
	return s.token, nil
}

// Save replaces the held token.
func (s *MemoryTokenStore) Save(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token, s.set = token, true
	return nil
}

// Delete forgets the token. It is a no-op when none is held.
func (s *MemoryTokenStore) Delete(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token, s.set = "", false
	return nil
}

// Ping always succeeds.
func (s *MemoryTokenStore) Ping(context.Context) error {
	return nil
}
