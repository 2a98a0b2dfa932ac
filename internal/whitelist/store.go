// Package whitelist stores identities that bypass admission checks entirely.
// The in-memory store serves a single process; the Redis store lets several
// game servers share one bypass list.
package whitelist

import (
	"context"
	"sync"
)

// Store is the bypass membership surface consulted before every evaluation.
type Store interface {
	Contains(ctx context.Context, steamID string) (bool, error)
	Add(ctx context.Context, steamID string) error
	Remove(ctx context.Context, steamID string) error
}

// InMemory is a process-local Store.
type InMemory struct {
	mu      sync.RWMutex
	members map[string]struct{}
}

// NewInMemory creates an empty in-memory store.
func NewInMemory() *InMemory {
	return &InMemory{
		members: make(map[string]struct{}),
	}
}

func (s *InMemory) Contains(_ context.Context, steamID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.members[steamID]
	return ok, nil
}

func (s *InMemory) Add(_ context.Context, steamID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.members[steamID] = struct{}{}
	return nil
}

func (s *InMemory) Remove(_ context.Context, steamID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.members, steamID)
	return nil
}
