package views

import (
	"context"
	"sync"
)

// MemoryStore is an in-process Store. It backs unit tests and redis-less
// development setups; counts do not survive a restart.
type MemoryStore struct {
	mu     sync.Mutex
	sets   map[string]map[string]struct{}
	counts map[string]uint64
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sets:   make(map[string]map[string]struct{}),
		counts: make(map[string]uint64),
	}
}

// AddUnique implements Store.
func (s *MemoryStore) AddUnique(_ context.Context, key, member string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	set, ok := s.sets[key]
	if !ok {
		set = make(map[string]struct{})
		s.sets[key] = set
	}
	if _, exists := set[member]; exists {
		return false, nil
	}
	set[member] = struct{}{}
	return true, nil
}

// Increment implements Store.
func (s *MemoryStore) Increment(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.counts[key]++
	return nil
}

// GetCount implements Store.
func (s *MemoryStore) GetCount(_ context.Context, key string) (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.counts[key], nil
}

// GetCounts implements Store.
func (s *MemoryStore) GetCounts(_ context.Context, keys []string) ([]uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	counts := make([]uint64, len(keys))
	for i, key := range keys {
		counts[i] = s.counts[key]
	}
	return counts, nil
}

// Ping implements Store.
func (s *MemoryStore) Ping(context.Context) error { return nil }

// Close implements Store.
func (s *MemoryStore) Close() error { return nil }
