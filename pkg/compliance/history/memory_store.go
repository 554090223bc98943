package history

import (
	"context"
	"sync"
)

// MemoryStore is an in-memory Store, used in tests and as the §7 fallback
// when no persistent backend is available.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string][]Entry
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string][]Entry)}
}

// Append implements Store.
func (s *MemoryStore) Append(_ context.Context, entry Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[entry.RegulationID] = append(s.entries[entry.RegulationID], entry)
	return nil
}

// Timeline implements Store.
func (s *MemoryStore) Timeline(_ context.Context, regulationID string) ([]Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	src := s.entries[regulationID]
	out := make([]Entry, len(src))
	copy(out, src)
	return out, nil
}

// Head implements Store.
func (s *MemoryStore) Head(_ context.Context, regulationID string) (*Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entries := s.entries[regulationID]
	if len(entries) == 0 {
		return nil, nil
	}
	head := entries[len(entries)-1]
	return &head, nil
}
