package reviewlog

import (
	"context"
	"sync"
)

// MemoryStore keeps the transition trail in memory for tests.
type MemoryStore struct {
	mu      sync.RWMutex
	nextID  int64
	entries []Entry
}

// NewMemory constructs an empty in-memory transition store.
func NewMemory() *MemoryStore {
	return &MemoryStore{nextID: 1}
}

func (s *MemoryStore) Append(_ context.Context, entry Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry.ID = s.nextID
	s.nextID++
	s.entries = append(s.entries, entry)
	return nil
}

func (s *MemoryStore) ListByStakeholder(_ context.Context, stakeholderID int64) ([]Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Entry, 0)
	for _, e := range s.entries {
		if e.StakeholderID == stakeholderID {
			out = append(out, e)
		}
	}
	return out, nil
}
