package store

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// DefaultMemoryCapacity bounds how many runs a MemoryStore keeps.
const DefaultMemoryCapacity = 500

// MemoryStore keeps the most recent runs in process memory. The oldest run is
// evicted once capacity is reached.
type MemoryStore struct {
	mu       sync.RWMutex
	runs     map[uuid.UUID]*Run
	order    []uuid.UUID
	capacity int
}

func NewMemoryStore(capacity int) *MemoryStore {
	if capacity <= 0 {
		capacity = DefaultMemoryCapacity
	}
	return &MemoryStore{
		runs:     make(map[uuid.UUID]*Run),
		capacity: capacity,
	}
}

func (s *MemoryStore) SaveRun(_ context.Context, run *Run) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.runs[run.ID]; !exists {
		s.order = append(s.order, run.ID)
	}
	cp := *run
	s.runs[run.ID] = &cp

	for len(s.order) > s.capacity {
		delete(s.runs, s.order[0])
		s.order = s.order[1:]
	}
	return nil
}

func (s *MemoryStore) GetRun(_ context.Context, id uuid.UUID) (*Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.runs[id]
	if !ok {
		return nil, nil
	}
	cp := *r
	return &cp, nil
}

func (s *MemoryStore) ListRuns(_ context.Context, filter RunFilter) ([]*Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	limit := filter.limit()
	var out []*Run
	for i := len(s.order) - 1; i >= 0 && len(out) < limit; i-- {
		r := s.runs[s.order[i]]
		if filter.Source != "" && r.Source != filter.Source {
			continue
		}
		cp := *r
		out = append(out, &cp)
	}
	return out, nil
}

func (s *MemoryStore) Close() error { return nil }
