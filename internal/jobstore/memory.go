package jobstore

import (
	"context"
	"sync"

	"stylemate/internal/domain"
)

// MemoryStore is an in-process store intended for development and test
// environments where neither Redis nor PostgreSQL is available.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]domain.JobRecord
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string]domain.JobRecord)}
}

// Get implements Store.
func (s *MemoryStore) Get(ctx context.Context, id string) (*domain.JobRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.records[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := rec
	cp.OutputImageRefs = append([]string(nil), rec.OutputImageRefs...)
	return &cp, nil
}

// Put implements Store.
func (s *MemoryStore) Put(ctx context.Context, rec *domain.JobRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *rec
	cp.OutputImageRefs = append([]string(nil), rec.OutputImageRefs...)
	s.records[rec.ID] = cp
	return nil
}

var _ Store = (*MemoryStore)(nil)
