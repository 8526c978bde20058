package repository

import (
	"context"
	"sync"
)

// MemStore keeps the latest run in memory. It is safe for
// concurrent use.
type MemStore struct {
	mu     sync.RWMutex
	latest RunResult
	loaded bool
}

// NewMemStore creates an empty in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{}
}

// Save replaces the stored run with the given result.
func (s *MemStore) Save(ctx context.Context, result RunResult) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.latest = result
	s.loaded = true
	return nil
}

// Latest returns the most recently saved run.
func (s *MemStore) Latest(ctx context.Context) (RunResult, error) {
	if err := ctx.Err(); err != nil {
		return RunResult{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.loaded {
		return RunResult{}, ErrNoResults
	}
	return s.latest, nil
}
