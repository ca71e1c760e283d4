package store

import (
	"context"
	"sync"
)

type memoryStore struct {
	mu   sync.Mutex
	snap Snapshot
}

// NewMemory creates an in-memory snapshot store useful for unit tests.
func NewMemory() Store {
	return &memoryStore{}
}

func (m *memoryStore) Load(_ context.Context) (Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snap.Clone(), nil
}

func (m *memoryStore) Save(_ context.Context, snap Snapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snap = snap.Clone()
	return nil
}
