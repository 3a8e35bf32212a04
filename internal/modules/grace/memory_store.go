package grace

import (
	"context"
	"sync"
)

// MemoryStore keeps state in process. Used when no backend is configured.
type MemoryStore struct {
	mu     sync.Mutex
	states map[string]State
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{states: make(map[string]State)}
}

func (m *MemoryStore) Load(_ context.Context, holder string) (State, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.states[holder], nil
}

func (m *MemoryStore) Update(_ context.Context, holder string, fn func(State) (State, error)) (State, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	next, err := fn(m.states[holder])
	if err != nil {
		return next, err
	}
	m.states[holder] = next
	return next, nil
}
