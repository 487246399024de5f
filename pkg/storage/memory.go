package storage

import (
	"context"
	"sort"
	"sync"

	"github.com/Sander124/pvs-tracker/internal/supply"
)

// MemoryStore is an in-memory Store used in tests and local development.
type MemoryStore struct {
	mu           sync.Mutex
	observations []supply.Observation

	// FailReads / FailWrites force the next calls to return this error.
	FailReads  error
	FailWrites error
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		observations: make([]supply.Observation, 0),
	}
}

func (m *MemoryStore) Append(_ context.Context, obs supply.Observation) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.FailWrites != nil {
		return m.FailWrites
	}
	m.observations = append(m.observations, obs)
	return nil
}

func (m *MemoryStore) FetchAll(_ context.Context) ([]supply.Observation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.FailReads != nil {
		return nil, m.FailReads
	}

	// Copy to avoid race
	cp := make([]supply.Observation, len(m.observations))
	copy(cp, m.observations)

	sort.SliceStable(cp, func(i, j int) bool {
		return cp[i].ObservedAt.Before(cp[j].ObservedAt)
	})
	return cp, nil
}
