// Package testutil provides testing utilities.
package testutil

import (
	"sync"

	"todo/internal/service"
)

// MemStore is an in-memory implementation of service.Store for testing.
type MemStore struct {
	mu    sync.Mutex
	tasks []service.Task
	saves int

	// SaveErr, when set, is returned by Save and the list is left unchanged.
	SaveErr error
}

// NewMemStore creates a MemStore holding tasks.
func NewMemStore(tasks ...service.Task) *MemStore {
	return &MemStore{tasks: append([]service.Task{}, tasks...)}
}

// Load implements service.Store.
func (m *MemStore) Load() []service.Task {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]service.Task{}, m.tasks...)
}

// Save implements service.Store.
func (m *MemStore) Save(tasks []service.Task) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SaveErr != nil {
		return m.SaveErr
	}
	m.tasks = append([]service.Task{}, tasks...)
	m.saves++
	return nil
}

// Path implements service.Store.
func (m *MemStore) Path() string { return "memory://tasks.json" }

// Saves returns the number of successful saves.
func (m *MemStore) Saves() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saves
}
