// Package session keeps the backend session token between invocations.
// The token is stored under a fixed key in one of several backends: a YAML
// file in the user cache directory, Redis, or process memory.
package session

import (
	"context"
	"sync"

	"github.com/agentstation/catalogadmin/pkg/errors"
)

// ErrNoSession is returned by a Store when nothing is stored under a key.
var ErrNoSession = errors.New("no stored session")

// Store persists session values.
type Store interface {
	// Get returns the value under key or ErrNoSession.
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	// Name identifies the backend in logs and status output.
	Name() string
}

// MemoryStore keeps values for the life of the process.
type MemoryStore struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string]string)}
}

// Get implements Store.
func (m *MemoryStore) Get(_ context.Context, key string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.values[key]
	if !ok {
		return "", ErrNoSession
	}
	return v, nil
}

// Set implements Store.
func (m *MemoryStore) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}

// Delete implements Store.
func (m *MemoryStore) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
	return nil
}

// Name implements Store.
func (m *MemoryStore) Name() string { return "memory" }
