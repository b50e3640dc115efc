package repository

import (
	"context"
	"errors"
	"sync"
)

// ErrKeyNotFound is returned by KVStore.Get when nothing is stored under the key
var ErrKeyNotFound = errors.New("key not found")

// KVStore is the durable client-local store the list set is written to.
// Writes replace the whole value.
type KVStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Close() error
}

// MemoryStore keeps values in process memory. It is the store used when no
// durable driver is configured, and in tests.
type MemoryStore struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string]string)}
}

func (m *MemoryStore) Get(_ context.Context, key string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	v, ok := m.values[key]
	if !ok {
		return "", ErrKeyNotFound
	}
	return v, nil
}

func (m *MemoryStore) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.values[key] = value
	return nil
}

func (m *MemoryStore) Close() error { return nil }
