// Package memory provides an in-process storage.KV.
package memory

import (
	"context"
	"slices"
	"sync"

	"github.com/xenking/shopaholics/internal/storage"
)

var _ storage.KV = (*KV)(nil)

// KV is a map-backed storage.KV. Values are copied on the way in and out.
type KV struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// New returns an empty KV.
func New() *KV {
	return &KV{data: make(map[string][]byte)}
}

// Get returns the value stored under name.
func (m *KV) Get(_ context.Context, name string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[name]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return slices.Clone(v), nil
}

// Put stores value under name.
func (m *KV) Put(_ context.Context, name string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[name] = slices.Clone(value)
	return nil
}

// Ping always succeeds.
func (m *KV) Ping(context.Context) error {
	return nil
}
