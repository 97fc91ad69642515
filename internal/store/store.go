// Package store persists locally created records.
//
// The low-level mechanism is a KV: named JSON documents. Overrides layers
// typed access to custom users, custom todos and the last route on top of it.
package store

import (
	"errors"
	"sync"
)

// Keys under which collections are stored.
const (
	KeyUsers = "customUsers"
	KeyTodos = "customTodos"
	KeyRoute = "route"
)

// ErrNotFound is returned by Get when key holds nothing.
var ErrNotFound = errors.New("store: key not found")

// KV is a key-value store of raw JSON documents.
type KV interface {
	Get(key string) ([]byte, error)
	Set(key string, value []byte) error
}

// Memory is an in-process KV.
type Memory struct {
	mu   sync.RWMutex
	data map[string][]byte
}

func NewMemory() *Memory { return &Memory{data: make(map[string][]byte)} }

func (m *Memory) Get(key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]byte(nil), v...), nil
}

func (m *Memory) Set(key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = append([]byte(nil), value...)
	return nil
}
