// Package storage provides the key-value scopes evychat persists into:
// a session-scoped file store and a durable SQLite store.
package storage

import (
	"errors"
	"sort"
	"sync"
)

// Well-known keys
const (
	KeyChatHistory = "chatHistory"
	KeyTheme       = "theme"
)

// ErrClosed is returned by operations on a closed store
var ErrClosed = errors.New("storage: store is closed")

// KV is a flat string key-value store. Get reports ok=false for a
// missing key without an error.
type KV interface {
	Get(key string) (value string, ok bool, err error)
	Set(key, value string) error
	Delete(key string) error
	Keys() ([]string, error)
	Close() error
}

// MemoryKV is an in-process KV used for tests and ephemeral runs
type MemoryKV struct {
	mu     sync.RWMutex
	data   map[string]string
	closed bool

	// SetErr, when non-nil, is returned by every Set call
	SetErr error
}

// NewMemoryKV creates an empty MemoryKV
func NewMemoryKV() *MemoryKV {
	return &MemoryKV{data: make(map[string]string)}
}

func (m *MemoryKV) Get(key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return "", false, ErrClosed
	}
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *MemoryKV) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrClosed
	}
	if m.SetErr != nil {
		return m.SetErr
	}
	m.data[key] = value
	return nil
}

func (m *MemoryKV) Delete(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrClosed
	}
	delete(m.data, key)
	return nil
}

func (m *MemoryKV) Keys() ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return nil, ErrClosed
	}
	keys := make([]string, 0, len(m.data))
	for k := range m.data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}

func (m *MemoryKV) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}
