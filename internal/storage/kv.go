package storage

import (
	"errors"
	"sort"
	"sync"
)

// ErrCorrupt marks a backing file that could not be decoded. The store
// returned alongside it is empty but usable.
var ErrCorrupt = errors.New("corrupt storage")

// KV is the string key-value port the tracker persists through.
type KV interface {
	// Get returns the value for key and whether it was present.
	Get(key string) (string, bool, error)
	Set(key, value string) error
}

// Backend is a KV that holds resources which must be released.
type Backend interface {
	KV
	Close() error
}

// Memory is an in-process KV, used by tests and dry runs.
type Memory struct {
	mu   sync.Mutex
	data map[string]string
	// FailWrites makes every Set fail, for exercising write-failure paths.
	FailWrites bool
	// FailReads makes every Get fail.
	FailReads bool
}

// NewMemory returns an empty Memory store.
func NewMemory() *Memory {
	return &Memory{data: map[string]string{}}
}

// Get implements KV.
func (m *Memory) Get(key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailReads {
		return "", false, errors.New("memory store: reads disabled")
	}
	v, ok := m.data[key]
	return v, ok, nil
}

// Set implements KV.
func (m *Memory) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWrites {
		return errors.New("memory store: writes disabled")
	}
	m.data[key] = value
	return nil
}

// Keys returns the stored keys in sorted order.
func (m *Memory) Keys() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	keys := make([]string, 0, len(m.data))
	for k := range m.data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Close implements Backend.
func (m *Memory) Close() error { return nil }
