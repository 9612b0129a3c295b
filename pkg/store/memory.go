package store

import "sync"

// MemoryStore is the volatile session cache used when the SQLite store is
// unavailable, and by tests.
type MemoryStore struct {
	mu       sync.RWMutex
	values   map[string][]byte
	fallback bool
}

var _ KV = (*MemoryStore)(nil)

// NewMemory creates an empty in-memory store. fallback marks it as the
// degraded substitute for an unavailable primary store.
func NewMemory(fallback bool) *MemoryStore {
	return &MemoryStore{
		values:   make(map[string][]byte),
		fallback: fallback,
	}
}

func (m *MemoryStore) Get(key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	value, ok := m.values[key]
	if !ok {
		return nil, ErrNotFound
	}
	out := make([]byte, len(value))
	copy(out, value)
	return out, nil
}

func (m *MemoryStore) Set(key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored := make([]byte, len(value))
	copy(stored, value)
	m.values[key] = stored
	return nil
}

func (m *MemoryStore) Remove(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
	return nil
}

func (m *MemoryStore) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values = make(map[string][]byte)
	return nil
}

func (m *MemoryStore) Fallback() bool { return m.fallback }

func (m *MemoryStore) Close() error { return nil }
