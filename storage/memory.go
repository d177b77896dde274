package storage

import "sync"

var _ Tier = (*MemoryTier)(nil)

// MemoryTier is an in-process tier. It backs the session tier, and tests use
// it for the persistent one.
type MemoryTier struct {
	mu     sync.RWMutex
	values map[string]string
}

func NewMemoryTier() *MemoryTier {
	return &MemoryTier{
		values: make(map[string]string),
	}
}

func (m *MemoryTier) Get(key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	v, ok := m.values[key]
	return v, ok, nil
}

func (m *MemoryTier) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.values[key] = value
	return nil
}

func (m *MemoryTier) Remove(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.values, key)
	return nil
}

func (m *MemoryTier) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.values = make(map[string]string)
	return nil
}

// Len is the number of stored keys.
func (m *MemoryTier) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.values)
}
