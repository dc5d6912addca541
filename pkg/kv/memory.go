package kv

import "sync"

// DefaultQuotaBytes mirrors the typical browser localStorage allowance.
const DefaultQuotaBytes = 5 << 20

// MemoryStore keeps entries in-process. It backs tests and the anonymous
// ephemeral default, and enforces the same quota as the durable backends.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]string
	quota   int
	used    int
}

// NewMemoryStore initializes an empty in-memory store with the default quota.
func NewMemoryStore() *MemoryStore {
	return NewMemoryStoreWithQuota(DefaultQuotaBytes)
}

// NewMemoryStoreWithQuota initializes a store with an explicit byte quota.
// Quota <= 0 means unlimited.
func NewMemoryStoreWithQuota(quota int) *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]string),
		quota:   quota,
	}
}

func (m *MemoryStore) Get(key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.entries[key]
	return v, ok, nil
}

func (m *MemoryStore) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	next := m.used + len(key) + len(value)
	if prev, ok := m.entries[key]; ok {
		next -= len(key) + len(prev)
	}
	if m.quota > 0 && next > m.quota {
		return ErrQuotaExceeded
	}
	m.entries[key] = value
	m.used = next
	return nil
}

func (m *MemoryStore) Remove(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if prev, ok := m.entries[key]; ok {
		m.used -= len(key) + len(prev)
		delete(m.entries, key)
	}
	return nil
}
