// internal/kv/memory.go
//
// In-memory implementation of the kv.Store interface.
// This is a lightweight persistence layer used in development/testing, or
// for single-process deployments where durability is not required.
//
// Characteristics:
//   - Values keyed by string in a map, each with an absolute deadline.
//   - Concurrency-safe via RWMutex (concurrent reads allowed, writes exclusive).
//   - Expired entries are dropped lazily on access.
//   - State is lost when the process restarts.

package kv

import (
	"context"
	"sync"
	"time"
)

// entry is a stored value plus its expiry deadline (zero = no expiry).
type entry struct {
	value    []byte
	deadline time.Time
}

// memory is an in-memory map-based Store implementation.
type memory struct {
	mu      sync.RWMutex
	entries map[string]entry
	now     func() time.Time // injectable clock for expiry tests
}

// NewMemoryStore constructs a new in-memory Store.
func NewMemoryStore() Store {
	return &memory{entries: make(map[string]entry), now: time.Now}
}

// NewMemoryStoreWithClock constructs an in-memory Store with a custom clock.
// Test helper for TTL behavior.
func NewMemoryStoreWithClock(now func() time.Time) Store {
	return &memory{entries: make(map[string]entry), now: now}
}

func (m *memory) expired(e entry) bool {
	return !e.deadline.IsZero() && !m.now().Before(e.deadline)
}

// Get looks up a key, lazily evicting it when expired.
func (m *memory) Get(ctx context.Context, key string) ([]byte, bool, error) {
	m.mu.RLock()
	e, ok := m.entries[key]
	m.mu.RUnlock()
	if !ok {
		return nil, false, nil
	}
	if m.expired(e) {
		m.mu.Lock()
		delete(m.entries, key)
		m.mu.Unlock()
		return nil, false, nil
	}
	return e.value, true, nil
}

// Set adds or replaces the value for key.
func (m *memory) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = entry{value: value, deadline: m.deadline(ttl)}
	return nil
}

// SetNX writes only when the key is absent or expired.
func (m *memory) SetNX(ctx context.Context, key string, value []byte, ttl time.Duration) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if e, ok := m.entries[key]; ok && !m.expired(e) {
		return false, nil
	}
	m.entries[key] = entry{value: value, deadline: m.deadline(ttl)}
	return true, nil
}

// Exists reports key presence without touching expiry state.
func (m *memory) Exists(ctx context.Context, key string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.entries[key]
	return ok && !m.expired(e), nil
}

func (m *memory) deadline(ttl time.Duration) time.Time {
	if ttl <= 0 {
		return time.Time{}
	}
	return m.now().Add(ttl)
}
