// Package cache provides the time-bounded read-through cache consulted
// before re-downloading an upstream resource. It is advisory: a miss or a
// backend failure only means the producer runs again.
package cache

import (
	"context"
	"sync"
	"time"
)

// Producer computes a value on a cache miss.
type Producer func(ctx context.Context) ([]byte, error)

// Cache is a get-or-compute store with per-call TTL.
type Cache interface {
	GetOrCompute(ctx context.Context, key string, ttl time.Duration, produce Producer) ([]byte, error)
}

// Nop never stores anything.
type Nop struct{}

// GetOrCompute always calls produce.
func (Nop) GetOrCompute(ctx context.Context, _ string, _ time.Duration, produce Producer) ([]byte, error) {
	return produce(ctx)
}

type entry struct {
	value    []byte
	storedAt time.Time
}

// Memory is a process-local cache. Producer errors are never cached.
type Memory struct {
	mu      sync.Mutex
	entries map[string]entry
	now     func() time.Time
}

// NewMemory creates an empty in-memory cache.
func NewMemory() *Memory {
	return &Memory{entries: make(map[string]entry), now: time.Now}
}

// GetOrCompute returns the stored value for key when it is younger than
// ttl, otherwise runs produce and stores its result.
func (m *Memory) GetOrCompute(ctx context.Context, key string, ttl time.Duration, produce Producer) ([]byte, error) {
	m.mu.Lock()
	hit, ok := m.entries[key]
	now := m.now()
	m.mu.Unlock()
	if ok && now.Sub(hit.storedAt) < ttl {
		return hit.value, nil
	}

	value, err := produce(ctx)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	m.entries[key] = entry{value: value, storedAt: now}
	m.evictExpired(now, ttl)
	m.mu.Unlock()
	return value, nil
}

// evictExpired drops entries older than ttl. Callers hold m.mu.
func (m *Memory) evictExpired(now time.Time, ttl time.Duration) {
	for k, e := range m.entries {
		if now.Sub(e.storedAt) >= ttl {
			delete(m.entries, k)
		}
	}
}
