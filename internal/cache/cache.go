// Package cache provides the underwriting result cache. Results are keyed by
// the SHA-256 digest of the canonical request JSON, so identical requests hit
// the cache regardless of which deal they were run against.
package cache

import (
	"context"
	"sync"
	"time"
)

// Cache stores serialized underwriting results by request digest.
type Cache interface {
	Get(ctx context.Context, key string) (string, bool)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
}

// Memory is an in-process Cache used in tests and when Redis is not
// configured. TTLs are ignored; entries live for the process lifetime.
type Memory struct {
	mu      sync.RWMutex
	entries map[string]string
}

// NewMemory creates an empty in-process cache.
func NewMemory() *Memory {
	return &Memory{entries: make(map[string]string)}
}

func (m *Memory) Get(ctx context.Context, key string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	val, ok := m.entries[key]
	return val, ok
}

func (m *Memory) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = value
	return nil
}
