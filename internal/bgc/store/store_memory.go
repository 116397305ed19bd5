package store

import (
	"context"
	"fmt"
	"sync"
	"time"

	"idcheck/internal/bgc"
	"idcheck/pkg/platform/sentinel"
	"idcheck/pkg/requestcontext"
)

type cachedPayload struct {
	payload  []byte
	storedAt time.Time
}

// InMemory keeps payloads in process with TTL expiration.
type InMemory struct {
	mu      sync.RWMutex
	entries map[string]cachedPayload
	ttl     time.Duration
}

func NewInMemory(ttl time.Duration) *InMemory {
	return &InMemory{entries: make(map[string]cachedPayload), ttl: ttl}
}

func (m *InMemory) Get(ctx context.Context, product bgc.Product, key string) ([]byte, error) {
	m.mu.RLock()
	cached, ok := m.entries[memoryKey(product, key)]
	m.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%s result: %w", product, sentinel.ErrNotFound)
	}
	if expired(cached.storedAt, requestcontext.Now(ctx), m.ttl) {
		m.mu.Lock()
		delete(m.entries, memoryKey(product, key))
		m.mu.Unlock()
		return nil, fmt.Errorf("%s result: %w", product, sentinel.ErrExpired)
	}
	return append([]byte(nil), cached.payload...), nil
}

func (m *InMemory) Set(ctx context.Context, product bgc.Product, key string, payload []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[memoryKey(product, key)] = cachedPayload{
		payload:  append([]byte(nil), payload...),
		storedAt: requestcontext.Now(ctx),
	}
	return nil
}

// Len reports the number of entries, including expired ones not yet evicted.
func (m *InMemory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

func memoryKey(product bgc.Product, key string) string {
	return product.Key() + ":" + key
}
