// Package store caches BGC results. Backends hold opaque JSON payloads under
// caller-supplied keys; Cache adds the typed result API and hit/miss metrics.
package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"idcheck/internal/bgc"
	"idcheck/internal/bgc/metrics"
	"idcheck/pkg/platform/sentinel"
)

// ErrNilResult is returned when saving a nil result.
var ErrNilResult = errors.New("result is required")

var nullPayload = []byte("null")

// Backend stores payloads with a TTL. Get returns an error wrapping
// sentinel.ErrNotFound or sentinel.ErrExpired on a miss.
type Backend interface {
	Get(ctx context.Context, product bgc.Product, key string) ([]byte, error)
	Set(ctx context.Context, product bgc.Product, key string, payload []byte) error
}

// Cache stores Validate and Trace results on a Backend.
type Cache struct {
	backend Backend
	metrics *metrics.Metrics
}

func NewCache(backend Backend, m *metrics.Metrics) *Cache {
	return &Cache{backend: backend, metrics: m}
}

func (c *Cache) FindValidate(ctx context.Context, key string) (*bgc.ValidateResult, error) {
	return find[bgc.ValidateResult](ctx, c, bgc.USOneValidate, key)
}

func (c *Cache) SaveValidate(ctx context.Context, key string, res *bgc.ValidateResult) error {
	return save(ctx, c, bgc.USOneValidate, key, res)
}

func (c *Cache) FindTrace(ctx context.Context, key string) (*bgc.TraceResult, error) {
	return find[bgc.TraceResult](ctx, c, bgc.USOneTrace, key)
}

func (c *Cache) SaveTrace(ctx context.Context, key string, res *bgc.TraceResult) error {
	return save(ctx, c, bgc.USOneTrace, key, res)
}

// find decodes a cached payload. A stored JSON null is a miss.
func find[T any](ctx context.Context, c *Cache, product bgc.Product, key string) (*T, error) {
	payload, err := c.backend.Get(ctx, product, key)
	if err == nil && bytes.Equal(bytes.TrimSpace(payload), nullPayload) {
		err = fmt.Errorf("%s result: %w", product, sentinel.ErrNotFound)
	}
	if err != nil {
		if sentinel.IsMiss(err) {
			c.metrics.IncrementCacheMiss(product.String())
		}
		return nil, err
	}
	var res T
	if err := json.Unmarshal(payload, &res); err != nil {
		return nil, fmt.Errorf("decode cached %s result: %w", product, err)
	}
	c.metrics.IncrementCacheHit(product.String())
	return &res, nil
}

func save[T any](ctx context.Context, c *Cache, product bgc.Product, key string, res *T) error {
	if res == nil {
		return ErrNilResult
	}
	payload, err := json.Marshal(res)
	if err != nil {
		return fmt.Errorf("encode %s result: %w", product, err)
	}
	return c.backend.Set(ctx, product, key, payload)
}

// expired reports whether an entry stored at storedAt is past ttl at now.
// A zero ttl never expires.
func expired(storedAt, now time.Time, ttl time.Duration) bool {
	return ttl > 0 && !now.Before(storedAt.Add(ttl))
}
