// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

// TypedCache stores JSON-encoded values of T. Backend errors are logged
// and treated as misses so the cache can never fail a read.
//
// Each key carries a generation bumped by Invalidate. GetOrLoad only keeps
// what it loaded if no Invalidate ran meanwhile, so a read racing a write
// cannot put the pre-write value back. Generations are per process; other
// processes sharing a Redis backend are not covered.
type TypedCache[T any] struct {
	cache      Cache
	defaultTTL time.Duration
	logger     *slog.Logger
	gens       sync.Map // key -> *atomic.Uint64
}

// NewTypedCache wraps c. A nil c yields a cache that always misses.
func NewTypedCache[T any](c Cache, defaultTTL time.Duration, logger *slog.Logger) *TypedCache[T] {
	if logger == nil {
		logger = slog.Default()
	}
	return &TypedCache[T]{cache: c, defaultTTL: defaultTTL, logger: logger}
}

// Get returns the cached value and true on a hit.
func (c *TypedCache[T]) Get(ctx context.Context, key string) (T, bool) {
	var zero T
	if c.cache == nil {
		return zero, false
	}

	data, err := c.cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, ErrCacheMiss) {
			c.logger.Warn("cache read failed", "key", key, "error", err)
		}
		return zero, false
	}

	var value T
	if err := json.Unmarshal(data, &value); err != nil {
		c.logger.Warn("cache entry undecodable", "key", key, "error", err)
		return zero, false
	}
	return value, true
}

// Set stores value with the default TTL.
func (c *TypedCache[T]) Set(ctx context.Context, key string, value T) {
	if c.cache == nil {
		return
	}
	data, err := json.Marshal(value)
	if err != nil {
		c.logger.Warn("cache entry unencodable", "key", key, "error", err)
		return
	}
	if err := c.cache.Set(ctx, key, data, c.defaultTTL); err != nil {
		c.logger.Warn("cache write failed", "key", key, "error", err)
	}
}

// Invalidate deletes key. Call it after the write it follows has committed.
func (c *TypedCache[T]) Invalidate(ctx context.Context, key string) {
	if c.cache == nil {
		return
	}
	c.generation(key).Add(1)
	if err := c.cache.Delete(ctx, key); err != nil {
		c.logger.Warn("cache invalidation failed", "key", key, "error", err)
	}
}

// GetOrLoad returns the cached value or calls load and caches its result.
func (c *TypedCache[T]) GetOrLoad(ctx context.Context, key string, load func(context.Context) (T, error)) (T, error) {
	if value, ok := c.Get(ctx, key); ok {
		return value, nil
	}

	gen := c.generation(key)
	before := gen.Load()

	value, err := load(ctx)
	if err != nil {
		var zero T
		return zero, err
	}

	if gen.Load() != before {
		return value, nil
	}
	c.Set(ctx, key, value)
	// An Invalidate between the check and Set would miss the new entry.
	if gen.Load() != before {
		c.discard(ctx, key)
	}
	return value, nil
}

func (c *TypedCache[T]) generation(key string) *atomic.Uint64 {
	if g, ok := c.gens.Load(key); ok {
		return g.(*atomic.Uint64)
	}
	g, _ := c.gens.LoadOrStore(key, new(atomic.Uint64))
	return g.(*atomic.Uint64)
}

func (c *TypedCache[T]) discard(ctx context.Context, key string) {
	if c.cache == nil {
		return
	}
	if err := c.cache.Delete(ctx, key); err != nil {
		c.logger.Warn("cache invalidation failed", "key", key, "error", err)
	}
}
