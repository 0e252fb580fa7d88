// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"fmt"
	"log/slog"
	"time"
)

// Config selects and configures the cache backend.
type Config struct {
	// RedisURL enables Redis when set; otherwise the memory cache is used.
	RedisURL   string
	Prefix     string
	DefaultTTL time.Duration
}

// New creates a Redis cache when RedisURL is set, else a memory cache.
// A Redis connection failure is returned rather than silently falling back.
func New(cfg Config) (Cache, error) {
	if cfg.DefaultTTL <= 0 {
		cfg.DefaultTTL = 5 * time.Minute
	}

	if cfg.RedisURL != "" {
		opts := DefaultRedisCacheOptions()
		opts.URL = cfg.RedisURL
		opts.DefaultTTL = cfg.DefaultTTL
		if cfg.Prefix != "" {
			opts.Prefix = cfg.Prefix
		}
		rc, err := NewRedisCache(opts)
		if err != nil {
			return nil, fmt.Errorf("creating redis cache: %w", err)
		}
		slog.Info("using redis cache", "prefix", opts.Prefix, "ttl", cfg.DefaultTTL)
		return rc, nil
	}

	slog.Info("using memory cache", "ttl", cfg.DefaultTTL)
	return NewMemoryCache(MemoryCacheOptions{
		DefaultTTL:      cfg.DefaultTTL,
		CleanupInterval: time.Minute,
	}), nil
}
