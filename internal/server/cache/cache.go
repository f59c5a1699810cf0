// Package cache provides a small byte-value cache used for the read-mostly
// class catalog. Backed by Redis when configured, a no-op otherwise, so
// services never need to care whether caching is on.
package cache

import (
	"context"
	"time"
)

// Store is a get/set cache with per-entry TTL. Lookups that miss, fail, or
// expire all present the same way: ok == false.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration)
}

// Noop is the disabled cache: every lookup misses, every store is dropped.
type Noop struct{}

func (Noop) Get(ctx context.Context, key string) ([]byte, bool) { return nil, false }

func (Noop) Set(ctx context.Context, key string, value []byte, ttl time.Duration) {}
