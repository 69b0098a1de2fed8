// Package cache provides a generic in-memory LRU cache with TTL expiry and
// stampede-safe loading. The normalizer uses it to memoize transliteration.
package cache

import (
	"context"
	"time"
)

// Cache is a generic key-value cache with TTL support.
//
// TTL semantics for Set:
//   - Positive duration: item expires after this duration
//   - Zero: use the cache's configured default TTL
//   - Negative: item never expires
type Cache[V any] interface {
	// Get retrieves a value by key.
	// Returns ErrNotFound if the key does not exist or has expired.
	Get(ctx context.Context, key string) (V, error)

	// Set stores a value with the given TTL.
	Set(ctx context.Context, key string, value V, ttl time.Duration) error

	// GetOrSet returns the cached value or computes it with fn on a miss.
	GetOrSet(ctx context.Context, key string, fn func(ctx context.Context) (V, error)) (V, error)
}

// Option configures an LRU cache.
type Option func(*options)

type options struct {
	defaultTTL time.Duration
	maxEntries int
}

func defaultOptions() *options {
	return &options{
		defaultTTL: time.Hour,
		maxEntries: 10_000,
	}
}

// WithDefaultTTL sets the expiration used when Set is called with a zero TTL.
// A negative value makes entries permanent by default.
// Default: 1 hour.
func WithDefaultTTL(d time.Duration) Option {
	return func(o *options) {
		o.defaultTTL = d
	}
}

// WithMaxEntries bounds the number of entries; the least recently used entry
// is evicted when the bound is reached. Zero means unlimited.
// Default: 10000.
func WithMaxEntries(n int) Option {
	return func(o *options) {
		o.maxEntries = max(n, 0)
	}
}
