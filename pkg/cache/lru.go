package cache

import (
	"container/list"
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

type entry[V any] struct {
	expiresAt time.Time // zero value = never expires
	value     V
	key       string
}

func (e *entry[V]) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && now.After(e.expiresAt)
}

// LRU is an in-memory cache with lazy TTL expiry and least-recently-used
// eviction. Expired entries are dropped when touched, so no background
// goroutine is needed. Safe for concurrent use.
type LRU[V any] struct {
	items map[string]*list.Element
	order *list.List
	opts  *options
	group singleflight.Group
	mu    sync.Mutex
}

// NewLRU creates an empty cache.
//
// Example:
//
//	c := cache.NewLRU[string](
//	    cache.WithMaxEntries(5000),
//	    cache.WithDefaultTTL(-1),
//	)
func NewLRU[V any](opts ...Option) *LRU[V] {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	return &LRU[V]{
		items: make(map[string]*list.Element),
		order: list.New(),
		opts:  o,
	}
}

// Get retrieves a value and marks it as recently used.
func (c *LRU[V]) Get(_ context.Context, key string) (V, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero V
	elem, ok := c.items[key]
	if !ok {
		return zero, ErrNotFound
	}

	e := elem.Value.(*entry[V])
	if e.expired(time.Now()) {
		c.remove(elem)
		return zero, ErrNotFound
	}

	c.order.MoveToFront(elem)
	return e.value, nil
}

// Set stores a value with the given TTL.
func (c *LRU[V]) Set(_ context.Context, key string, value V, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if ttl == 0 {
		ttl = c.opts.defaultTTL
	}

	var expiresAt time.Time
	if ttl > 0 {
		expiresAt = time.Now().Add(ttl)
	}

	if elem, ok := c.items[key]; ok {
		e := elem.Value.(*entry[V])
		e.value = value
		e.expiresAt = expiresAt
		c.order.MoveToFront(elem)
		return nil
	}

	if c.opts.maxEntries > 0 && len(c.items) >= c.opts.maxEntries {
		if oldest := c.order.Back(); oldest != nil {
			c.remove(oldest)
		}
	}

	c.items[key] = c.order.PushFront(&entry[V]{key: key, value: value, expiresAt: expiresAt})
	return nil
}

// Delete removes a key. Missing keys are ignored.
func (c *LRU[V]) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.items[key]; ok {
		c.remove(elem)
	}
	return nil
}

// Len reports the number of stored entries, including expired ones not yet
// touched.
func (c *LRU[V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// GetOrSet retrieves a value, or calls fn to compute it on a miss.
// Concurrent misses for the same key share a single fn call.
// If fn returns an error, nothing is cached and the error is returned.
func (c *LRU[V]) GetOrSet(ctx context.Context, key string, fn func(ctx context.Context) (V, error)) (V, error) {
	if v, err := c.Get(ctx, key); err == nil {
		return v, nil
	}

	v, err, _ := c.group.Do(key, func() (any, error) {
		val, err := fn(ctx)
		if err != nil {
			return nil, err
		}
		_ = c.Set(ctx, key, val, 0)
		return val, nil
	})
	if err != nil {
		var zero V
		return zero, err
	}

	return v.(V), nil
}

// remove unlinks elem. Caller must hold the mutex.
func (c *LRU[V]) remove(elem *list.Element) {
	c.order.Remove(elem)
	delete(c.items, elem.Value.(*entry[V]).key)
}

var _ Cache[any] = (*LRU[any])(nil)
