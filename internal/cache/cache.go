package cache

import (
	"context"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

const defaultSize = 64

// Invalidator is implemented by caches that admin writes must bust.
type Invalidator interface {
	Invalidate()
}

// TTL is a bounded, expiring cache keyed by string. Entries disappear after
// ttl or when Invalidate is called, whichever happens first.
type TTL[V any] struct {
	lru *expirable.LRU[string, V]

	// gen counts invalidations. A load started before one must not be stored.
	mu  sync.Mutex
	gen uint64
}

func NewTTL[V any](size int, ttl time.Duration) *TTL[V] {
	if size <= 0 {
		size = defaultSize
	}
	return &TTL[V]{lru: expirable.NewLRU[string, V](size, nil, ttl)}
}

func (c *TTL[V]) Get(key string) (V, bool) {
	return c.lru.Get(key)
}

func (c *TTL[V]) Set(key string, v V) {
	c.lru.Add(key, v)
}

func (c *TTL[V]) Delete(key string) {
	c.lru.Remove(key)
}

func (c *TTL[V]) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gen++
	c.lru.Purge()
}

func (c *TTL[V]) Len() int {
	return c.lru.Len()
}

// GetOrLoad returns the cached value for key or calls load and caches its
// result. Errors are returned as is and never cached. A result whose load
// overlapped an Invalidate is returned but not cached.
func (c *TTL[V]) GetOrLoad(ctx context.Context, key string, load func(context.Context) (V, error)) (V, error) {
	if v, ok := c.Get(key); ok {
		return v, nil
	}

	c.mu.Lock()
	gen := c.gen
	c.mu.Unlock()

	v, err := load(ctx)
	if err != nil {
		var zero V
		return zero, err
	}

	c.mu.Lock()
	if c.gen == gen {
		c.lru.Add(key, v)
	}
	c.mu.Unlock()
	return v, nil
}
