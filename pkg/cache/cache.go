// Package cache provides a small typed wrapper around an expirable LRU.
// Pipeline components that memoize parsed values receive an injected *Cache
// with a bounded size and TTL instead of sharing process-wide maps, and the
// orchestrator purges it explicitly at the end of each run.
package cache

import (
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// Cache is a bounded, TTL-evicting key/value cache.
type Cache[K comparable, V any] struct {
	lru *expirable.LRU[K, V]
}

// New creates a cache holding at most size entries, each expiring after ttl.
// A ttl of zero disables time-based expiry. A non-zero ttl starts a background
// expiry goroutine that runs until the cache is garbage collected, so
// short-lived caches should use ttl zero.
func New[K comparable, V any](size int, ttl time.Duration) *Cache[K, V] {
	return &Cache[K, V]{lru: expirable.NewLRU[K, V](size, nil, ttl)}
}

// Get returns the cached value for key, if present and unexpired.
func (c *Cache[K, V]) Get(key K) (V, bool) {
	if c == nil {
		var zero V
		return zero, false
	}
	return c.lru.Get(key)
}

// Add stores value under key, evicting the oldest entry if the cache is full.
func (c *Cache[K, V]) Add(key K, value V) {
	if c == nil {
		return
	}
	c.lru.Add(key, value)
}

// Len returns the number of live entries.
func (c *Cache[K, V]) Len() int {
	if c == nil {
		return 0
	}
	return c.lru.Len()
}

// Purge drops every entry.
func (c *Cache[K, V]) Purge() {
	if c != nil {
		c.lru.Purge()
	}
}
