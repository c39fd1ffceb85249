// Package memory provides an in-process TTL cache backed by a bounded LRU.
package memory

import (
	"context"
	"fmt"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/ranqi-ly/soul-matrix-ai/internal/adapter/observability"
	"github.com/ranqi-ly/soul-matrix-ai/internal/domain"
)

type entry struct {
	data     []byte
	storedAt time.Time
	ttl      time.Duration
}

// Cache implements domain.Cache with per-entry TTLs and lazy eviction:
// expiry is checked against the stored write timestamp on read, and a stale
// entry is deleted on the first read after expiry rather than swept
// proactively. The LRU bound caps memory regardless of TTLs.
type Cache struct {
	lru *lru.Cache[string, entry]
}

// New constructs a Cache holding at most capacity entries.
func New(capacity int) (*Cache, error) {
	if capacity <= 0 {
		capacity = 4096
	}
	c, err := lru.New[string, entry](capacity)
	if err != nil {
		return nil, fmt.Errorf("op=memory.New: %w", err)
	}
	return &Cache{lru: c}, nil
}

// Get returns the value for key or domain.ErrNotFound for an absent or
// expired entry.
func (c *Cache) Get(_ context.Context, key string) ([]byte, error) {
	e, ok := c.lru.Get(key)
	if !ok {
		observability.CacheOpsTotal.WithLabelValues("memory", "miss").Inc()
		return nil, fmt.Errorf("%w: %s", domain.ErrNotFound, key)
	}
	if e.ttl > 0 && time.Since(e.storedAt) > e.ttl {
		c.lru.Remove(key)
		observability.CacheOpsTotal.WithLabelValues("memory", "expired").Inc()
		return nil, fmt.Errorf("%w: %s expired", domain.ErrNotFound, key)
	}
	observability.CacheOpsTotal.WithLabelValues("memory", "hit").Inc()
	return e.data, nil
}

// Put stores value under key for ttl. Entries are write-once by convention;
// a duplicate key simply overwrites.
func (c *Cache) Put(_ context.Context, key string, value []byte, ttl time.Duration) error {
	c.lru.Add(key, entry{data: value, storedAt: time.Now(), ttl: ttl})
	observability.CacheOpsTotal.WithLabelValues("memory", "put").Inc()
	return nil
}

// Delete removes key if present.
func (c *Cache) Delete(_ context.Context, key string) error {
	c.lru.Remove(key)
	return nil
}
