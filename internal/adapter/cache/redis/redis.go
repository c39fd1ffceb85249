// Package redis provides a Redis-backed TTL cache for deployments where
// results must survive process restarts or be shared across replicas.
package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/ranqi-ly/soul-matrix-ai/internal/adapter/observability"
	"github.com/ranqi-ly/soul-matrix-ai/internal/domain"
)

// Cache implements domain.Cache on a Redis instance. Redis owns expiry, so
// reads never see stale entries.
type Cache struct {
	rdb *goredis.Client
}

// New connects to addr and verifies the connection.
func New(ctx context.Context, addr, password string) (*Cache, error) {
	rdb := goredis.NewClient(&goredis.Options{Addr: addr, Password: password})
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("op=redis.New: %w", err)
	}
	return &Cache{rdb: rdb}, nil
}

// Get returns the value for key or domain.ErrNotFound.
func (c *Cache) Get(ctx context.Context, key string) ([]byte, error) {
	b, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			observability.CacheOpsTotal.WithLabelValues("redis", "miss").Inc()
			return nil, fmt.Errorf("%w: %s", domain.ErrNotFound, key)
		}
		return nil, fmt.Errorf("op=redis.Get: %w", err)
	}
	observability.CacheOpsTotal.WithLabelValues("redis", "hit").Inc()
	return b, nil
}

// Put stores value under key for ttl.
func (c *Cache) Put(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := c.rdb.Set(ctx, key, value, ttl).Err(); err != nil {
		return fmt.Errorf("op=redis.Put: %w", err)
	}
	observability.CacheOpsTotal.WithLabelValues("redis", "put").Inc()
	return nil
}

// Delete removes key if present.
func (c *Cache) Delete(ctx context.Context, key string) error {
	if err := c.rdb.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("op=redis.Delete: %w", err)
	}
	return nil
}

// Ping reports backend health for readiness probes.
func (c *Cache) Ping(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}
