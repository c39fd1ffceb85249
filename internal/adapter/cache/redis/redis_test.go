package redis_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	rediscache "github.com/ranqi-ly/soul-matrix-ai/internal/adapter/cache/redis"
	"github.com/ranqi-ly/soul-matrix-ai/internal/domain"
)

func newCache(t *testing.T) (*rediscache.Cache, *miniredis.Miniredis) {
	t.Helper()
	srv := miniredis.RunT(t)
	c, err := rediscache.New(context.Background(), srv.Addr(), "")
	require.NoError(t, err)
	return c, srv
}

func TestRedisCache_PutGet(t *testing.T) {
	c, _ := newCache(t)
	ctx := context.Background()

	require.NoError(t, c.Put(ctx, "k", []byte("v"), time.Minute))
	got, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), got)
}

func TestRedisCache_MissIsNotFound(t *testing.T) {
	c, _ := newCache(t)
	_, err := c.Get(context.Background(), "absent")
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestRedisCache_TTLExpiry(t *testing.T) {
	c, srv := newCache(t)
	ctx := context.Background()

	require.NoError(t, c.Put(ctx, "k", []byte("v"), time.Minute))
	srv.FastForward(2 * time.Minute)
	_, err := c.Get(ctx, "k")
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestRedisCache_Delete(t *testing.T) {
	c, _ := newCache(t)
	ctx := context.Background()

	require.NoError(t, c.Put(ctx, "k", []byte("v"), time.Minute))
	require.NoError(t, c.Delete(ctx, "k"))
	_, err := c.Get(ctx, "k")
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestRedisCache_Ping(t *testing.T) {
	c, srv := newCache(t)
	require.NoError(t, c.Ping(context.Background()))
	srv.Close()
	assert.Error(t, c.Ping(context.Background()))
}

func TestRedisCache_NewFailsWhenUnreachable(t *testing.T) {
	_, err := rediscache.New(context.Background(), "127.0.0.1:1", "")
	assert.Error(t, err)
}
