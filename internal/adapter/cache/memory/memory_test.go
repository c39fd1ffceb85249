package memory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ranqi-ly/soul-matrix-ai/internal/adapter/cache/memory"
	"github.com/ranqi-ly/soul-matrix-ai/internal/domain"
)

func TestMemoryCache_PutGet(t *testing.T) {
	c, err := memory.New(16)
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, c.Put(ctx, "k", []byte("v"), time.Minute))
	got, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), got)
}

func TestMemoryCache_MissIsNotFound(t *testing.T) {
	c, err := memory.New(16)
	require.NoError(t, err)

	_, err = c.Get(context.Background(), "absent")
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestMemoryCache_ExpiresLazilyOnRead(t *testing.T) {
	c, err := memory.New(16)
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, c.Put(ctx, "k", []byte("v"), 10*time.Millisecond))
	time.Sleep(25 * time.Millisecond)
	_, err = c.Get(ctx, "k")
	assert.True(t, errors.Is(err, domain.ErrNotFound))
	// A second read behaves identically after the lazy removal.
	_, err = c.Get(ctx, "k")
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestMemoryCache_ZeroTTLNeverExpires(t *testing.T) {
	c, err := memory.New(16)
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, c.Put(ctx, "k", []byte("v"), 0))
	time.Sleep(5 * time.Millisecond)
	_, err = c.Get(ctx, "k")
	assert.NoError(t, err)
}

func TestMemoryCache_PerEntryTTLs(t *testing.T) {
	c, err := memory.New(16)
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, c.Put(ctx, "short", []byte("a"), 10*time.Millisecond))
	require.NoError(t, c.Put(ctx, "long", []byte("b"), time.Hour))
	time.Sleep(25 * time.Millisecond)

	_, err = c.Get(ctx, "short")
	assert.True(t, errors.Is(err, domain.ErrNotFound))
	got, err := c.Get(ctx, "long")
	require.NoError(t, err)
	assert.Equal(t, []byte("b"), got)
}

func TestMemoryCache_Delete(t *testing.T) {
	c, err := memory.New(16)
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, c.Put(ctx, "k", []byte("v"), time.Minute))
	require.NoError(t, c.Delete(ctx, "k"))
	_, err = c.Get(ctx, "k")
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestMemoryCache_CapacityEvictsOldest(t *testing.T) {
	c, err := memory.New(2)
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, c.Put(ctx, "a", []byte("1"), time.Minute))
	require.NoError(t, c.Put(ctx, "b", []byte("2"), time.Minute))
	require.NoError(t, c.Put(ctx, "c", []byte("3"), time.Minute))

	_, err = c.Get(ctx, "a")
	assert.True(t, errors.Is(err, domain.ErrNotFound))
	_, err = c.Get(ctx, "c")
	assert.NoError(t, err)
}
