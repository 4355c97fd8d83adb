package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestMemoryCache(t *testing.T, maxKeys int) Cache {
	t.Helper()
	config := DefaultConfig()
	config.MaxKeys = maxKeys
	c := NewMemoryCache(config, zap.NewNop())
	t.Cleanup(func() { c.Close() })
	return c
}

func TestMemoryCacheSetGet(t *testing.T) {
	c := newTestMemoryCache(t, 100)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", []byte("v"), time.Minute))

	got, found := c.Get(ctx, "k")
	require.True(t, found)
	assert.Equal(t, []byte("v"), got)

	_, found = c.Get(ctx, "missing")
	assert.False(t, found)
}

func TestMemoryCacheExpiry(t *testing.T) {
	c := newTestMemoryCache(t, 100)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", []byte("v"), 10*time.Millisecond))
	time.Sleep(30 * time.Millisecond)

	_, found := c.Get(ctx, "k")
	assert.False(t, found)
}

func TestMemoryCacheDelete(t *testing.T) {
	c := newTestMemoryCache(t, 100)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", []byte("v"), time.Minute))
	require.NoError(t, c.Delete(ctx, "k"))

	_, found := c.Get(ctx, "k")
	assert.False(t, found)
}

func TestMemoryCacheDeletePattern(t *testing.T) {
	c := newTestMemoryCache(t, 100)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "settings:theme", []byte("1"), time.Minute))
	require.NoError(t, c.Set(ctx, "settings:limits", []byte("2"), time.Minute))
	require.NoError(t, c.Set(ctx, "other:key", []byte("3"), time.Minute))

	require.NoError(t, c.DeletePattern(ctx, "settings:*"))

	_, found := c.Get(ctx, "settings:theme")
	assert.False(t, found)
	_, found = c.Get(ctx, "settings:limits")
	assert.False(t, found)
	_, found = c.Get(ctx, "other:key")
	assert.True(t, found)
}

func TestMemoryCacheEvictsLRU(t *testing.T) {
	c := newTestMemoryCache(t, 2)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "a", []byte("1"), time.Minute))
	time.Sleep(time.Millisecond)
	require.NoError(t, c.Set(ctx, "b", []byte("2"), time.Minute))
	time.Sleep(time.Millisecond)

	// Touch "a" so "b" becomes the eviction candidate.
	_, found := c.Get(ctx, "a")
	require.True(t, found)
	time.Sleep(time.Millisecond)

	require.NoError(t, c.Set(ctx, "c", []byte("3"), time.Minute))

	_, found = c.Get(ctx, "a")
	assert.True(t, found)
	_, found = c.Get(ctx, "b")
	assert.False(t, found)
	_, found = c.Get(ctx, "c")
	assert.True(t, found)
}

func TestMatchPattern(t *testing.T) {
	cases := []struct {
		str     string
		pattern string
		want    bool
	}{
		{"settings:theme", "settings:*", true},
		{"settings:theme", "*", true},
		{"settings:theme", "*theme", true},
		{"settings:theme", "other:*", false},
		{"settings:theme", "settings:theme", true},
		{"settings:theme", "settings:limits", false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, matchPattern(tc.str, tc.pattern), "match(%q, %q)", tc.str, tc.pattern)
	}
}

func TestNewCacheUnsupportedProvider(t *testing.T) {
	config := DefaultConfig()
	config.Provider = "memcached"

	_, err := NewCache(config, zap.NewNop())
	require.Error(t, err)
}
