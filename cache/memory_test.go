package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/fwojciec/seomate/cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemory(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("get after set returns value", func(t *testing.T) {
		t.Parallel()

		c := cache.NewMemory()
		require.NoError(t, c.Set(ctx, "seo", "k", []byte("v"), time.Minute))

		v, ok, err := c.Get(ctx, "seo", "k")

		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, []byte("v"), v)
	})

	t.Run("entry expires after ttl", func(t *testing.T) {
		t.Parallel()

		now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
		c := cache.NewMemory()
		c.Now = func() time.Time { return now }
		require.NoError(t, c.Set(ctx, "seo", "k", []byte("v"), time.Minute))

		now = now.Add(59 * time.Second)
		_, ok, _ := c.Get(ctx, "seo", "k")
		assert.True(t, ok)

		now = now.Add(time.Second)
		_, ok, _ = c.Get(ctx, "seo", "k")
		assert.False(t, ok)
	})

	t.Run("non-positive ttl never expires", func(t *testing.T) {
		t.Parallel()

		now := time.Now()
		c := cache.NewMemory()
		c.Now = func() time.Time { return now }
		require.NoError(t, c.Set(ctx, "seo", "k", []byte("v"), 0))

		now = now.Add(24 * 365 * time.Hour)
		_, ok, _ := c.Get(ctx, "seo", "k")
		assert.True(t, ok)
	})

	t.Run("delete removes a single key", func(t *testing.T) {
		t.Parallel()

		c := cache.NewMemory()
		require.NoError(t, c.Set(ctx, "seo", "a", []byte("1"), time.Minute))
		require.NoError(t, c.Set(ctx, "seo", "b", []byte("2"), time.Minute))

		require.NoError(t, c.Delete(ctx, "seo", "a"))

		_, ok, _ := c.Get(ctx, "seo", "a")
		assert.False(t, ok)
		_, ok, _ = c.Get(ctx, "seo", "b")
		assert.True(t, ok)
	})

	t.Run("delete group leaves other groups", func(t *testing.T) {
		t.Parallel()

		c := cache.NewMemory()
		require.NoError(t, c.Set(ctx, "seo", "a", []byte("1"), time.Minute))
		require.NoError(t, c.Set(ctx, "ai", "a", []byte("2"), time.Minute))

		require.NoError(t, c.DeleteGroup(ctx, "seo"))

		_, ok, _ := c.Get(ctx, "seo", "a")
		assert.False(t, ok)
		v, ok, _ := c.Get(ctx, "ai", "a")
		assert.True(t, ok)
		assert.Equal(t, []byte("2"), v)
	})

	t.Run("stored value is copied", func(t *testing.T) {
		t.Parallel()

		c := cache.NewMemory()
		buf := []byte("abc")
		require.NoError(t, c.Set(ctx, "g", "k", buf, 0))
		buf[0] = 'x'

		v, _, _ := c.Get(ctx, "g", "k")
		assert.Equal(t, []byte("abc"), v)
	})
}

func TestKey(t *testing.T) {
	t.Parallel()

	assert.Equal(t, cache.Key("a", "b"), cache.Key("a", "b"))
	assert.NotEqual(t, cache.Key("ab", "c"), cache.Key("a", "bc"))
	assert.NotEmpty(t, cache.Key())
}
