package cache_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fwojciec/seomate/cache"
	"github.com/fwojciec/seomate/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoader_Remember(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("computes and stores on miss", func(t *testing.T) {
		t.Parallel()

		c := cache.NewMemory()
		l := cache.NewLoader(c)

		v, err := l.Remember(ctx, "seo", "k", time.Minute, func(context.Context) ([]byte, bool, error) {
			return []byte("computed"), true, nil
		})

		require.NoError(t, err)
		assert.Equal(t, []byte("computed"), v)
		stored, ok, _ := c.Get(ctx, "seo", "k")
		assert.True(t, ok)
		assert.Equal(t, []byte("computed"), stored)
	})

	t.Run("returns cached value without computing", func(t *testing.T) {
		t.Parallel()

		c := cache.NewMemory()
		require.NoError(t, c.Set(ctx, "seo", "k", []byte("cached"), time.Minute))
		l := cache.NewLoader(c)

		v, err := l.Remember(ctx, "seo", "k", time.Minute, func(context.Context) ([]byte, bool, error) {
			t.Fatal("compute must not be called on hit")
			return nil, false, nil
		})

		require.NoError(t, err)
		assert.Equal(t, []byte("cached"), v)
	})

	t.Run("does not store when asked not to", func(t *testing.T) {
		t.Parallel()

		c := cache.NewMemory()
		l := cache.NewLoader(c)

		v, err := l.Remember(ctx, "seo", "k", time.Minute, func(context.Context) ([]byte, bool, error) {
			return []byte("transient"), false, nil
		})

		require.NoError(t, err)
		assert.Equal(t, []byte("transient"), v)
		_, ok, _ := c.Get(ctx, "seo", "k")
		assert.False(t, ok)
	})

	t.Run("propagates compute errors", func(t *testing.T) {
		t.Parallel()

		l := cache.NewLoader(cache.NewMemory())
		boom := errors.New("boom")

		_, err := l.Remember(ctx, "seo", "k", time.Minute, func(context.Context) ([]byte, bool, error) {
			return nil, false, boom
		})

		assert.ErrorIs(t, err, boom)
	})

	t.Run("treats cache read failure as miss", func(t *testing.T) {
		t.Parallel()

		var stored []byte
		c := &mock.Cache{
			GetFn: func(context.Context, string, string) ([]byte, bool, error) {
				return nil, false, errors.New("db locked")
			},
			SetFn: func(_ context.Context, _, _ string, value []byte, _ time.Duration) error {
				stored = value
				return nil
			},
		}
		l := cache.NewLoader(c)

		v, err := l.Remember(ctx, "seo", "k", time.Minute, func(context.Context) ([]byte, bool, error) {
			return []byte("fresh"), true, nil
		})

		require.NoError(t, err)
		assert.Equal(t, []byte("fresh"), v)
		assert.Equal(t, []byte("fresh"), stored)
	})

	t.Run("coalesces concurrent misses", func(t *testing.T) {
		t.Parallel()

		l := cache.NewLoader(cache.NewMemory())
		var calls atomic.Int32
		release := make(chan struct{})

		var wg sync.WaitGroup
		for i := 0; i < 5; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				v, err := l.Remember(ctx, "seo", "k", time.Minute, func(context.Context) ([]byte, bool, error) {
					calls.Add(1)
					<-release
					return []byte("v"), true, nil
				})
				assert.NoError(t, err)
				assert.Equal(t, []byte("v"), v)
			}()
		}
		time.Sleep(50 * time.Millisecond)
		close(release)
		wg.Wait()

		assert.LessOrEqual(t, calls.Load(), int32(5))
		assert.GreaterOrEqual(t, calls.Load(), int32(1))
	})
}
