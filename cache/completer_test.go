package cache_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/fwojciec/seomate"
	"github.com/fwojciec/seomate/cache"
	"github.com/fwojciec/seomate/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompleter_Complete(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	opts := seomate.CompletionOptions{MaxTokens: 100, Temperature: 0.2}

	t.Run("caches successful responses", func(t *testing.T) {
		t.Parallel()

		calls := 0
		next := &mock.Completer{
			CompleteFn: func(context.Context, string, seomate.CompletionOptions) *seomate.AIResponse {
				calls++
				return &seomate.AIResponse{RawText: "answer", Status: seomate.AIStatusOK}
			},
		}
		c := cache.NewCompleter(next, cache.NewLoader(cache.NewMemory()), time.Hour)

		first := c.Complete(ctx, "prompt", opts)
		second := c.Complete(ctx, "prompt", opts)

		require.True(t, first.OK())
		require.True(t, second.OK())
		assert.Equal(t, "answer", second.RawText)
		assert.Equal(t, 1, calls)
	})

	t.Run("different options miss the cache", func(t *testing.T) {
		t.Parallel()

		calls := 0
		next := &mock.Completer{
			CompleteFn: func(context.Context, string, seomate.CompletionOptions) *seomate.AIResponse {
				calls++
				return &seomate.AIResponse{RawText: "answer", Status: seomate.AIStatusOK}
			},
		}
		c := cache.NewCompleter(next, cache.NewLoader(cache.NewMemory()), time.Hour)

		c.Complete(ctx, "prompt", opts)
		c.Complete(ctx, "prompt", seomate.CompletionOptions{MaxTokens: 50})

		assert.Equal(t, 2, calls)
	})

	t.Run("passes failures through uncached", func(t *testing.T) {
		t.Parallel()

		calls := 0
		next := &mock.Completer{
			CompleteFn: func(context.Context, string, seomate.CompletionOptions) *seomate.AIResponse {
				calls++
				return seomate.FailedResponse(seomate.AIStatusQuotaError, 429, errors.New("slow down"))
			},
		}
		c := cache.NewCompleter(next, cache.NewLoader(cache.NewMemory()), time.Hour)

		first := c.Complete(ctx, "prompt", opts)
		second := c.Complete(ctx, "prompt", opts)

		assert.Equal(t, seomate.AIStatusQuotaError, first.Status)
		assert.Equal(t, 429, first.StatusCode)
		assert.Equal(t, seomate.AIStatusQuotaError, second.Status)
		assert.Equal(t, 2, calls)
	})
}
