package ratelimit_test

import (
	"context"
	"testing"
	"time"

	"github.com/fwojciec/seomate"
	"github.com/fwojciec/seomate/mock"
	"github.com/fwojciec/seomate/ratelimit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHostLimiter(t *testing.T) {
	t.Parallel()

	t.Run("allows immediate request when under limit", func(t *testing.T) {
		t.Parallel()

		limiter := ratelimit.NewHostLimiter(10)

		start := time.Now()
		err := limiter.Wait(context.Background(), "example.com")

		require.NoError(t, err)
		assert.Less(t, time.Since(start), 50*time.Millisecond)
	})

	t.Run("rate limits requests to same host", func(t *testing.T) {
		t.Parallel()

		limiter := ratelimit.NewHostLimiter(10)
		require.NoError(t, limiter.Wait(context.Background(), "example.com"))

		start := time.Now()
		err := limiter.Wait(context.Background(), "example.com")

		require.NoError(t, err)
		assert.GreaterOrEqual(t, time.Since(start), 80*time.Millisecond)
	})

	t.Run("different hosts have independent limits", func(t *testing.T) {
		t.Parallel()

		limiter := ratelimit.NewHostLimiter(10)
		require.NoError(t, limiter.Wait(context.Background(), "a.com"))

		start := time.Now()
		err := limiter.Wait(context.Background(), "b.com")

		require.NoError(t, err)
		assert.Less(t, time.Since(start), 50*time.Millisecond)
	})
}

func TestCompleter(t *testing.T) {
	t.Parallel()

	t.Run("forwards calls", func(t *testing.T) {
		t.Parallel()

		next := &mock.Completer{
			CompleteFn: func(_ context.Context, prompt string, _ seomate.CompletionOptions) *seomate.AIResponse {
				return &seomate.AIResponse{RawText: "echo " + prompt, Status: seomate.AIStatusOK}
			},
		}
		c := ratelimit.NewCompleter(next, 100)

		resp := c.Complete(context.Background(), "hi", seomate.CompletionOptions{})

		assert.Equal(t, "echo hi", resp.RawText)
	})

	t.Run("reports canceled wait as transport error", func(t *testing.T) {
		t.Parallel()

		next := &mock.Completer{
			CompleteFn: func(context.Context, string, seomate.CompletionOptions) *seomate.AIResponse {
				return &seomate.AIResponse{Status: seomate.AIStatusOK, RawText: "x"}
			},
		}
		c := ratelimit.NewCompleter(next, 0.1)
		require.True(t, c.Complete(context.Background(), "first", seomate.CompletionOptions{}).OK())

		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		defer cancel()
		resp := c.Complete(ctx, "second", seomate.CompletionOptions{})

		assert.Equal(t, seomate.AIStatusTransportError, resp.Status)
	})
}
