package cache

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/fwojciec/seomate"
)

var _ seomate.Completer = (*Completer)(nil)

// Completer caches successful completions keyed by prompt and options.
// Failed responses pass through uncached.
type Completer struct {
	Next   seomate.Completer
	Loader *Loader
	Group  string
	TTL    time.Duration
}

// NewCompleter wraps next with a cache in the AI group.
func NewCompleter(next seomate.Completer, loader *Loader, ttl time.Duration) *Completer {
	return &Completer{Next: next, Loader: loader, Group: seomate.CacheGroupAI, TTL: ttl}
}

// Complete returns a cached completion or calls the wrapped completer.
func (c *Completer) Complete(ctx context.Context, prompt string, opts seomate.CompletionOptions) *seomate.AIResponse {
	key := Key(prompt, strconv.Itoa(opts.MaxTokens), strconv.FormatFloat(opts.Temperature, 'f', -1, 64))

	v, err := c.Loader.Remember(ctx, c.Group, key, c.TTL, func(ctx context.Context) ([]byte, bool, error) {
		resp := seomate.CheckResponse(c.Next.Complete(ctx, prompt, opts))
		if !resp.OK() {
			return nil, false, responseError(resp)
		}
		return []byte(resp.RawText), true, nil
	})
	if err != nil {
		var aiErr *seomate.AIError
		if errors.As(err, &aiErr) {
			return seomate.FailedResponse(aiErr.Status, aiErr.StatusCode, aiErr.Err)
		}
		return seomate.FailedResponse(seomate.AIStatusTransportError, 0, err)
	}
	return &seomate.AIResponse{RawText: string(v), Status: seomate.AIStatusOK, StatusCode: 200}
}

func responseError(resp *seomate.AIResponse) error {
	var aiErr *seomate.AIError
	if errors.As(resp.Err, &aiErr) {
		return aiErr
	}
	return &seomate.AIError{Status: resp.Status, StatusCode: resp.StatusCode, Err: resp.Err}
}
