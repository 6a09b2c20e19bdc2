package ratelimit

import (
	"context"

	"github.com/fwojciec/seomate"
	"golang.org/x/time/rate"
)

var _ seomate.Completer = (*Completer)(nil)

// Completer bounds the request rate of a wrapped completer.
type Completer struct {
	next    seomate.Completer
	limiter *rate.Limiter
}

// NewCompleter allows rps completions per second with a burst of 1.
func NewCompleter(next seomate.Completer, rps float64) *Completer {
	return &Completer{next: next, limiter: rate.NewLimiter(rate.Limit(rps), 1)}
}

// Complete waits for a token and forwards the call. A wait cut short by the
// context is reported as a transport error.
func (c *Completer) Complete(ctx context.Context, prompt string, opts seomate.CompletionOptions) *seomate.AIResponse {
	if err := c.limiter.Wait(ctx); err != nil {
		return seomate.FailedResponse(seomate.AIStatusTransportError, 0, err)
	}
	return seomate.CheckResponse(c.next.Complete(ctx, prompt, opts))
}
