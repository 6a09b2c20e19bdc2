package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/seomate"
)

// Ensure LoggingCompleter implements seomate.Completer.
var _ seomate.Completer = (*LoggingCompleter)(nil)

// LoggingCompleter wraps a Completer and logs every call with its outcome.
// Prompts are not logged.
type LoggingCompleter struct {
	next   seomate.Completer
	logger *slog.Logger
}

// NewLoggingCompleter creates a new LoggingCompleter.
func NewLoggingCompleter(next seomate.Completer, logger *slog.Logger) *LoggingCompleter {
	return &LoggingCompleter{next: next, logger: logger}
}

// Complete delegates to the wrapped completer and logs the result.
func (c *LoggingCompleter) Complete(ctx context.Context, prompt string, opts seomate.CompletionOptions) (resp *seomate.AIResponse) {
	defer func(begin time.Time) {
		level := slog.LevelInfo
		attrs := []any{
			"prompt_chars", len(prompt),
			"status", resp.Status,
			"duration", time.Since(begin),
		}
		if !resp.OK() {
			level = slog.LevelWarn
			attrs = append(attrs, "code", resp.StatusCode, "err", resp.Err)
		} else {
			attrs = append(attrs, "reply_chars", len(resp.RawText))
		}
		c.logger.Log(ctx, level, "ai completion", attrs...)
	}(time.Now())
	return seomate.CheckResponse(c.next.Complete(ctx, prompt, opts))
}
