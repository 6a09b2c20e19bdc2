package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/seomate"
)

// Ensure LoggingFeedService implements seomate.FeedService.
var _ seomate.FeedService = (*LoggingFeedService)(nil)

// LoggingFeedService wraps a FeedService with logging.
type LoggingFeedService struct {
	next   seomate.FeedService
	logger *slog.Logger
}

// NewLoggingFeedService creates a new LoggingFeedService.
func NewLoggingFeedService(next seomate.FeedService, logger *slog.Logger) *LoggingFeedService {
	return &LoggingFeedService{next: next, logger: logger}
}

// FetchFeed delegates to the wrapped service and logs the operation.
func (s *LoggingFeedService) FetchFeed(ctx context.Context, url string) (items []*seomate.FeedItem, err error) {
	defer func(begin time.Time) {
		s.logger.Info("feed fetch",
			"url", url,
			"count", len(items),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.FetchFeed(ctx, url)
}
