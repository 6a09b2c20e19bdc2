package mock

import (
	"context"

	"github.com/fwojciec/seomate"
)

var (
	_ seomate.Fetcher     = (*Fetcher)(nil)
	_ seomate.FeedService = (*FeedService)(nil)
	_ seomate.HostLimiter = (*HostLimiter)(nil)
)

// Fetcher is a mock implementation of seomate.Fetcher.
type Fetcher struct {
	FetchFn func(ctx context.Context, url string) (string, error)
}

func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	return f.FetchFn(ctx, url)
}

// FeedService is a mock implementation of seomate.FeedService.
type FeedService struct {
	FetchFeedFn func(ctx context.Context, url string) ([]*seomate.FeedItem, error)
}

func (s *FeedService) FetchFeed(ctx context.Context, url string) ([]*seomate.FeedItem, error) {
	return s.FetchFeedFn(ctx, url)
}

// HostLimiter is a mock implementation of seomate.HostLimiter.
type HostLimiter struct {
	WaitFn func(ctx context.Context, host string) error
}

func (l *HostLimiter) Wait(ctx context.Context, host string) error {
	return l.WaitFn(ctx, host)
}
