package seomate

import "context"

// Fetcher retrieves raw HTML from URLs.
type Fetcher interface {
	// Fetch returns the body of url. The context controls timeout and
	// cancellation.
	Fetch(ctx context.Context, url string) (html string, err error)
}

// HostLimiter throttles requests per host.
type HostLimiter interface {
	// Wait blocks until a request to host is allowed or ctx is done.
	Wait(ctx context.Context, host string) error
}
