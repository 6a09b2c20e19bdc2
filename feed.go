package seomate

import (
	"context"
	"time"
)

// FeedItem is a single entry of an RSS or Atom feed.
type FeedItem struct {
	Title       string
	Link        string
	Description string
	Content     string
	Published   time.Time
}

// FeedService reads syndication feeds.
type FeedService interface {
	// FetchFeed downloads and parses the feed at url. Both RSS 2.0 and Atom
	// are understood.
	FetchFeed(ctx context.Context, url string) ([]*FeedItem, error)
}
