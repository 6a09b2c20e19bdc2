package http

import (
	"context"
	"net/url"
	"strings"
	"time"

	"github.com/beevik/etree"
	"github.com/fwojciec/seomate"
)

// Ensure FeedService implements seomate.FeedService.
var _ seomate.FeedService = (*FeedService)(nil)

// FeedService reads RSS 2.0, RSS 1.0 and Atom feeds over HTTP.
type FeedService struct {
	fetcher *Fetcher
}

// NewFeedService creates a FeedService that downloads through f.
// If f is nil, a Fetcher with default options is used.
func NewFeedService(f *Fetcher) *FeedService {
	if f == nil {
		f = NewFetcher()
	}
	return &FeedService{fetcher: f}
}

// FetchFeed downloads and parses the feed at feedURL. Relative item links
// are resolved against feedURL. Items without a link are dropped.
func (s *FeedService) FetchFeed(ctx context.Context, feedURL string) ([]*seomate.FeedItem, error) {
	base, err := url.Parse(feedURL)
	if err != nil || base.Host == "" {
		return nil, seomate.Errorf(seomate.EINVALID, "invalid feed url %q", feedURL)
	}

	body, err := withRetry(ctx, s.fetcher.delays, func(ctx context.Context) ([]byte, error) {
		if s.fetcher.limiter != nil {
			if err := s.fetcher.limiter.Wait(ctx, base.Host); err != nil {
				return nil, permanent(err)
			}
		}
		return s.fetcher.get(ctx, feedURL, "application/rss+xml,application/atom+xml,application/xml,text/xml")
	})
	if err != nil {
		return nil, err
	}

	return ParseFeed(body, base)
}

// ParseFeed parses a feed document. base may be nil.
func ParseFeed(data []byte, base *url.URL) ([]*seomate.FeedItem, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return nil, seomate.Errorf(seomate.EINVALID, "parsing feed XML: %v", err)
	}

	root := doc.Root()
	if root == nil {
		return nil, seomate.Errorf(seomate.EINVALID, "empty feed XML")
	}

	var items []*seomate.FeedItem
	switch root.Tag {
	case "rss":
		channel := root.SelectElement("channel")
		if channel == nil {
			return nil, seomate.Errorf(seomate.EINVALID, "rss feed without channel")
		}
		items = parseRSSItems(channel.SelectElements("item"))
	case "RDF":
		items = parseRSSItems(root.SelectElements("item"))
	case "feed":
		items = parseAtomEntries(root.SelectElements("entry"))
	default:
		return nil, seomate.Errorf(seomate.EINVALID, "unsupported feed root <%s>", root.Tag)
	}

	out := make([]*seomate.FeedItem, 0, len(items))
	for _, item := range items {
		if item.Link == "" {
			continue
		}
		if base != nil {
			if ref, err := url.Parse(item.Link); err == nil {
				item.Link = base.ResolveReference(ref).String()
			}
		}
		out = append(out, item)
	}
	return out, nil
}

func parseRSSItems(elems []*etree.Element) []*seomate.FeedItem {
	items := make([]*seomate.FeedItem, 0, len(elems))
	for _, el := range elems {
		item := &seomate.FeedItem{
			Title:       childText(el, "title"),
			Link:        childText(el, "link"),
			Description: childText(el, "description"),
			Content:     childText(el, "content:encoded"),
		}
		if item.Link == "" {
			if guid := el.SelectElement("guid"); guid != nil && guid.SelectAttrValue("isPermaLink", "true") == "true" {
				item.Link = strings.TrimSpace(guid.Text())
			}
		}
		item.Published = parseTime(firstNonEmpty(childText(el, "pubDate"), childText(el, "dc:date")))
		items = append(items, item)
	}
	return items
}

func parseAtomEntries(elems []*etree.Element) []*seomate.FeedItem {
	items := make([]*seomate.FeedItem, 0, len(elems))
	for _, el := range elems {
		item := &seomate.FeedItem{
			Title:       childText(el, "title"),
			Link:        atomLink(el),
			Description: childText(el, "summary"),
			Content:     childText(el, "content"),
			Published:   parseTime(firstNonEmpty(childText(el, "published"), childText(el, "updated"))),
		}
		items = append(items, item)
	}
	return items
}

// atomLink prefers rel="alternate" (the default rel) over other links.
func atomLink(entry *etree.Element) string {
	var fallback string
	for _, link := range entry.SelectElements("link") {
		href := strings.TrimSpace(link.SelectAttrValue("href", ""))
		if href == "" {
			continue
		}
		if rel := link.SelectAttrValue("rel", "alternate"); rel == "alternate" {
			return href
		}
		if fallback == "" {
			fallback = href
		}
	}
	return fallback
}

func childText(el *etree.Element, tag string) string {
	child := el.SelectElement(tag)
	if child == nil {
		return ""
	}
	return strings.TrimSpace(child.Text())
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

var timeLayouts = []string{
	time.RFC1123Z,
	time.RFC1123,
	time.RFC3339,
	"Mon, 2 Jan 2006 15:04:05 -0700",
	"Mon, 2 Jan 2006 15:04:05 MST",
	"2006-01-02T15:04:05Z0700",
	"2006-01-02",
}

// parseTime returns the zero time for unparseable input.
func parseTime(s string) time.Time {
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC()
		}
	}
	return time.Time{}
}
