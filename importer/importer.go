// Package importer feeds the document store from web pages, syndication
// feeds and Markdown files. Imported documents start without an excerpt or
// tags so batch runs pick them up.
package importer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/fwojciec/seomate"
	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency is the number of feed items fetched in parallel.
const DefaultConcurrency = 4

// Importer creates documents from external sources. Sources already
// imported (same SourceURL) are skipped.
type Importer struct {
	Documents seomate.DocumentService
	Fetcher   seomate.Fetcher
	Feeds     seomate.FeedService

	// Extractors are tried in order; the first one returning a non-empty
	// body wins.
	Extractors []seomate.Extractor

	// Renderer converts Markdown sources to HTML bodies.
	Renderer seomate.Converter

	// Status is assigned to imported documents. Empty means draft.
	Status seomate.DocumentStatus

	Concurrency int
	Logger      *slog.Logger
}

// Result holds the outcome of a multi-document import.
type Result struct {
	Created []*seomate.Document
	Skipped int
	Failed  int
}

// ProgressEvent reports progress during a feed import.
type ProgressEvent struct {
	Type  ProgressType
	Total int
	URL   string
	Error error
}

// ProgressType indicates the type of progress event.
type ProgressType int

const (
	ProgressStarted ProgressType = iota
	ProgressCreated
	ProgressSkipped
	ProgressFailed
	ProgressFinished
)

// ProgressFunc is a callback for reporting import progress.
type ProgressFunc func(event ProgressEvent)

func (imp *Importer) logger() *slog.Logger {
	if imp.Logger == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return imp.Logger
}

// ImportURL fetches a page, extracts its article and stores it. The second
// return value is false when the URL had already been imported; the
// existing document is returned in that case.
func (imp *Importer) ImportURL(ctx context.Context, rawURL string) (*seomate.Document, bool, error) {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return nil, false, seomate.Errorf(seomate.EINVALID, "url required")
	}

	if existing, err := imp.findBySource(ctx, rawURL); err != nil {
		return nil, false, err
	} else if existing != nil {
		return existing, false, nil
	}

	doc, err := imp.fetchPage(ctx, rawURL)
	if err != nil {
		return nil, false, err
	}
	if err := imp.create(ctx, doc); err != nil {
		return nil, false, err
	}
	return doc, true, nil
}

// ImportFeed imports every item of a feed. Items carrying full content are
// stored as-is; the others are fetched and extracted. Individual failures
// are counted, not returned.
func (imp *Importer) ImportFeed(ctx context.Context, feedURL string, progress ProgressFunc) (*Result, error) {
	if strings.TrimSpace(feedURL) == "" {
		return nil, seomate.Errorf(seomate.EINVALID, "feed url required")
	}

	items, err := imp.Feeds.FetchFeed(ctx, feedURL)
	if err != nil {
		return nil, fmt.Errorf("fetch feed: %w", err)
	}

	notify := func(ev ProgressEvent) {
		if progress != nil {
			ev.Total = len(items)
			progress(ev)
		}
	}
	notify(ProgressEvent{Type: ProgressStarted})

	concurrency := imp.Concurrency
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}

	// Documents are prepared concurrently and stored in feed order.
	type prepared struct {
		doc  *seomate.Document
		skip bool
		err  error
	}
	results := make([]prepared, len(items))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	for i, item := range items {
		g.Go(func() error {
			existing, err := imp.findBySource(gctx, item.Link)
			if err != nil {
				results[i] = prepared{err: err}
				return nil
			}
			if existing != nil {
				results[i] = prepared{skip: true}
				return nil
			}
			doc, err := imp.feedDocument(gctx, item)
			results[i] = prepared{doc: doc, err: err}
			return nil
		})
	}
	_ = g.Wait()

	res := &Result{}
	for i, p := range results {
		url := items[i].Link
		switch {
		case p.skip:
			res.Skipped++
			notify(ProgressEvent{Type: ProgressSkipped, URL: url})
			continue
		case p.err == nil:
			p.err = imp.create(ctx, p.doc)
		}
		if p.err != nil {
			res.Failed++
			imp.logger().Warn("import failed", "url", url, "err", p.err)
			notify(ProgressEvent{Type: ProgressFailed, URL: url, Error: p.err})
			continue
		}
		res.Created = append(res.Created, p.doc)
		notify(ProgressEvent{Type: ProgressCreated, URL: url})
	}

	notify(ProgressEvent{Type: ProgressFinished})
	if err := ctx.Err(); err != nil {
		return res, err
	}
	return res, nil
}

func (imp *Importer) feedDocument(ctx context.Context, item *seomate.FeedItem) (*seomate.Document, error) {
	if strings.TrimSpace(item.Content) != "" {
		return &seomate.Document{
			Title:     strings.TrimSpace(item.Title),
			Body:      item.Content,
			SourceURL: item.Link,
			CreatedAt: item.Published,
		}, nil
	}

	doc, err := imp.fetchPage(ctx, item.Link)
	if err != nil {
		return nil, err
	}
	if t := strings.TrimSpace(item.Title); t != "" {
		doc.Title = t
	}
	doc.CreatedAt = item.Published
	return doc, nil
}

func (imp *Importer) fetchPage(ctx context.Context, rawURL string) (*seomate.Document, error) {
	html, err := imp.Fetcher.Fetch(ctx, rawURL)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", rawURL, err)
	}

	extracted, err := imp.extract(html)
	if err != nil {
		return nil, fmt.Errorf("extract %s: %w", rawURL, err)
	}

	return &seomate.Document{
		Title:     extracted.Title,
		Body:      extracted.ContentHTML,
		SourceURL: rawURL,
	}, nil
}

func (imp *Importer) extract(html string) (*seomate.ExtractResult, error) {
	var errs []error
	for _, ext := range imp.Extractors {
		res, err := ext.Extract(html)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if strings.TrimSpace(res.ContentHTML) != "" {
			return res, nil
		}
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return nil, seomate.Errorf(seomate.EINVALID, "no article content found")
}

func (imp *Importer) findBySource(ctx context.Context, sourceURL string) (*seomate.Document, error) {
	docs, err := imp.Documents.FindDocuments(ctx, seomate.DocumentFilter{SourceURL: &sourceURL, Limit: 1})
	if err != nil {
		return nil, fmt.Errorf("find by source: %w", err)
	}
	if len(docs) == 0 {
		return nil, nil
	}
	return docs[0], nil
}

func (imp *Importer) create(ctx context.Context, doc *seomate.Document) error {
	if doc.Status == "" {
		doc.Status = imp.Status
	}
	if doc.Status == "" {
		doc.Status = seomate.StatusDraft
	}
	if err := imp.Documents.CreateDocument(ctx, doc); err != nil {
		return fmt.Errorf("create document: %w", err)
	}
	imp.logger().Info("document imported", "id", doc.ID, "source", doc.SourceURL, "title", doc.Title)
	return nil
}
