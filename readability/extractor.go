// Package readability extracts article bodies with go-readability. It backs
// up the trafilatura extractor for pages trafilatura cannot read.
package readability

import (
	"net/url"
	"strings"

	"github.com/fwojciec/seomate"
	"github.com/go-shiori/go-readability"
)

// Ensure Extractor implements seomate.Extractor at compile time.
var _ seomate.Extractor = (*Extractor)(nil)

// Extractor wraps go-readability to extract the main article from HTML.
type Extractor struct {
	// PageURL is used to resolve relative links in the article.
	PageURL *url.URL
}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract processes raw HTML and returns the main content. The readability
// excerpt becomes the description.
func (e *Extractor) Extract(rawHTML string) (*seomate.ExtractResult, error) {
	if strings.TrimSpace(rawHTML) == "" {
		return nil, seomate.Errorf(seomate.EINVALID, "empty HTML input")
	}

	article, err := readability.FromReader(strings.NewReader(rawHTML), e.PageURL)
	if err != nil {
		return nil, seomate.Errorf(seomate.EINVALID, "extract article: %v", err)
	}

	return &seomate.ExtractResult{
		Title:       strings.TrimSpace(article.Title),
		Description: strings.TrimSpace(article.Excerpt),
		ContentHTML: article.Content,
	}, nil
}
