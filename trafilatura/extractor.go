// Package trafilatura extracts article bodies from imported pages with
// go-trafilatura.
package trafilatura

import (
	"bytes"
	"net/url"
	"strings"

	"github.com/fwojciec/seomate"
	"github.com/markusmobius/go-trafilatura"
	"golang.org/x/net/html"
)

// Ensure Extractor implements seomate.Extractor at compile time.
var _ seomate.Extractor = (*Extractor)(nil)

// Extractor wraps go-trafilatura to extract the main article from HTML.
type Extractor struct {
	// PageURL, when set, lets trafilatura resolve relative links and read
	// site-specific metadata.
	PageURL *url.URL

	// Comments keeps reader comments in the extracted body.
	Comments bool
}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract processes raw HTML and returns the article title, description and
// body. A page with no recognizable article yields EINVALID.
func (e *Extractor) Extract(rawHTML string) (*seomate.ExtractResult, error) {
	if strings.TrimSpace(rawHTML) == "" {
		return nil, seomate.Errorf(seomate.EINVALID, "empty HTML input")
	}

	opts := trafilatura.Options{
		EnableFallback:  true,
		ExcludeComments: !e.Comments,
		OriginalURL:     e.PageURL,
	}

	result, err := trafilatura.Extract(strings.NewReader(rawHTML), opts)
	if err != nil {
		return nil, seomate.Errorf(seomate.EINVALID, "extract article: %v", err)
	}

	var contentHTML string
	if result.ContentNode != nil {
		contentHTML, err = renderNode(result.ContentNode)
		if err != nil {
			return nil, err
		}
	}

	return &seomate.ExtractResult{
		Title:       strings.TrimSpace(result.Metadata.Title),
		Description: strings.TrimSpace(result.Metadata.Description),
		ContentHTML: contentHTML,
	}, nil
}

// renderNode converts an html.Node to a string.
func renderNode(n *html.Node) (string, error) {
	var buf bytes.Buffer
	if err := html.Render(&buf, n); err != nil {
		return "", err
	}
	return buf.String(), nil
}
