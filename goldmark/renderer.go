// Package goldmark renders Markdown article sources to HTML bodies.
package goldmark

import (
	"bytes"
	"strings"

	"github.com/fwojciec/seomate"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

// Ensure Renderer implements seomate.Converter at compile time.
var _ seomate.Converter = (*Renderer)(nil)

// Renderer converts GitHub-flavored Markdown to HTML.
type Renderer struct {
	md goldmark.Markdown
}

// NewRenderer creates a Renderer. Raw HTML in the source is passed through
// so shortcodes and embeds survive import.
func NewRenderer() *Renderer {
	md := goldmark.New(
		goldmark.WithExtensions(extension.GFM, extension.Typographer),
		goldmark.WithRendererOptions(html.WithUnsafe()),
	)
	return &Renderer{md: md}
}

// Convert renders markdown to HTML.
func (r *Renderer) Convert(markdown string) (string, error) {
	if strings.TrimSpace(markdown) == "" {
		return "", seomate.Errorf(seomate.EINVALID, "empty markdown")
	}

	var buf bytes.Buffer
	if err := r.md.Convert([]byte(markdown), &buf); err != nil {
		return "", err
	}
	return strings.TrimSpace(buf.String()), nil
}
