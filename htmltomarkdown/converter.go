// Package htmltomarkdown renders article bodies as Markdown so prompts keep
// heading and list structure visible to the AI engine.
package htmltomarkdown

import (
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
	"github.com/fwojciec/seomate"
)

// Ensure Converter implements seomate.Converter at compile time.
var _ seomate.Converter = (*Converter)(nil)

// Converter wraps html-to-markdown.
type Converter struct {
	conv *converter.Converter
}

// NewConverter creates a new Converter.
func NewConverter() *Converter {
	conv := converter.NewConverter(
		converter.WithPlugins(
			base.NewBasePlugin(),
			commonmark.NewCommonmarkPlugin(),
			table.NewTablePlugin(),
		),
	)
	return &Converter{conv: conv}
}

// Convert transforms an article body into Markdown. Bodies without markup
// are returned trimmed.
func (c *Converter) Convert(body string) (string, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return "", seomate.Errorf(seomate.EINVALID, "empty body")
	}
	if !strings.Contains(body, "<") {
		return body, nil
	}

	result, err := c.conv.ConvertString(body)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(result), nil
}
