package importer

import (
	"bytes"
	"context"
	"strings"
	"time"

	"github.com/fwojciec/seomate"
	"gopkg.in/yaml.v3"
)

// FrontMatter holds the optional YAML header of a Markdown source.
type FrontMatter struct {
	Title   string                 `yaml:"title"`
	Status  seomate.DocumentStatus `yaml:"status"`
	Tags    []string               `yaml:"tags"`
	Excerpt string                 `yaml:"excerpt"`
	Date    time.Time              `yaml:"date"`
}

var fenceLine = []byte("---")

// SplitFrontMatter separates a leading "---" delimited YAML block from the
// Markdown body. Sources without one return a zero FrontMatter.
func SplitFrontMatter(src []byte) (FrontMatter, []byte, error) {
	var fm FrontMatter

	src = bytes.TrimPrefix(src, []byte("\xef\xbb\xbf"))
	rest, ok := bytes.CutPrefix(src, fenceLine)
	if !ok || len(rest) == 0 || (rest[0] != '\n' && rest[0] != '\r') {
		return fm, src, nil
	}

	header, body, found := bytes.Cut(rest, []byte("\n---"))
	if !found {
		return fm, src, nil
	}
	// Drop the remainder of the closing fence line.
	if i := bytes.IndexByte(body, '\n'); i >= 0 {
		body = body[i+1:]
	} else {
		body = nil
	}

	if err := yaml.Unmarshal(header, &fm); err != nil {
		return FrontMatter{}, nil, seomate.Errorf(seomate.EINVALID, "front matter: %v", err)
	}
	return fm, body, nil
}

// ImportMarkdown renders a Markdown source and stores it under sourceURL.
// The title comes from front matter, or else from a leading level-one
// heading, which is then dropped from the body.
func (imp *Importer) ImportMarkdown(ctx context.Context, sourceURL string, src []byte) (*seomate.Document, bool, error) {
	if strings.TrimSpace(sourceURL) == "" {
		return nil, false, seomate.Errorf(seomate.EINVALID, "source required")
	}

	if existing, err := imp.findBySource(ctx, sourceURL); err != nil {
		return nil, false, err
	} else if existing != nil {
		return existing, false, nil
	}

	fm, body, err := SplitFrontMatter(src)
	if err != nil {
		return nil, false, err
	}

	markdown := string(body)
	title := strings.TrimSpace(fm.Title)
	if title == "" {
		title, markdown = leadingHeading(markdown)
	}

	html, err := imp.Renderer.Convert(markdown)
	if err != nil {
		return nil, false, err
	}

	doc := &seomate.Document{
		Title:     title,
		Body:      html,
		Excerpt:   strings.TrimSpace(fm.Excerpt),
		Tags:      fm.Tags,
		Status:    fm.Status,
		SourceURL: sourceURL,
		CreatedAt: fm.Date,
	}
	if err := doc.Validate(); err != nil {
		return nil, false, err
	}
	if err := imp.create(ctx, doc); err != nil {
		return nil, false, err
	}
	return doc, true, nil
}

// leadingHeading returns the text of a first-line "# " heading and the
// markdown without it.
func leadingHeading(markdown string) (string, string) {
	trimmed := strings.TrimLeft(markdown, " \t\r\n")
	line, rest, _ := strings.Cut(trimmed, "\n")
	line = strings.TrimSpace(line)
	if !strings.HasPrefix(line, "# ") {
		return "", markdown
	}
	return strings.TrimSpace(strings.TrimPrefix(line, "# ")), rest
}
