package goquery

import (
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/seomate"
	"golang.org/x/net/html"
)

var (
	_ seomate.Normalizer       = (*Normalizer)(nil)
	_ seomate.ContentInspector = (*Normalizer)(nil)
)

// DefaultMinLength is the minimum normalized length worth generating from.
const DefaultMinLength = 50

var (
	shortcodeRe = regexp.MustCompile(`\[/?[a-zA-Z][\w-]*(?:\s+[^\[\]]*)?/?\]`)
	blankLineRe = regexp.MustCompile(`\n\s*\n`)
	spaceRe     = regexp.MustCompile(`\s+`)
)

// blockElements start a new paragraph in the flattened text.
var blockElements = map[string]bool{
	"address": true, "article": true, "aside": true, "blockquote": true,
	"dd": true, "div": true, "dl": true, "dt": true, "figcaption": true,
	"figure": true, "footer": true, "form": true, "h1": true, "h2": true,
	"h3": true, "h4": true, "h5": true, "h6": true, "header": true,
	"hr": true, "li": true, "main": true, "nav": true, "ol": true,
	"p": true, "pre": true, "section": true, "table": true, "tr": true,
	"ul": true,
}

// Normalizer converts markup-bearing article bodies to plain text.
type Normalizer struct {
	// MinLength is the minimum rune count Usable accepts.
	MinLength int

	// Shortcodes restricts marker removal to these names. When empty every
	// bracketed [name ...] marker is removed.
	Shortcodes []string
}

// NewNormalizer creates a Normalizer with default settings.
func NewNormalizer() *Normalizer {
	return &Normalizer{MinLength: DefaultMinLength}
}

// Normalize returns body as a single line of plain text.
func (n *Normalizer) Normalize(body string) string {
	return collapse(n.flatten(body))
}

// Paragraphs returns body as plain text with one blank line between blocks.
func (n *Normalizer) Paragraphs(body string) string {
	return strings.Join(n.blocks(body), "\n\n")
}

// Usable reports whether text meets the minimum length.
func (n *Normalizer) Usable(text string) bool {
	minLength := n.MinLength
	if minLength <= 0 {
		minLength = DefaultMinLength
	}
	return utf8.RuneCountInString(strings.TrimSpace(text)) >= minLength
}

// Inspect computes structural metrics for body.
func (n *Normalizer) Inspect(body string) seomate.ContentMetrics {
	m := seomate.ContentMetrics{Headings: make(map[int]int)}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(n.stripShortcodes(body)))
	if err == nil {
		for level := 1; level <= 6; level++ {
			if c := doc.Find("h" + strconv.Itoa(level)).Length(); c > 0 {
				m.Headings[level] = c
			}
		}
		doc.Find("p").Each(func(_ int, sel *goquery.Selection) {
			text := collapse(sel.Text())
			if text == "" {
				return
			}
			m.Paragraphs++
			if m.FirstParagraph == "" {
				m.FirstParagraph = text
			}
		})
	}

	// Plain text bodies have no <p> elements; fall back to blank-line blocks.
	if m.Paragraphs == 0 {
		blocks := n.blocks(body)
		m.Paragraphs = len(blocks)
		if len(blocks) > 0 {
			m.FirstParagraph = blocks[0]
		}
	}

	m.Text = n.Normalize(body)
	m.WordCount = len(strings.Fields(m.Text))
	m.Sentences = seomate.SplitSentences(m.Text)
	return m
}

func (n *Normalizer) blocks(body string) []string {
	var blocks []string
	for _, part := range blankLineRe.Split(n.flatten(body), -1) {
		if text := collapse(part); text != "" {
			blocks = append(blocks, text)
		}
	}
	return blocks
}

// flatten removes markers and markup, leaving decoded text with blank lines
// between block elements.
func (n *Normalizer) flatten(body string) string {
	body = n.stripShortcodes(body)
	if !strings.ContainsAny(body, "<&") {
		return body
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return body
	}
	doc.Find("script, style, noscript, template").Remove()

	var b strings.Builder
	for _, node := range doc.Nodes {
		writeText(&b, node)
	}
	return b.String()
}

func writeText(b *strings.Builder, node *html.Node) {
	switch node.Type {
	case html.TextNode:
		b.WriteString(node.Data)
		return
	case html.CommentNode:
		return
	case html.ElementNode:
		if node.Data == "br" {
			b.WriteString("\n")
			return
		}
	}

	block := node.Type == html.ElementNode && blockElements[node.Data]
	if block {
		b.WriteString("\n\n")
	}
	for c := node.FirstChild; c != nil; c = c.NextSibling {
		writeText(b, c)
	}
	if block {
		b.WriteString("\n\n")
	}
}

func (n *Normalizer) stripShortcodes(body string) string {
	if len(n.Shortcodes) == 0 {
		return shortcodeRe.ReplaceAllString(body, " ")
	}
	allowed := make(map[string]bool, len(n.Shortcodes))
	for _, name := range n.Shortcodes {
		allowed[strings.ToLower(name)] = true
	}
	return shortcodeRe.ReplaceAllStringFunc(body, func(m string) string {
		if allowed[shortcodeName(m)] {
			return " "
		}
		return m
	})
}

func shortcodeName(marker string) string {
	name := strings.TrimLeft(marker, "[/")
	if i := strings.IndexFunc(name, func(r rune) bool {
		return r == ' ' || r == '\t' || r == '\n' || r == '/' || r == ']'
	}); i >= 0 {
		name = name[:i]
	}
	return strings.ToLower(name)
}

func collapse(s string) string {
	return strings.TrimSpace(spaceRe.ReplaceAllString(s, " "))
}
