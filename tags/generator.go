// Package tags proposes keyword-style tags for a document.
package tags

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"regexp"
	"sort"
	"strings"
	"text/template"
	"unicode"
	"unicode/utf8"

	"github.com/fwojciec/seomate"
)

// Limits on generated tags.
const (
	MaxTags      = 8
	MinTags      = 3
	MinTagLength = 2
	MaxTagLength = 10

	minTokenLength = 2
	maxTokenLength = 6
	fallbackTarget = 5

	DefaultMaxContent  = 4000
	DefaultMaxTokens   = 100
	DefaultTemperature = 0.2
)

// DefaultPrompt is the tag prompt template. It receives Title and Content.
const DefaultPrompt = `Suggest 3 to 8 short keyword tags for the article below.
Reply with one tag per line and nothing else.

Title: {{.Title}}

Article:
{{.Content}}`

// DefaultGeneric pads short fallback results.
var DefaultGeneric = []string{"article", "guide", "insights"}

var listMarkerRe = regexp.MustCompile(`^\s*(?:[-*•+]|\d+[.)])\s*`)

var _ seomate.TagGenerator = (*Generator)(nil)

// Generator proposes tags using the AI engine, falling back to vocabulary
// matching and token frequency.
type Generator struct {
	// AI is optional; when nil only the fallback tier runs.
	AI         seomate.Completer
	Normalizer seomate.Normalizer

	// Vocabulary lists curated domain terms matched case-insensitively.
	Vocabulary []string

	// Generic pads results with fewer than MinTags tags.
	Generic []string

	Prompt      *template.Template
	MaxContent  int
	MaxTokens   int
	Temperature float64

	Logger *slog.Logger
}

// NewGenerator creates a Generator with default settings.
func NewGenerator(ai seomate.Completer, normalizer seomate.Normalizer) *Generator {
	return &Generator{
		AI:          ai,
		Normalizer:  normalizer,
		Generic:     DefaultGeneric,
		Prompt:      template.Must(template.New("tags").Parse(DefaultPrompt)),
		MaxContent:  DefaultMaxContent,
		MaxTokens:   DefaultMaxTokens,
		Temperature: DefaultTemperature,
		Logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// ParsePrompt parses a custom tag prompt template.
func ParsePrompt(text string) (*template.Template, error) {
	t, err := template.New("tags").Parse(text)
	if err != nil {
		return nil, seomate.Errorf(seomate.EINVALID, "invalid tags prompt: %v", err)
	}
	return t, nil
}

// Generate returns up to MaxTags tags. The result is non-empty whenever
// title or text is non-empty.
func (g *Generator) Generate(ctx context.Context, title, text string) []string {
	flat := g.Normalizer.Normalize(text)
	title = strings.TrimSpace(title)
	if title == "" && flat == "" {
		return nil
	}

	if g.AI != nil {
		if tags := g.generateAI(ctx, title, flat); len(tags) > 0 {
			g.logger().Debug("tags generated", "tier", "ai", "count", len(tags))
			return tags
		}
	}

	tags := g.fallback(title, flat)
	g.logger().Debug("tags generated", "tier", "heuristic", "count", len(tags))
	return tags
}

func (g *Generator) generateAI(ctx context.Context, title, flat string) []string {
	content := flat
	if g.MaxContent > 0 && utf8.RuneCountInString(content) > g.MaxContent {
		content = string([]rune(content)[:g.MaxContent])
	}

	var buf bytes.Buffer
	if err := g.Prompt.Execute(&buf, struct {
		Title   string
		Content string
	}{title, content}); err != nil {
		g.logger().Warn("tag prompt failed", "error", err)
		return nil
	}

	resp := seomate.CheckResponse(g.AI.Complete(ctx, buf.String(), seomate.CompletionOptions{
		MaxTokens:   g.MaxTokens,
		Temperature: g.Temperature,
	}))
	if !resp.OK() {
		g.logger().Info("ai tags unavailable", "status", resp.Status, "code", resp.StatusCode, "error", resp.Err)
		return nil
	}
	return ParseAITags(resp.RawText)
}

// ParseAITags sanitizes an AI reply with one tag per line. Commas also
// separate tags. Tags outside 2 to 10 characters are dropped, duplicates
// removed and the list capped at MaxTags.
func ParseAITags(raw string) []string {
	var set tagSet
	for _, line := range strings.FieldsFunc(raw, func(r rune) bool { return r == '\n' || r == ',' }) {
		set.add(SanitizeTag(line))
		if len(set.tags) == MaxTags {
			break
		}
	}
	return set.tags
}

// SanitizeTag strips list markers and every character that is not a
// letter, number or dash, and lowercases the rest. Words of a multi-word
// line are joined. It returns an empty string when the tag falls outside
// the length limits.
func SanitizeTag(s string) string {
	s = listMarkerRe.ReplaceAllString(s, "")
	s = strings.Map(func(r rune) rune {
		switch {
		case unicode.IsLetter(r), unicode.IsNumber(r), r == '-':
			return unicode.ToLower(r)
		}
		return -1
	}, s)
	s = strings.Trim(s, "-")
	n := utf8.RuneCountInString(s)
	if n < MinTagLength || n > MaxTagLength {
		return ""
	}
	return s
}

func (g *Generator) fallback(title, flat string) []string {
	var set tagSet
	haystack := strings.ToLower(title + " " + flat)

	for _, term := range g.Vocabulary {
		t := strings.ToLower(strings.TrimSpace(term))
		if t != "" && strings.Contains(haystack, t) {
			set.add(t)
		}
		if len(set.tags) == MaxTags {
			return set.tags
		}
	}

	freq := frequencies(haystack)
	for _, source := range []string{title, flat} {
		if len(set.tags) >= fallbackTarget {
			break
		}
		for _, tok := range rankTokens(source, freq) {
			if len(set.tags) >= fallbackTarget {
				break
			}
			set.add(tok)
		}
	}

	for _, generic := range g.Generic {
		if len(set.tags) >= MinTags {
			break
		}
		set.add(strings.ToLower(generic))
	}
	return set.tags
}

// tokens splits s into lowercase letter/number runs of 2 to 6 characters,
// excluding stopwords.
func tokens(s string) []string {
	var out []string
	for _, f := range strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	}) {
		n := utf8.RuneCountInString(f)
		if n < minTokenLength || n > maxTokenLength || seomate.IsStopword(f) || isNumeric(f) {
			continue
		}
		out = append(out, f)
	}
	return out
}

func frequencies(s string) map[string]int {
	freq := make(map[string]int)
	for _, tok := range tokens(s) {
		freq[tok]++
	}
	return freq
}

// rankTokens orders the distinct tokens of s by frequency, then by first
// appearance.
func rankTokens(s string, freq map[string]int) []string {
	var ordered []string
	seen := make(map[string]bool)
	for _, tok := range tokens(s) {
		if !seen[tok] {
			seen[tok] = true
			ordered = append(ordered, tok)
		}
	}
	sort.SliceStable(ordered, func(i, j int) bool {
		return freq[ordered[i]] > freq[ordered[j]]
	})
	return ordered
}

func isNumeric(s string) bool {
	for _, r := range s {
		if !unicode.IsNumber(r) {
			return false
		}
	}
	return true
}

// tagSet keeps tags in insertion order without case-insensitive duplicates.
type tagSet struct {
	tags []string
	seen map[string]bool
}

func (s *tagSet) add(tag string) {
	if tag == "" || len(s.tags) >= MaxTags {
		return
	}
	if s.seen == nil {
		s.seen = make(map[string]bool)
	}
	key := strings.ToLower(tag)
	if s.seen[key] {
		return
	}
	s.seen[key] = true
	s.tags = append(s.tags, tag)
}

func (g *Generator) logger() *slog.Logger {
	if g.Logger == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return g.Logger
}
