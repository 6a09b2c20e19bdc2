// Package excerpt generates article summaries bounded to a target length,
// degrading from the AI engine through deterministic heuristics.
package excerpt

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"text/template"
	"unicode/utf8"

	"github.com/fwojciec/seomate"
)

// Defaults for Generator.
const (
	DefaultLength      = 160
	DefaultPlaceholder = "Read the full article for details."
	DefaultMaxContent  = 6000
	DefaultMaxTokens   = 200
	DefaultTemperature = 0.3

	minHeuristicLength = 10
	minResultLength    = 5
)

// DefaultPrompt is the excerpt prompt template. It receives Length and
// Content.
const DefaultPrompt = `Write a summary of the article below in at most {{.Length}} characters.
Reply with the summary text only: no label, no quotes, no Markdown.

Article:
{{.Content}}`

var _ seomate.ExcerptGenerator = (*Generator)(nil)

// Generator produces excerpts. Tiers run in order: AI, sentence extraction,
// paragraph extraction, smart truncation.
type Generator struct {
	// AI is optional; when nil only the heuristic tiers run.
	AI         seomate.Completer
	Normalizer seomate.Normalizer

	Prompt      *template.Template
	Placeholder string
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
		Prompt:      template.Must(template.New("excerpt").Parse(DefaultPrompt)),
		Placeholder: DefaultPlaceholder,
		MaxContent:  DefaultMaxContent,
		MaxTokens:   DefaultMaxTokens,
		Temperature: DefaultTemperature,
		Logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// ParsePrompt parses a custom prompt template.
func ParsePrompt(text string) (*template.Template, error) {
	t, err := template.New("excerpt").Parse(text)
	if err != nil {
		return nil, seomate.Errorf(seomate.EINVALID, "invalid excerpt prompt: %v", err)
	}
	return t, nil
}

// Generate returns an excerpt of text bounded to targetLength characters.
// Text whose normalized form is below the minimum usable length yields the
// empty result and no AI call is made.
func (g *Generator) Generate(ctx context.Context, text string, targetLength int) seomate.GenerationResult {
	if targetLength <= 0 {
		targetLength = DefaultLength
	}

	flat := g.Normalizer.Normalize(text)
	if !g.Normalizer.Usable(flat) {
		g.logger().Debug("content too short for excerpt", "length", utf8.RuneCountInString(flat))
		return seomate.GenerationResult{}
	}

	if g.AI != nil {
		if out, ok := g.generateAI(ctx, flat, targetLength); ok {
			g.logger().Debug("excerpt generated", "tier", "ai", "length", utf8.RuneCountInString(out))
			return seomate.NewGenerationResult(out, seomate.SourceAI)
		}
	}

	tier := "sentences"
	out := ExtractSentences(flat, targetLength)
	if utf8.RuneCountInString(out) < minHeuristicLength {
		tier = "paragraphs"
		out = ExtractParagraphs(g.Normalizer.Paragraphs(text), targetLength)
	}
	if utf8.RuneCountInString(out) < minHeuristicLength {
		tier = "truncate"
		out = SmartTruncate(flat, targetLength)
	}
	if utf8.RuneCountInString(out) < minResultLength {
		tier = "placeholder"
		out = g.Placeholder
	}

	g.logger().Debug("excerpt generated", "tier", tier, "length", utf8.RuneCountInString(out))
	return seomate.NewGenerationResult(out, seomate.SourceHeuristic)
}

func (g *Generator) generateAI(ctx context.Context, flat string, target int) (string, bool) {
	content := flat
	if g.MaxContent > 0 && utf8.RuneCountInString(content) > g.MaxContent {
		content = string([]rune(content)[:g.MaxContent])
	}

	var buf bytes.Buffer
	if err := g.Prompt.Execute(&buf, struct {
		Length  int
		Content string
	}{target, content}); err != nil {
		g.logger().Warn("excerpt prompt failed", "error", err)
		return "", false
	}

	resp := seomate.CheckResponse(g.AI.Complete(ctx, buf.String(), seomate.CompletionOptions{
		MaxTokens:   g.MaxTokens,
		Temperature: g.Temperature,
	}))
	if !resp.OK() {
		g.logger().Info("ai excerpt unavailable", "status", resp.Status, "code", resp.StatusCode, "error", resp.Err)
		return "", false
	}

	out := CleanAIText(resp.RawText)
	if out == "" {
		g.logger().Info("ai excerpt empty after cleaning")
		return "", false
	}
	if float64(utf8.RuneCountInString(out)) > aiOverflowFactor*float64(target) {
		out = string([]rune(out)[:target]) + Ellipsis
	}
	return out, true
}

func (g *Generator) logger() *slog.Logger {
	if g.Logger == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return g.Logger
}
