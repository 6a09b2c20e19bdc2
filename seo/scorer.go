// Package seo scores documents for search-engine quality from content
// metrics and, when available, an AI analysis.
package seo

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"text/template"
	"time"

	"github.com/fwojciec/seomate"
	"github.com/fwojciec/seomate/cache"
)

// Defaults for Scorer.
const (
	DefaultCacheTTL    = 24 * time.Hour
	DefaultMaxContent  = 8000
	DefaultMaxTokens   = 800
	DefaultTemperature = 0.2

	topKeywordCount = 3
)

// DefaultPrompt is the analysis prompt template. It receives Title and
// Content.
const DefaultPrompt = `Analyze the SEO quality of the article below.
Reply with a single JSON object and nothing else, using this shape:
{"keywords": ["..."], "score": {"title": 0-100, "content": 0-100, "keywords": 0-100, "readability": 0-100},
 "analysis": {"title": "...", "content": "..."}, "recommendations": ["..."]}

Title: {{.Title}}

{{.Content}}`

var _ seomate.SEOScorer = (*Scorer)(nil)

// Scorer computes SEO analysis records and persists them.
type Scorer struct {
	Inspector seomate.ContentInspector

	// AI is optional; when nil only heuristic sub-scores are used.
	AI     seomate.Completer
	Parser seomate.ResponseParser

	// Converter renders the body as Markdown for the prompt. Optional.
	Converter seomate.Converter

	// Loader caches raw AI analyses. Optional. Entries are keyed by the
	// rendered prompt, the expected fields and CacheVersion.
	Loader   *cache.Loader
	CacheTTL time.Duration

	// CacheVersion identifies the model answering the prompt, so switching
	// models does not serve stale analyses.
	CacheVersion string

	Analyses seomate.AnalysisService

	// Weights per sub-score; missing names weigh 1.
	Weights        map[string]float64
	ExpectedFields []string

	Prompt      *template.Template
	MaxContent  int
	MaxTokens   int
	Temperature float64

	Now    func() time.Time
	Logger *slog.Logger
}

// NewScorer creates a Scorer with default settings.
func NewScorer(inspector seomate.ContentInspector, parser seomate.ResponseParser, analyses seomate.AnalysisService) *Scorer {
	return &Scorer{
		Inspector:      inspector,
		Parser:         parser,
		Analyses:       analyses,
		CacheTTL:       DefaultCacheTTL,
		ExpectedFields: seomate.DefaultAnalysisFields,
		Prompt:         template.Must(template.New("seo").Parse(DefaultPrompt)),
		MaxContent:     DefaultMaxContent,
		MaxTokens:      DefaultMaxTokens,
		Temperature:    DefaultTemperature,
		Now:            time.Now,
		Logger:         slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// ParsePrompt parses a custom analysis prompt template.
func ParsePrompt(text string) (*template.Template, error) {
	t, err := template.New("seo").Parse(text)
	if err != nil {
		return nil, seomate.Errorf(seomate.EINVALID, "invalid seo prompt: %v", err)
	}
	return t, nil
}

// Score analyzes doc and saves the resulting record, replacing any earlier
// record for the same document.
func (s *Scorer) Score(ctx context.Context, doc *seomate.Document) (*seomate.SEOAnalysisRecord, error) {
	if doc == nil {
		return nil, seomate.Errorf(seomate.EINVALID, "document required")
	}

	m := s.Inspector.Inspect(doc.Body)
	keywords := TopKeywords(m.Text, topKeywordCount)

	scores := map[string]int{
		seomate.ScoreTitle:       TitleScore(doc.Title, keywords),
		seomate.ScoreContent:     ContentScore(m),
		seomate.ScoreKeywords:    KeywordScore(doc.Title, m, keywords),
		seomate.ScoreReadability: ReadabilityScore(m),
	}

	rec := &seomate.SEOAnalysisRecord{
		DocumentID: doc.ID,
		SubScores:  scores,
		ComputedAt: s.now(),
	}

	if raw, parsed, ok := s.analyze(ctx, doc, m.Text); ok {
		rec.RawAIAnalysis = &raw
		rec.ParsedAnalysis = parsed
		for name, v := range parsed.Scores {
			scores[name] = clamp(v)
		}
		s.logger().Debug("ai analysis parsed",
			"document", doc.ID,
			"state", parsed.ExtractionState,
			"recovered", len(parsed.Recovered))
	}

	rec.OverallScore = Overall(scores, s.Weights)

	if err := s.Analyses.SaveAnalysis(ctx, rec); err != nil {
		return nil, fmt.Errorf("save analysis: %w", err)
	}
	s.logger().Info("document scored", "document", doc.ID, "overall", rec.OverallScore)
	return rec, nil
}

// analyze returns the raw AI analysis for doc and its parsed form,
// consulting the cache first. Replies that parse to nothing are not cached.
func (s *Scorer) analyze(ctx context.Context, doc *seomate.Document, text string) (string, *seomate.StructuredAnalysis, bool) {
	if s.AI == nil {
		return "", nil, false
	}

	prompt, err := s.buildPrompt(doc, text)
	if err != nil {
		s.logger().Warn("ai analysis unavailable", "document", doc.ID, "error", err)
		return "", nil, false
	}
	expected := s.expectedFields()

	var parsed *seomate.StructuredAnalysis
	compute := func(ctx context.Context) ([]byte, bool, error) {
		resp := seomate.CheckResponse(s.AI.Complete(ctx, prompt, seomate.CompletionOptions{
			MaxTokens:   s.MaxTokens,
			Temperature: s.Temperature,
		}))
		if !resp.OK() {
			return nil, false, resp.Err
		}
		parsed = s.Parser.Parse(resp.RawText, expected)
		return []byte(resp.RawText), parsed.ExtractionState != seomate.ExtractionFailed, nil
	}

	var raw []byte
	if s.Loader != nil {
		key := cache.Key(s.CacheVersion, strings.Join(expected, ","), prompt)
		raw, err = s.Loader.Remember(ctx, seomate.CacheGroupSEO, key, s.CacheTTL, compute)
	} else {
		raw, _, err = compute(ctx)
	}
	if err != nil {
		s.logger().Warn("ai analysis unavailable", "document", doc.ID, "error", err)
		return "", nil, false
	}
	// A cache hit or a shared in-flight computation skips this caller's compute.
	if parsed == nil {
		parsed = s.Parser.Parse(string(raw), expected)
	}
	return string(raw), parsed, true
}

func (s *Scorer) buildPrompt(doc *seomate.Document, text string) (string, error) {
	content := text
	if s.Converter != nil {
		if md, err := s.Converter.Convert(doc.Body); err == nil && md != "" {
			content = md
		} else if err != nil {
			s.logger().Debug("markdown conversion failed", "document", doc.ID, "error", err)
		}
	}
	if r := []rune(content); s.MaxContent > 0 && len(r) > s.MaxContent {
		content = string(r[:s.MaxContent])
	}

	var buf bytes.Buffer
	err := s.Prompt.Execute(&buf, struct {
		Title   string
		Content string
	}{doc.Title, content})
	if err != nil {
		return "", seomate.Errorf(seomate.EINTERNAL, "render seo prompt: %v", err)
	}
	return buf.String(), nil
}

func (s *Scorer) expectedFields() []string {
	if len(s.ExpectedFields) == 0 {
		return seomate.DefaultAnalysisFields
	}
	return s.ExpectedFields
}

func (s *Scorer) now() time.Time {
	if s.Now == nil {
		return time.Now()
	}
	return s.Now()
}

func (s *Scorer) logger() *slog.Logger {
	if s.Logger == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return s.Logger
}
