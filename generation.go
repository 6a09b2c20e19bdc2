package seomate

import (
	"context"
	"unicode/utf8"
)

// Source identifies which engine produced a generation result.
type Source string

// Source constants.
const (
	SourceAI        Source = "ai"
	SourceHeuristic Source = "heuristic"
)

// GenerationResult is the immutable outcome of one excerpt generation.
// The zero value is the documented empty result returned for content below
// the minimum usable length.
type GenerationResult struct {
	Text   string `json:"text"`
	Source Source `json:"source"`
	Length int    `json:"length"`
}

// NewGenerationResult builds a result and records its length in characters.
func NewGenerationResult(text string, source Source) GenerationResult {
	return GenerationResult{
		Text:   text,
		Source: source,
		Length: utf8.RuneCountInString(text),
	}
}

// Empty reports whether r is the empty result.
func (r GenerationResult) Empty() bool {
	return r.Text == ""
}

// ExcerptGenerator produces a summary bounded to a target length.
type ExcerptGenerator interface {
	// Generate always returns some excerpt for usable text, falling back
	// through heuristic tiers when the AI engine fails. Text below the
	// minimum length yields the empty result without any AI call.
	Generate(ctx context.Context, text string, targetLength int) GenerationResult
}

// TagGenerator produces a keyword-style tag set for a document.
type TagGenerator interface {
	// Generate returns a non-empty tag list whenever text is non-empty.
	Generate(ctx context.Context, title, text string) []string
}
