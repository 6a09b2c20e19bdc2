package mock

import (
	"context"

	"github.com/fwojciec/seomate"
)

var (
	_ seomate.Completer        = (*Completer)(nil)
	_ seomate.ExcerptGenerator = (*ExcerptGenerator)(nil)
	_ seomate.TagGenerator     = (*TagGenerator)(nil)
	_ seomate.SEOScorer        = (*SEOScorer)(nil)
)

// Completer is a mock implementation of seomate.Completer.
type Completer struct {
	CompleteFn func(ctx context.Context, prompt string, opts seomate.CompletionOptions) *seomate.AIResponse
}

func (c *Completer) Complete(ctx context.Context, prompt string, opts seomate.CompletionOptions) *seomate.AIResponse {
	return c.CompleteFn(ctx, prompt, opts)
}

// ExcerptGenerator is a mock implementation of seomate.ExcerptGenerator.
type ExcerptGenerator struct {
	GenerateFn func(ctx context.Context, text string, targetLength int) seomate.GenerationResult
}

func (g *ExcerptGenerator) Generate(ctx context.Context, text string, targetLength int) seomate.GenerationResult {
	return g.GenerateFn(ctx, text, targetLength)
}

// TagGenerator is a mock implementation of seomate.TagGenerator.
type TagGenerator struct {
	GenerateFn func(ctx context.Context, title, text string) []string
}

func (g *TagGenerator) Generate(ctx context.Context, title, text string) []string {
	return g.GenerateFn(ctx, title, text)
}

// SEOScorer is a mock implementation of seomate.SEOScorer.
type SEOScorer struct {
	ScoreFn func(ctx context.Context, doc *seomate.Document) (*seomate.SEOAnalysisRecord, error)
}

func (s *SEOScorer) Score(ctx context.Context, doc *seomate.Document) (*seomate.SEOAnalysisRecord, error) {
	return s.ScoreFn(ctx, doc)
}
