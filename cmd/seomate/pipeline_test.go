package main_test

import (
	"context"
	"time"

	"github.com/fwojciec/seomate"
	"github.com/fwojciec/seomate/service"
)

// pipeline is a Fn-field fake of the command request surface.
type pipeline struct {
	GenerateExcerptFn func(ctx context.Context, id string, length int) (*service.ExcerptResponse, error)
	GenerateTagsFn    func(ctx context.Context, id string) (*service.TagsResponse, error)
	AnalyzeSEOFn      func(ctx context.Context, id string) (*seomate.SEOAnalysisRecord, error)
	FindAnalysisFn    func(ctx context.Context, id string) (*seomate.SEOAnalysisRecord, error)
	BatchGenerateFn   func(ctx context.Context, operation string, budget time.Duration) (*seomate.BatchRunState, error)
}

func (p *pipeline) GenerateExcerpt(ctx context.Context, id string, length int) (*service.ExcerptResponse, error) {
	return p.GenerateExcerptFn(ctx, id, length)
}

func (p *pipeline) GenerateTags(ctx context.Context, id string) (*service.TagsResponse, error) {
	return p.GenerateTagsFn(ctx, id)
}

func (p *pipeline) AnalyzeSEO(ctx context.Context, id string) (*seomate.SEOAnalysisRecord, error) {
	return p.AnalyzeSEOFn(ctx, id)
}

func (p *pipeline) FindAnalysis(ctx context.Context, id string) (*seomate.SEOAnalysisRecord, error) {
	return p.FindAnalysisFn(ctx, id)
}

func (p *pipeline) BatchGenerate(ctx context.Context, operation string, budget time.Duration) (*seomate.BatchRunState, error) {
	return p.BatchGenerateFn(ctx, operation, budget)
}
