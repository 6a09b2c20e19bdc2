package main_test

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/fwojciec/seomate"
	main "github.com/fwojciec/seomate/cmd/seomate"
	"github.com/fwojciec/seomate/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDeps(p main.Pipeline) (*main.Dependencies, *bytes.Buffer, *bytes.Buffer) {
	stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
	return &main.Dependencies{
		Ctx:      context.Background(),
		Stdout:   stdout,
		Stderr:   stderr,
		Pipeline: p,
	}, stdout, stderr
}

func TestExcerptCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("prints excerpt with source and length", func(t *testing.T) {
		t.Parallel()

		var gotLength int
		deps, stdout, _ := newDeps(&pipeline{
			GenerateExcerptFn: func(_ context.Context, id string, length int) (*service.ExcerptResponse, error) {
				assert.Equal(t, "doc-1", id)
				gotLength = length
				return &service.ExcerptResponse{Excerpt: "A short summary.", Length: 16, Source: seomate.SourceAI}, nil
			},
		})

		err := (&main.ExcerptCmd{ID: "doc-1", Length: 120}).Run(deps)

		require.NoError(t, err)
		assert.Equal(t, 120, gotLength)
		assert.Contains(t, stdout.String(), "A short summary.")
		assert.Contains(t, stdout.String(), "(ai, 16 chars)")
	})

	t.Run("reports short content as a no-op", func(t *testing.T) {
		t.Parallel()

		deps, stdout, _ := newDeps(&pipeline{
			GenerateExcerptFn: func(context.Context, string, int) (*service.ExcerptResponse, error) {
				return &service.ExcerptResponse{}, nil
			},
		})

		err := (&main.ExcerptCmd{ID: "doc-1"}).Run(deps)

		require.NoError(t, err)
		assert.Contains(t, stdout.String(), "too short")
	})

	t.Run("prints errors to stderr", func(t *testing.T) {
		t.Parallel()

		deps, _, stderr := newDeps(&pipeline{
			GenerateExcerptFn: func(context.Context, string, int) (*service.ExcerptResponse, error) {
				return nil, seomate.Errorf(seomate.EUNAVAILABLE, "AI engine not configured")
			},
		})

		err := (&main.ExcerptCmd{ID: "doc-1"}).Run(deps)

		require.Error(t, err)
		assert.Equal(t, "error: AI engine not configured\n", stderr.String())
	})
}

func TestTagsCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("prints comma separated tags", func(t *testing.T) {
		t.Parallel()

		deps, stdout, _ := newDeps(&pipeline{
			GenerateTagsFn: func(context.Context, string) (*service.TagsResponse, error) {
				return &service.TagsResponse{Tags: []string{"seo", "content", "guide"}}, nil
			},
		})

		err := (&main.TagsCmd{ID: "doc-1"}).Run(deps)

		require.NoError(t, err)
		assert.Equal(t, "seo, content, guide\n", stdout.String())
	})

	t.Run("reports empty tag set", func(t *testing.T) {
		t.Parallel()

		deps, stdout, _ := newDeps(&pipeline{
			GenerateTagsFn: func(context.Context, string) (*service.TagsResponse, error) {
				return &service.TagsResponse{}, nil
			},
		})

		require.NoError(t, (&main.TagsCmd{ID: "doc-1"}).Run(deps))
		assert.Contains(t, stdout.String(), "tags unchanged")
	})
}

func TestAnalyzeCmd_Run(t *testing.T) {
	t.Parallel()

	record := &seomate.SEOAnalysisRecord{
		DocumentID:   "doc-1",
		OverallScore: 72,
		SubScores:    map[string]int{"title": 80, "content": 64},
		ParsedAnalysis: &seomate.StructuredAnalysis{
			Keywords:        []string{"seo", "headlines"},
			ExtractionState: seomate.ExtractionPartial,
			Note:            "recovered 2/4 fields (keywords, recommendations)",
			Recommendations: []seomate.Recommendation{{Message: "Add headings"}, {Priority: "high", Message: "Shorten title"}},
		},
	}

	t.Run("runs a new analysis and prints the report", func(t *testing.T) {
		t.Parallel()

		deps, stdout, _ := newDeps(&pipeline{
			AnalyzeSEOFn: func(context.Context, string) (*seomate.SEOAnalysisRecord, error) { return record, nil },
		})

		err := (&main.AnalyzeCmd{ID: "doc-1"}).Run(deps)

		require.NoError(t, err)
		out := stdout.String()
		assert.Contains(t, out, "SEO score for doc-1: 72/100")
		assert.Contains(t, out, "content       64")
		assert.Contains(t, out, "title         80")
		assert.Less(t, bytes.Index(stdout.Bytes(), []byte("content")), bytes.Index(stdout.Bytes(), []byte("title ")))
		assert.Contains(t, out, "AI analysis: partial (recovered 2/4 fields")
		assert.Contains(t, out, "Keywords: seo, headlines")
		assert.Contains(t, out, "  - Add headings")
		assert.Contains(t, out, "  - [high] Shorten title")
	})

	t.Run("shows the stored analysis as JSON", func(t *testing.T) {
		t.Parallel()

		deps, stdout, _ := newDeps(&pipeline{
			FindAnalysisFn: func(context.Context, string) (*seomate.SEOAnalysisRecord, error) { return record, nil },
		})

		err := (&main.AnalyzeCmd{ID: "doc-1", Show: true, JSON: true}).Run(deps)

		require.NoError(t, err)
		var got seomate.SEOAnalysisRecord
		require.NoError(t, json.Unmarshal(stdout.Bytes(), &got))
		assert.Equal(t, 72, got.OverallScore)
		assert.Equal(t, seomate.ExtractionPartial, got.ParsedAnalysis.ExtractionState)
	})

	t.Run("notes heuristic-only records", func(t *testing.T) {
		t.Parallel()

		deps, stdout, _ := newDeps(&pipeline{
			AnalyzeSEOFn: func(context.Context, string) (*seomate.SEOAnalysisRecord, error) {
				return &seomate.SEOAnalysisRecord{DocumentID: "doc-2", OverallScore: 40}, nil
			},
		})

		require.NoError(t, (&main.AnalyzeCmd{ID: "doc-2"}).Run(deps))
		assert.Contains(t, stdout.String(), "heuristic scores only")
	})

	t.Run("hints when no stored analysis exists", func(t *testing.T) {
		t.Parallel()

		deps, _, stderr := newDeps(&pipeline{
			FindAnalysisFn: func(context.Context, string) (*seomate.SEOAnalysisRecord, error) {
				return nil, seomate.Errorf(seomate.ENOTFOUND, "analysis not found")
			},
		})

		err := (&main.AnalyzeCmd{ID: "doc-1", Show: true}).Run(deps)

		require.Error(t, err)
		assert.Contains(t, stderr.String(), "Run 'seomate analyze doc-1' first")
	})
}
