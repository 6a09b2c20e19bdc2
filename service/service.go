// Package service exposes the request surface: single-document generation,
// SEO analysis and interactive batch runs.
package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/fwojciec/seomate"
	"github.com/fwojciec/seomate/batch"
)

// DefaultExcerptLength is used when a request does not give a length.
const DefaultExcerptLength = 160

// ExcerptResponse is the outcome of GenerateExcerpt. An empty Excerpt means
// the document was too short to summarize.
type ExcerptResponse struct {
	Excerpt string         `json:"excerpt"`
	Length  int            `json:"length"`
	Source  seomate.Source `json:"source"`
}

// TagsResponse is the outcome of GenerateTags.
type TagsResponse struct {
	Tags []string `json:"tags"`
}

// Service implements the request surface over the generation components.
type Service struct {
	Documents seomate.DocumentService
	Excerpts  seomate.ExcerptGenerator
	Tags      seomate.TagGenerator
	Scorer    seomate.SEOScorer
	Analyses  seomate.AnalysisService
	Batches   *batch.Orchestrator

	// AIConfigured reports whether an AI gateway was constructed.
	AIConfigured bool

	// AIRequired makes operations unavailable without an AI gateway instead
	// of running heuristics only.
	AIRequired bool

	ExcerptLength int

	Logger *slog.Logger
}

// GenerateExcerpt summarizes a document and stores the excerpt.
func (s *Service) GenerateExcerpt(ctx context.Context, id string, length int) (*ExcerptResponse, error) {
	if err := validateID(id); err != nil {
		return nil, err
	}
	if length < 0 {
		return nil, seomate.Errorf(seomate.EINVALID, "excerpt length must not be negative")
	}
	if err := s.checkAI(); err != nil {
		return nil, err
	}

	doc, err := s.Documents.FindDocumentByID(ctx, id)
	if err != nil {
		return nil, err
	}

	res, err := s.excerpt(ctx, doc, length)
	if err != nil && seomate.ErrorCode(err) != seomate.ETOOSHORT {
		return nil, err
	}
	return &ExcerptResponse{Excerpt: res.Text, Length: res.Length, Source: res.Source}, nil
}

// GenerateTags derives tags for a document and stores them.
func (s *Service) GenerateTags(ctx context.Context, id string) (*TagsResponse, error) {
	if err := validateID(id); err != nil {
		return nil, err
	}
	if err := s.checkAI(); err != nil {
		return nil, err
	}

	doc, err := s.Documents.FindDocumentByID(ctx, id)
	if err != nil {
		return nil, err
	}

	tags, err := s.tags(ctx, doc)
	if err != nil && seomate.ErrorCode(err) != seomate.ETOOSHORT {
		return nil, err
	}
	if tags == nil {
		tags = []string{}
	}
	return &TagsResponse{Tags: tags}, nil
}

// AnalyzeSEO scores a document and stores the analysis record.
func (s *Service) AnalyzeSEO(ctx context.Context, id string) (*seomate.SEOAnalysisRecord, error) {
	if err := validateID(id); err != nil {
		return nil, err
	}
	if err := s.checkAI(); err != nil {
		return nil, err
	}

	doc, err := s.Documents.FindDocumentByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.analyze(ctx, doc)
}

// FindAnalysis returns the stored analysis record of a document.
func (s *Service) FindAnalysis(ctx context.Context, id string) (*seomate.SEOAnalysisRecord, error) {
	if err := validateID(id); err != nil {
		return nil, err
	}
	return s.Analyses.FindAnalysisByDocumentID(ctx, id)
}

// BatchGenerate runs an operation over stored documents within budget.
func (s *Service) BatchGenerate(ctx context.Context, operation string, budget time.Duration) (*seomate.BatchRunState, error) {
	if strings.TrimSpace(operation) == "" {
		return nil, seomate.Errorf(seomate.EINVALID, "batch operation required")
	}
	if budget <= 0 {
		return nil, seomate.Errorf(seomate.EINVALID, "batch budget must be positive")
	}
	if err := s.checkAI(); err != nil {
		return nil, err
	}
	return s.Batches.Run(ctx, operation, budget, false)
}

// Operations returns the batch operations backed by this service.
func (s *Service) Operations() []seomate.Operation {
	return []seomate.Operation{
		&ExcerptOperation{Service: s},
		&TagsOperation{Service: s},
		&SEOOperation{Service: s},
	}
}

// excerpt generates and stores an excerpt. Returns ETOOSHORT, with the
// empty result, when the body is too short; nothing is stored then.
func (s *Service) excerpt(ctx context.Context, doc *seomate.Document, length int) (seomate.GenerationResult, error) {
	if length == 0 {
		length = s.ExcerptLength
	}
	if length == 0 {
		length = DefaultExcerptLength
	}

	res := s.Excerpts.Generate(ctx, doc.Body, length)
	if res.Empty() {
		return res, seomate.Errorf(seomate.ETOOSHORT, "document %s is too short to summarize", doc.ID)
	}

	if _, err := s.Documents.UpdateDocument(ctx, doc.ID, seomate.DocumentUpdate{Excerpt: &res.Text}); err != nil {
		return res, fmt.Errorf("store excerpt: %w", err)
	}
	if err := s.Documents.SetDocumentFlag(ctx, doc.ID, seomate.FlagExcerptAI, res.Source == seomate.SourceAI); err != nil {
		return res, fmt.Errorf("store excerpt source: %w", err)
	}

	s.logger().Info("excerpt stored", "document", doc.ID, "source", res.Source, "length", res.Length)
	return res, nil
}

// tags generates and stores tags. Returns ETOOSHORT when the document has
// neither title nor text.
func (s *Service) tags(ctx context.Context, doc *seomate.Document) ([]string, error) {
	tags := s.Tags.Generate(ctx, doc.Title, doc.Body)
	if len(tags) == 0 {
		return nil, seomate.Errorf(seomate.ETOOSHORT, "document %s has no text to tag", doc.ID)
	}

	if _, err := s.Documents.UpdateDocument(ctx, doc.ID, seomate.DocumentUpdate{Tags: &tags}); err != nil {
		return nil, fmt.Errorf("store tags: %w", err)
	}
	if err := s.Documents.SetDocumentFlag(ctx, doc.ID, seomate.FlagTagsGenerated, true); err != nil {
		return nil, fmt.Errorf("store tags flag: %w", err)
	}

	s.logger().Info("tags stored", "document", doc.ID, "count", len(tags))
	return tags, nil
}

func (s *Service) analyze(ctx context.Context, doc *seomate.Document) (*seomate.SEOAnalysisRecord, error) {
	rec, err := s.Scorer.Score(ctx, doc)
	if err != nil {
		return nil, err
	}
	if err := s.Documents.SetDocumentFlag(ctx, doc.ID, seomate.FlagSEOAnalyzed, true); err != nil {
		return nil, fmt.Errorf("store analysis flag: %w", err)
	}
	return rec, nil
}

func (s *Service) checkAI() error {
	if s.AIRequired && !s.AIConfigured {
		return seomate.Errorf(seomate.EUNAVAILABLE, "AI service is not configured")
	}
	return nil
}

func (s *Service) logger() *slog.Logger {
	if s.Logger == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return s.Logger
}

func validateID(id string) error {
	if strings.TrimSpace(id) == "" {
		return seomate.Errorf(seomate.EINVALID, "document id required")
	}
	return nil
}
