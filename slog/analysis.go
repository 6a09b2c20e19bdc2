package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/seomate"
)

// Ensure LoggingAnalysisService implements seomate.AnalysisService.
var _ seomate.AnalysisService = (*LoggingAnalysisService)(nil)

// LoggingAnalysisService wraps an AnalysisService with logging of writes.
type LoggingAnalysisService struct {
	next   seomate.AnalysisService
	logger *slog.Logger
}

// NewLoggingAnalysisService creates a new LoggingAnalysisService.
func NewLoggingAnalysisService(next seomate.AnalysisService, logger *slog.Logger) *LoggingAnalysisService {
	return &LoggingAnalysisService{next: next, logger: logger}
}

// SaveAnalysis delegates to the wrapped service and logs the operation.
func (s *LoggingAnalysisService) SaveAnalysis(ctx context.Context, rec *seomate.SEOAnalysisRecord) (err error) {
	defer func(begin time.Time) {
		attrs := []any{
			"document", rec.DocumentID,
			"overall", rec.OverallScore,
			"duration", time.Since(begin),
			"err", err,
		}
		if rec.ParsedAnalysis != nil {
			attrs = append(attrs, "extraction", rec.ParsedAnalysis.ExtractionState)
		}
		s.logger.Info("analysis saved", attrs...)
	}(time.Now())
	return s.next.SaveAnalysis(ctx, rec)
}

// FindAnalysisByDocumentID delegates to the wrapped service.
func (s *LoggingAnalysisService) FindAnalysisByDocumentID(ctx context.Context, documentID string) (*seomate.SEOAnalysisRecord, error) {
	return s.next.FindAnalysisByDocumentID(ctx, documentID)
}
