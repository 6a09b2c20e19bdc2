package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/fwojciec/seomate"
)

var _ seomate.AnalysisService = (*AnalysisService)(nil)

// AnalysisService implements seomate.AnalysisService using SQLite. One row
// is kept per document.
type AnalysisService struct {
	db *DB
}

// NewAnalysisService creates a new AnalysisService.
func NewAnalysisService(db *DB) *AnalysisService {
	return &AnalysisService{db: db}
}

// SaveAnalysis stores rec, replacing any earlier record for the document.
func (s *AnalysisService) SaveAnalysis(ctx context.Context, rec *seomate.SEOAnalysisRecord) error {
	if rec == nil || rec.DocumentID == "" {
		return seomate.Errorf(seomate.EINVALID, "analysis document id required")
	}

	subScores, err := encodeJSON(rec.SubScores, "sub_scores")
	if err != nil {
		return err
	}

	var parsed sql.NullString
	if rec.ParsedAnalysis != nil {
		v, err := encodeJSON(rec.ParsedAnalysis, "parsed_analysis")
		if err != nil {
			return err
		}
		parsed = sql.NullString{String: v, Valid: true}
	}

	var raw sql.NullString
	if rec.RawAIAnalysis != nil {
		raw = sql.NullString{String: *rec.RawAIAnalysis, Valid: true}
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO analyses (document_id, overall_score, sub_scores, raw_ai_analysis, parsed_analysis, computed_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (document_id) DO UPDATE SET
			overall_score = excluded.overall_score,
			sub_scores = excluded.sub_scores,
			raw_ai_analysis = excluded.raw_ai_analysis,
			parsed_analysis = excluded.parsed_analysis,
			computed_at = excluded.computed_at
	`, rec.DocumentID, rec.OverallScore, subScores, raw, parsed, formatTime(rec.ComputedAt))
	return err
}

// FindAnalysisByDocumentID returns the stored record for a document.
func (s *AnalysisService) FindAnalysisByDocumentID(ctx context.Context, documentID string) (*seomate.SEOAnalysisRecord, error) {
	var (
		rec         seomate.SEOAnalysisRecord
		subScores   string
		raw, parsed sql.NullString
		computedAt  string
	)

	err := s.db.QueryRowContext(ctx, `
		SELECT document_id, overall_score, sub_scores, raw_ai_analysis, parsed_analysis, computed_at
		FROM analyses
		WHERE document_id = ?
	`, documentID).Scan(&rec.DocumentID, &rec.OverallScore, &subScores, &raw, &parsed, &computedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, seomate.Errorf(seomate.ENOTFOUND, "analysis not found")
	}
	if err != nil {
		return nil, err
	}

	if err := decodeJSON(subScores, "sub_scores", &rec.SubScores); err != nil {
		return nil, err
	}
	if raw.Valid {
		rec.RawAIAnalysis = &raw.String
	}
	if parsed.Valid {
		rec.ParsedAnalysis = &seomate.StructuredAnalysis{}
		if err := decodeJSON(parsed.String, "parsed_analysis", rec.ParsedAnalysis); err != nil {
			return nil, err
		}
	}
	if rec.ComputedAt, err = parseTime(computedAt, "computed_at"); err != nil {
		return nil, err
	}
	return &rec, nil
}
