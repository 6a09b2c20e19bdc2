package seomate

import (
	"context"
	"encoding/json"
	"strings"
	"time"
)

// ExtractionState classifies how much structure the parser recovered.
type ExtractionState string

// ExtractionState constants.
const (
	ExtractionComplete ExtractionState = "complete"
	ExtractionPartial  ExtractionState = "partial"
	ExtractionFailed   ExtractionState = "failed"
)

// Top-level fields of the AI analysis schema.
const (
	FieldKeywords        = "keywords"
	FieldScore           = "score"
	FieldAnalysis        = "analysis"
	FieldRecommendations = "recommendations"
)

// DefaultAnalysisFields is the expected top-level field set of the AI
// analysis schema.
var DefaultAnalysisFields = []string{FieldKeywords, FieldScore, FieldAnalysis, FieldRecommendations}

// Sub-score names computed by the SEO scorer.
const (
	ScoreTitle       = "title"
	ScoreContent     = "content"
	ScoreKeywords    = "keywords"
	ScoreReadability = "readability"
)

// Recommendation is a single improvement suggestion from the AI analysis.
type Recommendation struct {
	Type     string `json:"type,omitempty"`
	Priority string `json:"priority,omitempty"`
	Message  string `json:"message"`
}

// UnmarshalJSON accepts either a bare string or an object. Objects may carry
// the text under "message", "text", "recommendation" or "description".
func (r *Recommendation) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*r = Recommendation{Message: strings.TrimSpace(s)}
		return nil
	}

	var obj map[string]any
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}

	rec := Recommendation{
		Type:     stringField(obj, "type", "category"),
		Priority: stringField(obj, "priority", "severity"),
		Message:  stringField(obj, "message", "text", "recommendation", "description"),
	}
	*r = rec
	return nil
}

func stringField(obj map[string]any, keys ...string) string {
	for _, k := range keys {
		if v, ok := obj[k].(string); ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}

// StructuredAnalysis is the parsed form of an AI analysis reply.
type StructuredAnalysis struct {
	Keywords        []string          `json:"keywords,omitempty"`
	Scores          map[string]int    `json:"score,omitempty"`
	Analysis        map[string]string `json:"analysis,omitempty"`
	Recommendations []Recommendation  `json:"recommendations,omitempty"`

	ExtractionState ExtractionState `json:"extractionState"`

	// Recovered lists the expected fields that were found.
	Recovered []string `json:"recovered,omitempty"`

	// Note describes partial or failed extraction.
	Note string `json:"note,omitempty"`

	// RawPreview holds the head of the raw text when extraction failed.
	RawPreview string `json:"rawPreview,omitempty"`
}

// SEOAnalysisRecord is the persisted result of one analysis run. A newer
// record for the same document replaces the older one.
type SEOAnalysisRecord struct {
	DocumentID     string              `json:"documentId"`
	OverallScore   int                 `json:"overallScore"`
	SubScores      map[string]int      `json:"subScores"`
	RawAIAnalysis  *string             `json:"rawAiAnalysis,omitempty"`
	ParsedAnalysis *StructuredAnalysis `json:"parsedAnalysis,omitempty"`
	ComputedAt     time.Time           `json:"computedAt"`
}

// AnalysisService persists SEO analysis records keyed by document ID.
type AnalysisService interface {
	// SaveAnalysis stores rec, overwriting any prior record for the document.
	SaveAnalysis(ctx context.Context, rec *SEOAnalysisRecord) error

	// FindAnalysisByDocumentID returns the latest record.
	// Returns ENOTFOUND if the document was never analyzed.
	FindAnalysisByDocumentID(ctx context.Context, documentID string) (*SEOAnalysisRecord, error)
}

// SEOScorer computes an analysis record for a document.
type SEOScorer interface {
	Score(ctx context.Context, doc *Document) (*SEOAnalysisRecord, error)
}

// ResponseParser recovers a StructuredAnalysis from raw AI text. It never
// fails; the outcome is reported through ExtractionState.
type ResponseParser interface {
	Parse(raw string, expected []string) *StructuredAnalysis
}
