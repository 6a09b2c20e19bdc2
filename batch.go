package seomate

import (
	"context"
	"time"
)

// Operation names understood by the batch orchestrator.
const (
	OperationExcerpt = "excerpt"
	OperationTags    = "tags"
	OperationSEO     = "seo"
)

// BatchRunState tracks one batch run. Only the consecutive failure counter
// outlives the run.
type BatchRunState struct {
	Operation string    `json:"operation"`
	Total     int       `json:"total"`
	Processed int       `json:"processed"`
	Success   int       `json:"success"`
	Error     int       `json:"error"`
	Skipped   int       `json:"skipped"`
	StartedAt time.Time `json:"startedAt"`
	Deadline  time.Time `json:"deadline"`

	// DeadlineReached is set when the run stopped early on its deadline.
	DeadlineReached bool `json:"deadlineReached"`
}

// Operation is one unit of batch work applied to a document.
type Operation interface {
	// Name identifies the operation inside the registry.
	Name() string

	// Complete reports whether doc already satisfies the operation, in
	// which case the batch skips it.
	Complete(ctx context.Context, doc *Document) (bool, error)

	// Process applies the operation to doc and persists the outcome.
	// Returns ETOOSHORT when the content is too short to work on.
	Process(ctx context.Context, doc *Document) error
}
