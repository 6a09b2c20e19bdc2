package seomate

import (
	"context"
	"strings"
	"time"
)

// DocumentStatus is the publication state of a document in the host store.
type DocumentStatus string

// DocumentStatus constants.
const (
	StatusDraft     DocumentStatus = "draft"
	StatusPending   DocumentStatus = "pending"
	StatusPublished DocumentStatus = "published"
	StatusPrivate   DocumentStatus = "private"
)

// Document flag names written by the pipeline.
const (
	FlagExcerptAI     = "excerpt_ai"
	FlagTagsGenerated = "tags_generated"
	FlagSEOAnalyzed   = "seo_analyzed"
)

// Document represents an article owned by the document store. The pipeline
// only reads it and proposes updates.
type Document struct {
	ID        string         `json:"id"`
	Title     string         `json:"title"`
	Body      string         `json:"body"`
	Excerpt   string         `json:"excerpt"`
	Tags      []string       `json:"tags"`
	Status    DocumentStatus `json:"status"`
	SourceURL string         `json:"sourceUrl"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
}

// Validate returns an error if the document contains invalid fields.
func (d *Document) Validate() error {
	if d.Title == "" && d.Body == "" {
		return Errorf(EINVALID, "document title or body required")
	}
	switch d.Status {
	case "", StatusDraft, StatusPending, StatusPublished, StatusPrivate:
	default:
		return Errorf(EINVALID, "unknown document status %q", d.Status)
	}
	return nil
}

// HasExcerpt reports whether the document already carries a non-blank excerpt.
func (d *Document) HasExcerpt() bool {
	return strings.TrimSpace(d.Excerpt) != ""
}

// DocumentService represents a service for reading and updating documents.
type DocumentService interface {
	// CreateDocument creates a new document. Used by importers only; the
	// generation pipeline never creates documents.
	CreateDocument(ctx context.Context, doc *Document) error

	// FindDocumentByID retrieves a document by ID.
	// Returns ENOTFOUND if document does not exist.
	FindDocumentByID(ctx context.Context, id string) (*Document, error)

	// FindDocuments retrieves documents matching the filter.
	FindDocuments(ctx context.Context, filter DocumentFilter) ([]*Document, error)

	// UpdateDocument applies a partial update.
	// Returns ENOTFOUND if document does not exist.
	UpdateDocument(ctx context.Context, id string, upd DocumentUpdate) (*Document, error)

	// DocumentFlag returns a named boolean flag; unset flags are false.
	DocumentFlag(ctx context.Context, id, name string) (bool, error)

	// SetDocumentFlag stores a named boolean flag.
	SetDocumentFlag(ctx context.Context, id, name string, value bool) error
}

// SortOrder represents the sort order for document queries.
type SortOrder string

// SortOrder constants for DocumentFilter.
const (
	SortOldestFirst SortOrder = "oldest"
	SortNewestFirst SortOrder = "newest"
)

// DocumentFilter represents a filter for FindDocuments.
type DocumentFilter struct {
	ID     *string         `json:"id"`
	Status *DocumentStatus `json:"status"`

	SourceURL *string `json:"sourceUrl"`

	// MissingExcerpt restricts results to documents with an empty excerpt.
	MissingExcerpt bool `json:"missingExcerpt"`

	Offset int `json:"offset"`
	Limit  int `json:"limit"`

	SortBy SortOrder `json:"sortBy"`
}

// DocumentUpdate represents fields that can be updated on a document.
type DocumentUpdate struct {
	Title   *string         `json:"title"`
	Body    *string         `json:"body"`
	Excerpt *string         `json:"excerpt"`
	Tags    *[]string       `json:"tags"`
	Status  *DocumentStatus `json:"status"`
}
