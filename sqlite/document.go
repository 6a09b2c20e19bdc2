package sqlite

import (
	"context"
	"database/sql"
	"encoding/hex"
	"errors"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/seomate"
	"github.com/google/uuid"
)

// Compile-time interface verification.
var _ seomate.DocumentService = (*DocumentService)(nil)

var documentColumns = []string{
	"id", "title", "body", "excerpt", "tags", "status", "source_url", "created_at", "updated_at",
}

// DocumentService implements seomate.DocumentService using SQLite.
type DocumentService struct {
	db *DB

	// Now returns the current time; defaults to time.Now.
	Now func() time.Time
}

// NewDocumentService creates a new DocumentService.
func NewDocumentService(db *DB) *DocumentService {
	return &DocumentService{db: db, Now: time.Now}
}

// hashContent computes xxHash of content and returns hex string.
func hashContent(content string) string {
	h := xxhash.Sum64String(content)
	b := make([]byte, 8)
	for i := range b {
		b[i] = byte(h >> (56 - 8*i))
	}
	return hex.EncodeToString(b)
}

// CreateDocument creates a new document. A missing ID is generated and a
// zero CreatedAt is set to the current time.
func (s *DocumentService) CreateDocument(ctx context.Context, doc *seomate.Document) error {
	if err := doc.Validate(); err != nil {
		return err
	}

	if doc.ID == "" {
		doc.ID = uuid.New().String()
	}
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = s.now()
	}
	doc.CreatedAt = doc.CreatedAt.UTC()
	doc.UpdatedAt = doc.CreatedAt
	if doc.Status == "" {
		doc.Status = seomate.StatusDraft
	}
	if doc.Tags == nil {
		doc.Tags = []string{}
	}

	tags, err := encodeJSON(doc.Tags, "tags")
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO documents (id, title, body, excerpt, tags, status, source_url, content_hash, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, doc.ID, doc.Title, doc.Body, doc.Excerpt, tags, string(doc.Status), doc.SourceURL,
		hashContent(doc.Body), formatTime(doc.CreatedAt), formatTime(doc.UpdatedAt))

	return err
}

// FindDocumentByID retrieves a document by ID.
func (s *DocumentService) FindDocumentByID(ctx context.Context, id string) (*seomate.Document, error) {
	query, args, err := sq.Select(documentColumns...).From("documents").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, err
	}

	doc, err := scanDocument(s.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, seomate.Errorf(seomate.ENOTFOUND, "document not found")
	}
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// FindDocuments retrieves documents matching the filter. Results are newest
// first unless the filter asks for oldest first; ties are broken by id.
func (s *DocumentService) FindDocuments(ctx context.Context, filter seomate.DocumentFilter) ([]*seomate.Document, error) {
	q := sq.Select(documentColumns...).From("documents")

	if filter.ID != nil {
		q = q.Where(sq.Eq{"id": *filter.ID})
	}
	if filter.Status != nil {
		q = q.Where(sq.Eq{"status": string(*filter.Status)})
	}
	if filter.SourceURL != nil {
		q = q.Where(sq.Eq{"source_url": *filter.SourceURL})
	}
	if filter.MissingExcerpt {
		q = q.Where(sq.Expr("trim(excerpt) = ''"))
	}

	switch filter.SortBy {
	case seomate.SortOldestFirst:
		q = q.OrderBy("created_at ASC", "id ASC")
	default:
		q = q.OrderBy("created_at DESC", "id DESC")
	}

	switch {
	case filter.Limit > 0:
		q = q.Limit(uint64(filter.Limit))
		if filter.Offset > 0 {
			q = q.Offset(uint64(filter.Offset))
		}
	case filter.Offset > 0:
		// SQLite requires a LIMIT before OFFSET.
		q = q.Suffix("LIMIT -1 OFFSET ?", filter.Offset)
	}

	query, args, err := q.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var docs []*seomate.Document
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}

	return docs, rows.Err()
}

// UpdateDocument applies a partial update to an existing document.
func (s *DocumentService) UpdateDocument(ctx context.Context, id string, upd seomate.DocumentUpdate) (*seomate.Document, error) {
	doc, err := s.FindDocumentByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if upd.Title != nil {
		doc.Title = *upd.Title
	}
	if upd.Body != nil {
		doc.Body = *upd.Body
	}
	if upd.Excerpt != nil {
		doc.Excerpt = *upd.Excerpt
	}
	if upd.Tags != nil {
		doc.Tags = *upd.Tags
	}
	if upd.Status != nil {
		doc.Status = *upd.Status
	}
	doc.UpdatedAt = s.now().UTC()

	if err := doc.Validate(); err != nil {
		return nil, err
	}

	if doc.Tags == nil {
		doc.Tags = []string{}
	}
	tags, err := encodeJSON(doc.Tags, "tags")
	if err != nil {
		return nil, err
	}

	query, args, err := sq.Update("documents").SetMap(map[string]any{
		"title":        doc.Title,
		"body":         doc.Body,
		"excerpt":      doc.Excerpt,
		"tags":         tags,
		"status":       string(doc.Status),
		"content_hash": hashContent(doc.Body),
		"updated_at":   formatTime(doc.UpdatedAt),
	}).Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, err
	}

	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return nil, err
	}

	return doc, nil
}

// DocumentFlag returns a named flag; unset flags are false.
func (s *DocumentService) DocumentFlag(ctx context.Context, id, name string) (bool, error) {
	var value int
	err := s.db.QueryRowContext(ctx, `
		SELECT value FROM document_flags WHERE document_id = ? AND name = ?
	`, id, name).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	return value != 0, err
}

// SetDocumentFlag stores a named flag.
// Returns ENOTFOUND if the document does not exist.
func (s *DocumentService) SetDocumentFlag(ctx context.Context, id, name string, value bool) error {
	if _, err := s.FindDocumentByID(ctx, id); err != nil {
		return err
	}

	v := 0
	if value {
		v = 1
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO document_flags (document_id, name, value) VALUES (?, ?, ?)
		ON CONFLICT (document_id, name) DO UPDATE SET value = excluded.value
	`, id, name, v)
	return err
}

// DeleteDocument permanently removes a document and its flags.
func (s *DocumentService) DeleteDocument(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM documents WHERE id = ?", id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return seomate.Errorf(seomate.ENOTFOUND, "document not found")
	}

	return nil
}

func (s *DocumentService) now() time.Time {
	if s.Now == nil {
		return time.Now()
	}
	return s.Now()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanDocument(row scanner) (*seomate.Document, error) {
	var (
		doc                  seomate.Document
		tags, status         string
		createdAt, updatedAt string
	)
	if err := row.Scan(&doc.ID, &doc.Title, &doc.Body, &doc.Excerpt, &tags, &status,
		&doc.SourceURL, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	doc.Status = seomate.DocumentStatus(status)

	if err := decodeJSON(tags, "tags", &doc.Tags); err != nil {
		return nil, err
	}

	var err error
	if doc.CreatedAt, err = parseTime(createdAt, "created_at"); err != nil {
		return nil, err
	}
	if doc.UpdatedAt, err = parseTime(updatedAt, "updated_at"); err != nil {
		return nil, err
	}
	return &doc, nil
}
