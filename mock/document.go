package mock

import (
	"context"

	"github.com/fwojciec/seomate"
)

var _ seomate.DocumentService = (*DocumentService)(nil)

// DocumentService is a mock implementation of seomate.DocumentService.
type DocumentService struct {
	CreateDocumentFn   func(ctx context.Context, doc *seomate.Document) error
	FindDocumentByIDFn func(ctx context.Context, id string) (*seomate.Document, error)
	FindDocumentsFn    func(ctx context.Context, filter seomate.DocumentFilter) ([]*seomate.Document, error)
	UpdateDocumentFn   func(ctx context.Context, id string, upd seomate.DocumentUpdate) (*seomate.Document, error)
	DocumentFlagFn     func(ctx context.Context, id, name string) (bool, error)
	SetDocumentFlagFn  func(ctx context.Context, id, name string, value bool) error
}

func (s *DocumentService) CreateDocument(ctx context.Context, doc *seomate.Document) error {
	return s.CreateDocumentFn(ctx, doc)
}

func (s *DocumentService) FindDocumentByID(ctx context.Context, id string) (*seomate.Document, error) {
	return s.FindDocumentByIDFn(ctx, id)
}

func (s *DocumentService) FindDocuments(ctx context.Context, filter seomate.DocumentFilter) ([]*seomate.Document, error) {
	return s.FindDocumentsFn(ctx, filter)
}

func (s *DocumentService) UpdateDocument(ctx context.Context, id string, upd seomate.DocumentUpdate) (*seomate.Document, error) {
	return s.UpdateDocumentFn(ctx, id, upd)
}

func (s *DocumentService) DocumentFlag(ctx context.Context, id, name string) (bool, error) {
	return s.DocumentFlagFn(ctx, id, name)
}

func (s *DocumentService) SetDocumentFlag(ctx context.Context, id, name string, value bool) error {
	return s.SetDocumentFlagFn(ctx, id, name, value)
}
