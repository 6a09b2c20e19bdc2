package service

import (
	"context"

	"github.com/fwojciec/seomate"
)

var (
	_ seomate.Operation = (*ExcerptOperation)(nil)
	_ seomate.Operation = (*TagsOperation)(nil)
	_ seomate.Operation = (*SEOOperation)(nil)
)

// ExcerptOperation fills in missing excerpts.
type ExcerptOperation struct {
	Service *Service
	Length  int
}

func (o *ExcerptOperation) Name() string { return seomate.OperationExcerpt }

func (o *ExcerptOperation) Complete(_ context.Context, doc *seomate.Document) (bool, error) {
	return doc.HasExcerpt(), nil
}

func (o *ExcerptOperation) Process(ctx context.Context, doc *seomate.Document) error {
	_, err := o.Service.excerpt(ctx, doc, o.Length)
	return err
}

// TagsOperation tags documents that were never tagged.
type TagsOperation struct {
	Service *Service
}

func (o *TagsOperation) Name() string { return seomate.OperationTags }

func (o *TagsOperation) Complete(ctx context.Context, doc *seomate.Document) (bool, error) {
	return o.Service.Documents.DocumentFlag(ctx, doc.ID, seomate.FlagTagsGenerated)
}

func (o *TagsOperation) Process(ctx context.Context, doc *seomate.Document) error {
	_, err := o.Service.tags(ctx, doc)
	return err
}

// SEOOperation analyzes documents that were never analyzed.
type SEOOperation struct {
	Service *Service
}

func (o *SEOOperation) Name() string { return seomate.OperationSEO }

func (o *SEOOperation) Complete(ctx context.Context, doc *seomate.Document) (bool, error) {
	return o.Service.Documents.DocumentFlag(ctx, doc.ID, seomate.FlagSEOAnalyzed)
}

func (o *SEOOperation) Process(ctx context.Context, doc *seomate.Document) error {
	_, err := o.Service.analyze(ctx, doc)
	return err
}
