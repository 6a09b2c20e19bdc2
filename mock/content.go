package mock

import (
	"context"

	"github.com/fwojciec/seomate"
)

var (
	_ seomate.Normalizer       = (*Normalizer)(nil)
	_ seomate.ContentInspector = (*ContentInspector)(nil)
	_ seomate.Operation        = (*Operation)(nil)
)

// Normalizer is a mock implementation of seomate.Normalizer.
type Normalizer struct {
	NormalizeFn  func(body string) string
	ParagraphsFn func(body string) string
	UsableFn     func(text string) bool
}

func (n *Normalizer) Normalize(body string) string {
	return n.NormalizeFn(body)
}

func (n *Normalizer) Paragraphs(body string) string {
	return n.ParagraphsFn(body)
}

func (n *Normalizer) Usable(text string) bool {
	return n.UsableFn(text)
}

// ContentInspector is a mock implementation of seomate.ContentInspector.
type ContentInspector struct {
	InspectFn func(body string) seomate.ContentMetrics
}

func (i *ContentInspector) Inspect(body string) seomate.ContentMetrics {
	return i.InspectFn(body)
}

// Operation is a mock implementation of seomate.Operation.
type Operation struct {
	NameFn     func() string
	CompleteFn func(ctx context.Context, doc *seomate.Document) (bool, error)
	ProcessFn  func(ctx context.Context, doc *seomate.Document) error
}

func (o *Operation) Name() string {
	return o.NameFn()
}

func (o *Operation) Complete(ctx context.Context, doc *seomate.Document) (bool, error) {
	return o.CompleteFn(ctx, doc)
}

func (o *Operation) Process(ctx context.Context, doc *seomate.Document) error {
	return o.ProcessFn(ctx, doc)
}
