package mock

import "github.com/fwojciec/seomate"

var _ seomate.Extractor = (*Extractor)(nil)

// Extractor is a mock implementation of seomate.Extractor.
type Extractor struct {
	ExtractFn func(html string) (*seomate.ExtractResult, error)
}

func (e *Extractor) Extract(html string) (*seomate.ExtractResult, error) {
	return e.ExtractFn(html)
}
