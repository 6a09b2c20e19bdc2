package mock

import "github.com/fwojciec/seomate"

var _ seomate.Converter = (*Converter)(nil)

// Converter is a mock implementation of seomate.Converter.
type Converter struct {
	ConvertFn func(input string) (string, error)
}

func (c *Converter) Convert(input string) (string, error) {
	return c.ConvertFn(input)
}
