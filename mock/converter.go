package mock

import "github.com/fwojciec/bookmarker"

var _ bookmarker.Converter = (*Converter)(nil)

// Converter is a mock implementation of bookmarker.Converter.
type Converter struct {
	ConvertFn func(html string) (string, error)
}

func (c *Converter) Convert(html string) (string, error) {
	return c.ConvertFn(html)
}
