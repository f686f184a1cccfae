package mock

import (
	"context"

	"github.com/fwojciec/bookmarker"
)

var _ bookmarker.Extractor = (*Extractor)(nil)

// Extractor is a mock implementation of bookmarker.Extractor.
type Extractor struct {
	ExtractFn func(ctx context.Context, html string, pageURL string) (*bookmarker.Metadata, error)
}

func (e *Extractor) Extract(ctx context.Context, html string, pageURL string) (*bookmarker.Metadata, error) {
	return e.ExtractFn(ctx, html, pageURL)
}
