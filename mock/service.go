package mock

import (
	"context"

	"github.com/fwojciec/bookmarker"
)

var _ bookmarker.MetadataService = (*MetadataService)(nil)

// MetadataService is a mock implementation of bookmarker.MetadataService.
type MetadataService struct {
	ExtractMetadataFn func(ctx context.Context, url string) (*bookmarker.Result, error)
}

func (s *MetadataService) ExtractMetadata(ctx context.Context, url string) (*bookmarker.Result, error) {
	return s.ExtractMetadataFn(ctx, url)
}
