package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/bookmarker"
)

// Ensure LoggingMetadataService implements bookmarker.MetadataService.
var _ bookmarker.MetadataService = (*LoggingMetadataService)(nil)

// LoggingMetadataService wraps a MetadataService with logging.
type LoggingMetadataService struct {
	next   bookmarker.MetadataService
	logger *slog.Logger
}

// NewLoggingMetadataService creates a new LoggingMetadataService.
func NewLoggingMetadataService(next bookmarker.MetadataService, logger *slog.Logger) *LoggingMetadataService {
	return &LoggingMetadataService{next: next, logger: logger}
}

// ExtractMetadata logs the request outcome and delegates to the wrapped service.
// Internal errors are logged at error level; rejected input and pages that
// could not be extracted at warn level.
func (s *LoggingMetadataService) ExtractMetadata(ctx context.Context, url string) (result *bookmarker.Result, err error) {
	defer func(begin time.Time) {
		if err != nil {
			code := bookmarker.ErrorCode(err)
			level := slog.LevelError
			if code == bookmarker.EINVALID || bookmarker.IsExtractionFailure(err) {
				level = slog.LevelWarn
			}
			s.logger.Log(ctx, level, "extract metadata",
				"url", url,
				"code", code,
				"duration", time.Since(begin),
				"err", err,
			)
			return
		}
		attrs := []any{"url", url, "duration", time.Since(begin)}
		if result != nil {
			attrs = append(attrs, "cached", result.Cached)
			if result.Metadata != nil {
				attrs = append(attrs, "title", result.Metadata.Title)
			}
		}
		s.logger.Info("extract metadata", attrs...)
	}(time.Now())
	return s.next.ExtractMetadata(ctx, url)
}
