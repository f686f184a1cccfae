package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/bookmarker"
)

// Ensure LoggingExtractor implements bookmarker.Extractor.
var _ bookmarker.Extractor = (*LoggingExtractor)(nil)

// LoggingExtractor wraps an Extractor with logging.
type LoggingExtractor struct {
	next   bookmarker.Extractor
	logger *slog.Logger
}

// NewLoggingExtractor creates a new LoggingExtractor.
func NewLoggingExtractor(next bookmarker.Extractor, logger *slog.Logger) *LoggingExtractor {
	return &LoggingExtractor{next: next, logger: logger}
}

// Extract logs the page being extracted and delegates to the wrapped extractor.
func (e *LoggingExtractor) Extract(ctx context.Context, html string, pageURL string) (m *bookmarker.Metadata, err error) {
	defer func(begin time.Time) {
		attrs := []any{
			"url", pageURL,
			"bytes", len(html),
			"duration", time.Since(begin),
		}
		if m != nil {
			attrs = append(attrs, "title", m.Title, "tags", len(m.Tags))
		}
		if err != nil {
			attrs = append(attrs, "code", bookmarker.ErrorCode(err), "err", err)
		}
		e.logger.Info("extract", attrs...)
	}(time.Now())
	return e.next.Extract(ctx, html, pageURL)
}
