// Package prometheus records metadata extraction metrics with the
// Prometheus client.
package prometheus

import (
	"context"
	"fmt"
	"time"

	"github.com/fwojciec/bookmarker"
	"github.com/prometheus/client_golang/prometheus"
)

// Extraction outcomes used as metric labels.
const (
	OutcomeHit   = "hit"
	OutcomeMiss  = "miss"
	OutcomeError = "error"
)

// Ensure MetadataService implements bookmarker.MetadataService.
var _ bookmarker.MetadataService = (*MetadataService)(nil)

// MetadataService wraps a MetadataService and counts requests by outcome:
// served from cache, freshly extracted, or failed.
type MetadataService struct {
	next bookmarker.MetadataService

	extractions *prometheus.CounterVec
	duration    *prometheus.HistogramVec
}

// NewMetadataService registers the collectors against reg. A nil reg uses
// the default registerer.
func NewMetadataService(next bookmarker.MetadataService, reg prometheus.Registerer) (*MetadataService, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	s := &MetadataService{
		next: next,
		extractions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "bookmarker_extractions_total",
			Help: "Metadata requests partitioned by outcome.",
		}, []string{"outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "bookmarker_extraction_duration_seconds",
			Help:    "Metadata request duration partitioned by outcome.",
			Buckets: []float64{0.005, 0.01, 0.05, 0.1, 0.5, 1, 2, 5, 10, 30, 60},
		}, []string{"outcome"}),
	}
	for _, collector := range []prometheus.Collector{s.extractions, s.duration} {
		if err := reg.Register(collector); err != nil {
			return nil, fmt.Errorf("register metadata collector: %w", err)
		}
	}
	return s, nil
}

// ExtractMetadata delegates to the wrapped service and records the outcome.
func (s *MetadataService) ExtractMetadata(ctx context.Context, url string) (*bookmarker.Result, error) {
	begin := time.Now()
	result, err := s.next.ExtractMetadata(ctx, url)

	outcome := OutcomeMiss
	switch {
	case err != nil:
		outcome = OutcomeError
	case result != nil && result.Cached:
		outcome = OutcomeHit
	}
	s.extractions.WithLabelValues(outcome).Inc()
	s.duration.WithLabelValues(outcome).Observe(time.Since(begin).Seconds())

	return result, err
}
