package events

import (
	"context"

	"github.com/m04kA/SMC-ResourceBookingService/internal/domain"
	"github.com/m04kA/SMC-ResourceBookingService/pkg/metrics"
)

// MetricsSink считает опубликованные события по видам.
// Подключается в Fanout рядом с основным приемником.
type MetricsSink struct {
	metrics *metrics.Metrics
}

// NewMetricsSink создает sink-счетчик событий
func NewMetricsSink(m *metrics.Metrics) *MetricsSink {
	return &MetricsSink{metrics: m}
}

func (s *MetricsSink) Publish(_ context.Context, kind domain.EventKind, _ *domain.Booking, _ map[string]string) {
	s.metrics.IncBookingEvent(string(kind))
}
