package events

import (
	"context"

	"github.com/m04kA/SMC-ResourceBookingService/internal/domain"
)

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
}

// LogSink пишет каждое событие в журнал сервиса
type LogSink struct {
	logger Logger
}

// NewLogSink создает журнальный приемник событий
func NewLogSink(logger Logger) *LogSink {
	return &LogSink{logger: logger}
}

// Publish логирует событие
func (s *LogSink) Publish(_ context.Context, kind domain.EventKind, booking *domain.Booking, extra map[string]string) {
	if len(extra) > 0 {
		s.logger.Info("[BookingEvent] %s: booking id=%d resource=%d status=%s extra=%v",
			kind, booking.ID, booking.ResourceID, booking.Status, extra)
		return
	}
	s.logger.Info("[BookingEvent] %s: booking id=%d resource=%d status=%s",
		kind, booking.ID, booking.ResourceID, booking.Status)
}
