package lock

import (
	"context"
	"errors"
	"time"

	"github.com/m04kA/SMC-ResourceBookingService/pkg/metrics"
)

// InstrumentedLocker считает неудачные попытки взятия блокировки
type InstrumentedLocker struct {
	inner   Locker
	metrics *metrics.Metrics
}

// NewInstrumentedLocker оборачивает locker сборщиком метрик
func NewInstrumentedLocker(inner Locker, m *metrics.Metrics) *InstrumentedLocker {
	return &InstrumentedLocker{inner: inner, metrics: m}
}

// Acquire берет блокировку через вложенный locker, фиксируя отказы
func (l *InstrumentedLocker) Acquire(ctx context.Context, key string, ttl time.Duration) (Handle, error) {
	handle, err := l.inner.Acquire(ctx, key, ttl)
	if err != nil {
		reason := "error"
		if errors.Is(err, ErrLockTimeout) {
			reason = "timeout"
		}
		l.metrics.IncLockFailure(reason)
	}
	return handle, err
}
