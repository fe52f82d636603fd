// Package slots генерирует кандидатов на бронирование из рабочих
// интервалов расписания с учетом существующих бронирований.
package slots

import (
	"context"
	"time"

	"github.com/m04kA/SMC-ResourceBookingService/internal/domain"
	"github.com/m04kA/SMC-ResourceBookingService/internal/timetable"
)

// BookingSource источник occupying-бронирований ресурса.
// Реализуется репозиторием бронирований.
type BookingSource interface {
	GetOccupyingInRange(ctx context.Context, resourceID int64, from, to time.Time) ([]*domain.Booking, error)
}

// Strategy produces an ordered, non-overlapping sequence of candidate slots.
// Результат не кэшируется: каждый вызов пересчитывает слоты заново, поэтому
// он детерминирован при неизменном состоянии хранилища.
type Strategy interface {
	NextSlots(ctx context.Context, tt timetable.Timetable, res *domain.Resource, from time.Time, count int, onlyFromDate bool) ([]domain.Slot, error)
}

// ForConfig выбирает стратегию по полю slot_strategy конфигурации ресурса
func ForConfig(cfg *domain.ResourceConfig, bookings BookingSource) Strategy {
	if cfg.SlotStrategy == domain.StrategyDynamic {
		return NewDynamic(bookings)
	}
	return NewFixed(bookings)
}

// overlapsAny reports whether [start, end) intersects any occupying booking
func overlapsAny(bookings []*domain.Booking, start, end time.Time) bool {
	for _, b := range bookings {
		if b.IsOccupying() && b.Overlaps(start, end) {
			return true
		}
	}
	return false
}
