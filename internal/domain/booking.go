package domain

import "time"

// BookingStatus represents the status of a booking
type BookingStatus string

const (
	StatusPendingConfirmation BookingStatus = "pending_confirmation"
	StatusConfirmed           BookingStatus = "confirmed"
	StatusAwaitingPayment     BookingStatus = "awaiting_payment"
	StatusRejected            BookingStatus = "rejected"
	StatusCancelledByClient   BookingStatus = "cancelled_by_client"
	StatusCancelledByAdmin    BookingStatus = "cancelled_by_admin"
)

// Booking represents a reserved time range on a resource
type Booking struct {
	ID             int64
	CompanyID      int64
	ResourceID     int64
	TimetableID    *int64
	UserID         int64
	Start          time.Time
	End            time.Time
	Status         BookingStatus
	IsGroupBooking bool
	// ParticipantsCount сколько мест занимает бронирование (>= 1)
	ParticipantsCount int
	Reason            *string
	Notes             *string

	CancelledAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// IsOccupying returns true if the booking counts toward overlap and capacity checks
func (b *Booking) IsOccupying() bool {
	return IsOccupyingStatus(b.Status)
}

// IsTerminal returns true if no further transition is possible
func (b *Booking) IsTerminal() bool {
	return b.Status == StatusRejected ||
		b.Status == StatusCancelledByClient ||
		b.Status == StatusCancelledByAdmin
}

// CanBeCancelled returns true if the booking can be cancelled
func (b *Booking) CanBeCancelled() bool {
	return b.IsOccupying()
}

// CanBeConfirmed returns true if the booking awaits confirmation
func (b *Booking) CanBeConfirmed() bool {
	return b.Status == StatusPendingConfirmation
}

// Overlaps reports whether the booking interval intersects [start, end).
// Intervals are half-open: bookings that touch at a boundary do not overlap.
func (b *Booking) Overlaps(start, end time.Time) bool {
	return b.Start.Before(end) && b.End.After(start)
}

// IsOccupyingStatus returns true for statuses that count toward overlap/capacity
func IsOccupyingStatus(s BookingStatus) bool {
	for _, occ := range OccupyingStatuses {
		if s == occ {
			return true
		}
	}
	return false
}

// CountOverlapping подсчитывает occupying-бронирования, пересекающиеся с
// интервалом [start, end), и суммарное число участников в них.
// excludeID исключает бронирование из подсчета (для reschedule); 0 — не исключать.
func CountOverlapping(bookings []*Booking, start, end time.Time, excludeID int64) (bookingsCount, participantsSum int) {
	for _, b := range bookings {
		if excludeID != 0 && b.ID == excludeID {
			continue
		}
		if !b.IsOccupying() {
			continue
		}
		if !b.Overlaps(start, end) {
			continue
		}
		bookingsCount++
		participantsSum += b.ParticipantsCount
	}
	return bookingsCount, participantsSum
}

// IsRangeAvailable проверяет доступность интервала [start, end):
// без лимита участников — ни одного пересекающегося occupying-бронирования;
// с лимитом — сумма участников плюс additionalParticipants не превышает лимит.
func IsRangeAvailable(cfg *ResourceConfig, bookings []*Booking, start, end time.Time, additionalParticipants int, excludeID int64) bool {
	count, sum := CountOverlapping(bookings, start, end, excludeID)
	if cfg.IsExclusive() {
		return count == 0
	}
	return sum+additionalParticipants <= *cfg.MaxParticipants
}

// ResourceBookingsFilter фильтр для получения бронирований ресурса
type ResourceBookingsFilter struct {
	ResourceID      int64      // Обязательный параметр
	From            *time.Time // Начало периода (опционально)
	To              *time.Time // Конец периода (опционально)
	Status          *BookingStatus
	IncludeInactive bool // Включать ли терминальные бронирования
}
