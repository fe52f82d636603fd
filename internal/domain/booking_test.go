package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/m04kA/SMC-ResourceBookingService/pkg/ptr"
)

func at(hour, minute int) time.Time {
	return time.Date(2026, 3, 2, hour, minute, 0, 0, time.UTC)
}

func TestBooking_Overlaps(t *testing.T) {
	b := &Booking{Start: at(10, 0), End: at(11, 0)}

	tests := []struct {
		name  string
		start time.Time
		end   time.Time
		want  bool
	}{
		{"inside", at(10, 15), at(10, 45), true},
		{"covers", at(9, 0), at(12, 0), true},
		{"partial left", at(9, 30), at(10, 30), true},
		{"partial right", at(10, 30), at(11, 30), true},
		{"touches start", at(9, 0), at(10, 0), false},
		{"touches end", at(11, 0), at(12, 0), false},
		{"before", at(8, 0), at(9, 0), false},
		{"after", at(12, 0), at(13, 0), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, b.Overlaps(tt.start, tt.end))
		})
	}
}

func TestBooking_StatusPredicates(t *testing.T) {
	occupying := []BookingStatus{StatusPendingConfirmation, StatusConfirmed, StatusAwaitingPayment}
	terminal := []BookingStatus{StatusRejected, StatusCancelledByClient, StatusCancelledByAdmin}

	for _, s := range occupying {
		b := &Booking{Status: s}
		assert.True(t, b.IsOccupying(), "status %s", s)
		assert.True(t, b.CanBeCancelled(), "status %s", s)
		assert.False(t, b.IsTerminal(), "status %s", s)
	}

	for _, s := range terminal {
		b := &Booking{Status: s}
		assert.False(t, b.IsOccupying(), "status %s", s)
		assert.False(t, b.CanBeCancelled(), "status %s", s)
		assert.True(t, b.IsTerminal(), "status %s", s)
	}

	assert.True(t, (&Booking{Status: StatusPendingConfirmation}).CanBeConfirmed())
	assert.False(t, (&Booking{Status: StatusConfirmed}).CanBeConfirmed())
}

func TestCountOverlapping(t *testing.T) {
	bookings := []*Booking{
		{ID: 1, Status: StatusConfirmed, Start: at(10, 0), End: at(11, 0), ParticipantsCount: 2},
		{ID: 2, Status: StatusPendingConfirmation, Start: at(10, 30), End: at(11, 30), ParticipantsCount: 1},
		{ID: 3, Status: StatusCancelledByClient, Start: at(10, 0), End: at(11, 0), ParticipantsCount: 5},
		{ID: 4, Status: StatusConfirmed, Start: at(12, 0), End: at(13, 0), ParticipantsCount: 3},
	}

	count, sum := CountOverlapping(bookings, at(10, 0), at(11, 0), 0)
	assert.Equal(t, 2, count, "cancelled and non-overlapping bookings do not count")
	assert.Equal(t, 3, sum)

	count, sum = CountOverlapping(bookings, at(10, 0), at(11, 0), 1)
	assert.Equal(t, 1, count, "excluded booking does not count")
	assert.Equal(t, 1, sum)

	count, sum = CountOverlapping(bookings, at(14, 0), at(15, 0), 0)
	assert.Equal(t, 0, count)
	assert.Equal(t, 0, sum)
}

func TestIsRangeAvailable_Exclusive(t *testing.T) {
	cfg := &ResourceConfig{}
	assert.True(t, cfg.IsExclusive())

	bookings := []*Booking{
		{ID: 1, Status: StatusConfirmed, Start: at(10, 0), End: at(11, 0), ParticipantsCount: 1},
	}

	assert.False(t, IsRangeAvailable(cfg, bookings, at(10, 30), at(11, 30), 1, 0))
	assert.True(t, IsRangeAvailable(cfg, bookings, at(11, 0), at(12, 0), 1, 0),
		"boundary touch does not block")
	assert.True(t, IsRangeAvailable(cfg, bookings, at(10, 0), at(11, 0), 1, 1),
		"own booking is excluded")
}

func TestIsRangeAvailable_Capacity(t *testing.T) {
	cfg := &ResourceConfig{MaxParticipants: ptr.Ptr(5)}
	assert.False(t, cfg.IsExclusive())

	bookings := []*Booking{
		{ID: 1, Status: StatusConfirmed, Start: at(10, 0), End: at(11, 0), ParticipantsCount: 2},
		{ID: 2, Status: StatusAwaitingPayment, Start: at(10, 0), End: at(11, 0), ParticipantsCount: 2},
	}

	assert.True(t, IsRangeAvailable(cfg, bookings, at(10, 0), at(11, 0), 1, 0))
	assert.False(t, IsRangeAvailable(cfg, bookings, at(10, 0), at(11, 0), 2, 0))
	assert.True(t, IsRangeAvailable(cfg, bookings, at(10, 0), at(11, 0), 5, 1),
		"excluding booking 1 frees its seats")
}

func TestResourceConfig_ApplyDefaults(t *testing.T) {
	cfg := ResourceConfig{MinAdvanceMinutes: -10}
	cfg.ApplyDefaults()

	assert.Equal(t, DefaultSlotDurationMinutes, cfg.SlotDurationMinutes)
	assert.Equal(t, StrategyFixed, cfg.SlotStrategy)
	assert.Equal(t, 0, cfg.MinAdvanceMinutes)

	custom := ResourceConfig{
		SlotDurationMinutes: 45,
		SlotStrategy:        StrategyDynamic,
		MinAdvanceMinutes:   120,
	}
	custom.ApplyDefaults()

	assert.Equal(t, 45, custom.SlotDurationMinutes)
	assert.Equal(t, StrategyDynamic, custom.SlotStrategy)
	assert.Equal(t, 120, custom.MinAdvanceMinutes)
}
