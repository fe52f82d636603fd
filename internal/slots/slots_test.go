package slots

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ResourceBookingService/internal/domain"
	"github.com/m04kA/SMC-ResourceBookingService/internal/timetable"
	"github.com/m04kA/SMC-ResourceBookingService/pkg/ptr"
)

type staticSource struct {
	bookings []*domain.Booking
	calls    int
}

func (s *staticSource) GetOccupyingInRange(_ context.Context, resourceID int64, from, to time.Time) ([]*domain.Booking, error) {
	s.calls++
	var result []*domain.Booking
	for _, b := range s.bookings {
		if b.ResourceID != resourceID || !b.IsOccupying() || !b.Overlaps(from, to) {
			continue
		}
		result = append(result, b)
	}
	return result, nil
}

func testTimetable(t *testing.T) timetable.Timetable {
	t.Helper()
	tt, err := timetable.New(&domain.TimetablePayload{
		Kind: domain.TimetableStatic,
		Schedule: &domain.WeeklySchedule{
			Default: &domain.DayHours{
				Start: ptr.Ptr("09:00"),
				End:   ptr.Ptr("12:00"),
			},
		},
	})
	require.NoError(t, err)
	return tt
}

func testResource(cfg domain.ResourceConfig) *domain.Resource {
	cfg.ApplyDefaults()
	return &domain.Resource{ID: 10, Config: cfg}
}

func confirmed(id int64, start, end time.Time) *domain.Booking {
	return &domain.Booking{
		ID:                id,
		ResourceID:        10,
		UserID:            100,
		Start:             start,
		End:               end,
		Status:            domain.StatusConfirmed,
		ParticipantsCount: 1,
	}
}

func TestFixed_GridFromIntervalStart(t *testing.T) {
	from := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	res := testResource(domain.ResourceConfig{})

	found, err := NewFixed(&staticSource{}).NextSlots(context.Background(), testTimetable(t), res, from, 10, true)
	require.NoError(t, err)

	// 09-12 при часовом слоте дает ровно три слота
	require.Len(t, found, 3)
	assert.Equal(t, time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC), found[0].Start)
	assert.Equal(t, time.Date(2026, 3, 10, 11, 0, 0, 0, time.UTC), found[2].Start)
}

func TestFixed_ScansForwardAcrossDays(t *testing.T) {
	// Весь первый день занят, слоты находятся на следующем
	day1 := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	source := &staticSource{bookings: []*domain.Booking{
		confirmed(1, time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC), time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)),
	}}
	res := testResource(domain.ResourceConfig{})

	found, err := NewFixed(source).NextSlots(context.Background(), testTimetable(t), res, day1, 2, false)
	require.NoError(t, err)

	require.Len(t, found, 2)
	assert.Equal(t, time.Date(2026, 3, 11, 9, 0, 0, 0, time.UTC), found[0].Start)
	assert.Equal(t, time.Date(2026, 3, 11, 10, 0, 0, 0, time.UTC), found[1].Start)
}

func TestFixed_OnlyFromDateStopsAfterOneDay(t *testing.T) {
	day1 := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	source := &staticSource{bookings: []*domain.Booking{
		confirmed(1, time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC), time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)),
	}}
	res := testResource(domain.ResourceConfig{})

	found, err := NewFixed(source).NextSlots(context.Background(), testTimetable(t), res, day1, 2, true)
	require.NoError(t, err)
	assert.Empty(t, found)
}

func TestFixed_PendingBookingBlocksSlot(t *testing.T) {
	from := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	pending := confirmed(1, time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC), time.Date(2026, 3, 10, 11, 0, 0, 0, time.UTC))
	pending.Status = domain.StatusPendingConfirmation

	source := &staticSource{bookings: []*domain.Booking{pending}}
	res := testResource(domain.ResourceConfig{})

	found, err := NewFixed(source).NextSlots(context.Background(), testTimetable(t), res, from, 10, true)
	require.NoError(t, err)

	require.Len(t, found, 2)
	assert.Equal(t, time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC), found[0].Start)
	assert.Equal(t, time.Date(2026, 3, 10, 11, 0, 0, 0, time.UTC), found[1].Start)
}

func TestDynamic_PacksTightlyAfterBooking(t *testing.T) {
	from := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	source := &staticSource{bookings: []*domain.Booking{
		confirmed(1, time.Date(2026, 3, 10, 9, 30, 0, 0, time.UTC), time.Date(2026, 3, 10, 10, 15, 0, 0, time.UTC)),
	}}
	res := testResource(domain.ResourceConfig{SlotStrategy: domain.StrategyDynamic, SlotDurationMinutes: 30})

	found, err := NewDynamic(source).NextSlots(context.Background(), testTimetable(t), res, from, 10, true)
	require.NoError(t, err)

	// 09:00-09:30 до бронирования, затем упаковка от 10:15
	require.Len(t, found, 4)
	assert.Equal(t, time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC), found[0].Start)
	assert.Equal(t, time.Date(2026, 3, 10, 10, 15, 0, 0, time.UTC), found[1].Start)
	assert.Equal(t, time.Date(2026, 3, 10, 10, 45, 0, 0, time.UTC), found[2].Start)
	assert.Equal(t, time.Date(2026, 3, 10, 11, 15, 0, 0, time.UTC), found[3].Start)
}

func TestDynamic_CursorStartsAtFrom(t *testing.T) {
	from := time.Date(2026, 3, 10, 9, 40, 0, 0, time.UTC)
	res := testResource(domain.ResourceConfig{SlotStrategy: domain.StrategyDynamic, SlotDurationMinutes: 60})

	found, err := NewDynamic(&staticSource{}).NextSlots(context.Background(), testTimetable(t), res, from, 2, true)
	require.NoError(t, err)

	// Без сетки: первый слот стартует прямо от from
	require.Len(t, found, 2)
	assert.Equal(t, from, found[0].Start)
	assert.Equal(t, from.Add(time.Hour), found[1].Start)
}

func TestForConfig(t *testing.T) {
	source := &staticSource{}

	fixedCfg := domain.ResourceConfig{SlotStrategy: domain.StrategyFixed}
	assert.IsType(t, &Fixed{}, ForConfig(&fixedCfg, source))

	dynamicCfg := domain.ResourceConfig{SlotStrategy: domain.StrategyDynamic}
	assert.IsType(t, &Dynamic{}, ForConfig(&dynamicCfg, source))

	// Неизвестная стратегия откатывается к fixed
	otherCfg := domain.ResourceConfig{SlotStrategy: "spiral"}
	assert.IsType(t, &Fixed{}, ForConfig(&otherCfg, source))
}
