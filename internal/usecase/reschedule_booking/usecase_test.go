package reschedule_booking

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ResourceBookingService/internal/domain"
	"github.com/m04kA/SMC-ResourceBookingService/internal/infra/lock"
	bookingRepo "github.com/m04kA/SMC-ResourceBookingService/internal/infra/storage/booking"
	resourceRepo "github.com/m04kA/SMC-ResourceBookingService/internal/infra/storage/resource"
	"github.com/m04kA/SMC-ResourceBookingService/pkg/ptr"
)

type fakeBookingRepo struct {
	bookings map[int64]*domain.Booking
}

func newFakeBookingRepo(bookings ...*domain.Booking) *fakeBookingRepo {
	repo := &fakeBookingRepo{bookings: make(map[int64]*domain.Booking)}
	for _, b := range bookings {
		copied := *b
		repo.bookings[b.ID] = &copied
	}
	return repo
}

func (f *fakeBookingRepo) GetByID(_ context.Context, id int64) (*domain.Booking, error) {
	b, ok := f.bookings[id]
	if !ok {
		return nil, bookingRepo.ErrBookingNotFound
	}
	copied := *b
	return &copied, nil
}

func (f *fakeBookingRepo) GetOccupyingInRange(_ context.Context, resourceID int64, from, to time.Time) ([]*domain.Booking, error) {
	var result []*domain.Booking
	for _, b := range f.bookings {
		if b.ResourceID != resourceID || !b.IsOccupying() || !b.Overlaps(from, to) {
			continue
		}
		copied := *b
		result = append(result, &copied)
	}
	return result, nil
}

func (f *fakeBookingRepo) UpdateInterval(_ context.Context, id int64, start, end time.Time) (*domain.Booking, error) {
	b, ok := f.bookings[id]
	if !ok {
		return nil, bookingRepo.ErrBookingNotFound
	}
	b.Start = start
	b.End = end
	b.UpdatedAt = time.Now()
	copied := *b
	return &copied, nil
}

type fakeResourceRepo struct {
	resources map[int64]*domain.Resource
}

func (f *fakeResourceRepo) GetByID(_ context.Context, id int64) (*domain.Resource, error) {
	r, ok := f.resources[id]
	if !ok {
		return nil, resourceRepo.ErrResourceNotFound
	}
	return r, nil
}

type fakeTxManager struct{}

func (fakeTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type capturedEvent struct {
	kind  domain.EventKind
	extra map[string]string
}

type captureSink struct {
	events []capturedEvent
}

func (c *captureSink) Publish(_ context.Context, kind domain.EventKind, _ *domain.Booking, extra map[string]string) {
	c.events = append(c.events, capturedEvent{kind: kind, extra: extra})
}

type fixedClock struct {
	now time.Time
}

func (c fixedClock) Now() time.Time { return c.now }

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func testResource(id int64, cfg domain.ResourceConfig) *domain.Resource {
	cfg.ApplyDefaults()
	return &domain.Resource{
		ID:           id,
		CompanyID:    1,
		ResourceType: "meeting_room",
		Name:         "Room A",
		Config:       cfg,
	}
}

func testBooking(id int64, status domain.BookingStatus, start time.Time) *domain.Booking {
	return &domain.Booking{
		ID:                id,
		CompanyID:         1,
		ResourceID:        10,
		UserID:            100,
		Start:             start,
		End:               start.Add(time.Hour),
		Status:            status,
		ParticipantsCount: 1,
	}
}

func newTestUseCase(repo *fakeBookingRepo, resources *fakeResourceRepo, sink *captureSink, now time.Time) *UseCase {
	uc := NewUseCase(repo, resources, lock.NewMemoryLocker(time.Second), fakeTxManager{}, sink, 8*time.Second, nopLogger{})
	uc.timeProvider = fixedClock{now: now}
	return uc
}

func TestRescheduleBooking_Success(t *testing.T) {
	now := time.Date(2026, 3, 9, 10, 0, 0, 0, time.UTC)
	oldStart := time.Date(2026, 3, 10, 11, 0, 0, 0, time.UTC)
	newStart := time.Date(2026, 3, 11, 15, 0, 0, 0, time.UTC)

	repo := newFakeBookingRepo(testBooking(1, domain.StatusConfirmed, oldStart))
	resources := &fakeResourceRepo{resources: map[int64]*domain.Resource{
		10: testResource(10, domain.ResourceConfig{}),
	}}
	sink := &captureSink{}
	uc := newTestUseCase(repo, resources, sink, now)

	resp, err := uc.Execute(context.Background(), &Request{BookingID: 1, Start: newStart})
	require.NoError(t, err)

	// Статус не меняется, длительность сохранена
	assert.Equal(t, string(domain.StatusConfirmed), resp.Status)
	assert.Equal(t, newStart, resp.Start)
	assert.Equal(t, newStart.Add(time.Hour), resp.End)

	require.Len(t, sink.events, 1)
	assert.Equal(t, domain.EventBookingRescheduled, sink.events[0].kind)
	assert.Equal(t, oldStart.Format(time.RFC3339), sink.events[0].extra["old_start"])
	assert.Equal(t, oldStart.Add(time.Hour).Format(time.RFC3339), sink.events[0].extra["old_end"])
}

func TestRescheduleBooking_TerminalState(t *testing.T) {
	now := time.Date(2026, 3, 9, 10, 0, 0, 0, time.UTC)
	repo := newFakeBookingRepo(testBooking(1, domain.StatusCancelledByClient, now.Add(24*time.Hour)))
	resources := &fakeResourceRepo{resources: map[int64]*domain.Resource{
		10: testResource(10, domain.ResourceConfig{}),
	}}
	uc := newTestUseCase(repo, resources, &captureSink{}, now)

	_, err := uc.Execute(context.Background(), &Request{BookingID: 1, Start: now.Add(48 * time.Hour)})
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestRescheduleBooking_WindowClosed(t *testing.T) {
	now := time.Date(2026, 3, 9, 10, 0, 0, 0, time.UTC)
	// До начала 30 минут, окно переноса 60 минут
	repo := newFakeBookingRepo(testBooking(1, domain.StatusConfirmed, now.Add(30*time.Minute)))
	resources := &fakeResourceRepo{resources: map[int64]*domain.Resource{
		10: testResource(10, domain.ResourceConfig{RescheduleBeforeMinutes: ptr.Ptr(60)}),
	}}
	uc := newTestUseCase(repo, resources, &captureSink{}, now)

	_, err := uc.Execute(context.Background(), &Request{BookingID: 1, Start: now.Add(48 * time.Hour)})
	assert.ErrorIs(t, err, ErrTooLateToReschedule)
}

func TestRescheduleBooking_TargetOccupied(t *testing.T) {
	now := time.Date(2026, 3, 9, 10, 0, 0, 0, time.UTC)
	oldStart := time.Date(2026, 3, 10, 11, 0, 0, 0, time.UTC)
	otherStart := time.Date(2026, 3, 11, 15, 0, 0, 0, time.UTC)

	other := testBooking(2, domain.StatusConfirmed, otherStart)
	other.UserID = 101

	repo := newFakeBookingRepo(testBooking(1, domain.StatusConfirmed, oldStart), other)
	resources := &fakeResourceRepo{resources: map[int64]*domain.Resource{
		10: testResource(10, domain.ResourceConfig{}),
	}}
	uc := newTestUseCase(repo, resources, &captureSink{}, now)

	_, err := uc.Execute(context.Background(), &Request{BookingID: 1, Start: otherStart.Add(30 * time.Minute)})
	assert.ErrorIs(t, err, ErrSlotNotAvailable)
}

func TestRescheduleBooking_OwnIntervalDoesNotBlock(t *testing.T) {
	now := time.Date(2026, 3, 9, 10, 0, 0, 0, time.UTC)
	oldStart := time.Date(2026, 3, 10, 11, 0, 0, 0, time.UTC)

	repo := newFakeBookingRepo(testBooking(1, domain.StatusConfirmed, oldStart))
	resources := &fakeResourceRepo{resources: map[int64]*domain.Resource{
		10: testResource(10, domain.ResourceConfig{}),
	}}
	uc := newTestUseCase(repo, resources, &captureSink{}, now)

	// Сдвиг на полчаса пересекается только с самим бронированием
	resp, err := uc.Execute(context.Background(), &Request{BookingID: 1, Start: oldStart.Add(30 * time.Minute)})
	require.NoError(t, err)
	assert.Equal(t, oldStart.Add(30*time.Minute), resp.Start)
}

func TestRescheduleBooking_NotFound(t *testing.T) {
	uc := newTestUseCase(newFakeBookingRepo(), &fakeResourceRepo{}, &captureSink{}, time.Now())

	_, err := uc.Execute(context.Background(), &Request{BookingID: 404, Start: time.Now().Add(time.Hour)})
	assert.ErrorIs(t, err, ErrBookingNotFound)
}
