package bookings

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ResourceBookingService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-ResourceBookingService/internal/infra/storage/booking"
	resourceRepo "github.com/m04kA/SMC-ResourceBookingService/internal/infra/storage/resource"
	"github.com/m04kA/SMC-ResourceBookingService/internal/service/bookings/models"
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

func (f *fakeBookingRepo) GetByUserID(_ context.Context, userID int64, status *domain.BookingStatus) ([]*domain.Booking, error) {
	var result []*domain.Booking
	for _, b := range f.bookings {
		if b.UserID != userID {
			continue
		}
		if status != nil && b.Status != *status {
			continue
		}
		copied := *b
		result = append(result, &copied)
	}
	return result, nil
}

func (f *fakeBookingRepo) GetByResourceWithFilter(_ context.Context, filter domain.ResourceBookingsFilter) ([]*domain.Booking, error) {
	var result []*domain.Booking
	for _, b := range f.bookings {
		if b.ResourceID != filter.ResourceID {
			continue
		}
		if !filter.IncludeInactive && b.IsTerminal() {
			continue
		}
		if filter.Status != nil && b.Status != *filter.Status {
			continue
		}
		copied := *b
		result = append(result, &copied)
	}
	return result, nil
}

func (f *fakeBookingRepo) GetConfirmedStartingBetween(_ context.Context, from, to time.Time) ([]*domain.Booking, error) {
	var result []*domain.Booking
	for _, b := range f.bookings {
		if b.Status != domain.StatusConfirmed {
			continue
		}
		if b.Start.Before(from) || b.Start.After(to) {
			continue
		}
		copied := *b
		result = append(result, &copied)
	}
	return result, nil
}

func (f *fakeBookingRepo) UpdateStatusIf(_ context.Context, id int64, allowed []domain.BookingStatus, to domain.BookingStatus, reason *string) (*domain.Booking, error) {
	b, ok := f.bookings[id]
	if !ok {
		return nil, bookingRepo.ErrBookingNotFound
	}

	permitted := false
	for _, st := range allowed {
		if b.Status == st {
			permitted = true
			break
		}
	}
	if !permitted {
		return nil, bookingRepo.ErrStatusConflict
	}

	b.Status = to
	if reason != nil {
		b.Reason = reason
	}
	if to == domain.StatusCancelledByClient || to == domain.StatusCancelledByAdmin {
		now := time.Now()
		b.CancelledAt = &now
	}

	copied := *b
	return &copied, nil
}

type fakeResourceRepo struct {
	resources map[int64]*domain.Resource
}

func newFakeResourceRepo(resources ...*domain.Resource) *fakeResourceRepo {
	repo := &fakeResourceRepo{resources: make(map[int64]*domain.Resource)}
	for _, r := range resources {
		repo.resources[r.ID] = r
	}
	return repo
}

func (f *fakeResourceRepo) GetByID(_ context.Context, id int64) (*domain.Resource, error) {
	r, ok := f.resources[id]
	if !ok {
		return nil, resourceRepo.ErrResourceNotFound
	}
	return r, nil
}

type capturedEvent struct {
	kind    domain.EventKind
	booking *domain.Booking
	extra   map[string]string
}

type captureSink struct {
	events []capturedEvent
}

func (c *captureSink) Publish(_ context.Context, kind domain.EventKind, booking *domain.Booking, extra map[string]string) {
	c.events = append(c.events, capturedEvent{kind: kind, booking: booking, extra: extra})
}

type fixedClock struct {
	now time.Time
}

func (c fixedClock) Now() time.Time { return c.now }

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func newTestService(br BookingRepository, rr ResourceRepository, sink EventSink, now time.Time) *Service {
	return NewService(br, rr, sink, fixedClock{now: now}, nopLogger{})
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

func TestService_Confirm(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	start := now.Add(24 * time.Hour)

	repo := newFakeBookingRepo(testBooking(1, domain.StatusPendingConfirmation, start))
	sink := &captureSink{}
	svc := newTestService(repo, newFakeResourceRepo(), sink, now)

	resp, err := svc.Confirm(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusConfirmed), resp.Status)

	require.Len(t, sink.events, 1)
	assert.Equal(t, domain.EventBookingConfirmed, sink.events[0].kind)

	// Повторное подтверждение не проходит CAS
	_, err = svc.Confirm(context.Background(), 1)
	assert.ErrorIs(t, err, ErrInvalidState)
	assert.Len(t, sink.events, 1)
}

func TestService_ConfirmReject_OnlyFromPending(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

	// Подтверждение и отклонение допустимы только из pending_confirmation
	repo := newFakeBookingRepo(testBooking(1, domain.StatusAwaitingPayment, now.Add(time.Hour)))
	sink := &captureSink{}
	svc := newTestService(repo, newFakeResourceRepo(), sink, now)

	_, err := svc.Confirm(context.Background(), 1)
	assert.ErrorIs(t, err, ErrInvalidState)

	_, err = svc.Reject(context.Background(), 1, &models.RejectBookingRequest{})
	assert.ErrorIs(t, err, ErrInvalidState)

	assert.Empty(t, sink.events)
}

func TestService_Confirm_NotFound(t *testing.T) {
	svc := newTestService(newFakeBookingRepo(), newFakeResourceRepo(), &captureSink{}, time.Now())

	_, err := svc.Confirm(context.Background(), 404)
	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestService_Reject(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	repo := newFakeBookingRepo(testBooking(1, domain.StatusPendingConfirmation, now.Add(time.Hour)))
	sink := &captureSink{}
	svc := newTestService(repo, newFakeResourceRepo(), sink, now)

	resp, err := svc.Reject(context.Background(), 1, &models.RejectBookingRequest{Reason: ptr.Ptr("no free staff")})
	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusRejected), resp.Status)
	require.NotNil(t, resp.Reason)
	assert.Equal(t, "no free staff", *resp.Reason)

	require.Len(t, sink.events, 1)
	assert.Equal(t, domain.EventBookingRejected, sink.events[0].kind)
}

func TestService_Cancel_ClientWindow(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	// Бронирование через 30 минут, окно отмены для клиента 60 минут
	booking := testBooking(1, domain.StatusConfirmed, now.Add(30*time.Minute))
	resource := testResource(10, domain.ResourceConfig{CancelBeforeMinutes: ptr.Ptr(60)})

	repo := newFakeBookingRepo(booking)
	sink := &captureSink{}
	svc := newTestService(repo, newFakeResourceRepo(resource), sink, now)

	_, err := svc.Cancel(context.Background(), 1, &models.CancelBookingRequest{CancelledBy: domain.ActorClient})
	assert.ErrorIs(t, err, ErrTooLateToCancel)
	assert.Empty(t, sink.events)

	// Администратор отменяет без проверки окна
	resp, err := svc.Cancel(context.Background(), 1, &models.CancelBookingRequest{
		CancelledBy: domain.ActorAdmin,
		Reason:      ptr.Ptr("maintenance"),
	})
	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusCancelledByAdmin), resp.Status)
	require.NotNil(t, resp.CancelledAt)

	require.Len(t, sink.events, 1)
	assert.Equal(t, domain.EventBookingCancelled, sink.events[0].kind)
	assert.Equal(t, domain.ActorAdmin, sink.events[0].extra["cancelled_by"])
}

func TestService_Cancel_ClientInsideWindow(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	booking := testBooking(1, domain.StatusConfirmed, now.Add(3*time.Hour))
	resource := testResource(10, domain.ResourceConfig{CancelBeforeMinutes: ptr.Ptr(60)})

	svc := newTestService(newFakeBookingRepo(booking), newFakeResourceRepo(resource), &captureSink{}, now)

	resp, err := svc.Cancel(context.Background(), 1, &models.CancelBookingRequest{CancelledBy: domain.ActorClient})
	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusCancelledByClient), resp.Status)
}

func TestService_Cancel_TerminalState(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	booking := testBooking(1, domain.StatusRejected, now.Add(time.Hour))

	svc := newTestService(newFakeBookingRepo(booking), newFakeResourceRepo(), &captureSink{}, now)

	_, err := svc.Cancel(context.Background(), 1, &models.CancelBookingRequest{CancelledBy: domain.ActorAdmin})
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestService_Cancel_InvalidActor(t *testing.T) {
	svc := newTestService(newFakeBookingRepo(), newFakeResourceRepo(), &captureSink{}, time.Now())

	_, err := svc.Cancel(context.Background(), 1, &models.CancelBookingRequest{CancelledBy: "stranger"})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestService_GetUserBookings_FilterByStatus(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	confirmed := testBooking(1, domain.StatusConfirmed, now.Add(time.Hour))
	cancelled := testBooking(2, domain.StatusCancelledByClient, now.Add(2*time.Hour))

	svc := newTestService(newFakeBookingRepo(confirmed, cancelled), newFakeResourceRepo(), &captureSink{}, now)

	resp, err := svc.GetUserBookings(context.Background(), &models.GetUserBookingsRequest{
		UserID: 100,
		Status: ptr.Ptr("confirmed"),
	})
	require.NoError(t, err)
	require.Len(t, resp.Bookings, 1)
	assert.Equal(t, int64(1), resp.Bookings[0].ID)

	_, err = svc.GetUserBookings(context.Background(), &models.GetUserBookingsRequest{
		UserID: 100,
		Status: ptr.Ptr("teleported"),
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestService_SendReminders(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

	soon := testBooking(1, domain.StatusConfirmed, now.Add(20*time.Minute))
	later := testBooking(2, domain.StatusConfirmed, now.Add(50*time.Minute))
	pending := testBooking(3, domain.StatusPendingConfirmation, now.Add(10*time.Minute))

	// У ресурса второго бронирования узкое окно напоминания: 30 минут
	narrow := testResource(20, domain.ResourceConfig{ReminderBeforeMinutes: ptr.Ptr(30)})
	later.ResourceID = 20

	wide := testResource(10, domain.ResourceConfig{})

	repo := newFakeBookingRepo(soon, later, pending)
	sink := &captureSink{}
	svc := newTestService(repo, newFakeResourceRepo(wide, narrow), sink, now)

	sent, err := svc.SendReminders(context.Background(), 60)
	require.NoError(t, err)
	assert.Equal(t, 1, sent)

	require.Len(t, sink.events, 1)
	assert.Equal(t, domain.EventBookingReminder, sink.events[0].kind)
	assert.Equal(t, int64(1), sink.events[0].booking.ID)
	assert.Equal(t, "20", sink.events[0].extra["starts_in_minutes"])
}
