package create_booking

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ResourceBookingService/internal/domain"
	"github.com/m04kA/SMC-ResourceBookingService/internal/infra/lock"
	resourceRepo "github.com/m04kA/SMC-ResourceBookingService/internal/infra/storage/resource"
	"github.com/m04kA/SMC-ResourceBookingService/pkg/ptr"
)

type fakeBookingRepo struct {
	mu       sync.Mutex
	nextID   int64
	bookings []*domain.Booking
}

func (f *fakeBookingRepo) Create(_ context.Context, booking *domain.Booking) (*domain.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.nextID++
	copied := *booking
	copied.ID = f.nextID
	copied.CreatedAt = time.Now()
	copied.UpdatedAt = copied.CreatedAt
	f.bookings = append(f.bookings, &copied)

	result := copied
	return &result, nil
}

func (f *fakeBookingRepo) GetOccupyingInRange(_ context.Context, resourceID int64, from, to time.Time) ([]*domain.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

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
	mu     sync.Mutex
	events []capturedEvent
}

func (c *captureSink) Publish(_ context.Context, kind domain.EventKind, _ *domain.Booking, extra map[string]string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, capturedEvent{kind: kind, extra: extra})
}

func (c *captureSink) kinds() []domain.EventKind {
	c.mu.Lock()
	defer c.mu.Unlock()
	kinds := make([]domain.EventKind, 0, len(c.events))
	for _, e := range c.events {
		kinds = append(kinds, e.kind)
	}
	return kinds
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

func withStaticTimetable(res *domain.Resource, start, end string) *domain.Resource {
	res.Timetable = &domain.TimetablePayload{
		ID:         500,
		ResourceID: res.ID,
		Name:       "default",
		Kind:       domain.TimetableStatic,
		Schedule: &domain.WeeklySchedule{
			Default: &domain.DayHours{Start: &start, End: &end},
		},
	}
	return res
}

func newTestUseCase(repo *fakeBookingRepo, resources *fakeResourceRepo, sink *captureSink, now time.Time) *UseCase {
	uc := NewUseCase(repo, resources, lock.NewMemoryLocker(time.Second), fakeTxManager{}, sink, 8*time.Second, nopLogger{})
	uc.timeProvider = fixedClock{now: now}
	return uc
}

func TestCreateBooking_ConfirmedByDefault(t *testing.T) {
	now := time.Date(2026, 3, 9, 10, 0, 0, 0, time.UTC)
	start := time.Date(2026, 3, 10, 11, 0, 0, 0, time.UTC)

	repo := &fakeBookingRepo{}
	resources := &fakeResourceRepo{resources: map[int64]*domain.Resource{
		10: testResource(10, domain.ResourceConfig{SlotDurationMinutes: 30}),
	}}
	sink := &captureSink{}
	uc := newTestUseCase(repo, resources, sink, now)

	resp, err := uc.Execute(context.Background(), &Request{UserID: 100, ResourceID: 10, Start: start})
	require.NoError(t, err)

	assert.Equal(t, string(domain.StatusConfirmed), resp.Status)
	// Конец достроен длительностью слота ресурса
	assert.Equal(t, start.Add(30*time.Minute), resp.End)
	assert.Equal(t, 1, resp.ParticipantsCount)
	// Событие создания плюс событие итогового статуса
	assert.Equal(t,
		[]domain.EventKind{domain.EventBookingCreated, domain.EventBookingConfirmed},
		sink.kinds())
}

func TestCreateBooking_PendingWhenConfirmationRequired(t *testing.T) {
	now := time.Date(2026, 3, 9, 10, 0, 0, 0, time.UTC)
	start := time.Date(2026, 3, 10, 11, 0, 0, 0, time.UTC)

	resources := &fakeResourceRepo{resources: map[int64]*domain.Resource{
		10: testResource(10, domain.ResourceConfig{RequireConfirmation: true}),
	}}
	sink := &captureSink{}
	uc := newTestUseCase(&fakeBookingRepo{}, resources, sink, now)

	resp, err := uc.Execute(context.Background(), &Request{UserID: 100, ResourceID: 10, Start: start})
	require.NoError(t, err)

	assert.Equal(t, string(domain.StatusPendingConfirmation), resp.Status)
	assert.Equal(t,
		[]domain.EventKind{domain.EventBookingCreated, domain.EventBookingPendingConfirmation},
		sink.kinds())
}

func TestCreateBooking_TooSoon(t *testing.T) {
	now := time.Date(2026, 3, 9, 10, 0, 0, 0, time.UTC)

	resources := &fakeResourceRepo{resources: map[int64]*domain.Resource{
		10: testResource(10, domain.ResourceConfig{MinAdvanceMinutes: 120}),
	}}
	uc := newTestUseCase(&fakeBookingRepo{}, resources, &captureSink{}, now)

	_, err := uc.Execute(context.Background(), &Request{
		UserID:     100,
		ResourceID: 10,
		Start:      now.Add(time.Hour),
	})
	assert.ErrorIs(t, err, ErrTooSoon)
}

func TestCreateBooking_OutsideWorkingHours(t *testing.T) {
	now := time.Date(2026, 3, 9, 10, 0, 0, 0, time.UTC)

	res := withStaticTimetable(testResource(10, domain.ResourceConfig{}), "09:00", "18:00")
	resources := &fakeResourceRepo{resources: map[int64]*domain.Resource{10: res}}
	uc := newTestUseCase(&fakeBookingRepo{}, resources, &captureSink{}, now)

	_, err := uc.Execute(context.Background(), &Request{
		UserID:     100,
		ResourceID: 10,
		Start:      time.Date(2026, 3, 10, 19, 0, 0, 0, time.UTC),
	})
	assert.ErrorIs(t, err, ErrOutsideWorkingHours)

	// Внутри рабочих часов бронирование проходит
	resp, err := uc.Execute(context.Background(), &Request{
		UserID:     100,
		ResourceID: 10,
		Start:      time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	require.NotNil(t, resp.TimetableID)
	assert.Equal(t, int64(500), *resp.TimetableID)
}

func TestCreateBooking_ExclusiveOverlap(t *testing.T) {
	now := time.Date(2026, 3, 9, 10, 0, 0, 0, time.UTC)
	start := time.Date(2026, 3, 10, 11, 0, 0, 0, time.UTC)

	repo := &fakeBookingRepo{}
	resources := &fakeResourceRepo{resources: map[int64]*domain.Resource{
		10: testResource(10, domain.ResourceConfig{}),
	}}
	uc := newTestUseCase(repo, resources, &captureSink{}, now)

	_, err := uc.Execute(context.Background(), &Request{UserID: 100, ResourceID: 10, Start: start})
	require.NoError(t, err)

	// Пересекающийся интервал на эксклюзивном ресурсе отклоняется
	_, err = uc.Execute(context.Background(), &Request{
		UserID:     101,
		ResourceID: 10,
		Start:      start.Add(30 * time.Minute),
	})
	assert.ErrorIs(t, err, ErrSlotNotAvailable)

	// Стык интервалов пересечением не считается
	_, err = uc.Execute(context.Background(), &Request{
		UserID:     101,
		ResourceID: 10,
		Start:      start.Add(time.Hour),
	})
	assert.NoError(t, err)
}

func TestCreateBooking_CapacitySum(t *testing.T) {
	now := time.Date(2026, 3, 9, 10, 0, 0, 0, time.UTC)
	start := time.Date(2026, 3, 10, 11, 0, 0, 0, time.UTC)

	repo := &fakeBookingRepo{}
	resources := &fakeResourceRepo{resources: map[int64]*domain.Resource{
		10: testResource(10, domain.ResourceConfig{MaxParticipants: ptr.Ptr(3)}),
	}}
	uc := newTestUseCase(repo, resources, &captureSink{}, now)

	_, err := uc.Execute(context.Background(), &Request{
		UserID:            100,
		ResourceID:        10,
		Start:             start,
		IsGroupBooking:    true,
		ParticipantsCount: 2,
	})
	require.NoError(t, err)

	// 2 занятых места из 3: запрос на 2 не влезает
	_, err = uc.Execute(context.Background(), &Request{
		UserID:            101,
		ResourceID:        10,
		Start:             start,
		IsGroupBooking:    true,
		ParticipantsCount: 2,
	})
	assert.ErrorIs(t, err, ErrSlotNotAvailable)

	// Запрос на 1 место влезает
	_, err = uc.Execute(context.Background(), &Request{
		UserID:     102,
		ResourceID: 10,
		Start:      start,
	})
	assert.NoError(t, err)
}

func TestCreateBooking_ResourceNotFound(t *testing.T) {
	uc := newTestUseCase(&fakeBookingRepo{}, &fakeResourceRepo{resources: map[int64]*domain.Resource{}}, &captureSink{}, time.Now())

	_, err := uc.Execute(context.Background(), &Request{
		UserID:     100,
		ResourceID: 404,
		Start:      time.Now().Add(time.Hour),
	})
	assert.ErrorIs(t, err, ErrResourceNotFound)
}

func TestCreateBooking_InvalidInput(t *testing.T) {
	uc := newTestUseCase(&fakeBookingRepo{}, &fakeResourceRepo{}, &captureSink{}, time.Now())

	start := time.Now().Add(time.Hour)

	cases := []struct {
		name string
		req  *Request
	}{
		{"zero user", &Request{ResourceID: 10, Start: start}},
		{"zero resource", &Request{UserID: 100, Start: start}},
		{"zero start", &Request{UserID: 100, ResourceID: 10}},
		{"end before start", &Request{UserID: 100, ResourceID: 10, Start: start, End: start.Add(-time.Minute)}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := uc.Execute(context.Background(), tc.req)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestCreateBooking_ConcurrentRequests(t *testing.T) {
	now := time.Date(2026, 3, 9, 10, 0, 0, 0, time.UTC)
	start := time.Date(2026, 3, 10, 11, 0, 0, 0, time.UTC)

	repo := &fakeBookingRepo{}
	resources := &fakeResourceRepo{resources: map[int64]*domain.Resource{
		10: testResource(10, domain.ResourceConfig{}),
	}}
	uc := newTestUseCase(repo, resources, &captureSink{}, now)

	const workers = 8

	var wg sync.WaitGroup
	results := make(chan error, workers)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(userID int64) {
			defer wg.Done()
			_, err := uc.Execute(context.Background(), &Request{
				UserID:     userID,
				ResourceID: 10,
				Start:      start,
			})
			results <- err
		}(int64(100 + i))
	}

	wg.Wait()
	close(results)

	succeeded := 0
	for err := range results {
		if err == nil {
			succeeded++
		} else {
			assert.ErrorIs(t, err, ErrSlotNotAvailable)
		}
	}

	// Блокировка ресурса сериализует запросы: ровно одно бронирование создано
	assert.Equal(t, 1, succeeded)
	assert.Len(t, repo.bookings, 1)
}
