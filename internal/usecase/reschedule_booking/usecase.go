package reschedule_booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-ResourceBookingService/internal/domain"
	"github.com/m04kA/SMC-ResourceBookingService/internal/infra/lock"
	bookingRepo "github.com/m04kA/SMC-ResourceBookingService/internal/infra/storage/booking"
	resourceRepo "github.com/m04kA/SMC-ResourceBookingService/internal/infra/storage/resource"
	"github.com/m04kA/SMC-ResourceBookingService/internal/timetable"
)

// UseCase use case для переноса бронирования на новый интервал.
// Перенос не меняет статус: confirmed остается confirmed,
// pending_confirmation — pending_confirmation. Само бронирование
// исключается из проверки пересечений нового интервала.
type UseCase struct {
	bookingRepo  BookingRepository
	resourceRepo ResourceRepository
	locker       ResourceLocker
	txManager    TransactionManager
	events       EventSink
	lockTTL      time.Duration
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	resourceRepo ResourceRepository,
	locker ResourceLocker,
	txManager TransactionManager,
	events EventSink,
	lockTTL time.Duration,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:  bookingRepo,
		resourceRepo: resourceRepo,
		locker:       locker,
		txManager:    txManager,
		events:       events,
		lockTTL:      lockTTL,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute выполняет use case переноса бронирования
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("RescheduleBooking: booking=%d, newStart=%s", req.BookingID, req.Start.Format(time.RFC3339))

	if err := validateRequest(req); err != nil {
		uc.logger.Warn("RescheduleBooking: validation failed: %v", err)
		return nil, err
	}

	now := uc.timeProvider.Now()

	// Читаем бронирование до блокировки, чтобы узнать ресурс
	current, err := uc.bookingRepo.GetByID(ctx, req.BookingID)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			uc.logger.Warn("RescheduleBooking: booking=%d not found", req.BookingID)
			return nil, ErrBookingNotFound
		}
		uc.logger.Error("RescheduleBooking: failed to get booking=%d: %v", req.BookingID, err)
		return nil, fmt.Errorf("%w: failed to get booking: %v", ErrInternal, err)
	}

	handle, err := uc.locker.Acquire(ctx, lock.ResourceKey(current.ResourceID), uc.lockTTL)
	if err != nil {
		if errors.Is(err, lock.ErrLockTimeout) {
			uc.logger.Warn("RescheduleBooking: resource=%d is locked by another request", current.ResourceID)
			return nil, ErrResourceBusy
		}
		uc.logger.Error("RescheduleBooking: failed to acquire lock for resource=%d: %v", current.ResourceID, err)
		return nil, fmt.Errorf("%w: failed to acquire lock: %v", ErrInternal, err)
	}
	defer func() {
		if releaseErr := handle.Release(ctx); releaseErr != nil {
			uc.logger.Warn("RescheduleBooking: failed to release lock for resource=%d: %v", current.ResourceID, releaseErr)
		}
	}()

	var result *domain.Booking
	var oldStart, oldEnd time.Time

	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// Перечитываем бронирование внутри транзакции: статус мог поменяться
		booking, err := uc.bookingRepo.GetByID(txCtx, req.BookingID)
		if err != nil {
			if errors.Is(err, bookingRepo.ErrBookingNotFound) {
				return ErrBookingNotFound
			}
			uc.logger.Error("RescheduleBooking: failed to reread booking=%d: %v", req.BookingID, err)
			return fmt.Errorf("%w: failed to get booking: %v", ErrInternal, err)
		}

		if booking.IsTerminal() {
			uc.logger.Warn("RescheduleBooking: booking=%d is terminal, status=%s", booking.ID, booking.Status)
			return ErrInvalidState
		}

		resource, err := uc.resourceRepo.GetByID(txCtx, booking.ResourceID)
		if err != nil {
			if errors.Is(err, resourceRepo.ErrResourceNotFound) {
				uc.logger.Warn("RescheduleBooking: resource=%d not found", booking.ResourceID)
				return ErrResourceNotFound
			}
			uc.logger.Error("RescheduleBooking: failed to get resource=%d: %v", booking.ResourceID, err)
			return fmt.Errorf("%w: failed to get resource: %v", ErrInternal, err)
		}

		// Окно переноса считается от старого начала бронирования
		if resource.Config.RescheduleBeforeMinutes != nil {
			window := time.Duration(*resource.Config.RescheduleBeforeMinutes) * time.Minute
			if now.Add(window).After(booking.Start) {
				uc.logger.Warn("RescheduleBooking: reschedule window closed for booking=%d", booking.ID)
				return ErrTooLateToReschedule
			}
		}

		end := req.End
		if end.IsZero() {
			end = req.Start.Add(booking.End.Sub(booking.Start))
		}

		if req.Start.Before(now.Add(resource.Config.MinAdvance())) {
			uc.logger.Warn("RescheduleBooking: new interval for booking=%d starts too soon", booking.ID)
			return ErrTooSoon
		}

		if err := validateWithinWorkingHours(resource, req.Start, end); err != nil {
			uc.logger.Warn("RescheduleBooking: new interval for booking=%d is outside working hours", booking.ID)
			return err
		}

		occupying, err := uc.bookingRepo.GetOccupyingInRange(txCtx, booking.ResourceID, req.Start, end)
		if err != nil {
			uc.logger.Error("RescheduleBooking: failed to get occupying bookings for resource=%d: %v", booking.ResourceID, err)
			return fmt.Errorf("%w: failed to get occupying bookings: %v", ErrInternal, err)
		}

		// Свое же бронирование не мешает переносу
		if !domain.IsRangeAvailable(&resource.Config, occupying, req.Start, end, booking.ParticipantsCount, booking.ID) {
			uc.logger.Warn("RescheduleBooking: new interval is not available for resource=%d", booking.ResourceID)
			return ErrSlotNotAvailable
		}

		oldStart, oldEnd = booking.Start, booking.End

		updated, err := uc.bookingRepo.UpdateInterval(txCtx, booking.ID, req.Start, end)
		if err != nil {
			uc.logger.Error("RescheduleBooking: failed to update interval for booking=%d: %v", booking.ID, err)
			return fmt.Errorf("%w: failed to update interval: %v", ErrInternal, err)
		}

		result = updated
		return nil
	})

	if err != nil {
		return nil, err
	}

	uc.logger.Info("RescheduleBooking: successfully rescheduled booking=%d", result.ID)

	uc.events.Publish(ctx, domain.EventBookingRescheduled, result, map[string]string{
		"old_start": oldStart.Format(time.RFC3339),
		"old_end":   oldEnd.Format(time.RFC3339),
	})

	return &Response{
		ID:                result.ID,
		CompanyID:         result.CompanyID,
		ResourceID:        result.ResourceID,
		UserID:            result.UserID,
		Start:             result.Start,
		End:               result.End,
		Status:            string(result.Status),
		ParticipantsCount: result.ParticipantsCount,
		UpdatedAt:         result.UpdatedAt,
	}, nil
}

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.BookingID <= 0 {
		return fmt.Errorf("%w: bookingID must be positive", ErrInvalidInput)
	}

	if req.Start.IsZero() {
		return fmt.Errorf("%w: start is required", ErrInvalidInput)
	}

	if !req.End.IsZero() && !req.Start.Before(req.End) {
		return fmt.Errorf("%w: start must be before end", ErrInvalidInput)
	}

	return nil
}

// validateWithinWorkingHours проверяет, что интервал лежит в рабочих часах
// расписания ресурса. Ресурс без расписания принимает любой интервал.
func validateWithinWorkingHours(res *domain.Resource, start, end time.Time) error {
	tt, ok := timetable.ForResource(res)
	if !ok {
		return nil
	}

	for _, iv := range tt.WorkingIntervalsForDate(start) {
		if iv.Contains(start, end) {
			return nil
		}
	}

	return ErrOutsideWorkingHours
}
