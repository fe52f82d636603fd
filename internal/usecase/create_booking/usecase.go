package create_booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-ResourceBookingService/internal/domain"
	"github.com/m04kA/SMC-ResourceBookingService/internal/infra/lock"
	resourceRepo "github.com/m04kA/SMC-ResourceBookingService/internal/infra/storage/resource"
)

// UseCase use case для создания бронирования.
// Последовательность: блокировка ресурса -> сериализуемая транзакция ->
// проверка доступности по occupying-бронированиям -> вставка.
// Блокировка отсекает конкурентов до входа в транзакцию, FOR UPDATE внутри
// транзакции защищает от писателей в обход блокировки.
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

// Execute выполняет use case создания бронирования
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateBooking: user=%d, resource=%d, start=%s",
		req.UserID, req.ResourceID, req.Start.Format(time.RFC3339))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateBooking: validation failed: %v", err)
		return nil, err
	}

	now := uc.timeProvider.Now()

	// 2. Захватываем блокировку ресурса
	handle, err := uc.locker.Acquire(ctx, lock.ResourceKey(req.ResourceID), uc.lockTTL)
	if err != nil {
		if errors.Is(err, lock.ErrLockTimeout) {
			uc.logger.Warn("CreateBooking: resource=%d is locked by another request", req.ResourceID)
			return nil, ErrResourceBusy
		}
		uc.logger.Error("CreateBooking: failed to acquire lock for resource=%d: %v", req.ResourceID, err)
		return nil, fmt.Errorf("%w: failed to acquire lock: %v", ErrInternal, err)
	}
	defer func() {
		if releaseErr := handle.Release(ctx); releaseErr != nil {
			uc.logger.Warn("CreateBooking: failed to release lock for resource=%d: %v", req.ResourceID, releaseErr)
		}
	}()

	var result *domain.Booking

	// 3. Выполняем операции с БД в сериализуемой транзакции
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 3.1. Получаем ресурс с конфигурацией и расписанием
		resource, err := uc.resourceRepo.GetByID(txCtx, req.ResourceID)
		if err != nil {
			if errors.Is(err, resourceRepo.ErrResourceNotFound) {
				uc.logger.Warn("CreateBooking: resource=%d not found", req.ResourceID)
				return ErrResourceNotFound
			}
			uc.logger.Error("CreateBooking: failed to get resource=%d: %v", req.ResourceID, err)
			return fmt.Errorf("%w: failed to get resource: %v", ErrInternal, err)
		}

		// 3.2. Достраиваем конец интервала длительностью слота ресурса
		end := req.End
		if end.IsZero() {
			end = req.Start.Add(resource.Config.SlotDuration())
		}

		// 3.3. Проверяем минимальный интервал до начала
		if err := validateMinAdvance(&resource.Config, now, req.Start); err != nil {
			uc.logger.Warn("CreateBooking: booking for resource=%d starts too soon", req.ResourceID)
			return err
		}

		// 3.4. Проверяем рабочие часы расписания
		if err := validateWithinWorkingHours(resource, req.Start, end); err != nil {
			uc.logger.Warn("CreateBooking: interval is outside working hours of resource=%d", req.ResourceID)
			return err
		}

		// 3.5. Читаем occupying-бронирования с блокировкой строк (FOR UPDATE)
		occupying, err := uc.bookingRepo.GetOccupyingInRange(txCtx, req.ResourceID, req.Start, end)
		if err != nil {
			uc.logger.Error("CreateBooking: failed to get occupying bookings for resource=%d: %v", req.ResourceID, err)
			return fmt.Errorf("%w: failed to get occupying bookings: %v", ErrInternal, err)
		}

		// 3.6. Проверяем доступность интервала
		participants := req.ParticipantsCount
		if participants <= 0 {
			participants = 1
		}

		if !domain.IsRangeAvailable(&resource.Config, occupying, req.Start, end, participants, 0) {
			uc.logger.Warn("CreateBooking: interval is not available for resource=%d", req.ResourceID)
			return ErrSlotNotAvailable
		}

		// 3.7. Статус определяется политикой подтверждения ресурса
		status := domain.StatusConfirmed
		if resource.Config.RequireConfirmation {
			status = domain.StatusPendingConfirmation
		}

		booking := &domain.Booking{
			CompanyID:         resource.CompanyID,
			ResourceID:        resource.ID,
			UserID:            req.UserID,
			Start:             req.Start,
			End:               end,
			Status:            status,
			IsGroupBooking:    req.IsGroupBooking,
			ParticipantsCount: participants,
			Notes:             req.Notes,
		}
		if resource.Timetable != nil {
			booking.TimetableID = &resource.Timetable.ID
		}

		created, err := uc.bookingRepo.Create(txCtx, booking)
		if err != nil {
			uc.logger.Error("CreateBooking: failed to create booking: %v", err)
			return fmt.Errorf("%w: failed to create booking: %v", ErrInternal, err)
		}

		result = created
		return nil
	})

	if err != nil {
		return nil, err
	}

	uc.logger.Info("CreateBooking: successfully created booking id=%d with status=%s", result.ID, result.Status)

	// 4. Публикуем события после фиксации транзакции:
	// событие создания плюс событие итогового статуса
	uc.events.Publish(ctx, domain.EventBookingCreated, result, nil)
	switch result.Status {
	case domain.StatusPendingConfirmation:
		uc.events.Publish(ctx, domain.EventBookingPendingConfirmation, result, nil)
	case domain.StatusConfirmed:
		uc.events.Publish(ctx, domain.EventBookingConfirmed, result, nil)
	}

	return &Response{
		ID:                result.ID,
		CompanyID:         result.CompanyID,
		ResourceID:        result.ResourceID,
		TimetableID:       result.TimetableID,
		UserID:            result.UserID,
		Start:             result.Start,
		End:               result.End,
		Status:            string(result.Status),
		IsGroupBooking:    result.IsGroupBooking,
		ParticipantsCount: result.ParticipantsCount,
		Notes:             result.Notes,
		CreatedAt:         result.CreatedAt,
		UpdatedAt:         result.UpdatedAt,
	}, nil
}
