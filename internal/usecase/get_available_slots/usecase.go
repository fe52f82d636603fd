package get_available_slots

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-ResourceBookingService/internal/domain"
	resourceRepo "github.com/m04kA/SMC-ResourceBookingService/internal/infra/storage/resource"
	"github.com/m04kA/SMC-ResourceBookingService/internal/slots"
	"github.com/m04kA/SMC-ResourceBookingService/internal/timetable"
)

// UseCase use case для получения свободных слотов ресурса.
// Выбор стратегии определяет конфигурация ресурса: fixed выдает слоты по
// сетке расписания, dynamic упаковывает их в промежутки между бронированиями.
type UseCase struct {
	bookingRepo  BookingRepository
	resourceRepo ResourceRepository
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	resourceRepo ResourceRepository,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:  bookingRepo,
		resourceRepo: resourceRepo,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute выполняет use case получения свободных слотов
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailableSlots: resource=%d, count=%d", req.ResourceID, req.Count)

	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailableSlots: validation failed: %v", err)
		return nil, err
	}

	resource, err := uc.resourceRepo.GetByID(ctx, req.ResourceID)
	if err != nil {
		if errors.Is(err, resourceRepo.ErrResourceNotFound) {
			uc.logger.Warn("GetAvailableSlots: resource=%d not found", req.ResourceID)
			return nil, ErrResourceNotFound
		}
		uc.logger.Error("GetAvailableSlots: failed to get resource=%d: %v", req.ResourceID, err)
		return nil, fmt.Errorf("%w: failed to get resource: %v", ErrInternal, err)
	}

	// Ресурс без расписания слотов не выдает
	tt, ok := timetable.ForResource(resource)
	if !ok {
		uc.logger.Info("GetAvailableSlots: resource=%d has no timetable", req.ResourceID)
		return &Response{ResourceID: req.ResourceID, Slots: []SlotResponse{}}, nil
	}

	now := uc.timeProvider.Now()

	// Раньше минимального интервала до начала слоты не предлагаются
	from := now.Add(resource.Config.MinAdvance())
	if req.From != nil && req.From.After(from) {
		from = *req.From
	}

	onlyFromDate := false
	if req.Date != nil {
		onlyFromDate = true
		dayStart := time.Date(req.Date.Year(), req.Date.Month(), req.Date.Day(), 0, 0, 0, 0, req.Date.Location())
		if dayStart.After(from) {
			from = dayStart
		}
	}

	count := req.Count
	if count <= 0 {
		count = domain.DefaultSlotCount
	}

	strategy := slots.ForConfig(&resource.Config, uc.bookingRepo)

	found, err := strategy.NextSlots(ctx, tt, resource, from, count, onlyFromDate)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: strategy failed for resource=%d: %v", req.ResourceID, err)
		return nil, fmt.Errorf("%w: strategy failed: %v", ErrInternal, err)
	}

	resp := &Response{
		ResourceID: req.ResourceID,
		Slots:      make([]SlotResponse, 0, len(found)),
	}
	for _, s := range found {
		resp.Slots = append(resp.Slots, SlotResponse{
			Start: s.Start.Format(time.RFC3339),
			End:   s.End.Format(time.RFC3339),
		})
	}

	uc.logger.Info("GetAvailableSlots: found %d slots for resource=%d", len(resp.Slots), req.ResourceID)
	return resp, nil
}

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.ResourceID <= 0 {
		return fmt.Errorf("%w: resourceID must be positive", ErrInvalidInput)
	}

	if req.Count < 0 {
		return fmt.Errorf("%w: count must not be negative", ErrInvalidInput)
	}

	return nil
}
