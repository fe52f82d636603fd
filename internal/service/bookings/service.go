package bookings

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/m04kA/SMC-ResourceBookingService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-ResourceBookingService/internal/infra/storage/booking"
	resourceRepo "github.com/m04kA/SMC-ResourceBookingService/internal/infra/storage/resource"
	"github.com/m04kA/SMC-ResourceBookingService/internal/service/bookings/models"
)

// Service сервис переходов статусов и чтения бронирований.
// Переходы выполняются через compare-and-set на строке бронирования:
// UPDATE проходит только если статус все еще в списке допустимых,
// поэтому блокировка ресурса здесь не нужна.
type Service struct {
	bookingRepo  BookingRepository
	resourceRepo ResourceRepository
	events       EventSink
	timeProvider TimeProvider
	logger       Logger
}

// NewService создает новый экземпляр сервиса бронирований
func NewService(
	bookingRepo BookingRepository,
	resourceRepo ResourceRepository,
	events EventSink,
	timeProvider TimeProvider,
	logger Logger,
) *Service {
	return &Service{
		bookingRepo:  bookingRepo,
		resourceRepo: resourceRepo,
		events:       events,
		timeProvider: timeProvider,
		logger:       logger,
	}
}

// GetByID получает бронирование по ID
func (s *Service) GetByID(ctx context.Context, id int64) (*models.BookingResponse, error) {
	s.logger.Info("GetByID: fetching booking id=%d", id)

	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("GetByID: booking id=%d not found", id)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("GetByID: repository error for booking id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainBooking(booking), nil
}

// GetUserBookings получает историю бронирований пользователя
// Опционально фильтрует по статусу
func (s *Service) GetUserBookings(ctx context.Context, req *models.GetUserBookingsRequest) (*models.BookingListResponse, error) {
	s.logger.Info("GetUserBookings: fetching bookings for user=%d, status=%v", req.UserID, req.Status)

	var domainStatus *domain.BookingStatus
	if req.Status != nil {
		status, err := models.ToDomainBookingStatus(*req.Status)
		if err != nil {
			s.logger.Warn("GetUserBookings: invalid status=%s for user=%d", *req.Status, req.UserID)
			return nil, fmt.Errorf("%w: invalid status", ErrInvalidInput)
		}
		domainStatus = &status
	}

	bookings, err := s.bookingRepo.GetByUserID(ctx, req.UserID, domainStatus)
	if err != nil {
		s.logger.Error("GetUserBookings: repository error for user=%d: %v", req.UserID, err)
		return nil, fmt.Errorf("%w: GetUserBookings - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetUserBookings: successfully fetched %d bookings for user=%d", len(bookings), req.UserID)
	return models.FromDomainBookingList(bookings), nil
}

// GetResourceBookings получает бронирования ресурса с фильтрацией
// по периоду, статусу и включению терминальных бронирований
func (s *Service) GetResourceBookings(ctx context.Context, req *models.GetResourceBookingsRequest) (*models.BookingListResponse, error) {
	s.logger.Info("GetResourceBookings: fetching bookings for resource=%d", req.ResourceID)

	filter, err := req.ToDomainFilter()
	if err != nil {
		s.logger.Warn("GetResourceBookings: invalid filter for resource=%d: %v", req.ResourceID, err)
		return nil, fmt.Errorf("%w: invalid filter", ErrInvalidInput)
	}

	bookings, err := s.bookingRepo.GetByResourceWithFilter(ctx, filter)
	if err != nil {
		s.logger.Error("GetResourceBookings: repository error for resource=%d: %v", req.ResourceID, err)
		return nil, fmt.Errorf("%w: GetResourceBookings - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetResourceBookings: successfully fetched %d bookings for resource=%d", len(bookings), req.ResourceID)
	return models.FromDomainBookingList(bookings), nil
}

// Confirm подтверждает бронирование, ожидающее подтверждения
func (s *Service) Confirm(ctx context.Context, bookingID int64) (*models.BookingResponse, error) {
	s.logger.Info("Confirm: confirming booking id=%d", bookingID)

	allowed := []domain.BookingStatus{domain.StatusPendingConfirmation}
	booking, err := s.bookingRepo.UpdateStatusIf(ctx, bookingID, allowed, domain.StatusConfirmed, nil)
	if err != nil {
		return nil, s.mapTransitionError("Confirm", bookingID, err)
	}

	s.events.Publish(ctx, domain.EventBookingConfirmed, booking, nil)

	s.logger.Info("Confirm: successfully confirmed booking id=%d", bookingID)
	return models.FromDomainBooking(booking), nil
}

// Reject отклоняет бронирование, ожидающее подтверждения
func (s *Service) Reject(ctx context.Context, bookingID int64, req *models.RejectBookingRequest) (*models.BookingResponse, error) {
	s.logger.Info("Reject: rejecting booking id=%d", bookingID)

	allowed := []domain.BookingStatus{domain.StatusPendingConfirmation}
	booking, err := s.bookingRepo.UpdateStatusIf(ctx, bookingID, allowed, domain.StatusRejected, req.Reason)
	if err != nil {
		return nil, s.mapTransitionError("Reject", bookingID, err)
	}

	s.events.Publish(ctx, domain.EventBookingRejected, booking, nil)

	s.logger.Info("Reject: successfully rejected booking id=%d", bookingID)
	return models.FromDomainBooking(booking), nil
}

// Cancel отменяет бронирование.
// Клиент может отменить только в пределах окна cancel_before_minutes ресурса,
// администратор — в любой момент до терминального статуса.
func (s *Service) Cancel(ctx context.Context, bookingID int64, req *models.CancelBookingRequest) (*models.BookingResponse, error) {
	s.logger.Info("Cancel: cancelling booking id=%d by %s", bookingID, req.CancelledBy)

	var cancelStatus domain.BookingStatus
	switch req.CancelledBy {
	case domain.ActorClient:
		cancelStatus = domain.StatusCancelledByClient
	case domain.ActorAdmin:
		cancelStatus = domain.StatusCancelledByAdmin
	default:
		s.logger.Warn("Cancel: invalid actor=%s for booking id=%d", req.CancelledBy, bookingID)
		return nil, fmt.Errorf("%w: invalid cancelledBy", ErrInvalidInput)
	}

	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("Cancel: booking id=%d not found", bookingID)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("Cancel: repository error for booking id=%d: %v", bookingID, err)
		return nil, fmt.Errorf("%w: Cancel - repository error: %v", ErrInternal, err)
	}

	if !booking.CanBeCancelled() {
		s.logger.Warn("Cancel: booking id=%d cannot be cancelled, status=%s", bookingID, booking.Status)
		return nil, ErrInvalidState
	}

	if req.CancelledBy == domain.ActorClient {
		if err := s.checkCancelWindow(ctx, booking); err != nil {
			return nil, err
		}
	}

	updated, err := s.bookingRepo.UpdateStatusIf(ctx, bookingID, domain.OccupyingStatuses, cancelStatus, req.Reason)
	if err != nil {
		return nil, s.mapTransitionError("Cancel", bookingID, err)
	}

	s.events.Publish(ctx, domain.EventBookingCancelled, updated, map[string]string{
		"cancelled_by": req.CancelledBy,
	})

	s.logger.Info("Cancel: successfully cancelled booking id=%d with status=%s", bookingID, cancelStatus)
	return models.FromDomainBooking(updated), nil
}

// SendReminders публикует события-напоминания о подтвержденных бронированиях,
// начинающихся в ближайшем окне. Горизонт сканирования задает defaultMinutes;
// ресурс с reminder_before_minutes меньше горизонта получает напоминание позже,
// когда до начала остается его собственное окно.
func (s *Service) SendReminders(ctx context.Context, defaultMinutes int) (int, error) {
	now := s.timeProvider.Now()
	horizon := now.Add(time.Duration(defaultMinutes) * time.Minute)

	s.logger.Info("SendReminders: scanning confirmed bookings between %s and %s",
		now.Format(time.RFC3339), horizon.Format(time.RFC3339))

	upcoming, err := s.bookingRepo.GetConfirmedStartingBetween(ctx, now, horizon)
	if err != nil {
		s.logger.Error("SendReminders: repository error: %v", err)
		return 0, fmt.Errorf("%w: SendReminders - repository error: %v", ErrInternal, err)
	}

	sent := 0
	for _, booking := range upcoming {
		window := time.Duration(defaultMinutes) * time.Minute

		resource, err := s.resourceRepo.GetByID(ctx, booking.ResourceID)
		if err != nil {
			if !errors.Is(err, resourceRepo.ErrResourceNotFound) {
				s.logger.Error("SendReminders: failed to load resource=%d for booking id=%d: %v",
					booking.ResourceID, booking.ID, err)
				continue
			}
		} else if resource.Config.ReminderBeforeMinutes != nil {
			window = time.Duration(*resource.Config.ReminderBeforeMinutes) * time.Minute
		}

		untilStart := booking.Start.Sub(now)
		if untilStart > window {
			continue
		}

		s.events.Publish(ctx, domain.EventBookingReminder, booking, map[string]string{
			"starts_in_minutes": strconv.Itoa(int(untilStart / time.Minute)),
		})
		sent++
	}

	s.logger.Info("SendReminders: published %d reminders out of %d upcoming bookings", sent, len(upcoming))
	return sent, nil
}

// checkCancelWindow проверяет, что до начала бронирования осталось не меньше
// cancel_before_minutes ресурса. Отсутствие настройки означает отмену без окна.
func (s *Service) checkCancelWindow(ctx context.Context, booking *domain.Booking) error {
	resource, err := s.resourceRepo.GetByID(ctx, booking.ResourceID)
	if err != nil {
		if errors.Is(err, resourceRepo.ErrResourceNotFound) {
			s.logger.Warn("checkCancelWindow: resource=%d not found for booking id=%d", booking.ResourceID, booking.ID)
			return nil
		}
		s.logger.Error("checkCancelWindow: failed to load resource=%d: %v", booking.ResourceID, err)
		return fmt.Errorf("%w: checkCancelWindow - failed to get resource: %v", ErrInternal, err)
	}

	if resource.Config.CancelBeforeMinutes == nil {
		return nil
	}

	window := time.Duration(*resource.Config.CancelBeforeMinutes) * time.Minute
	if s.timeProvider.Now().Add(window).After(booking.Start) {
		s.logger.Warn("checkCancelWindow: cancellation window closed for booking id=%d", booking.ID)
		return ErrTooLateToCancel
	}

	return nil
}

// mapTransitionError переводит ошибки CAS-обновления в ошибки сервиса
func (s *Service) mapTransitionError(op string, bookingID int64, err error) error {
	if errors.Is(err, bookingRepo.ErrBookingNotFound) {
		s.logger.Warn("%s: booking id=%d not found", op, bookingID)
		return ErrBookingNotFound
	}
	if errors.Is(err, bookingRepo.ErrStatusConflict) {
		s.logger.Warn("%s: booking id=%d is not in an allowed status", op, bookingID)
		return ErrInvalidState
	}
	s.logger.Error("%s: repository error for booking id=%d: %v", op, bookingID, err)
	return fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
}
