package reschedule_booking

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-ResourceBookingService/internal/api/handlers"
	rescheduleBooking "github.com/m04kA/SMC-ResourceBookingService/internal/usecase/reschedule_booking"
)

const (
	msgInvalidBookingID     = "некорректный идентификатор бронирования"
	msgInvalidRequestBody   = "некорректное тело запроса"
	msgInvalidTimestamp     = "некорректный формат времени, ожидается RFC 3339"
	msgBookingNotFound      = "бронирование не найдено"
	msgResourceNotFound     = "ресурс не найден"
	msgInvalidState         = "бронирование нельзя перенести из текущего статуса"
	msgTooLateToReschedule  = "окно переноса уже закрыто"
	msgTooSoon              = "новый интервал начинается слишком скоро"
	msgOutsideWorkingHours  = "новый интервал выходит за рабочие часы ресурса"
	msgSlotNotAvailable     = "новый интервал недоступен"
	msgResourceBusy         = "ресурс занят другим запросом, повторите попытку"
)

type Handler struct {
	useCase RescheduleBookingUseCase
	logger  Logger
}

func NewHandler(useCase RescheduleBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings/{bookingId}/reschedule
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	bookingID, err := strconv.ParseInt(mux.Vars(r)["bookingId"], 10, 64)
	if err != nil || bookingID <= 0 {
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	var req RescheduleBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings/{id}/reschedule - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(bookingID)
	if err != nil {
		h.logger.Warn("POST /bookings/{id}/reschedule - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, msgInvalidTimestamp)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, rescheduleBooking.ErrInvalidInput):
			h.logger.Warn("POST /bookings/{id}/reschedule - Invalid input: booking_id=%d: %v", bookingID, err)
			handlers.RespondBadRequest(w, msgInvalidRequestBody)

		case errors.Is(err, rescheduleBooking.ErrBookingNotFound):
			h.logger.Warn("POST /bookings/{id}/reschedule - Booking not found: booking_id=%d", bookingID)
			handlers.RespondNotFound(w, msgBookingNotFound)

		case errors.Is(err, rescheduleBooking.ErrResourceNotFound):
			h.logger.Warn("POST /bookings/{id}/reschedule - Resource not found: booking_id=%d", bookingID)
			handlers.RespondNotFound(w, msgResourceNotFound)

		case errors.Is(err, rescheduleBooking.ErrInvalidState):
			h.logger.Warn("POST /bookings/{id}/reschedule - Invalid state: booking_id=%d", bookingID)
			handlers.RespondConflict(w, msgInvalidState)

		case errors.Is(err, rescheduleBooking.ErrTooLateToReschedule):
			h.logger.Warn("POST /bookings/{id}/reschedule - Too late: booking_id=%d", bookingID)
			handlers.RespondUnprocessable(w, msgTooLateToReschedule)

		case errors.Is(err, rescheduleBooking.ErrTooSoon):
			h.logger.Warn("POST /bookings/{id}/reschedule - Too soon: booking_id=%d", bookingID)
			handlers.RespondUnprocessable(w, msgTooSoon)

		case errors.Is(err, rescheduleBooking.ErrOutsideWorkingHours):
			h.logger.Warn("POST /bookings/{id}/reschedule - Outside working hours: booking_id=%d", bookingID)
			handlers.RespondUnprocessable(w, msgOutsideWorkingHours)

		case errors.Is(err, rescheduleBooking.ErrSlotNotAvailable):
			h.logger.Warn("POST /bookings/{id}/reschedule - Slot not available: booking_id=%d", bookingID)
			handlers.RespondConflict(w, msgSlotNotAvailable)

		case errors.Is(err, rescheduleBooking.ErrResourceBusy):
			h.logger.Warn("POST /bookings/{id}/reschedule - Resource busy: booking_id=%d", bookingID)
			handlers.RespondLocked(w, msgResourceBusy)

		default:
			h.logger.Error("POST /bookings/{id}/reschedule - Failed: booking_id=%d, error=%v", bookingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /bookings/{id}/reschedule - Booking rescheduled: booking_id=%d", bookingID)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
