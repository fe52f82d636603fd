package create_booking

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-ResourceBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-ResourceBookingService/internal/api/middleware"
	createBooking "github.com/m04kA/SMC-ResourceBookingService/internal/usecase/create_booking"
)

const (
	msgInvalidRequestBody  = "некорректное тело запроса"
	msgInvalidResourceID   = "некорректный идентификатор ресурса"
	msgInvalidTimestamp    = "некорректный формат времени, ожидается RFC 3339"
	msgResourceNotFound    = "ресурс не найден"
	msgSlotNotAvailable    = "выбранный интервал недоступен"
	msgTooSoon             = "слишком поздно для бронирования этого интервала"
	msgOutsideWorkingHours = "интервал выходит за рабочие часы ресурса"
	msgResourceBusy        = "ресурс занят другим запросом, повторите попытку"
)

type Handler struct {
	useCase CreateBookingUseCase
	logger  Logger
}

func NewHandler(useCase CreateBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/resources/{resourceId}/bookings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	resourceID, err := strconv.ParseInt(mux.Vars(r)["resourceId"], 10, 64)
	if err != nil || resourceID <= 0 {
		handlers.RespondBadRequest(w, msgInvalidResourceID)
		return
	}

	userID := middleware.UserID(r)

	var req CreateBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /resources/{id}/bookings - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(userID, resourceID)
	if err != nil {
		h.logger.Warn("POST /resources/{id}/bookings - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, msgInvalidTimestamp)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, createBooking.ErrInvalidInput):
			h.logger.Warn("POST /resources/{id}/bookings - Invalid input: user_id=%d, resource_id=%d: %v", userID, resourceID, err)
			handlers.RespondBadRequest(w, msgInvalidRequestBody)

		case errors.Is(err, createBooking.ErrResourceNotFound):
			h.logger.Warn("POST /resources/{id}/bookings - Resource not found: resource_id=%d", resourceID)
			handlers.RespondNotFound(w, msgResourceNotFound)

		case errors.Is(err, createBooking.ErrSlotNotAvailable):
			h.logger.Warn("POST /resources/{id}/bookings - Slot not available: user_id=%d, resource_id=%d", userID, resourceID)
			handlers.RespondConflict(w, msgSlotNotAvailable)

		case errors.Is(err, createBooking.ErrTooSoon):
			h.logger.Warn("POST /resources/{id}/bookings - Too soon: user_id=%d, resource_id=%d", userID, resourceID)
			handlers.RespondUnprocessable(w, msgTooSoon)

		case errors.Is(err, createBooking.ErrOutsideWorkingHours):
			h.logger.Warn("POST /resources/{id}/bookings - Outside working hours: user_id=%d, resource_id=%d", userID, resourceID)
			handlers.RespondUnprocessable(w, msgOutsideWorkingHours)

		case errors.Is(err, createBooking.ErrResourceBusy):
			h.logger.Warn("POST /resources/{id}/bookings - Resource busy: user_id=%d, resource_id=%d", userID, resourceID)
			handlers.RespondLocked(w, msgResourceBusy)

		default:
			h.logger.Error("POST /resources/{id}/bookings - Failed to create booking: user_id=%d, resource_id=%d, error=%v",
				userID, resourceID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /resources/{id}/bookings - Booking created: booking_id=%d, user_id=%d, resource_id=%d",
		result.ID, userID, resourceID)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}
