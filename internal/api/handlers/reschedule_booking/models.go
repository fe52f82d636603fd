package reschedule_booking

import (
	"fmt"
	"time"

	rescheduleBooking "github.com/m04kA/SMC-ResourceBookingService/internal/usecase/reschedule_booking"
)

// RescheduleBookingRequest HTTP request model
type RescheduleBookingRequest struct {
	Start string  `json:"start"`         // ISO 8601
	End   *string `json:"end,omitempty"` // ISO 8601, опционально
}

// BookingResponse HTTP response model
type BookingResponse struct {
	ID                int64  `json:"id"`
	CompanyID         int64  `json:"companyId"`
	ResourceID        int64  `json:"resourceId"`
	UserID            int64  `json:"userId"`
	Start             string `json:"start"`
	End               string `json:"end"`
	Status            string `json:"status"`
	ParticipantsCount int    `json:"participantsCount"`
	UpdatedAt         string `json:"updatedAt"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *RescheduleBookingRequest) ToUseCaseRequest(bookingID int64) (*rescheduleBooking.Request, error) {
	start, err := time.Parse(time.RFC3339, r.Start)
	if err != nil {
		return nil, fmt.Errorf("parse start: %w", err)
	}

	var end time.Time
	if r.End != nil {
		end, err = time.Parse(time.RFC3339, *r.End)
		if err != nil {
			return nil, fmt.Errorf("parse end: %w", err)
		}
	}

	return &rescheduleBooking.Request{
		BookingID: bookingID,
		Start:     start,
		End:       end,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *rescheduleBooking.Response) *BookingResponse {
	return &BookingResponse{
		ID:                resp.ID,
		CompanyID:         resp.CompanyID,
		ResourceID:        resp.ResourceID,
		UserID:            resp.UserID,
		Start:             resp.Start.Format(time.RFC3339),
		End:               resp.End.Format(time.RFC3339),
		Status:            resp.Status,
		ParticipantsCount: resp.ParticipantsCount,
		UpdatedAt:         resp.UpdatedAt.Format(time.RFC3339),
	}
}
