package create_booking

import (
	"fmt"
	"time"

	createBooking "github.com/m04kA/SMC-ResourceBookingService/internal/usecase/create_booking"
)

// CreateBookingRequest HTTP request model
type CreateBookingRequest struct {
	Start             string  `json:"start"`         // ISO 8601
	End               *string `json:"end,omitempty"` // ISO 8601, опционально
	IsGroupBooking    bool    `json:"isGroupBooking,omitempty"`
	ParticipantsCount int     `json:"participantsCount,omitempty"`
	Notes             *string `json:"notes,omitempty"`
}

// BookingResponse HTTP response model
type BookingResponse struct {
	ID                int64   `json:"id"`
	CompanyID         int64   `json:"companyId"`
	ResourceID        int64   `json:"resourceId"`
	TimetableID       *int64  `json:"timetableId,omitempty"`
	UserID            int64   `json:"userId"`
	Start             string  `json:"start"`
	End               string  `json:"end"`
	Status            string  `json:"status"`
	IsGroupBooking    bool    `json:"isGroupBooking"`
	ParticipantsCount int     `json:"participantsCount"`
	Notes             *string `json:"notes,omitempty"`
	CreatedAt         string  `json:"createdAt"`
	UpdatedAt         string  `json:"updatedAt"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateBookingRequest) ToUseCaseRequest(userID, resourceID int64) (*createBooking.Request, error) {
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

	return &createBooking.Request{
		UserID:            userID,
		ResourceID:        resourceID,
		Start:             start,
		End:               end,
		IsGroupBooking:    r.IsGroupBooking,
		ParticipantsCount: r.ParticipantsCount,
		Notes:             r.Notes,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createBooking.Response) *BookingResponse {
	return &BookingResponse{
		ID:                resp.ID,
		CompanyID:         resp.CompanyID,
		ResourceID:        resp.ResourceID,
		TimetableID:       resp.TimetableID,
		UserID:            resp.UserID,
		Start:             resp.Start.Format(time.RFC3339),
		End:               resp.End.Format(time.RFC3339),
		Status:            resp.Status,
		IsGroupBooking:    resp.IsGroupBooking,
		ParticipantsCount: resp.ParticipantsCount,
		Notes:             resp.Notes,
		CreatedAt:         resp.CreatedAt.Format(time.RFC3339),
		UpdatedAt:         resp.UpdatedAt.Format(time.RFC3339),
	}
}
