package models

import (
	"errors"
	"time"

	"github.com/m04kA/SMC-ResourceBookingService/internal/domain"
)

var (
	// ErrInvalidStatus возвращается при некорректном статусе
	ErrInvalidStatus = errors.New("invalid booking status")

	// ErrInvalidActor возвращается при некорректном инициаторе отмены
	ErrInvalidActor = errors.New("invalid cancellation actor")
)

// Request модели

// CancelBookingRequest запрос на отмену бронирования
type CancelBookingRequest struct {
	CancelledBy string  `json:"cancelledBy"` // "client" или "admin"
	Reason      *string `json:"reason,omitempty"`
}

// RejectBookingRequest запрос на отклонение бронирования
type RejectBookingRequest struct {
	Reason *string `json:"reason,omitempty"`
}

// GetUserBookingsRequest запрос на получение бронирований пользователя
type GetUserBookingsRequest struct {
	UserID int64   `json:"userId"`
	Status *string `json:"status,omitempty"`
}

// GetResourceBookingsRequest запрос на получение бронирований ресурса
type GetResourceBookingsRequest struct {
	ResourceID      int64      `json:"resourceId"`
	From            *time.Time `json:"from,omitempty"`
	To              *time.Time `json:"to,omitempty"`
	Status          *string    `json:"status,omitempty"`
	IncludeInactive bool       `json:"includeInactive,omitempty"`
}

// ToDomainFilter конвертирует request в domain фильтр
func (r *GetResourceBookingsRequest) ToDomainFilter() (domain.ResourceBookingsFilter, error) {
	filter := domain.ResourceBookingsFilter{
		ResourceID:      r.ResourceID,
		From:            r.From,
		To:              r.To,
		IncludeInactive: r.IncludeInactive,
	}

	if r.Status != nil {
		status, err := ToDomainBookingStatus(*r.Status)
		if err != nil {
			return filter, err
		}
		filter.Status = &status
	}

	return filter, nil
}

// Response модели

// BookingResponse ответ с данными бронирования
type BookingResponse struct {
	ID                int64   `json:"id"`
	CompanyID         int64   `json:"companyId"`
	ResourceID        int64   `json:"resourceId"`
	TimetableID       *int64  `json:"timetableId,omitempty"`
	UserID            int64   `json:"userId"`
	StartAt           string  `json:"startAt"` // ISO 8601
	EndAt             string  `json:"endAt"`   // ISO 8601
	Status            string  `json:"status"`
	IsGroupBooking    bool    `json:"isGroupBooking"`
	ParticipantsCount int     `json:"participantsCount"`
	Reason            *string `json:"reason,omitempty"`
	Notes             *string `json:"notes,omitempty"`

	CancelledAt *string `json:"cancelledAt,omitempty"` // ISO 8601

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// BookingListResponse ответ со списком бронирований
type BookingListResponse struct {
	Bookings []BookingResponse `json:"bookings"`
}

// Методы конвертации

// FromDomainBooking конвертирует domain модель в DTO
func FromDomainBooking(b *domain.Booking) *BookingResponse {
	if b == nil {
		return nil
	}

	resp := &BookingResponse{
		ID:                b.ID,
		CompanyID:         b.CompanyID,
		ResourceID:        b.ResourceID,
		TimetableID:       b.TimetableID,
		UserID:            b.UserID,
		StartAt:           b.Start.Format(time.RFC3339),
		EndAt:             b.End.Format(time.RFC3339),
		Status:            string(b.Status),
		IsGroupBooking:    b.IsGroupBooking,
		ParticipantsCount: b.ParticipantsCount,
		Reason:            b.Reason,
		Notes:             b.Notes,
		CreatedAt:         b.CreatedAt,
		UpdatedAt:         b.UpdatedAt,
	}

	if b.CancelledAt != nil {
		cancelledAt := b.CancelledAt.Format(time.RFC3339)
		resp.CancelledAt = &cancelledAt
	}

	return resp
}

// FromDomainBookingList конвертирует список domain моделей в DTO
func FromDomainBookingList(bookings []*domain.Booking) *BookingListResponse {
	resp := &BookingListResponse{
		Bookings: make([]BookingResponse, 0, len(bookings)),
	}
	for _, b := range bookings {
		if converted := FromDomainBooking(b); converted != nil {
			resp.Bookings = append(resp.Bookings, *converted)
		}
	}
	return resp
}

// ToDomainBookingStatus конвертирует строку в domain.BookingStatus
func ToDomainBookingStatus(s string) (domain.BookingStatus, error) {
	status := domain.BookingStatus(s)
	switch status {
	case domain.StatusPendingConfirmation,
		domain.StatusConfirmed,
		domain.StatusAwaitingPayment,
		domain.StatusRejected,
		domain.StatusCancelledByClient,
		domain.StatusCancelledByAdmin:
		return status, nil
	default:
		return "", ErrInvalidStatus
	}
}
