package create_booking

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-ResourceBookingService/internal/domain"
	"github.com/m04kA/SMC-ResourceBookingService/internal/timetable"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.UserID <= 0 {
		return fmt.Errorf("%w: userID must be positive", ErrInvalidInput)
	}

	if req.ResourceID <= 0 {
		return fmt.Errorf("%w: resourceID must be positive", ErrInvalidInput)
	}

	if req.Start.IsZero() {
		return fmt.Errorf("%w: start is required", ErrInvalidInput)
	}

	if !req.End.IsZero() && !req.Start.Before(req.End) {
		return fmt.Errorf("%w: start must be before end", ErrInvalidInput)
	}

	if req.ParticipantsCount < 0 {
		return fmt.Errorf("%w: participantsCount must not be negative", ErrInvalidInput)
	}

	if req.Notes != nil && len(*req.Notes) > domain.MaxNotesLength {
		return fmt.Errorf("%w: notes exceed %d characters", ErrInvalidInput, domain.MaxNotesLength)
	}

	return nil
}

// validateMinAdvance проверяет, что до начала бронирования осталось не меньше
// min_advance_minutes ресурса
func validateMinAdvance(cfg *domain.ResourceConfig, now, start time.Time) error {
	if start.Before(now.Add(cfg.MinAdvance())) {
		return ErrTooSoon
	}
	return nil
}

// validateWithinWorkingHours проверяет, что интервал [start, end) целиком лежит
// в одном из рабочих интервалов расписания на дату начала.
// Ресурс без расписания принимает бронирования в любое время.
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
