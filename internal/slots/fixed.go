package slots

import (
	"context"
	"time"

	"github.com/m04kA/SMC-ResourceBookingService/internal/domain"
	"github.com/m04kA/SMC-ResourceBookingService/internal/timetable"
)

// Fixed нарезает рабочие интервалы на равномерную сетку слотов
// длиной slot_duration_minutes, начиная с начала интервала.
type Fixed struct {
	bookings BookingSource
}

// NewFixed создает fixed-стратегию
func NewFixed(bookings BookingSource) *Fixed {
	return &Fixed{bookings: bookings}
}

// NextSlots сканирует дни вперед (не более domain.MaxScanDays, либо только
// день from при onlyFromDate) и собирает до count слотов. Слот отбрасывается,
// если заканчивается не позже from, выходит за рабочий интервал или
// пересекается с occupying-бронированием.
func (f *Fixed) NextSlots(ctx context.Context, tt timetable.Timetable, res *domain.Resource, from time.Time, count int, onlyFromDate bool) ([]domain.Slot, error) {
	slotLen := res.Config.SlotDuration()
	slots := make([]domain.Slot, 0, count)

	date := from
	for daysChecked := 0; daysChecked < domain.MaxScanDays && len(slots) < count; daysChecked++ {
		intervals := tt.WorkingIntervalsForDate(date)

		for _, iv := range intervals {
			occupying, err := f.bookings.GetOccupyingInRange(ctx, res.ID, iv.Start, iv.End)
			if err != nil {
				return nil, err
			}

			cursor := iv.Start
			for cursor.Before(iv.End) {
				slotEnd := cursor.Add(slotLen)
				if slotEnd.After(iv.End) {
					break
				}
				// Слоты, закончившиеся к моменту from, уже в прошлом
				if !slotEnd.After(from) {
					cursor = slotEnd
					continue
				}
				if !overlapsAny(occupying, cursor, slotEnd) {
					slots = append(slots, domain.Slot{Start: cursor, End: slotEnd})
					if len(slots) >= count {
						return slots, nil
					}
				}
				cursor = slotEnd
			}
		}

		if onlyFromDate {
			break
		}
		date = date.AddDate(0, 0, 1)
	}

	return slots, nil
}
