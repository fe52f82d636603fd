package slots

import (
	"context"
	"sort"
	"time"

	"github.com/m04kA/SMC-ResourceBookingService/internal/domain"
	"github.com/m04kA/SMC-ResourceBookingService/internal/timetable"
)

// Dynamic упаковывает слоты вплотную, начиная от from (или начала рабочего
// интервала), перестраиваясь вокруг существующих бронирований вместо
// привязки к фиксированной сетке. Длина слота берется из конфигурации
// ресурса (60 минут по умолчанию, см. ApplyDefaults).
type Dynamic struct {
	bookings BookingSource
}

// NewDynamic создает dynamic-стратегию
func NewDynamic(bookings BookingSource) *Dynamic {
	return &Dynamic{bookings: bookings}
}

// NextSlots ведет курсор по каждому рабочему интервалу: бронирования,
// отсортированные по началу, смещают курсор к своему концу, а слоты
// эмитятся только в промежутках между курсором и началом следующего
// бронирования (или концом интервала). Кандидат, выходящий за конец
// рабочего интервала, отбрасывается.
func (d *Dynamic) NextSlots(ctx context.Context, tt timetable.Timetable, res *domain.Resource, from time.Time, count int, onlyFromDate bool) ([]domain.Slot, error) {
	slotLen := res.Config.SlotDuration()
	slots := make([]domain.Slot, 0, count)

	date := from
	for daysChecked := 0; daysChecked < domain.MaxScanDays && len(slots) < count; daysChecked++ {
		intervals := tt.WorkingIntervalsForDate(date)

		for _, iv := range intervals {
			occupying, err := d.bookings.GetOccupyingInRange(ctx, res.ID, iv.Start, iv.End)
			if err != nil {
				return nil, err
			}
			sort.Slice(occupying, func(i, j int) bool {
				return occupying[i].Start.Before(occupying[j].Start)
			})

			cursor := iv.Start
			if cursor.Before(from) {
				cursor = from
			}

			for _, b := range occupying {
				// Заполняем промежуток до начала бронирования
				for cursor.Before(b.Start) {
					slotEnd := cursor.Add(slotLen)
					if slotEnd.After(b.Start) || slotEnd.After(iv.End) {
						break
					}
					slots = append(slots, domain.Slot{Start: cursor, End: slotEnd})
					if len(slots) >= count {
						return slots, nil
					}
					cursor = slotEnd
				}
				if b.End.After(cursor) {
					cursor = b.End
				}
				if !cursor.Before(iv.End) {
					break
				}
			}

			// Хвост интервала после последнего бронирования
			for cursor.Before(iv.End) {
				slotEnd := cursor.Add(slotLen)
				if slotEnd.After(iv.End) {
					break
				}
				if !slotEnd.After(from) {
					cursor = slotEnd
					continue
				}
				slots = append(slots, domain.Slot{Start: cursor, End: slotEnd})
				if len(slots) >= count {
					return slots, nil
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
