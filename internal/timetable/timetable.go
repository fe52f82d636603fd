// Package timetable превращает политику расписания ресурса в рабочие
// интервалы конкретной даты (за вычетом перерывов и праздников).
package timetable

import (
	"errors"
	"time"

	"github.com/m04kA/SMC-ResourceBookingService/internal/domain"
)

var (
	// ErrUnknownKind возвращается для неизвестного типа расписания
	ErrUnknownKind = errors.New("timetable: unknown timetable kind")
)

// Timetable resolves a calendar date to zero or more non-overlapping
// working intervals, in chronological order.
type Timetable interface {
	WorkingIntervalsForDate(date time.Time) []domain.Interval
}

// ForResource строит Timetable по decoded payload ресурса.
// Возвращает (nil, false), если у ресурса нет расписания.
func ForResource(res *domain.Resource) (Timetable, bool) {
	if res == nil || res.Timetable == nil {
		return nil, false
	}
	tt, err := New(res.Timetable)
	if err != nil {
		return nil, false
	}
	return tt, true
}

// New выбирает вариант расписания по полю kind
func New(payload *domain.TimetablePayload) (Timetable, error) {
	switch payload.Kind {
	case domain.TimetableStatic:
		return NewStatic(payload.Schedule), nil
	case domain.TimetableDynamic:
		return NewDynamic(payload.Dates), nil
	default:
		return nil, ErrUnknownKind
	}
}

// atTime накладывает время стены "HH:MM" на календарную дату date
// в её локации. Возвращает false для некорректной строки.
func atTime(date time.Time, hm string) (time.Time, bool) {
	parsed, err := time.Parse(domain.TimeFormat, hm)
	if err != nil {
		return time.Time{}, false
	}
	y, m, d := date.Date()
	return time.Date(y, m, d, parsed.Hour(), parsed.Minute(), 0, 0, date.Location()), true
}

// subtractBreaks вычитает перерывы из рабочих часов дня, возвращая
// промежутки между ними как отдельные интервалы в хронологическом порядке.
//
// Алгоритм — движение курсора: перерывы обрабатываются в заданном порядке,
// курсор никогда не откатывается назад, поэтому пересекающиеся перерывы
// сливаются естественно. Перерыв, накрывающий весь интервал, даёт ноль
// интервалов. Некорректные записи перерывов пропускаются.
// Перерывы через полночь не поддерживаются: всё обрезается границами дня.
func subtractBreaks(date time.Time, day domain.DayHours) []domain.Interval {
	if day.IsClosed() {
		return nil
	}

	start, ok := atTime(date, *day.Start)
	if !ok {
		return nil
	}
	end, ok := atTime(date, *day.End)
	if !ok || !start.Before(end) {
		return nil
	}

	intervals := make([]domain.Interval, 0, len(day.Breaks)+1)
	cursor := start

	for _, br := range day.Breaks {
		if !br.IsValid() {
			continue
		}
		brStart, ok := atTime(date, *br.Start)
		if !ok {
			continue
		}
		brEnd, ok := atTime(date, *br.End)
		if !ok {
			continue
		}

		// Обрезаем перерыв границами рабочих часов с обеих сторон:
		// перерыв целиком вне рабочих часов схлопывается в пустой
		if brStart.Before(start) {
			brStart = start
		}
		if brStart.After(end) {
			brStart = end
		}
		if brEnd.After(end) {
			brEnd = end
		}
		if brEnd.Before(start) {
			brEnd = start
		}

		if cursor.Before(brStart) {
			intervals = append(intervals, domain.Interval{Start: cursor, End: brStart})
		}
		if brEnd.After(cursor) {
			cursor = brEnd
		}
	}

	if cursor.Before(end) {
		intervals = append(intervals, domain.Interval{Start: cursor, End: end})
	}

	return intervals
}
