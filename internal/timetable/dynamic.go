package timetable

import (
	"time"

	"github.com/m04kA/SMC-ResourceBookingService/internal/domain"
)

// Dynamic расписание с явными override-строками по датам
type Dynamic struct {
	dates map[string]domain.DayHours
}

// NewDynamic создает динамическое расписание
func NewDynamic(dates map[string]domain.DayHours) *Dynamic {
	return &Dynamic{dates: dates}
}

// WorkingIntervalsForDate возвращает рабочие интервалы даты.
// Дата без override-строки или с пустыми часами — пустой результат;
// иначе применяется то же вычитание перерывов, что и в Static.
func (d *Dynamic) WorkingIntervalsForDate(date time.Time) []domain.Interval {
	day, ok := d.dates[date.Format(domain.DateFormat)]
	if !ok || day.IsClosed() {
		return nil
	}
	return subtractBreaks(date, day)
}
