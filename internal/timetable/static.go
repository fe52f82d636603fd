package timetable

import (
	"strings"
	"time"

	"github.com/m04kA/SMC-ResourceBookingService/internal/domain"
)

// Static расписание по недельному шаблону: часы по умолчанию,
// исключения по дням недели и список праздников.
type Static struct {
	schedule domain.WeeklySchedule
}

// NewStatic создает статическое расписание
func NewStatic(schedule *domain.WeeklySchedule) *Static {
	if schedule == nil {
		return &Static{}
	}
	return &Static{schedule: *schedule}
}

// WorkingIntervalsForDate возвращает рабочие интервалы даты.
// Праздничная дата (совпадение "MM-DD") — пустой результат.
// Для дня недели берется exception-запись, иначе запись по умолчанию;
// день без часов работы — пустой результат.
func (s *Static) WorkingIntervalsForDate(date time.Time) []domain.Interval {
	monthDay := date.Format(domain.MonthDayFormat)
	for _, h := range s.schedule.Holidays {
		if h == monthDay {
			return nil
		}
	}

	day := s.schedule.Default
	weekday := strings.ToLower(date.Weekday().String())
	if exc, ok := s.schedule.Exceptions[weekday]; ok {
		day = &exc
	}
	if day == nil || day.IsClosed() {
		return nil
	}

	return subtractBreaks(date, *day)
}
