package domain

import "time"

// Interval is a half-open [Start, End) working time range on a single date,
// produced by a timetable net of breaks and holidays.
type Interval struct {
	Start time.Time
	End   time.Time
}

// Duration returns the interval length
func (i Interval) Duration() time.Duration {
	return i.End.Sub(i.Start)
}

// Contains reports whether [start, end) fits entirely inside the interval
func (i Interval) Contains(start, end time.Time) bool {
	return !start.Before(i.Start) && !end.After(i.End)
}

// Slot is a candidate bookable sub-range of a working interval
type Slot struct {
	Start time.Time
	End   time.Time
}

// Duration returns the slot length
func (s Slot) Duration() time.Duration {
	return s.End.Sub(s.Start)
}
