package domain

// TimetableKind selects the timetable variant
type TimetableKind string

const (
	TimetableStatic  TimetableKind = "static"
	TimetableDynamic TimetableKind = "dynamic"
)

// TimetablePayload is the decoded schedule policy of a resource.
// Для static заполнено поле Schedule, для dynamic — Dates.
type TimetablePayload struct {
	ID         int64
	ResourceID int64
	Name       string
	Kind       TimetableKind
	Schedule   *WeeklySchedule
	// Dates override-строки динамического расписания, ключ — дата "2006-01-02"
	Dates map[string]DayHours
}

// WeeklySchedule is the static timetable policy: default hours,
// per-weekday exceptions and a holiday list.
type WeeklySchedule struct {
	Default *DayHours `json:"default,omitempty"`
	// Exceptions ключ — имя дня недели в нижнем регистре ("monday" ... "sunday")
	Exceptions map[string]DayHours `json:"exceptions,omitempty"`
	// Holidays даты праздников в формате "MM-DD"
	Holidays []string `json:"holidays,omitempty"`
}

// DayHours is one day's working hours with breaks.
// Nil Start или End означает выходной день.
type DayHours struct {
	Start  *string       `json:"start"` // "HH:MM"
	End    *string       `json:"end"`   // "HH:MM"
	Breaks []BreakWindow `json:"breaks,omitempty"`
}

// IsClosed returns true if the day has no working hours
func (d DayHours) IsClosed() bool {
	return d.Start == nil || d.End == nil
}

// BreakWindow is a non-working gap inside a day's hours.
// Записи без start или end считаются некорректными и пропускаются.
type BreakWindow struct {
	Start *string `json:"start"`
	End   *string `json:"end"`
}

// IsValid returns true if both bounds are present
func (b BreakWindow) IsValid() bool {
	return b.Start != nil && b.End != nil
}
