package domain

import "time"

// Resource represents a bookable entity (staff member, room, equipment)
type Resource struct {
	ID           int64
	CompanyID    int64
	ResourceType string
	Name         string
	// Config единственный источник правды о политике бронирования ресурса
	Config ResourceConfig
	// Timetable расписание ресурса; nil — слоты не генерируются,
	// но бронирования ad hoc по-прежнему принимаются
	Timetable *TimetablePayload

	CreatedAt time.Time
	UpdatedAt time.Time
}

// HasTimetable returns true if slot generation is possible for the resource
func (r *Resource) HasTimetable() bool {
	return r.Timetable != nil
}
