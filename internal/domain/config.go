package domain

import "time"

// SlotStrategyKind selects the slot generation strategy for a resource
type SlotStrategyKind string

const (
	StrategyFixed   SlotStrategyKind = "fixed"
	StrategyDynamic SlotStrategyKind = "dynamic"
)

// ResourceConfig represents the booking policy of a resource.
// Stored as JSONB on the resources table and decoded once at the store
// boundary; the engine never works with a raw untyped map.
type ResourceConfig struct {
	RequireConfirmation bool             `json:"require_confirmation"`
	SlotDurationMinutes int              `json:"slot_duration_minutes"`
	SlotStrategy        SlotStrategyKind `json:"slot_strategy"`
	// MaxParticipants nil или 0 — эксклюзивный ресурс (одно бронирование в момент времени)
	MaxParticipants         *int `json:"max_participants,omitempty"`
	MinAdvanceMinutes       int  `json:"min_advance_minutes"`
	CancelBeforeMinutes     *int `json:"cancel_before_minutes,omitempty"`
	RescheduleBeforeMinutes *int `json:"reschedule_before_minutes,omitempty"`
	ReminderBeforeMinutes   *int `json:"reminder_before_minutes,omitempty"`
}

// ApplyDefaults fills unset fields with documented defaults
func (c *ResourceConfig) ApplyDefaults() {
	if c.SlotDurationMinutes <= 0 {
		c.SlotDurationMinutes = DefaultSlotDurationMinutes
	}
	if c.SlotStrategy != StrategyFixed && c.SlotStrategy != StrategyDynamic {
		c.SlotStrategy = StrategyFixed
	}
	if c.MinAdvanceMinutes < 0 {
		c.MinAdvanceMinutes = 0
	}
}

// IsExclusive returns true if at most one booking may occupy any instant
func (c *ResourceConfig) IsExclusive() bool {
	return c.MaxParticipants == nil || *c.MaxParticipants <= 0
}

// SlotDuration returns the slot length as a duration
func (c *ResourceConfig) SlotDuration() time.Duration {
	return time.Duration(c.SlotDurationMinutes) * time.Minute
}

// MinAdvance returns the minimum lead time before a booking may start
func (c *ResourceConfig) MinAdvance() time.Duration {
	return time.Duration(c.MinAdvanceMinutes) * time.Minute
}
