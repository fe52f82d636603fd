package domain

// EventKind identifies a booking state transition event
type EventKind string

const (
	EventBookingCreated             EventKind = "booking.created"
	EventBookingPendingConfirmation EventKind = "booking.pending_confirmation"
	EventBookingConfirmed           EventKind = "booking.confirmed"
	EventBookingRejected            EventKind = "booking.rejected"
	EventBookingCancelled           EventKind = "booking.cancelled"
	EventBookingRescheduled         EventKind = "booking.rescheduled"
	EventBookingReminder            EventKind = "booking.reminder"
)
