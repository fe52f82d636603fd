package notifier

import "time"

// BookingEvent тело webhook-запроса о переходе состояния бронирования
type BookingEvent struct {
	Event      string            `json:"event"`
	BookingID  int64             `json:"bookingId"`
	ResourceID int64             `json:"resourceId"`
	CompanyID  int64             `json:"companyId"`
	UserID     int64             `json:"userId"`
	Start      time.Time         `json:"start"`
	End        time.Time         `json:"end"`
	Status     string            `json:"status"`
	Extra      map[string]string `json:"extra,omitempty"`
	SentAt     time.Time         `json:"sentAt"`
}
