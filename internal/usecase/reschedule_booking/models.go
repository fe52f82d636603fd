package reschedule_booking

import "time"

// Request модель запроса на перенос бронирования
type Request struct {
	BookingID int64     // ID бронирования
	Start     time.Time // Новое начало интервала
	End       time.Time // Новый конец; нулевое значение — прежняя длительность от нового начала
}

// Response модель ответа с перенесенным бронированием
type Response struct {
	ID                int64     // ID бронирования
	CompanyID         int64     // ID компании-владельца ресурса
	ResourceID        int64     // ID ресурса
	UserID            int64     // ID пользователя
	Start             time.Time // Новое начало интервала
	End               time.Time // Новый конец интервала
	Status            string    // Статус бронирования (не меняется при переносе)
	ParticipantsCount int       // Сколько мест занимает бронирование

	UpdatedAt time.Time // Время обновления
}
