package create_booking

import (
	"time"
)

// Request модель запроса на создание бронирования
type Request struct {
	UserID            int64     // ID пользователя
	ResourceID        int64     // ID ресурса
	Start             time.Time // Начало интервала
	End               time.Time // Конец интервала; нулевое значение — начало плюс длительность слота ресурса
	IsGroupBooking    bool      // Групповое бронирование
	ParticipantsCount int       // Сколько мест занимает бронирование; 0 трактуется как 1
	Notes             *string   // Дополнительные заметки (опционально)
}

// Response модель ответа с созданным бронированием
type Response struct {
	ID                int64     // ID созданного бронирования
	CompanyID         int64     // ID компании-владельца ресурса
	ResourceID        int64     // ID ресурса
	TimetableID       *int64    // ID расписания, действовавшего в момент создания
	UserID            int64     // ID пользователя
	Start             time.Time // Начало интервала
	End               time.Time // Конец интервала
	Status            string    // Статус бронирования
	IsGroupBooking    bool      // Групповое бронирование
	ParticipantsCount int       // Сколько мест занимает бронирование
	Notes             *string   // Заметки

	CreatedAt time.Time // Время создания
	UpdatedAt time.Time // Время обновления
}
