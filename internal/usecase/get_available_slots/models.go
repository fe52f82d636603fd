package get_available_slots

import "time"

// Request модель запроса на получение свободных слотов
type Request struct {
	ResourceID int64      // ID ресурса
	From       *time.Time // Искать слоты не раньше этого момента (опционально, по умолчанию сейчас)
	Date       *time.Time // Ограничить поиск одной датой (опционально)
	Count      int        // Сколько слотов вернуть; 0 — значение по умолчанию
}

// SlotResponse один свободный слот
type SlotResponse struct {
	Start string `json:"start"` // ISO 8601
	End   string `json:"end"`   // ISO 8601
}

// Response модель ответа со свободными слотами
type Response struct {
	ResourceID int64          `json:"resourceId"`
	Slots      []SlotResponse `json:"slots"`
}
