package domain

// Default configuration values
const (
	DefaultSlotDurationMinutes = 60
	DefaultSlotCount           = 5
)

// Business validation constants
const (
	MinSlotDurationMinutes = 5
	MaxSlotDurationMinutes = 480 // 8 часов
	MaxNotesLength         = 500
	MaxReasonLength        = 500

	// MaxScanDays ограничивает поиск слотов вперед, чтобы гарантировать завершение
	MaxScanDays = 365
)

// Time format constants
const (
	TimeFormat     = "15:04"      // HH:MM
	DateFormat     = "2006-01-02" // YYYY-MM-DD
	MonthDayFormat = "01-02"      // MM-DD, формат дат праздников
)

// OccupyingStatuses статусы, учитываемые при проверке пересечений и вместимости
var OccupyingStatuses = []BookingStatus{
	StatusConfirmed,
	StatusPendingConfirmation,
	StatusAwaitingPayment,
}

// TerminalStatuses статусы, из которых невозможны дальнейшие переходы
var TerminalStatuses = []BookingStatus{
	StatusRejected,
	StatusCancelledByClient,
	StatusCancelledByAdmin,
}

// Actor идентифицирует инициатора отмены или переноса
const (
	ActorClient = "client"
	ActorAdmin  = "admin"
)
