package reschedule_booking

import "errors"

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = errors.New("reschedule_booking: booking not found")

	// ErrResourceNotFound возвращается, когда ресурс бронирования не найден
	ErrResourceNotFound = errors.New("reschedule_booking: resource not found")

	// ErrInvalidState возвращается при попытке перенести терминальное бронирование
	ErrInvalidState = errors.New("reschedule_booking: booking is in a terminal state")

	// ErrTooLateToReschedule возвращается, когда окно переноса уже закрыто
	ErrTooLateToReschedule = errors.New("reschedule_booking: too late to reschedule")

	// ErrTooSoon возвращается, когда новый интервал начинается раньше min_advance_minutes
	ErrTooSoon = errors.New("reschedule_booking: new interval starts too soon")

	// ErrOutsideWorkingHours возвращается, когда новый интервал выходит за рабочие часы
	ErrOutsideWorkingHours = errors.New("reschedule_booking: interval is outside working hours")

	// ErrSlotNotAvailable возвращается, когда новый интервал занят
	ErrSlotNotAvailable = errors.New("reschedule_booking: slot is not available")

	// ErrResourceBusy возвращается, когда не удалось захватить блокировку ресурса
	ErrResourceBusy = errors.New("reschedule_booking: resource is busy, try again")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("reschedule_booking: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("reschedule_booking: internal error")
)
