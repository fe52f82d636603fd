package create_booking

import "errors"

var (
	// ErrResourceNotFound возвращается, когда ресурс не найден
	ErrResourceNotFound = errors.New("create_booking: resource not found")

	// ErrTooSoon возвращается, когда до начала бронирования меньше min_advance_minutes
	ErrTooSoon = errors.New("create_booking: booking starts too soon")

	// ErrOutsideWorkingHours возвращается, когда интервал выходит за рабочие часы ресурса
	ErrOutsideWorkingHours = errors.New("create_booking: interval is outside working hours")

	// ErrSlotNotAvailable возвращается, когда интервал уже занят или вместимость исчерпана
	ErrSlotNotAvailable = errors.New("create_booking: slot is not available")

	// ErrResourceBusy возвращается, когда не удалось захватить блокировку ресурса
	ErrResourceBusy = errors.New("create_booking: resource is busy, try again")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_booking: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_booking: internal error")
)
