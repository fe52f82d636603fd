package bookings

import "errors"

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = errors.New("booking not found")

	// ErrInvalidState возвращается, когда переход недопустим из текущего статуса
	ErrInvalidState = errors.New("invalid booking state for transition")

	// ErrTooLateToCancel возвращается, когда окно отмены для клиента уже закрыто
	ErrTooLateToCancel = errors.New("too late to cancel booking")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)
