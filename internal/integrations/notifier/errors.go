package notifier

import "errors"

var (
	// ErrRequestFailed возвращается при сетевой ошибке запроса к notification-сервису
	ErrRequestFailed = errors.New("notifier: request failed")

	// ErrUnexpectedStatus возвращается при неожиданном HTTP статусе ответа
	ErrUnexpectedStatus = errors.New("notifier: unexpected response status")
)
