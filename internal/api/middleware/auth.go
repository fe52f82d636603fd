// Package middleware содержит промежуточные обработчики HTTP:
// аутентификация по заголовку и сбор метрик запросов.
package middleware

import (
	"net/http"
	"strconv"

	"github.com/m04kA/SMC-ResourceBookingService/internal/api/handlers"
)

// HeaderUserID заголовок с идентификатором пользователя
const HeaderUserID = "X-User-ID"

// Auth требует корректный X-User-ID у защищенных маршрутов
func Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := r.Header.Get(HeaderUserID)
		if raw == "" {
			handlers.RespondUnauthorized(w, "требуется заголовок X-User-ID")
			return
		}

		userID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || userID <= 0 {
			handlers.RespondUnauthorized(w, "некорректный X-User-ID")
			return
		}

		next.ServeHTTP(w, r)
	})
}

// UserID извлекает идентификатор пользователя из заголовка запроса.
// На защищенных маршрутах заголовок уже проверен Auth.
func UserID(r *http.Request) int64 {
	userID, _ := strconv.ParseInt(r.Header.Get(HeaderUserID), 10, 64)
	return userID
}
