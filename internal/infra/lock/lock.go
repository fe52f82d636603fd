// Package lock предоставляет эксклюзивные блокировки ресурсов с
// ограниченным временем ожидания. Ключ блокировки для движка бронирований —
// "booking_lock:resource:{id}".
package lock

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ResourceKey возвращает ключ блокировки ресурса
func ResourceKey(resourceID int64) string {
	return fmt.Sprintf("booking_lock:resource:%d", resourceID)
}

var (
	// ErrLockTimeout возвращается, когда блокировку не удалось взять за отведенное время
	ErrLockTimeout = errors.New("lock: acquire timeout")

	// ErrNotHeld возвращается при попытке освободить чужую или истекшую блокировку
	ErrNotHeld = errors.New("lock: not held")
)

// Handle владение взятой блокировкой.
// Release обязан вызываться на всех путях выхода (включая ошибочные).
type Handle interface {
	Release(ctx context.Context) error
}

// Locker берет именованную блокировку с TTL.
// Ожидание ограничено: по истечении его возвращается ErrLockTimeout.
type Locker interface {
	Acquire(ctx context.Context, key string, ttl time.Duration) (Handle, error)
}
