package lock

import (
	"context"
	"sync"
	"time"
)

// MemoryLocker процессная реализация Locker для тестов и single-node запуска.
// Семантика ожидания и таймаута совпадает с RedisLocker; TTL здесь не
// применяется — блокировка живет до явного Release.
type MemoryLocker struct {
	mu             sync.Mutex
	keys           map[string]chan struct{}
	acquireTimeout time.Duration
}

// NewMemoryLocker создает in-memory locker
func NewMemoryLocker(acquireTimeout time.Duration) *MemoryLocker {
	if acquireTimeout <= 0 {
		acquireTimeout = DefaultAcquireTimeout
	}
	return &MemoryLocker{
		keys:           make(map[string]chan struct{}),
		acquireTimeout: acquireTimeout,
	}
}

func (l *MemoryLocker) semaphore(key string) chan struct{} {
	l.mu.Lock()
	defer l.mu.Unlock()
	ch, ok := l.keys[key]
	if !ok {
		ch = make(chan struct{}, 1)
		l.keys[key] = ch
	}
	return ch
}

// Acquire берет блокировку или возвращает ErrLockTimeout по истечении ожидания
func (l *MemoryLocker) Acquire(ctx context.Context, key string, _ time.Duration) (Handle, error) {
	ch := l.semaphore(key)

	timer := time.NewTimer(l.acquireTimeout)
	defer timer.Stop()

	select {
	case ch <- struct{}{}:
		return &memoryHandle{ch: ch}, nil
	case <-timer.C:
		return nil, ErrLockTimeout
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

type memoryHandle struct {
	once sync.Once
	ch   chan struct{}
}

// Release освобождает блокировку; повторный вызов безопасен
func (h *memoryHandle) Release(_ context.Context) error {
	h.once.Do(func() { <-h.ch })
	return nil
}
