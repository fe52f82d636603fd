package lock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	// DefaultAcquireTimeout сколько ждать блокировку, прежде чем сдаться
	DefaultAcquireTimeout = 3 * time.Second

	// DefaultRetryInterval пауза между попытками SET NX
	DefaultRetryInterval = 50 * time.Millisecond
)

// releaseScript удаляет ключ только если он все еще принадлежит владельцу
var releaseScript = redis.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
else
	return 0
end
`)

// RedisLocker блокировка через SET NX с токеном владельца.
// Токен — uuid, освобождение выполняется Lua-скриптом compare-and-delete,
// чтобы истекшая блокировка не сняла чужую.
type RedisLocker struct {
	client         *redis.Client
	acquireTimeout time.Duration
	retryInterval  time.Duration
}

// NewRedisLocker создает Redis-locker с указанным временем ожидания.
// acquireTimeout <= 0 — используется DefaultAcquireTimeout.
func NewRedisLocker(client *redis.Client, acquireTimeout time.Duration) *RedisLocker {
	if acquireTimeout <= 0 {
		acquireTimeout = DefaultAcquireTimeout
	}
	return &RedisLocker{
		client:         client,
		acquireTimeout: acquireTimeout,
		retryInterval:  DefaultRetryInterval,
	}
}

// Acquire пытается взять блокировку до истечения acquireTimeout
func (l *RedisLocker) Acquire(ctx context.Context, key string, ttl time.Duration) (Handle, error) {
	token := uuid.NewString()
	deadline := time.Now().Add(l.acquireTimeout)

	for {
		ok, err := l.client.SetNX(ctx, key, token, ttl).Result()
		if err != nil {
			return nil, fmt.Errorf("lock: redis setnx: %w", err)
		}
		if ok {
			return &redisHandle{client: l.client, key: key, token: token}, nil
		}

		if time.Now().After(deadline) {
			return nil, ErrLockTimeout
		}

		timer := time.NewTimer(l.retryInterval)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, fmt.Errorf("lock: %w", ctx.Err())
		case <-timer.C:
		}
	}
}

type redisHandle struct {
	client *redis.Client
	key    string
	token  string
}

// Release снимает блокировку, если она все еще принадлежит этому handle
func (h *redisHandle) Release(ctx context.Context) error {
	res, err := releaseScript.Run(ctx, h.client, []string{h.key}, h.token).Int()
	if err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("lock: redis release: %w", err)
	}
	if res == 0 {
		return ErrNotHeld
	}
	return nil
}
