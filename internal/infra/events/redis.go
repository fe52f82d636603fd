package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/m04kA/SMC-ResourceBookingService/internal/domain"
)

// RedisLogger интерфейс логирования ошибок публикации
type RedisLogger interface {
	Error(format string, v ...interface{})
}

// RedisSink публикует события в Redis pub/sub канал.
// Ошибки публикации логируются и не влияют на вызывающую операцию.
type RedisSink struct {
	client  *redis.Client
	channel string
	logger  RedisLogger
}

// NewRedisSink создает pub/sub приемник событий
func NewRedisSink(client *redis.Client, channel string, logger RedisLogger) *RedisSink {
	if channel == "" {
		channel = "booking.events"
	}
	return &RedisSink{client: client, channel: channel, logger: logger}
}

type eventPayload struct {
	Event       string            `json:"event"`
	BookingID   int64             `json:"bookingId"`
	ResourceID  int64             `json:"resourceId"`
	CompanyID   int64             `json:"companyId"`
	UserID      int64             `json:"userId"`
	Start       time.Time         `json:"start"`
	End         time.Time         `json:"end"`
	Status      string            `json:"status"`
	Extra       map[string]string `json:"extra,omitempty"`
	PublishedAt time.Time         `json:"publishedAt"`
}

// Publish сериализует событие в JSON и публикует его в канал
func (s *RedisSink) Publish(ctx context.Context, kind domain.EventKind, booking *domain.Booking, extra map[string]string) {
	payload := eventPayload{
		Event:       string(kind),
		BookingID:   booking.ID,
		ResourceID:  booking.ResourceID,
		CompanyID:   booking.CompanyID,
		UserID:      booking.UserID,
		Start:       booking.Start,
		End:         booking.End,
		Status:      string(booking.Status),
		Extra:       extra,
		PublishedAt: time.Now().UTC(),
	}

	data, err := json.Marshal(payload)
	if err != nil {
		s.logger.Error("events: failed to marshal %s for booking id=%d: %v", kind, booking.ID, err)
		return
	}

	if err := s.client.Publish(ctx, s.channel, data).Err(); err != nil {
		s.logger.Error("events: failed to publish %s for booking id=%d: %v", kind, booking.ID, err)
	}
}
