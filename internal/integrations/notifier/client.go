// Package notifier HTTP-клиент внешнего notification-сервиса.
// Получает события переходов состояния бронирований (webhook).
package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/m04kA/SMC-ResourceBookingService/internal/domain"
)

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Client клиент notification-сервиса
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     Logger
}

// NewClient создает новый клиент notification-сервиса
func NewClient(baseURL string, timeout time.Duration, logger Logger) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// Publish реализует events.Sink: отправляет событие webhook-ом.
// Доставка fire-and-forget — ошибки логируются и не возвращаются вызывающему.
func (c *Client) Publish(ctx context.Context, kind domain.EventKind, booking *domain.Booking, extra map[string]string) {
	event := BookingEvent{
		Event:      string(kind),
		BookingID:  booking.ID,
		ResourceID: booking.ResourceID,
		CompanyID:  booking.CompanyID,
		UserID:     booking.UserID,
		Start:      booking.Start,
		End:        booking.End,
		Status:     string(booking.Status),
		Extra:      extra,
		SentAt:     time.Now().UTC(),
	}

	if err := c.send(ctx, event); err != nil {
		c.logger.Error("notifier: failed to deliver %s for booking id=%d: %v", kind, booking.ID, err)
		return
	}
	c.logger.Info("notifier: delivered %s for booking id=%d", kind, booking.ID)
}

func (c *Client) send(ctx context.Context, event BookingEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("%w: marshal event: %v", ErrRequestFailed, err)
	}

	url := c.baseURL + "/api/v1/events"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%w: build request: %v", ErrRequestFailed, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRequestFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: %d", ErrUnexpectedStatus, resp.StatusCode)
	}

	return nil
}
