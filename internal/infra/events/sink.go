// Package events доставляет события переходов состояния бронирований
// внешним слушателям. Доставка fire-and-forget: ошибка слушателя никогда
// не откатывает сам переход.
package events

import (
	"context"

	"github.com/m04kA/SMC-ResourceBookingService/internal/domain"
)

// Sink одноcторонний приемник событий бронирований
type Sink interface {
	Publish(ctx context.Context, kind domain.EventKind, booking *domain.Booking, extra map[string]string)
}

// Fanout рассылает событие нескольким приемникам по порядку
type Fanout []Sink

// Publish доставляет событие каждому приемнику
func (f Fanout) Publish(ctx context.Context, kind domain.EventKind, booking *domain.Booking, extra map[string]string) {
	for _, s := range f {
		s.Publish(ctx, kind, booking, extra)
	}
}

// Noop приемник, игнорирующий все события (для тестов)
type Noop struct{}

// Publish ничего не делает
func (Noop) Publish(context.Context, domain.EventKind, *domain.Booking, map[string]string) {}
