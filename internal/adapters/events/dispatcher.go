package events

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/x67digital/marketplace/internal/ports"
)

// Dispatcher fans notifications out through the event publisher on a
// bounded queue. Notify never blocks the caller: when the queue is full
// the notification is dropped with a warning.
type Dispatcher struct {
	logger    *slog.Logger
	publisher ports.EventPublisher
	queue     chan ports.Notification
}

func NewDispatcher(logger *slog.Logger, publisher ports.EventPublisher, queueSize int) *Dispatcher {
	if queueSize <= 0 {
		queueSize = 256
	}
	return &Dispatcher{
		logger:    logger,
		publisher: publisher,
		queue:     make(chan ports.Notification, queueSize),
	}
}

func (d *Dispatcher) Notify(n ports.Notification) {
	select {
	case d.queue <- n:
	default:
		d.logger.Warn("notification queue full, dropping",
			"kind", n.Kind, "recipient", n.Recipient)
	}
}

// Run consumes the queue until the context is cancelled. Start it once,
// alongside the HTTP server.
func (d *Dispatcher) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case n := <-d.queue:
			d.deliver(ctx, n)
		}
	}
}

func (d *Dispatcher) deliver(ctx context.Context, n ports.Notification) {
	payload, err := json.Marshal(map[string]any{
		"recipient": n.Recipient,
		"kind":      n.Kind,
		"data":      n.Data,
	})
	if err != nil {
		d.logger.Error("marshal notification", "kind", n.Kind, "error", err)
		return
	}
	if err := d.publisher.Publish(ctx, "marketplace.notification.requested", payload, n.Recipient); err != nil {
		d.logger.Warn("deliver notification",
			"kind", n.Kind, "recipient", n.Recipient, "error", err)
	}
}
