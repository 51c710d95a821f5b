package notification

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"
)

// Publisher hands one event to the message bus. The notification ID is the
// record key so consumers can deduplicate redeliveries.
type Publisher interface {
	Publish(ctx context.Context, key string, payload []byte) error
}

// Relay drains the outbox into the message bus. Delivery into Kafka is
// at-least-once; the outbox rows themselves are exactly-once because they
// are written inside the originating transaction.
type Relay struct {
	outbox    Outbox
	publisher Publisher
	logger    *slog.Logger
	interval  time.Duration
	batchSize int
}

func NewRelay(outbox Outbox, publisher Publisher, logger *slog.Logger) *Relay {
	return &Relay{
		outbox:    outbox,
		publisher: publisher,
		logger:    logger,
		interval:  time.Second,
		batchSize: 100,
	}
}

// Run drains the outbox until ctx is cancelled.
func (r *Relay) Run(ctx context.Context) error {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := r.DrainOnce(ctx); err != nil {
				r.logger.ErrorContext(ctx, "outbox drain failed", "error", err)
			}
		}
	}
}

// DrainOnce publishes one batch of pending notifications.
func (r *Relay) DrainOnce(ctx context.Context) error {
	pending, err := r.outbox.ListPending(ctx, r.batchSize)
	if err != nil {
		return err
	}
	for _, n := range pending {
		payload, err := json.Marshal(n)
		if err != nil {
			return err
		}
		if err := r.publisher.Publish(ctx, n.ID.String(), payload); err != nil {
			// Leave the row pending; the next tick retries.
			return err
		}
		if err := r.outbox.MarkPublished(ctx, n.ID, time.Now()); err != nil {
			return err
		}
	}
	return nil
}
