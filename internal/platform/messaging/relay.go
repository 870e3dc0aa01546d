package messaging

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"gifted/internal/shared/events"
	"gifted/internal/shared/outbox"
)

// Relay drains the outbox and publishes each pending message to its topic.
// A message that fails to decode or publish keeps its pending status until
// the retry budget runs out.
type Relay struct {
	Queue  *outbox.Queue
	Bus    *Kafka
	Logger *slog.Logger
}

// Run drains on the given interval until the context is canceled.
func (r Relay) Run(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		interval = time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			r.DrainOnce(ctx)
		}
	}
}

// DrainOnce publishes every currently-pending message once.
func (r Relay) DrainOnce(ctx context.Context) {
	for _, msg := range r.Queue.Pending() {
		var envelope events.Envelope
		if err := json.Unmarshal(msg.Payload, &envelope); err != nil {
			r.Queue.MarkAttemptFailed(msg.ID)
			if r.Logger != nil {
				r.Logger.Error("outbox payload decode failed",
					"event", "outbox_decode_failed",
					"module", "internal/platform/messaging",
					"layer", "platform",
					"message_id", msg.ID,
					"error", err.Error(),
				)
			}
			continue
		}
		if err := r.Bus.Publish(ctx, msg.Topic, envelope); err != nil {
			r.Queue.MarkAttemptFailed(msg.ID)
			if r.Logger != nil {
				r.Logger.Error("outbox publish failed",
					"event", "outbox_publish_failed",
					"module", "internal/platform/messaging",
					"layer", "platform",
					"message_id", msg.ID,
					"topic", msg.Topic,
					"error", err.Error(),
				)
			}
			continue
		}
		r.Queue.MarkPublished(msg.ID)
	}
}
