package kitchen

import (
	"context"
	"log/slog"
)

// KitchenLogRepository writes kitchen events to the log. It is used when no broker is configured.
type KitchenLogRepository struct {
	queue string
}

func NewKitchenLogRepository(queue string) *KitchenLogRepository {
	return &KitchenLogRepository{queue: queue}
}

func (r *KitchenLogRepository) Queue() string {
	return r.queue
}

func (r *KitchenLogRepository) Publish(ctx context.Context, contentType string, payload []byte) error {
	slog.InfoContext(ctx, "Kitchen event",
		"queue", r.queue,
		"content_type", contentType,
		"payload", string(payload),
	)

	return nil
}
