package outbox

import (
	"context"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/corray333/atlas-cafe/internal/dal/interfaces/ikitchenrepo"
	"github.com/corray333/atlas-cafe/internal/dal/interfaces/ioutboxrepo"
	"github.com/corray333/atlas-cafe/internal/service/models/outbox"
	"github.com/spf13/viper"
)

// Worker retries kitchen events that could not be published on the first attempt.
type Worker struct {
	outboxRepo   ioutboxrepo.IOutboxRepository
	kitchenRepo  ikitchenrepo.IKitchenRepository
	pollInterval time.Duration
	batchSize    int
	baseBackoff  time.Duration
	now          func() time.Time
	stopCh       chan struct{}
	stopOnce     sync.Once
}

// NewWorker creates a new outbox worker.
func NewWorker(
	outboxRepo ioutboxrepo.IOutboxRepository,
	kitchenRepo ikitchenrepo.IKitchenRepository,
) *Worker {
	pollInterval := viper.GetDuration("outbox.poll_interval")
	if pollInterval <= 0 {
		pollInterval = 10 * time.Second
	}

	batchSize := viper.GetInt("outbox.batch_size")
	if batchSize == 0 {
		batchSize = 100
	}

	baseBackoff := viper.GetDuration("outbox.retry_interval")
	if baseBackoff <= 0 {
		baseBackoff = 30 * time.Second
	}

	return &Worker{
		outboxRepo:   outboxRepo,
		kitchenRepo:  kitchenRepo,
		pollInterval: pollInterval,
		batchSize:    batchSize,
		baseBackoff:  baseBackoff,
		now:          time.Now,
		stopCh:       make(chan struct{}),
	}
}

// Start begins processing messages from the outbox.
func (w *Worker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	slog.Info("Outbox worker started", "poll_interval", w.pollInterval, "batch_size", w.batchSize)

	for {
		select {
		case <-ctx.Done():
			slog.Info("Outbox worker shutting down")

			return
		case <-w.stopCh:
			slog.Info("Outbox worker stopped")

			return
		case <-ticker.C:
			w.processMessages(ctx)
		}
	}
}

// Stop stops the worker.
func (w *Worker) Stop() {
	w.stopOnce.Do(func() {
		close(w.stopCh)
	})
}

// processMessages publishes due messages in insertion order. The first failure ends the batch
// so nothing overtakes an event that is still waiting for its retry.
func (w *Worker) processMessages(ctx context.Context) {
	messages, err := w.outboxRepo.GetPendingMessages(ctx, w.batchSize)
	if err != nil {
		slog.Error("Failed to get pending messages from outbox", "error", err)

		return
	}

	if len(messages) == 0 {
		return
	}

	slog.Info("Processing outbox messages", "count", len(messages))

	for _, msg := range messages {
		err := w.kitchenRepo.Publish(ctx, msg.ContentType, msg.Payload)
		if err != nil {
			newRetryCount := msg.RetryCount + 1
			if msg.MaxRetries > 0 && newRetryCount >= msg.MaxRetries {
				w.drop(ctx, msg, err)

				continue
			}
			nextRetryAt := w.now().Add(w.backoff(newRetryCount))

			slog.Warn("Failed to publish message from outbox, will retry",
				"outbox_id", msg.ID,
				"retry_count", newRetryCount,
				"next_retry", nextRetryAt,
				"error", err,
			)

			if err := w.outboxRepo.UpdateRetry(ctx, msg.ID, newRetryCount, err.Error(), nextRetryAt); err != nil {
				slog.Error("Failed to update retry information", "outbox_id", msg.ID, "error", err)
			}

			return
		}

		if err := w.outboxRepo.Delete(ctx, msg.ID); err != nil {
			slog.Error("Failed to delete message from outbox after successful publish",
				"outbox_id", msg.ID,
				"error", err,
			)

			continue
		}
		slog.Info("Message successfully published and removed from outbox", "outbox_id", msg.ID)
	}
}

// drop discards a message that used up its retries.
func (w *Worker) drop(ctx context.Context, msg outbox.OutboxMessage, publishErr error) {
	slog.Error("Dropping outbox message after exhausting retries",
		"outbox_id", msg.ID,
		"queue", msg.QueueName,
		"max_retries", msg.MaxRetries,
		"payload", string(msg.Payload),
		"error", publishErr,
	)

	if err := w.outboxRepo.Delete(ctx, msg.ID); err != nil {
		slog.Error("Failed to delete exhausted outbox message", "outbox_id", msg.ID, "error", err)
	}
}

// backoff doubles the base interval per attempt: 2x, 4x, 8x...
func (w *Worker) backoff(retryCount int) time.Duration {
	return time.Duration(math.Pow(2, float64(retryCount))) * w.baseBackoff
}
