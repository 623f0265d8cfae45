package ioutboxrepo

import (
	"context"
	"time"

	"github.com/corray333/atlas-cafe/internal/service/models/outbox"
)

// IOutboxRepository defines the interface for outbox operations.
type IOutboxRepository interface {
	// Insert adds a new message to the outbox and returns its id
	Insert(ctx context.Context, msg outbox.OutboxMessage) (int64, error)

	// GetPendingMessages retrieves the due head of the queue in insertion order
	GetPendingMessages(ctx context.Context, limit int) ([]outbox.OutboxMessage, error)

	// CountPending returns how many messages are still waiting for delivery
	CountPending(ctx context.Context) (int, error)

	// Delete removes a message after successful delivery
	Delete(ctx context.Context, id int64) error

	// UpdateRetry updates retry count and error information
	UpdateRetry(
		ctx context.Context,
		id int64,
		retryCount int,
		lastError string,
		nextRetryAt time.Time,
	) error
}
