package memory

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/corray333/atlas-cafe/internal/service/models/outbox"
)

var ErrMessageNotFound = errors.New("outbox message not found")

// OutboxRepository keeps undelivered messages in process memory.
type OutboxRepository struct {
	mu       sync.Mutex
	nextID   int64
	messages map[int64]outbox.OutboxMessage
	now      func() time.Time
}

// NewOutboxRepository creates a new outbox repository.
func NewOutboxRepository() *OutboxRepository {
	return &OutboxRepository{
		messages: make(map[int64]outbox.OutboxMessage),
		now:      time.Now,
	}
}

// Insert adds a new message to the outbox.
func (r *OutboxRepository) Insert(_ context.Context, msg outbox.OutboxMessage) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	msg.ID = r.nextID
	now := r.now()
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = now
	}
	msg.UpdatedAt = now
	r.messages[msg.ID] = msg

	return msg.ID, nil
}

// GetPendingMessages returns the due messages at the head of the queue in insertion order.
// A message still waiting for its backoff holds back everything inserted after it.
func (r *OutboxRepository) GetPendingMessages(_ context.Context, limit int) ([]outbox.OutboxMessage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	queued := make([]outbox.OutboxMessage, 0, len(r.messages))
	for _, msg := range r.messages {
		if msg.Exhausted() {
			continue
		}
		queued = append(queued, msg)
	}
	sort.Slice(queued, func(i, j int) bool {
		return queued[i].ID < queued[j].ID
	})

	now := r.now()
	messages := make([]outbox.OutboxMessage, 0)
	for _, msg := range queued {
		if msg.NextRetryAt.After(now) {
			break
		}
		if limit > 0 && len(messages) == limit {
			break
		}
		messages = append(messages, msg)
	}

	return messages, nil
}

// CountPending returns the number of messages that still have retries left.
func (r *OutboxRepository) CountPending(_ context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	count := 0
	for _, msg := range r.messages {
		if !msg.Exhausted() {
			count++
		}
	}

	return count, nil
}

// Delete removes a message from the outbox after successful delivery.
func (r *OutboxRepository) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.messages[id]; !ok {
		return ErrMessageNotFound
	}
	delete(r.messages, id)

	return nil
}

// UpdateRetry updates retry count and error information.
func (r *OutboxRepository) UpdateRetry(
	_ context.Context,
	id int64,
	retryCount int,
	lastError string,
	nextRetryAt time.Time,
) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	msg, ok := r.messages[id]
	if !ok {
		return ErrMessageNotFound
	}
	msg.RetryCount = retryCount
	msg.LastError = lastError
	msg.NextRetryAt = nextRetryAt
	msg.UpdatedAt = r.now()
	r.messages[id] = msg

	return nil
}

// Len returns the number of stored messages.
func (r *OutboxRepository) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.messages)
}
