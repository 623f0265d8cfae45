package outbox

import (
	"time"
)

// OutboxMessage represents a kitchen event that failed to be published and waits for a retry.
type OutboxMessage struct {
	ID          int64
	QueueName   string
	Payload     []byte
	ContentType string
	RetryCount  int
	MaxRetries  int
	LastError   string
	CreatedAt   time.Time
	UpdatedAt   time.Time
	NextRetryAt time.Time
}

// Exhausted reports whether the message used up its retries.
func (m OutboxMessage) Exhausted() bool {
	return m.MaxRetries > 0 && m.RetryCount >= m.MaxRetries
}
