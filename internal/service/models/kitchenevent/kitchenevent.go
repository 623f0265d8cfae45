package kitchenevent

import (
	"time"

	"github.com/corray333/atlas-cafe/internal/service/models/order"
)

// Type is the kind of change the kitchen is told about.
type Type string

const (
	TypeOrderPlaced    Type = "order.placed"
	TypeOrderCancelled Type = "order.cancelled"
)

// Event is the message published to the kitchen queue.
type Event struct {
	ID         string      `json:"id"`
	Type       Type        `json:"type"`
	SessionID  string      `json:"sessionId"`
	Order      order.Order `json:"order"`
	OccurredAt time.Time   `json:"occurredAt"`
}
