package ikitchenrepo

import (
	"context"
)

// IKitchenRepository delivers encoded kitchen events to the kitchen queue.
type IKitchenRepository interface {
	// Queue returns the name of the destination queue
	Queue() string

	// Publish sends an encoded event
	Publish(ctx context.Context, contentType string, payload []byte) error
}
