package kitchen

import (
	"context"
	"fmt"
	"time"

	"github.com/corray333/atlas-cafe/internal/dal/rabbitmq"
)

const publishTimeout = 5 * time.Second

type publisher interface {
	Publish(ctx context.Context, queue, contentType string, body []byte) error
}

// KitchenRabbitMQRepository publishes kitchen events to a durable RabbitMQ queue.
type KitchenRabbitMQRepository struct {
	client publisher
	queue  string
}

// NewKitchenRabbitMQRepository declares the kitchen queue and returns a repository for it.
func NewKitchenRabbitMQRepository(client *rabbitmq.Client, queueName string) *KitchenRabbitMQRepository {
	queue, err := client.DeclareQueue(rabbitmq.DeclareQueueConfig{
		Name:       queueName,
		Durable:    true,
		Exclusive:  false,
		AutoDelete: false,
	})
	if err != nil {
		panic(fmt.Sprintf("Failed to declare kitchen queue: %v", err))
	}

	return &KitchenRabbitMQRepository{
		client: client,
		queue:  queue.Name,
	}
}

func (r *KitchenRabbitMQRepository) Queue() string {
	return r.queue
}

// Publish sends payload to the kitchen queue.
func (r *KitchenRabbitMQRepository) Publish(ctx context.Context, contentType string, payload []byte) error {
	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	if err := r.client.Publish(ctx, r.queue, contentType, payload); err != nil {
		return fmt.Errorf("failed to publish to %s: %w", r.queue, err)
	}

	return nil
}
