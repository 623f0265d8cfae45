package kitchen

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePublisher struct {
	queue       string
	contentType string
	body        []byte
	err         error
}

func (p *fakePublisher) Publish(_ context.Context, queue, contentType string, body []byte) error {
	p.queue, p.contentType, p.body = queue, contentType, body
	return p.err
}

func TestKitchenRabbitMQRepositoryPublish(t *testing.T) {
	pub := &fakePublisher{}
	r := &KitchenRabbitMQRepository{client: pub, queue: "cafe.kitchen.orders"}

	require.NoError(t, r.Publish(context.Background(), "application/json", []byte(`{}`)))
	assert.Equal(t, "cafe.kitchen.orders", pub.queue)
	assert.Equal(t, "application/json", pub.contentType)
	assert.Equal(t, []byte(`{}`), pub.body)
}

func TestKitchenRabbitMQRepositoryPublishError(t *testing.T) {
	boom := errors.New("channel closed")
	r := &KitchenRabbitMQRepository{client: &fakePublisher{err: boom}, queue: "q"}

	require.ErrorIs(t, r.Publish(context.Background(), "application/json", nil), boom)
}

func TestKitchenLogRepository(t *testing.T) {
	r := NewKitchenLogRepository("q")

	assert.Equal(t, "q", r.Queue())
	assert.NoError(t, r.Publish(context.Background(), "application/json", []byte(`{}`)))
}
