// Package kitchen forwards order events from session state to the kitchen queue.
//
// Session listeners must not block, so events are handed to an actor mailbox and published
// from the actor. Failed publishes are parked in the outbox for the retry worker, and while
// the outbox holds anything new events queue behind it so the kitchen sees them in order.
package kitchen

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/corray333/atlas-cafe/internal/dal/interfaces/ikitchenrepo"
	"github.com/corray333/atlas-cafe/internal/dal/interfaces/ioutboxrepo"
	"github.com/corray333/atlas-cafe/internal/service/models/kitchenevent"
	"github.com/corray333/atlas-cafe/internal/service/models/outbox"
	"github.com/corray333/atlas-cafe/internal/service/state"
	"github.com/google/uuid"
	"github.com/spf13/viper"
)

const contentType = "application/json"

// Dispatcher owns the kitchen actor.
type Dispatcher struct {
	system *actor.ActorSystem
	pid    *actor.PID
	now    func() time.Time
}

// option is a function that configures the Dispatcher.
type option func(*Dispatcher)

// WithClock overrides the time source used to stamp events.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithClock(now func() time.Time) option {
	return func(d *Dispatcher) {
		d.now = now
	}
}

// MustNewDispatcher spawns the kitchen actor.
func MustNewDispatcher(
	kitchenRepo ikitchenrepo.IKitchenRepository,
	outboxRepo ioutboxrepo.IOutboxRepository,
	opts ...option,
) *Dispatcher {
	d := &Dispatcher{
		system: actor.NewActorSystem(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(d)
	}

	maxRetries := viper.GetInt("outbox.max_retries")
	if maxRetries <= 0 {
		maxRetries = 5
	}

	props := actor.PropsFromProducer(func() actor.Actor {
		return &kitchenActor{
			kitchenRepo: kitchenRepo,
			outboxRepo:  outboxRepo,
			maxRetries:  maxRetries,
		}
	})
	pid, err := d.system.Root.SpawnNamed(props, "kitchen-actor")
	if err != nil {
		panic(err)
	}
	d.pid = pid

	return d
}

// Listener returns a state listener that forwards order events of one session.
func (d *Dispatcher) Listener(sessionID string) state.Listener {
	return func(e state.Event) {
		var eventType kitchenevent.Type
		switch e.Kind {
		case state.EventOrderPlaced:
			eventType = kitchenevent.TypeOrderPlaced
		case state.EventOrderCancelled:
			eventType = kitchenevent.TypeOrderCancelled
		default:
			return
		}
		if e.Order == nil {
			return
		}

		d.Dispatch(kitchenevent.Event{
			ID:         uuid.NewString(),
			Type:       eventType,
			SessionID:  sessionID,
			Order:      *e.Order,
			OccurredAt: d.now(),
		})
	}
}

// Dispatch enqueues an event without waiting for delivery.
func (d *Dispatcher) Dispatch(event kitchenevent.Event) {
	d.system.Root.Send(d.pid, &publishEvent{event: event})
}

// Shutdown stops the actor after it has drained its mailbox.
func (d *Dispatcher) Shutdown() error {
	return d.system.Root.PoisonFuture(d.pid).Wait()
}

type publishEvent struct {
	event kitchenevent.Event
}

type kitchenActor struct {
	kitchenRepo ikitchenrepo.IKitchenRepository
	outboxRepo  ioutboxrepo.IOutboxRepository
	maxRetries  int
}

func (a *kitchenActor) Receive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case *publishEvent:
		a.publish(msg.event)

	case *actor.Started:
		slog.Info("Kitchen actor started", "queue", a.kitchenRepo.Queue())

	case *actor.Stopped:
		slog.Info("Kitchen actor stopped")
	}
}

func (a *kitchenActor) publish(event kitchenevent.Event) {
	payload, err := json.Marshal(event)
	if err != nil {
		slog.Error("Failed to encode kitchen event", "event_id", event.ID, "error", err)

		return
	}

	ctx := context.Background()
	queued, err := a.outboxRepo.CountPending(ctx)
	if err != nil {
		slog.Error("Failed to count outbox messages, queueing kitchen event", "event_id", event.ID, "error", err)
	}
	if err != nil || queued > 0 {
		// Nothing may overtake an undelivered event.
		slog.Info("Kitchen event queued behind undelivered events", "event_id", event.ID, "queued", queued)
		a.park(ctx, event, payload, "")

		return
	}

	publishErr := a.kitchenRepo.Publish(ctx, contentType, payload)
	if publishErr == nil {
		slog.Info("Kitchen event published",
			"event_id", event.ID,
			"type", event.Type,
			"order_id", event.Order.ID,
			"session_id", event.SessionID,
		)

		return
	}

	slog.Warn("Failed to publish kitchen event, moving to outbox", "event_id", event.ID, "error", publishErr)
	a.park(ctx, event, payload, publishErr.Error())
}

// park appends the event to the outbox, behind anything already waiting there.
func (a *kitchenActor) park(ctx context.Context, event kitchenevent.Event, payload []byte, lastError string) {
	_, err := a.outboxRepo.Insert(ctx, outbox.OutboxMessage{
		QueueName:   a.kitchenRepo.Queue(),
		Payload:     payload,
		ContentType: contentType,
		MaxRetries:  a.maxRetries,
		LastError:   lastError,
	})
	if err != nil {
		slog.Error("Failed to store kitchen event in outbox", "event_id", event.ID, "error", err)
	}
}
