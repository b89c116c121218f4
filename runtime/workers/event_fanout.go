package workers

import (
	"context"
	"log/slog"
	"time"

	"talkative/contract"
	"talkative/domain/event"
)

// EventFanout drains the bus and delivers each event to the current
// snapshot of the room's subscribers.
//
// It provides best-effort fan-out with no guarantees regarding delivery,
// durability, or retries. A connection that was not subscribed at publish
// time never receives the event. Deliveries are independent: each sink
// gets its own bounded-timeout Consume call, so one blocked connection
// cannot delay the others. A single fanout worker drains the channel,
// which keeps delivery in publish order within a room.
type EventFanout struct {
	log         *slog.Logger
	registry    contract.IRegistry
	events      chan event.DomainEvent
	sinkTimeout time.Duration
}

func NewEventFanout(log *slog.Logger, registry contract.IRegistry,
	events chan event.DomainEvent, sinkTimeout time.Duration) *EventFanout {
	return &EventFanout{
		log:         log,
		registry:    registry,
		events:      events,
		sinkTimeout: sinkTimeout,
	}
}

func (w *EventFanout) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			w.log.Debug("Context done, stopping fanout")
			return nil
		case evt, ok := <-w.events:
			if !ok {
				return nil
			}
			w.Fanout(ctx, evt)
		}
	}
}

// Fanout delivers one event to every sink currently subscribed to the
// event's room. Delivering to a room with no subscribers is a no-op; a
// sink removed between snapshot and delivery just discards the event.
func (w *EventFanout) Fanout(ctx context.Context, evt event.DomainEvent) {
	sinks := w.registry.SinksForRoom(evt.RoomKey())
	for _, sink := range sinks {
		sinkCtx, cancel := context.WithTimeout(ctx, w.sinkTimeout)
		if err := sink.Consume(sinkCtx, evt); err != nil {
			w.log.Debug("Sink did not accept event", "room", evt.RoomKey().String(), "error", err)
		}
		cancel()
	}
}
