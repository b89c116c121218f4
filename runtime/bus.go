package runtime

import (
	"context"
	"fmt"
	"log/slog"

	"talkative/domain/event"
)

// Bus is the in-process publish side of the broadcast pipeline. Events
// are queued on a buffered channel and drained by a single fanout
// worker, which preserves publish order within a room. Publishing is
// fire-and-forget: when the buffer is full the event is dropped and
// logged rather than blocking the publisher.
type Bus struct {
	log    *slog.Logger
	events chan event.DomainEvent
}

func NewBus(log *slog.Logger, bufferSize int) *Bus {
	return &Bus{
		log:    log,
		events: make(chan event.DomainEvent, bufferSize),
	}
}

func (b *Bus) Publish(ctx context.Context, e event.DomainEvent) {
	select {
	case b.events <- e:
	case <-ctx.Done():
	default:
		b.log.Warn(fmt.Sprintf("Event channel full for room %s, dropping event", e.RoomKey()))
	}
}

// Events exposes the drain side for the fanout worker.
func (b *Bus) Events() chan event.DomainEvent {
	return b.events
}
