package sink

import (
	"context"
	"log/slog"

	"talkative/domain/event"
)

// ConnSink is the delivery path of one connection. Fanout pushes events
// into a buffered channel; the connection's write loop drains it and
// serializes onto the wire. Consume never blocks the fanout: when the
// buffer is full the event is dropped for this connection only.
type ConnSink struct {
	Events chan event.DomainEvent
	log    *slog.Logger
}

func NewConnSink(log *slog.Logger, bufferSize int) *ConnSink {
	return &ConnSink{
		Events: make(chan event.DomainEvent, bufferSize),
		log:    log,
	}
}

// Consume is called by fanout.
// It hands the event to the channel owner; the connection's write loop
// takes it from there.
func (s *ConnSink) Consume(ctx context.Context, e event.DomainEvent) error {
	select {
	case s.Events <- e:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	default:
		s.log.Debug("Connection buffer full, dropping event", "room", e.RoomKey().String())
		return nil
	}
}
