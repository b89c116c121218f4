//go:generate go run go.uber.org/mock/mockgen -source=contract.go -destination=../mocks/mock_contract.go -package=mocks
package contract

import (
	"context"
	"reflect"

	"talkative/domain"
	"talkative/domain/event"
)

type ISupervisor interface {
	Add(worker ...Worker) ISupervisor
	Run(ctx context.Context)
	Start(ctx context.Context, worker Worker)
	Stop()
}

// Worker doesn't protect itself
// Can be silly, focused
type Worker interface {
	Run(ctx context.Context) error
}

// GetWorkerName uses reflection to retrieve the type name of the worker.
// This is used for logging and supervision purposes during worker initialization
// or lifecycle events, avoiding the need for manual naming in the Worker interface.
func GetWorkerName(w Worker) string {
	if w == nil {
		return "NilWorker"
	}
	t := reflect.TypeOf(w)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Name()
}

// EventSink is one connection's delivery path. Consume must never block
// the caller beyond its buffering discipline.
type EventSink interface {
	Consume(ctx context.Context, e event.DomainEvent) error
}

// IRegistry tracks which live connection is subscribed to which room.
type IRegistry interface {
	Subscribe(connID string, room domain.RoomKey, sink EventSink)
	Unsubscribe(connID string, room domain.RoomKey)
	UnsubscribeAll(connID string)
	SinksForRoom(room domain.RoomKey) []EventSink
}

// IBus fans a published event out to the room's current subscribers.
type IBus interface {
	Publish(ctx context.Context, e event.DomainEvent)
}

// IMembershipOracle answers whether a user may subscribe to a room.
// Membership changes after a successful join do not revoke an active
// subscription; enforcement is eventual, at join time only.
type IMembershipOracle interface {
	IsParticipant(user domain.UserID, room domain.RoomKey) (bool, error)
}
