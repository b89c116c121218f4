package event

import (
	"encoding/json"

	"talkative/domain"
)

// DomainEvent is anything the broadcast bus can deliver to a room.
type DomainEvent interface {
	RoomKey() domain.RoomKey
}

// MessagePublished carries a canonical persisted message.
type MessagePublished struct {
	Room    domain.RoomKey
	Message domain.Message
}

func (e MessagePublished) RoomKey() domain.RoomKey {
	return e.Room
}

// RawPublished carries a client-supplied payload republished verbatim,
// for messages already persisted through the REST path.
type RawPublished struct {
	Room    domain.RoomKey
	Payload json.RawMessage
}

func (e RawPublished) RoomKey() domain.RoomKey {
	return e.Room
}
