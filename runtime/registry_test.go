package runtime

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"talkative/domain"
	"talkative/domain/event"
)

type Sink struct {
}

func (s Sink) Consume(ctx context.Context, e event.DomainEvent) error {
	return nil
}

func TestRegistry_Subscribe_One_Room_One_Connection(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()
	connID := uuid.NewString()
	room := domain.RoomKey{Kind: domain.RoomKindGroup, ID: 1}
	sink := Sink{}

	// Given no connection is registered
	// And no room exists
	req.Empty(registry.sinks)
	req.Empty(registry.roomMembers)

	// When a connection subscribes a room
	registry.Subscribe(connID, room, sink)

	// Then
	req.Len(registry.sinks, 1)
	req.Equal(sink, registry.sinks[connID])

	req.Len(registry.roomMembers, 1)
	req.Contains(registry.roomMembers[room], connID)

	req.Len(registry.SinksForRoom(room), 1)
	req.Contains(registry.SinksForRoom(room), sink)
}

func TestRegistry_Subscribe_One_Room_Multiple_Connections(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()
	connID1 := uuid.NewString()
	connID2 := uuid.NewString()
	room := domain.RoomKey{Kind: domain.RoomKindGroup, ID: 1}
	sink1 := Sink{}
	sink2 := Sink{}

	// When connections subscribe a room
	registry.Subscribe(connID1, room, sink1)
	registry.Subscribe(connID2, room, sink2)

	// Then
	req.Len(registry.sinks, 2)
	req.Len(registry.roomMembers[room], 2)

	req.Len(registry.SinksForRoom(room), 2)
	req.Contains(registry.SinksForRoom(room), sink1)
}

func TestRegistry_Subscribe_Same_Connection_Twice(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()
	connID := uuid.NewString()
	room := domain.RoomKey{Kind: domain.RoomKindDirect, ID: 7}
	sink := Sink{}

	// When a connection subscribes the same room twice
	registry.Subscribe(connID, room, sink)
	registry.Subscribe(connID, room, sink)

	// Then the second call is a no-op
	req.Len(registry.sinks, 1)
	req.Len(registry.roomMembers[room], 1)
	req.Len(registry.SinksForRoom(room), 1)
}

func TestRegistry_Distinct_Kinds_Are_Distinct_Rooms(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()
	groupConn := uuid.NewString()
	dmConn := uuid.NewString()

	// Given a group room and a direct room sharing the same numeric id
	group := domain.RoomKey{Kind: domain.RoomKindGroup, ID: 1}
	dm := domain.RoomKey{Kind: domain.RoomKindDirect, ID: 1}

	// When one connection subscribes each
	registry.Subscribe(groupConn, group, Sink{})
	registry.Subscribe(dmConn, dm, Sink{})

	// Then the rooms do not share subscribers
	req.Len(registry.SinksForRoom(group), 1)
	req.Len(registry.SinksForRoom(dm), 1)
	req.Len(registry.roomMembers, 2)
}

func TestRegistry_Unsubscribe_Cleans_Empty_Room(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()
	connID := uuid.NewString()
	room := domain.RoomKey{Kind: domain.RoomKindGroup, ID: 1}

	// Given a subscribed connection
	registry.Subscribe(connID, room, Sink{})

	// When it unsubscribes
	registry.Unsubscribe(connID, room)

	// Then nothing is left behind
	req.Empty(registry.sinks)
	req.Empty(registry.roomMembers)
	req.Empty(registry.connRooms)
	req.Nil(registry.SinksForRoom(room))
}

func TestRegistry_UnsubscribeAll_Removes_Every_Trace(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()
	connID := uuid.NewString()
	other := uuid.NewString()
	room := domain.RoomKey{Kind: domain.RoomKindGroup, ID: 1}

	// Given two connections in the same room
	registry.Subscribe(connID, room, Sink{})
	registry.Subscribe(other, room, Sink{})

	// When one disconnects
	registry.UnsubscribeAll(connID)

	// Then only the other remains
	req.Len(registry.sinks, 1)
	req.Len(registry.roomMembers[room], 1)
	req.Len(registry.SinksForRoom(room), 1)
	req.NotContains(registry.connRooms, connID)
}

func TestRegistry_UnsubscribeAll_Unknown_Connection(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()

	// When a connection that never subscribed disconnects
	registry.UnsubscribeAll(uuid.NewString())

	// Then nothing happens
	req.Empty(registry.sinks)
	req.Empty(registry.roomMembers)
}

func TestRegistry_SinksForRoom_Empty_Room(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()

	// When asking for a room nobody subscribed
	sinks := registry.SinksForRoom(domain.RoomKey{Kind: domain.RoomKindGroup, ID: 42})

	// Then the snapshot is nil, publish becomes a no-op
	req.Nil(sinks)
}
