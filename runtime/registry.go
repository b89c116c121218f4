// Package runtime handles subscription tracking and event propagation.
// It orchestrates delivery without containing business logic or domain rules.
package runtime

import (
	"sync"

	"talkative/contract"
	"talkative/domain"
)

type Set map[string]struct{}

// Registry is the process-wide map between live connections and rooms.
// Connections are tracked individually, so one identity connected from
// several devices holds several entries and each receives its own copy
// of every broadcast.
type Registry struct {
	mu          sync.RWMutex
	sinks       map[string]contract.EventSink          // connection id -> delivery path
	roomMembers map[domain.RoomKey]Set                 // room -> connection ids
	connRooms   map[string]map[domain.RoomKey]struct{} // inverse index for cleanup
}

func NewRegistry() *Registry {
	return &Registry{
		sinks:       make(map[string]contract.EventSink),
		roomMembers: make(map[domain.RoomKey]Set),
		connRooms:   make(map[string]map[domain.RoomKey]struct{}),
	}
}

// SinksForRoom returns the current snapshot of delivery paths subscribed
// to a room. The read lock is held only while copying the slice, so a
// slow consumer never blocks publishers. Returns nil if the room has no
// subscribers.
func (r *Registry) SinksForRoom(room domain.RoomKey) []contract.EventSink {
	r.mu.RLock()
	defer r.mu.RUnlock()

	members, ok := r.roomMembers[room]
	if !ok {
		return nil
	}
	var activeSinks []contract.EventSink
	for connID := range members {
		if sink, exists := r.sinks[connID]; exists {
			activeSinks = append(activeSinks, sink)
		}
	}
	return activeSinks
}

// Subscribe registers a connection's delivery path and binds it to a room.
// Calling it again for the same connection and room is a no-op.
// If the room does not yet exist in the registry, it is initialized on the fly.
func (r *Registry) Subscribe(connID string, room domain.RoomKey, sink contract.EventSink) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.sinks[connID] = sink

	if _, ok := r.roomMembers[room]; !ok {
		r.roomMembers[room] = make(Set)
	}
	r.roomMembers[room][connID] = struct{}{}

	if _, ok := r.connRooms[connID]; !ok {
		r.connRooms[connID] = make(map[domain.RoomKey]struct{})
	}
	r.connRooms[connID][room] = struct{}{}
}

// Unsubscribe removes one connection from one room. Empty sets are
// cleaned up so the maps do not grow over time.
func (r *Registry) Unsubscribe(connID string, room domain.RoomKey) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.unsubscribeLocked(connID, room)
	if rooms, ok := r.connRooms[connID]; ok && len(rooms) == 0 {
		delete(r.connRooms, connID)
		delete(r.sinks, connID)
	}
}

// UnsubscribeAll removes every trace of a connection.
// Invoked once on disconnect; safe to call for a connection that never
// subscribed to anything.
func (r *Registry) UnsubscribeAll(connID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for room := range r.connRooms[connID] {
		r.unsubscribeLocked(connID, room)
	}
	delete(r.connRooms, connID)
	delete(r.sinks, connID)
}

func (r *Registry) unsubscribeLocked(connID string, room domain.RoomKey) {
	if members, ok := r.roomMembers[room]; ok {
		delete(members, connID)
		// If no one is left in the room, remove the room entry entirely
		if len(members) == 0 {
			delete(r.roomMembers, room)
		}
	}
	if rooms, ok := r.connRooms[connID]; ok {
		delete(rooms, room)
	}
}
