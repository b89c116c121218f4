// Package domain contains core concepts of the messaging system.
// This file defines the Identity established at handshake time.
// An Identity is immutable for the lifetime of its connection.
package domain

type UserID int64

// Identity is the authenticated principal bound to a connection.
type Identity struct {
	ID       UserID
	Username string
}
