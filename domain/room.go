package domain

import "fmt"

type RoomID int64

// RoomKind disambiguates the two entity spaces sharing an integer id namespace.
type RoomKind string

const (
	RoomKindGroup  RoomKind = "group"
	RoomKindDirect RoomKind = "dm"
)

func ParseRoomKind(s string) (RoomKind, error) {
	switch RoomKind(s) {
	case RoomKindGroup, RoomKindDirect:
		return RoomKind(s), nil
	}
	return "", fmt.Errorf("unknown room kind %q", s)
}

// RoomKey identifies a room across both entity spaces.
type RoomKey struct {
	Kind RoomKind
	ID   RoomID
}

func (k RoomKey) String() string {
	return fmt.Sprintf("%s:%d", k.Kind, k.ID)
}

type Role string

const (
	RoleAdmin  Role = "admin"
	RoleMember Role = "member"
)

type GroupMember struct {
	UserID  UserID
	Role    Role
	AddedBy UserID
	Muted   bool
}

// Group is a named room with an explicit member list.
type Group struct {
	ID        RoomID
	Name      string
	CreatedBy UserID
	Members   []GroupMember
}

func (g Group) Key() RoomKey {
	return RoomKey{Kind: RoomKindGroup, ID: g.ID}
}

// DirectRoom is a two-party room. Invariant: UserOne < UserTwo, so a
// pair of users maps to exactly one room.
type DirectRoom struct {
	ID      RoomID
	UserOne UserID
	UserTwo UserID
}

func (d DirectRoom) Key() RoomKey {
	return RoomKey{Kind: RoomKindDirect, ID: d.ID}
}

func (d DirectRoom) HasParticipant(u UserID) bool {
	return u == d.UserOne || u == d.UserTwo
}

// OrderPair returns the pair in canonical order.
func OrderPair(a, b UserID) (UserID, UserID) {
	if a < b {
		return a, b
	}
	return b, a
}
