//go:generate go run go.uber.org/mock/mockgen -source=room.go -destination=../mocks/mock_room_repository.go -package=mocks
package repositories

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/dgraph-io/badger/v4"
	"github.com/samber/lo"

	"talkative/domain"
)

type IRoomRepository interface {
	CreateGroup(name string, createdBy domain.UserID, members []domain.GroupMember) (domain.Group, error)
	CreateDirectRoom(a, b domain.UserID) (domain.DirectRoom, error)
	Exists(room domain.RoomKey) (bool, error)
	IsParticipant(user domain.UserID, room domain.RoomKey) (bool, error)
}

// RoomRepository stores groups and direct rooms in BadgerDB and serves
// as the membership oracle for the delivery core. Groups and direct
// rooms are distinct id spaces, each with its own sequence.
type RoomRepository struct {
	db       *badger.DB
	log      *slog.Logger
	groupSeq *badger.Sequence
	dmSeq    *badger.Sequence
}

func NewRoomRepository(db *badger.DB, log *slog.Logger) (*RoomRepository, error) {
	groupSeq, err := db.GetSequence([]byte("seq:group"), 64)
	if err != nil {
		return nil, fmt.Errorf("group sequence: %w", err)
	}
	dmSeq, err := db.GetSequence([]byte("seq:dm"), 64)
	if err != nil {
		return nil, fmt.Errorf("dm sequence: %w", err)
	}
	return &RoomRepository{db: db, log: log, groupSeq: groupSeq, dmSeq: dmSeq}, nil
}

// Close releases the id sequences back to Badger.
func (r *RoomRepository) Close() error {
	if err := r.groupSeq.Release(); err != nil {
		return err
	}
	return r.dmSeq.Release()
}

func roomKey(room domain.RoomKey) []byte {
	return []byte(fmt.Sprintf("%s:%d", room.Kind, room.ID))
}

func pairKey(a, b domain.UserID) []byte {
	return []byte(fmt.Sprintf("dmpair:%d:%d", a, b))
}

type storedGroupMember struct {
	UserID  int64  `json:"user_id"`
	Role    string `json:"role"`
	AddedBy int64  `json:"added_by,omitempty"`
	Muted   bool   `json:"muted,omitempty"`
}

type storedGroup struct {
	ID        int64               `json:"id"`
	Name      string              `json:"name"`
	CreatedBy int64               `json:"created_by"`
	Members   []storedGroupMember `json:"members"`
}

type storedDirectRoom struct {
	ID      int64 `json:"id"`
	UserOne int64 `json:"user_one"`
	UserTwo int64 `json:"user_two"`
}

// CreateGroup persists a new group. The creator is always a member; it
// is promoted to admin when absent from the provided member list.
func (r *RoomRepository) CreateGroup(name string, createdBy domain.UserID,
	members []domain.GroupMember) (domain.Group, error) {
	if !lo.ContainsBy(members, func(m domain.GroupMember) bool { return m.UserID == createdBy }) {
		members = append([]domain.GroupMember{{UserID: createdBy, Role: domain.RoleAdmin}}, members...)
	}

	next, err := r.groupSeq.Next()
	if err != nil {
		return domain.Group{}, err
	}
	group := domain.Group{
		ID:        domain.RoomID(next + 1),
		Name:      name,
		CreatedBy: createdBy,
		Members:   members,
	}

	data, err := json.Marshal(fromGroup(group))
	if err != nil {
		return domain.Group{}, err
	}
	err = r.db.Update(func(txn *badger.Txn) error {
		return txn.Set(roomKey(group.Key()), data)
	})
	return group, err
}

// CreateDirectRoom creates the direct room for an unordered user pair.
// The pair is stored in canonical order and indexed, so calling this
// again for the same two users returns the existing room.
func (r *RoomRepository) CreateDirectRoom(a, b domain.UserID) (domain.DirectRoom, error) {
	one, two := domain.OrderPair(a, b)

	var existing *domain.DirectRoom
	err := r.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(pairKey(one, two))
		if err == badger.ErrKeyNotFound {
			return nil
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			id, err := strconv.ParseInt(string(val), 10, 64)
			if err != nil {
				return err
			}
			existing = &domain.DirectRoom{ID: domain.RoomID(id), UserOne: one, UserTwo: two}
			return nil
		})
	})
	if err != nil {
		return domain.DirectRoom{}, err
	}
	if existing != nil {
		return *existing, nil
	}

	next, err := r.dmSeq.Next()
	if err != nil {
		return domain.DirectRoom{}, err
	}
	room := domain.DirectRoom{ID: domain.RoomID(next + 1), UserOne: one, UserTwo: two}

	data, err := json.Marshal(storedDirectRoom{ID: int64(room.ID), UserOne: int64(one), UserTwo: int64(two)})
	if err != nil {
		return domain.DirectRoom{}, err
	}
	err = r.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set(roomKey(room.Key()), data); err != nil {
			return err
		}
		return txn.Set(pairKey(one, two), []byte(strconv.FormatInt(int64(room.ID), 10)))
	})
	return room, err
}

// Exists reports whether the room id resolves in the expected kind's space.
func (r *RoomRepository) Exists(room domain.RoomKey) (bool, error) {
	err := r.db.View(func(txn *badger.Txn) error {
		_, err := txn.Get(roomKey(room))
		return err
	})
	if err == badger.ErrKeyNotFound {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// IsParticipant answers the membership question for both room kinds.
// An unknown room is simply not joinable: (false, nil).
func (r *RoomRepository) IsParticipant(user domain.UserID, room domain.RoomKey) (bool, error) {
	var raw []byte
	err := r.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(roomKey(room))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			raw = append([]byte(nil), val...)
			return nil
		})
	})
	if err == badger.ErrKeyNotFound {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	switch room.Kind {
	case domain.RoomKindGroup:
		var g storedGroup
		if err := json.Unmarshal(raw, &g); err != nil {
			return false, err
		}
		return lo.ContainsBy(g.Members, func(m storedGroupMember) bool {
			return domain.UserID(m.UserID) == user
		}), nil
	case domain.RoomKindDirect:
		var d storedDirectRoom
		if err := json.Unmarshal(raw, &d); err != nil {
			return false, err
		}
		return domain.UserID(d.UserOne) == user || domain.UserID(d.UserTwo) == user, nil
	}
	return false, nil
}

func fromGroup(g domain.Group) storedGroup {
	return storedGroup{
		ID:        int64(g.ID),
		Name:      g.Name,
		CreatedBy: int64(g.CreatedBy),
		Members: lo.Map(g.Members, func(m domain.GroupMember, _ int) storedGroupMember {
			return storedGroupMember{
				UserID:  int64(m.UserID),
				Role:    string(lo.Ternary(m.Role == "", domain.RoleMember, m.Role)),
				AddedBy: int64(m.AddedBy),
				Muted:   m.Muted,
			}
		}),
	}
}
