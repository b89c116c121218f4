//go:generate go run go.uber.org/mock/mockgen -source=message.go -destination=../mocks/mock_message_repository.go -package=mocks
package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/samber/lo"

	"talkative/domain"
	"talkative/errors"
)

type IMessageRepository interface {
	Persist(ctx context.Context, room domain.RoomKey, sender domain.Identity,
		body string, kind domain.ContentKind) (domain.Message, error)
	Messages(room domain.RoomKey, cursor *string) ([]domain.Message, *string, error)
}

// MessageRepository is the persistence gateway: the only place a message
// obtains its canonical id and timestamp. Direct and group messages are
// distinct id spaces, each backed by its own Badger sequence.
type MessageRepository struct {
	db            *badger.DB
	rooms         IRoomRepository
	log           *slog.Logger
	limitMessages *int
	groupSeq      *badger.Sequence
	dmSeq         *badger.Sequence
}

func NewMessageRepository(db *badger.DB, rooms IRoomRepository, log *slog.Logger,
	limitMessages *int) (*MessageRepository, error) {
	groupSeq, err := db.GetSequence([]byte("seq:msg:group"), 128)
	if err != nil {
		return nil, fmt.Errorf("group message sequence: %w", err)
	}
	dmSeq, err := db.GetSequence([]byte("seq:msg:dm"), 128)
	if err != nil {
		return nil, fmt.Errorf("dm message sequence: %w", err)
	}
	return &MessageRepository{
		db: db, rooms: rooms, log: log, limitMessages: limitMessages,
		groupSeq: groupSeq, dmSeq: dmSeq,
	}, nil
}

// Close releases the id sequences back to Badger.
func (m *MessageRepository) Close() error {
	if err := m.groupSeq.Release(); err != nil {
		return err
	}
	return m.dmSeq.Release()
}

type storedMessage struct {
	ID             int64      `json:"id"`
	Room           int64      `json:"room"`
	RoomKind       string     `json:"room_kind"`
	SenderID       int64      `json:"sender_id"`
	SenderName     string     `json:"sender_name"`
	Content        string     `json:"content"`
	ContentKind    string     `json:"content_kind"`
	MediaURL       string     `json:"media_url,omitempty"`
	DeliveryStatus string     `json:"delivery_status,omitempty"`
	EditedAt       *time.Time `json:"edited_at,omitempty"`
	Deleted        bool       `json:"deleted,omitempty"`
	At             time.Time  `json:"at"`
}

// messageKey formats the storage key as "msg:{kind}:{room}:{timestamp_padded}:{id}" to:
//  1. Ensure chronological sorting using 19-digit zero padding (lexicographical order).
//  2. Keep the message id as a disambiguator if two messages arrive at
//     the same nanosecond.
func messageKey(room domain.RoomKey, at time.Time, id domain.MessageID) []byte {
	return []byte(fmt.Sprintf("msg:%s:%d:%019d:%d", room.Kind, room.ID, at.UnixNano(), id))
}

// Persist assigns the canonical id and timestamp and stores the message.
// It fails with ErrRoomNotFound when the room id does not resolve in the
// expected kind's space; nothing is written in that case.
func (m *MessageRepository) Persist(ctx context.Context, room domain.RoomKey,
	sender domain.Identity, body string, kind domain.ContentKind) (domain.Message, error) {
	if err := ctx.Err(); err != nil {
		return domain.Message{}, err
	}

	exists, err := m.rooms.Exists(room)
	if err != nil {
		return domain.Message{}, err
	}
	if !exists {
		return domain.Message{}, fmt.Errorf("%w: %s", errors.ErrRoomNotFound, room)
	}

	seq := m.groupSeq
	if room.Kind == domain.RoomKindDirect {
		seq = m.dmSeq
	}
	next, err := seq.Next()
	if err != nil {
		return domain.Message{}, err
	}

	message := domain.Message{
		ID:          domain.MessageID(next + 1),
		Room:        room,
		Sender:      sender,
		Content:     body,
		ContentKind: lo.Ternary(kind == "", domain.ContentText, kind),
		CreatedAt:   time.Now().UTC(),
	}
	if room.Kind == domain.RoomKindDirect {
		message.DeliveryStatus = domain.DeliverySent
	}

	data, err := json.Marshal(fromMessage(message))
	if err != nil {
		return domain.Message{}, err
	}
	err = m.db.Update(func(txn *badger.Txn) error {
		return txn.Set(messageKey(room, message.CreatedAt, message.ID), data)
	})
	if err != nil {
		return domain.Message{}, err
	}
	return message, nil
}

// Messages retrieves a room's history using a reverse prefix scan.
// Thanks to the padded timestamp in the key, messages are naturally
// sorted by time; the returned cursor resumes the scan where it left off.
// It stops collecting once the configured limitMessages is reached.
func (m *MessageRepository) Messages(room domain.RoomKey, cursor *string) ([]domain.Message, *string, error) {
	var rawMessages [][]byte
	var lastKey string
	err := m.db.View(func(txn *badger.Txn) error {
		prefixStr := fmt.Sprintf("msg:%s:%d:", room.Kind, room.ID)
		prefix := []byte(prefixStr)
		prefixLen := len(prefixStr)
		options := badger.DefaultIteratorOptions
		options.Reverse = true
		it := txn.NewIterator(options)
		defer it.Close()

		var seekKey []byte
		switch cursor {
		case nil:
			// Seek past the newest possible key, then walk backwards.
			seekKey = append(prefix, []byte("9999999999999999999")...)
		default:
			seekKey = append(prefix, []byte(*cursor)...)
		}

		it.Seek(seekKey)

		if cursor != nil && it.ValidForPrefix(prefix) {
			it.Next()
		}

		for ; it.ValidForPrefix(prefix); it.Next() {
			if m.limitMessages != nil && len(rawMessages) == *m.limitMessages {
				m.log.Debug(fmt.Sprintf("Maximum of %d messages reached", *m.limitMessages))
				break
			}
			item := it.Item()
			// Memorize the cursor part of the actual key
			lastKey = string(item.Key()[prefixLen:])
			err := item.Value(func(value []byte) error {
				rawMessages = append(rawMessages, append([]byte(nil), value...))
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	var messages []domain.Message
	for _, raw := range rawMessages {
		var stored storedMessage
		if err = json.Unmarshal(raw, &stored); err != nil {
			return nil, nil, err
		}
		messages = append(messages, toMessage(stored))
	}
	if lastKey == "" {
		return messages, nil, nil
	}
	return messages, &lastKey, nil
}

func fromMessage(message domain.Message) storedMessage {
	return storedMessage{
		ID:             int64(message.ID),
		Room:           int64(message.Room.ID),
		RoomKind:       string(message.Room.Kind),
		SenderID:       int64(message.Sender.ID),
		SenderName:     message.Sender.Username,
		Content:        message.Content,
		ContentKind:    string(message.ContentKind),
		MediaURL:       message.MediaURL,
		DeliveryStatus: string(message.DeliveryStatus),
		EditedAt:       message.EditedAt,
		Deleted:        message.Deleted,
		At:             message.CreatedAt,
	}
}

func toMessage(stored storedMessage) domain.Message {
	return domain.Message{
		ID:             domain.MessageID(stored.ID),
		Room:           domain.RoomKey{Kind: domain.RoomKind(stored.RoomKind), ID: domain.RoomID(stored.Room)},
		Sender:         domain.Identity{ID: domain.UserID(stored.SenderID), Username: stored.SenderName},
		Content:        stored.Content,
		ContentKind:    domain.ContentKind(stored.ContentKind),
		MediaURL:       stored.MediaURL,
		DeliveryStatus: domain.DeliveryStatus(stored.DeliveryStatus),
		EditedAt:       stored.EditedAt,
		Deleted:        stored.Deleted,
		CreatedAt:      stored.At,
	}
}
