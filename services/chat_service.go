//go:generate go run go.uber.org/mock/mockgen -source=chat_service.go -destination=../mocks/mock_chat_service.go -package=mocks
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/abadojack/whatlanggo"

	"talkative/contract"
	"talkative/domain"
	"talkative/domain/event"
	"talkative/errors"
	"talkative/moderation"
	"talkative/observability"
	"talkative/repositories"
)

type PostMessageCommand struct {
	Room        domain.RoomKey
	Sender      domain.Identity
	Body        string
	ContentKind domain.ContentKind
}

type IChatService interface {
	JoinRoom(connID string, user domain.Identity, room domain.RoomKey, sink contract.EventSink) error
	LeaveRoom(connID string)
	PostMessage(ctx context.Context, cmd PostMessageCommand) (domain.Message, error)
	Rebroadcast(ctx context.Context, room domain.RoomKey, payload json.RawMessage)
	History(room domain.RoomKey, cursor *string) ([]domain.Message, *string, error)
}

// ChatService wires the delivery core together: membership enforcement
// before subscription, moderation and persistence before broadcast.
type ChatService struct {
	log        *slog.Logger
	membership contract.IMembershipOracle
	messages   repositories.IMessageRepository
	registry   contract.IRegistry
	bus        contract.IBus
	moderator  moderation.Moderator
	monitor    *observability.Monitor
}

func NewChatService(log *slog.Logger, membership contract.IMembershipOracle,
	messages repositories.IMessageRepository, registry contract.IRegistry,
	bus contract.IBus, moderator moderation.Moderator,
	monitor *observability.Monitor) *ChatService {
	return &ChatService{
		log:        log,
		membership: membership,
		messages:   messages,
		registry:   registry,
		bus:        bus,
		moderator:  moderator,
		monitor:    monitor,
	}
}

// JoinRoom subscribes a connection to a room after the membership check.
// Membership changes after a successful join do not revoke the
// subscription; only leave or disconnect does.
func (s *ChatService) JoinRoom(connID string, user domain.Identity,
	room domain.RoomKey, sink contract.EventSink) error {
	member, err := s.membership.IsParticipant(user.ID, room)
	if err != nil {
		return err
	}
	if !member {
		return fmt.Errorf("%w: user %d in room %s", errors.ErrNotAMember, user.ID, room)
	}
	s.registry.Subscribe(connID, room, sink)
	return nil
}

// LeaveRoom tears down every subscription a connection holds.
func (s *ChatService) LeaveRoom(connID string) {
	s.registry.UnsubscribeAll(connID)
}

// PostMessage moderates, persists and broadcasts one message. The
// canonical id and timestamp come from the persistence gateway; the
// echoed event is the sender's only acknowledgment. On any persistence
// failure nothing is broadcast.
func (s *ChatService) PostMessage(ctx context.Context, cmd PostMessageCommand) (domain.Message, error) {
	if cmd.Body == "" {
		return domain.Message{}, errors.ErrEmptyMessage
	}

	body, foundWords := s.moderator.Censor(cmd.Body)
	if len(foundWords) > 0 {
		info := whatlanggo.Detect(cmd.Body)
		s.log.Warn("Censored outgoing message",
			"author", cmd.Sender.ID,
			"room", cmd.Room.String(),
			"lang", info.Lang.Iso6391(),
			"words", len(foundWords))
	}

	message, err := s.messages.Persist(ctx, cmd.Room, cmd.Sender, body, cmd.ContentKind)
	if err != nil {
		return domain.Message{}, err
	}

	s.bus.Publish(ctx, event.MessagePublished{Room: cmd.Room, Message: message})
	s.monitor.MessagePublished()
	return message, nil
}

// Rebroadcast republishes a payload already persisted through the REST
// path, verbatim and without touching the persistence gateway.
func (s *ChatService) Rebroadcast(ctx context.Context, room domain.RoomKey, payload json.RawMessage) {
	s.bus.Publish(ctx, event.RawPublished{Room: room, Payload: payload})
	s.monitor.MessagePublished()
}

// History serves a room's stored messages, newest first, with a cursor.
func (s *ChatService) History(room domain.RoomKey, cursor *string) ([]domain.Message, *string, error) {
	return s.messages.Messages(room, cursor)
}
