package ws

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"

	"talkative/domain"
	"talkative/domain/event"
	"talkative/errors"
)

var validate = validator.New()

type FrameKind string

const (
	FrameNewMessage  FrameKind = "new_message"
	FrameRebroadcast FrameKind = "broadcast"
)

// inboundFrame is the raw wire shape shared by every inbound frame.
type inboundFrame struct {
	MsgType     string          `json:"msg_type" validate:"oneof=new_message broadcast"`
	Message     string          `json:"message"`
	RoomType    string          `json:"type" validate:"oneof=group dm"`
	MessageData json.RawMessage `json:"message_data"`
}

// Frame is the closed set of inbound frame kinds.
type Frame interface {
	Kind() FrameKind
}

// NewMessageFrame asks the server to persist and broadcast a message.
type NewMessageFrame struct {
	Body     string
	RoomKind domain.RoomKind
}

func (NewMessageFrame) Kind() FrameKind { return FrameNewMessage }

// RebroadcastFrame republishes a payload the client already persisted
// through the REST path.
type RebroadcastFrame struct {
	Payload json.RawMessage
}

func (RebroadcastFrame) Kind() FrameKind { return FrameRebroadcast }

// ParseFrame turns raw bytes into a typed frame. An unknown msg_type is
// a typed parse error, never a silently ignored branch. Absent fields
// take their wire defaults: msg_type new_message, type group.
func ParseFrame(data []byte) (Frame, error) {
	var raw inboundFrame
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("malformed frame: %w", err)
	}
	if raw.MsgType == "" {
		raw.MsgType = string(FrameNewMessage)
	}
	if raw.RoomType == "" {
		raw.RoomType = string(domain.RoomKindGroup)
	}
	if err := validate.Struct(raw); err != nil {
		return nil, fmt.Errorf("%w: %v", errors.ErrUnknownFrameKind, err)
	}

	switch FrameKind(raw.MsgType) {
	case FrameNewMessage:
		return NewMessageFrame{Body: raw.Message, RoomKind: domain.RoomKind(raw.RoomType)}, nil
	case FrameRebroadcast:
		if len(raw.MessageData) == 0 {
			return nil, fmt.Errorf("%w: broadcast frame without message_data", errors.ErrUnknownFrameKind)
		}
		return RebroadcastFrame{Payload: raw.MessageData}, nil
	}
	return nil, errors.ErrUnknownFrameKind
}

// SenderPayload and MessagePayload form the outbound event contract.
type SenderPayload struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
}

type MessagePayload struct {
	ID        int64         `json:"id"`
	Sender    SenderPayload `json:"sender"`
	Content   string        `json:"content"`
	Timestamp string        `json:"timestamp"`
	// Reserved fields mirroring the stored message row; absent for a
	// plain group text message.
	ContentKind    string `json:"content_kind,omitempty"`
	MediaURL       string `json:"media_url,omitempty"`
	DeliveryStatus string `json:"delivery_status,omitempty"`
	EditedAt       string `json:"edited_at,omitempty"`
	Deleted        bool   `json:"deleted,omitempty"`
}

type outboundEnvelope struct {
	Message json.RawMessage `json:"message"`
}

// EncodeEvent serializes a published event into the outbound envelope
// written to every subscriber. Rebroadcast payloads pass through verbatim.
func EncodeEvent(e event.DomainEvent) ([]byte, error) {
	switch evt := e.(type) {
	case event.MessagePublished:
		payload, err := json.Marshal(toMessagePayload(evt.Message))
		if err != nil {
			return nil, err
		}
		return json.Marshal(outboundEnvelope{Message: payload})
	case event.RawPublished:
		return json.Marshal(outboundEnvelope{Message: evt.Payload})
	}
	return nil, fmt.Errorf("unsupported event type %T", e)
}

func toMessagePayload(m domain.Message) MessagePayload {
	payload := MessagePayload{
		ID:        int64(m.ID),
		Sender:    SenderPayload{ID: int64(m.Sender.ID), Username: m.Sender.Username},
		Content:   m.Content,
		Timestamp: m.CreatedAt.Format(time.RFC3339Nano),
		MediaURL:  m.MediaURL,
		Deleted:   m.Deleted,
	}
	if m.ContentKind != domain.ContentText {
		payload.ContentKind = string(m.ContentKind)
	}
	if m.Room.Kind == domain.RoomKindDirect {
		payload.DeliveryStatus = string(m.DeliveryStatus)
	}
	if m.EditedAt != nil {
		payload.EditedAt = m.EditedAt.Format(time.RFC3339Nano)
	}
	return payload
}
