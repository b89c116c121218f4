package ws

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"talkative/domain"
	"talkative/domain/event"
	"talkative/errors"
)

func TestParseFrame_NewMessage(t *testing.T) {
	req := require.New(t)

	frame, err := ParseFrame([]byte(`{"message": "hi", "type": "group", "msg_type": "new_message"}`))

	req.NoError(err)
	newMsg, ok := frame.(NewMessageFrame)
	req.True(ok)
	req.Equal("hi", newMsg.Body)
	req.Equal(domain.RoomKindGroup, newMsg.RoomKind)
}

func TestParseFrame_Defaults(t *testing.T) {
	req := require.New(t)

	// msg_type defaults to new_message, type to group
	frame, err := ParseFrame([]byte(`{"message": "hi"}`))

	req.NoError(err)
	newMsg, ok := frame.(NewMessageFrame)
	req.True(ok)
	req.Equal(domain.RoomKindGroup, newMsg.RoomKind)
}

func TestParseFrame_DirectMessage(t *testing.T) {
	req := require.New(t)

	frame, err := ParseFrame([]byte(`{"message": "psst", "type": "dm"}`))

	req.NoError(err)
	req.Equal(domain.RoomKindDirect, frame.(NewMessageFrame).RoomKind)
}

func TestParseFrame_Broadcast(t *testing.T) {
	req := require.New(t)

	frame, err := ParseFrame([]byte(`{"msg_type": "broadcast", "message_data": {"id": 12, "content": "x"}}`))

	req.NoError(err)
	raw, ok := frame.(RebroadcastFrame)
	req.True(ok)
	req.JSONEq(`{"id": 12, "content": "x"}`, string(raw.Payload))
}

func TestParseFrame_UnknownMsgType(t *testing.T) {
	req := require.New(t)

	_, err := ParseFrame([]byte(`{"msg_type": "typing_indicator"}`))

	req.ErrorIs(err, errors.ErrUnknownFrameKind)
}

func TestParseFrame_UnknownRoomType(t *testing.T) {
	req := require.New(t)

	_, err := ParseFrame([]byte(`{"message": "hi", "type": "channel"}`))

	req.ErrorIs(err, errors.ErrUnknownFrameKind)
}

func TestParseFrame_BroadcastWithoutPayload(t *testing.T) {
	req := require.New(t)

	_, err := ParseFrame([]byte(`{"msg_type": "broadcast"}`))

	req.Error(err)
}

func TestParseFrame_MalformedJSON(t *testing.T) {
	req := require.New(t)

	_, err := ParseFrame([]byte(`{"message": `))

	req.Error(err)
}

func TestEncodeEvent_GroupTextMessage(t *testing.T) {
	req := require.New(t)

	at := time.Date(2026, 3, 1, 10, 30, 0, 0, time.UTC)
	evt := event.MessagePublished{
		Room: domain.RoomKey{Kind: domain.RoomKindGroup, ID: 1},
		Message: domain.Message{
			ID:          1,
			Room:        domain.RoomKey{Kind: domain.RoomKindGroup, ID: 1},
			Sender:      domain.Identity{ID: 7, Username: "alice"},
			Content:     "hi",
			ContentKind: domain.ContentText,
			CreatedAt:   at,
		},
	}

	data, err := EncodeEvent(evt)

	// A plain group text message carries exactly the canonical fields:
	// no content_kind, no delivery_status
	req.NoError(err)
	req.JSONEq(`{"message": {
		"id": 1,
		"sender": {"id": 7, "username": "alice"},
		"content": "hi",
		"timestamp": "2026-03-01T10:30:00Z"
	}}`, string(data))
}

func TestEncodeEvent_DirectMessageCarriesDeliveryStatus(t *testing.T) {
	req := require.New(t)

	evt := event.MessagePublished{
		Room: domain.RoomKey{Kind: domain.RoomKindDirect, ID: 3},
		Message: domain.Message{
			ID:             2,
			Room:           domain.RoomKey{Kind: domain.RoomKindDirect, ID: 3},
			Sender:         domain.Identity{ID: 7, Username: "alice"},
			Content:        "psst",
			ContentKind:    domain.ContentText,
			DeliveryStatus: domain.DeliverySent,
			CreatedAt:      time.Date(2026, 3, 1, 10, 30, 0, 0, time.UTC),
		},
	}

	data, err := EncodeEvent(evt)

	req.NoError(err)
	var decoded struct {
		Message MessagePayload `json:"message"`
	}
	req.NoError(json.Unmarshal(data, &decoded))
	req.Equal("sent", decoded.Message.DeliveryStatus)
	req.Empty(decoded.Message.ContentKind)
}

func TestEncodeEvent_RawPassesVerbatim(t *testing.T) {
	req := require.New(t)

	payload := json.RawMessage(`{"id": 42, "anything": ["the", "client", "sent"]}`)
	evt := event.RawPublished{
		Room:    domain.RoomKey{Kind: domain.RoomKindGroup, ID: 1},
		Payload: payload,
	}

	data, err := EncodeEvent(evt)

	req.NoError(err)
	req.JSONEq(`{"message": {"id": 42, "anything": ["the", "client", "sent"]}}`, string(data))
}
