package repositories

import (
	"context"
	"log/slog"
	"testing"

	"github.com/mama165/sdk-go/logs"
	"github.com/samber/lo"
	"github.com/stretchr/testify/require"

	"talkative/domain"
	"talkative/errors"
)

func newTestMessageRepository(t *testing.T, rooms IRoomRepository, limit *int) *MessageRepository {
	t.Helper()
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	db := openTestDB(t)
	if rooms == nil {
		rooms = newTestRoomRepository(t, db)
	}
	repo, err := NewMessageRepository(db, rooms, log, limit)
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })
	return repo
}

type allowAllRooms struct{}

func (allowAllRooms) CreateGroup(string, domain.UserID, []domain.GroupMember) (domain.Group, error) {
	return domain.Group{}, nil
}
func (allowAllRooms) CreateDirectRoom(domain.UserID, domain.UserID) (domain.DirectRoom, error) {
	return domain.DirectRoom{}, nil
}
func (allowAllRooms) Exists(domain.RoomKey) (bool, error)                       { return true, nil }
func (allowAllRooms) IsParticipant(domain.UserID, domain.RoomKey) (bool, error) { return true, nil }

func TestMessageRepository_Persist_FirstMessageGetsIdOne(t *testing.T) {
	req := require.New(t)
	repo := newTestMessageRepository(t, allowAllRooms{}, nil)

	room := domain.RoomKey{Kind: domain.RoomKindGroup, ID: 1}
	sender := domain.Identity{ID: 1, Username: "alice"}

	// When the first message of the store is persisted
	message, err := repo.Persist(context.Background(), room, sender, "hi", domain.ContentText)

	// Then it carries id 1, the sender, and a server timestamp
	req.NoError(err)
	req.Equal(domain.MessageID(1), message.ID)
	req.Equal("hi", message.Content)
	req.Equal(sender, message.Sender)
	req.Equal(domain.ContentText, message.ContentKind)
	req.False(message.CreatedAt.IsZero())
	req.Empty(message.DeliveryStatus)
}

func TestMessageRepository_Persist_UnknownRoom(t *testing.T) {
	req := require.New(t)
	repo := newTestMessageRepository(t, nil, nil)

	room := domain.RoomKey{Kind: domain.RoomKindGroup, ID: 404}

	// When persisting into a room that does not exist
	_, err := repo.Persist(context.Background(), room,
		domain.Identity{ID: 1, Username: "alice"}, "hi", domain.ContentText)

	// Then nothing is written and the error is typed
	req.ErrorIs(err, errors.ErrRoomNotFound)

	messages, cursor, err := repo.Messages(room, nil)
	req.NoError(err)
	req.Empty(messages)
	req.Nil(cursor)
}

func TestMessageRepository_Persist_DirectMessageStartsSent(t *testing.T) {
	req := require.New(t)
	repo := newTestMessageRepository(t, allowAllRooms{}, nil)

	room := domain.RoomKey{Kind: domain.RoomKindDirect, ID: 1}

	message, err := repo.Persist(context.Background(), room,
		domain.Identity{ID: 1, Username: "alice"}, "psst", domain.ContentText)

	req.NoError(err)
	req.Equal(domain.DeliverySent, message.DeliveryStatus)
}

func TestMessageRepository_Persist_SeparateIdSpacesPerKind(t *testing.T) {
	req := require.New(t)
	repo := newTestMessageRepository(t, allowAllRooms{}, nil)

	sender := domain.Identity{ID: 1, Username: "alice"}
	group := domain.RoomKey{Kind: domain.RoomKindGroup, ID: 1}
	dm := domain.RoomKey{Kind: domain.RoomKindDirect, ID: 1}

	groupMsg, err := repo.Persist(context.Background(), group, sender, "a", domain.ContentText)
	req.NoError(err)
	dmMsg, err := repo.Persist(context.Background(), dm, sender, "b", domain.ContentText)
	req.NoError(err)

	// Then both spaces hand out id 1
	req.Equal(domain.MessageID(1), groupMsg.ID)
	req.Equal(domain.MessageID(1), dmMsg.ID)
}

func TestMessageRepository_Messages_NewestFirst(t *testing.T) {
	req := require.New(t)
	repo := newTestMessageRepository(t, allowAllRooms{}, nil)

	room := domain.RoomKey{Kind: domain.RoomKindGroup, ID: 1}
	sender := domain.Identity{ID: 1, Username: "alice"}
	for _, body := range []string{"first", "second", "third"} {
		_, err := repo.Persist(context.Background(), room, sender, body, domain.ContentText)
		req.NoError(err)
	}

	// When reading the room's history
	messages, _, err := repo.Messages(room, nil)

	// Then messages come back newest first
	req.NoError(err)
	contents := lo.Map(messages, func(m domain.Message, _ int) string { return m.Content })
	req.Equal([]string{"third", "second", "first"}, contents)
}

func TestMessageRepository_Messages_CursorPaging(t *testing.T) {
	req := require.New(t)
	limit := 2
	repo := newTestMessageRepository(t, allowAllRooms{}, &limit)

	room := domain.RoomKey{Kind: domain.RoomKindGroup, ID: 1}
	sender := domain.Identity{ID: 1, Username: "alice"}
	for _, body := range []string{"one", "two", "three"} {
		_, err := repo.Persist(context.Background(), room, sender, body, domain.ContentText)
		req.NoError(err)
	}

	// When reading the first page
	page1, cursor, err := repo.Messages(room, nil)
	req.NoError(err)
	req.Len(page1, 2)
	req.NotNil(cursor)
	req.Equal("three", page1[0].Content)
	req.Equal("two", page1[1].Content)

	// When resuming from the cursor
	page2, _, err := repo.Messages(room, cursor)
	req.NoError(err)
	req.Len(page2, 1)
	req.Equal("one", page2[0].Content)
}

func TestMessageRepository_Messages_RoomsAreIsolated(t *testing.T) {
	req := require.New(t)
	repo := newTestMessageRepository(t, allowAllRooms{}, nil)

	sender := domain.Identity{ID: 1, Username: "alice"}
	room1 := domain.RoomKey{Kind: domain.RoomKindGroup, ID: 1}
	room2 := domain.RoomKey{Kind: domain.RoomKindGroup, ID: 2}

	_, err := repo.Persist(context.Background(), room1, sender, "for room one", domain.ContentText)
	req.NoError(err)

	messages, _, err := repo.Messages(room2, nil)
	req.NoError(err)
	req.Empty(messages)
}
