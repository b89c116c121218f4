package workers

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"talkative/contract"
	"talkative/domain"
	"talkative/domain/event"
	"talkative/mocks"
)

func TestEventFanout_DeliversToEverySink(t *testing.T) {
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	mockRegistry := mocks.NewMockIRegistry(ctrl)

	room := domain.RoomKey{Kind: domain.RoomKindGroup, ID: 1}
	evt := event.MessagePublished{
		Room:    room,
		Message: domain.Message{ID: 1, Room: room, Content: "hi"},
	}

	mockSink1 := mocks.NewMockEventSink(ctrl)
	mockSink2 := mocks.NewMockEventSink(ctrl)
	roomSinks := []contract.EventSink{mockSink1, mockSink2}

	events := make(chan event.DomainEvent, 1)
	worker := NewEventFanout(log, mockRegistry, events, 100*time.Millisecond)

	// Given two sinks subscribed to the room
	mockRegistry.EXPECT().SinksForRoom(room).Return(roomSinks).Times(1)

	delivered := make(chan struct{}, 2)
	consume := func(ctx context.Context, e event.DomainEvent) error {
		// Then each sink receives the event unchanged
		req.Equal(evt, e)
		delivered <- struct{}{}
		return nil
	}
	mockSink1.EXPECT().Consume(gomock.Any(), evt).DoAndReturn(consume).Times(1)
	mockSink2.EXPECT().Consume(gomock.Any(), evt).DoAndReturn(consume).Times(1)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = worker.Run(ctx) }()

	// When the event is published
	events <- evt

	for range 2 {
		select {
		case <-delivered:
		case <-time.After(1 * time.Second):
			req.Fail("sink was not consumed")
		}
	}
}

func TestEventFanout_NoSubscribersIsANoOp(t *testing.T) {
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	mockRegistry := mocks.NewMockIRegistry(ctrl)

	room := domain.RoomKey{Kind: domain.RoomKindDirect, ID: 9}
	evt := event.MessagePublished{Room: room}

	// Given nobody is subscribed
	mockRegistry.EXPECT().SinksForRoom(room).Return(nil).Times(1)

	worker := NewEventFanout(log, mockRegistry, make(chan event.DomainEvent), 100*time.Millisecond)

	// When the event is fanned out
	worker.Fanout(context.Background(), evt)

	// Then nothing is delivered and nothing blocks
	req.True(true)
}

func TestEventFanout_FailingSinkDoesNotBlockOthers(t *testing.T) {
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	mockRegistry := mocks.NewMockIRegistry(ctrl)

	room := domain.RoomKey{Kind: domain.RoomKindGroup, ID: 1}
	evt := event.MessagePublished{Room: room}

	failing := mocks.NewMockEventSink(ctrl)
	healthy := mocks.NewMockEventSink(ctrl)
	mockRegistry.EXPECT().SinksForRoom(room).
		Return([]contract.EventSink{failing, healthy}).Times(1)

	// Given the first sink rejects the event
	failing.EXPECT().Consume(gomock.Any(), evt).Return(context.DeadlineExceeded).Times(1)
	consumed := false
	healthy.EXPECT().Consume(gomock.Any(), evt).DoAndReturn(
		func(ctx context.Context, e event.DomainEvent) error {
			consumed = true
			return nil
		}).Times(1)

	worker := NewEventFanout(log, mockRegistry, make(chan event.DomainEvent), 100*time.Millisecond)

	// When the event is fanned out
	worker.Fanout(context.Background(), evt)

	// Then the second sink still receives it
	req.True(consumed)
}
