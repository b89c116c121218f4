package ws

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"talkative/domain"
	"talkative/errors"
	"talkative/observability"
	"talkative/services"
	"talkative/sink"
)

// State tracks where a connection sits in its lifecycle. Transitions
// only move forward: Connecting -> Authenticated -> Joined -> Closed.
type State int

const (
	StateConnecting State = iota
	StateAuthenticated
	StateJoined
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateAuthenticated:
		return "authenticated"
	case StateJoined:
		return "joined"
	case StateClosed:
		return "closed"
	}
	return "unknown"
}

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxFrameLength = 64 * 1024
)

// Conn owns a single websocket for its whole lifetime. The read loop is
// the only reader, the write loop the only writer; the sink decouples
// the fanout worker from a slow client.
type Conn struct {
	id       string
	ws       *websocket.Conn
	identity domain.Identity
	room     domain.RoomKey
	// state is read by the read loop and written by whichever loop tears
	// the connection down, so access goes through the atomic accessors.
	state atomic.Int32
	sink  *sink.ConnSink
	chat     services.IChatService
	monitor  *observability.Monitor
	log      *slog.Logger

	closeOnce sync.Once
}

func newConn(ws *websocket.Conn, room domain.RoomKey, chat services.IChatService,
	monitor *observability.Monitor, log *slog.Logger, sinkBuffer int) *Conn {
	id := uuid.NewString()
	return &Conn{
		id:      id,
		ws:      ws,
		room:    room,
		sink:    sink.NewConnSink(log, sinkBuffer),
		chat:    chat,
		monitor: monitor,
		log:     log.With("conn_id", id),
	}
}

func (c *Conn) setState(s State) { c.state.Store(int32(s)) }

func (c *Conn) currentState() State { return State(c.state.Load()) }

func (c *Conn) readLoop(ctx context.Context) {
	defer c.teardown()
	c.ws.SetReadLimit(maxFrameLength)
	_ = c.ws.SetReadDeadline(time.Now().Add(pongWait))
	c.ws.SetPongHandler(func(string) error {
		return c.ws.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		_, data, err := c.ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				c.log.Debug("Read failed", "error", err)
			}
			return
		}
		c.handleFrame(ctx, data)
	}
}

// handleFrame applies one inbound frame. A frame that fails validation
// is dropped without feedback to the sender, and the connection stays up.
func (c *Conn) handleFrame(ctx context.Context, data []byte) {
	frame, err := ParseFrame(data)
	if err != nil {
		c.log.Debug("Dropping malformed frame", "error", err)
		return
	}
	if st := c.currentState(); st != StateJoined {
		c.log.Debug("Dropping frame", "state", st.String(), "error", errors.ErrNotJoined)
		return
	}

	switch f := frame.(type) {
	case NewMessageFrame:
		if f.RoomKind != c.room.Kind {
			c.log.Debug("Dropping frame, room kind mismatch",
				"frame_kind", string(f.RoomKind), "room", c.room.String())
			return
		}
		_, err := c.chat.PostMessage(ctx, services.PostMessageCommand{
			Room:        c.room,
			Sender:      c.identity,
			Body:        f.Body,
			ContentKind: domain.ContentText,
		})
		if errors.Is(err, errors.ErrEmptyMessage) {
			c.log.Debug("Dropping empty message", "room", c.room.String())
		} else if err != nil {
			c.log.Warn("Message not accepted", "room", c.room.String(), "error", err)
		}
	case RebroadcastFrame:
		c.chat.Rebroadcast(ctx, c.room, f.Payload)
	}
}

func (c *Conn) writeLoop(ctx context.Context) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.teardown()
	}()
	for {
		select {
		case <-ctx.Done():
			return
		case evt := <-c.sink.Events:
			data, err := EncodeEvent(evt)
			if err != nil {
				c.log.Error("Failed to encode event", "error", err)
				continue
			}
			_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteMessage(websocket.TextMessage, data); err != nil {
				c.log.Debug("Write failed, disconnecting", "error", err)
				return
			}
		case <-ticker.C:
			_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// reject closes the websocket before the connection ever authenticates.
func (c *Conn) reject(reason string) {
	msg := websocket.FormatCloseMessage(websocket.ClosePolicyViolation, reason)
	_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
	_ = c.ws.WriteMessage(websocket.CloseMessage, msg)
	c.teardown()
}

// teardown is safe to call from both loops; only the first call runs.
func (c *Conn) teardown() {
	c.closeOnce.Do(func() {
		c.setState(StateClosed)
		c.chat.LeaveRoom(c.id)
		_ = c.ws.Close()
		c.monitor.ConnClosed()
		c.log.Info("Connection closed", "room", c.room.String())
	})
}
