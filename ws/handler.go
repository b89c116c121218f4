package ws

import (
	"cmp"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gorilla/websocket"

	"talkative/auth"
	"talkative/domain"
	"talkative/observability"
	"talkative/services"
)

// Handler upgrades HTTP requests on the chat route and runs the
// websocket protocol for each accepted connection.
type Handler struct {
	log        *slog.Logger
	gate       *auth.Gate
	chat       services.IChatService
	monitor    *observability.Monitor
	sinkBuffer int
	upgrader   websocket.Upgrader
}

func NewHandler(log *slog.Logger, gate *auth.Gate, chat services.IChatService,
	monitor *observability.Monitor, sinkBuffer int) *Handler {
	return &Handler{
		log:        log,
		gate:       gate,
		chat:       chat,
		monitor:    monitor,
		sinkBuffer: sinkBuffer,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Origin policy is enforced by the fronting proxy.
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
}

// Serve handles GET /ws/chat/{room}/?token=...&type=group|dm.
func (h *Handler) Serve(w http.ResponseWriter, r *http.Request) {
	roomID, err := strconv.ParseInt(r.PathValue("room"), 10, 64)
	if err != nil {
		http.Error(w, "invalid room id", http.StatusBadRequest)
		return
	}
	kind, err := domain.ParseRoomKind(cmp.Or(r.URL.Query().Get("type"), string(domain.RoomKindGroup)))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	room := domain.RoomKey{Kind: kind, ID: domain.RoomID(roomID)}

	ws, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Debug("Upgrade failed", "error", err)
		return
	}

	conn := newConn(ws, room, h.chat, h.monitor, h.log, h.sinkBuffer)
	h.monitor.ConnOpened()

	identity, err := h.gate.Resolve(r.URL.Query().Get("token"))
	if err != nil {
		h.log.Warn("Rejecting connection", "room", room.String(), "error", err)
		conn.reject("authentication required")
		return
	}
	conn.identity = identity
	conn.setState(StateAuthenticated)

	if err := h.chat.JoinRoom(conn.id, identity, room, conn.sink); err != nil {
		// The connection stays open but is not subscribed; frames it
		// sends are dropped and it receives nothing.
		h.log.Warn("Join refused", "user", identity.Username, "room", room.String(), "error", err)
	} else {
		conn.setState(StateJoined)
		h.log.Info("Connection joined", "user", identity.Username, "room", room.String())
	}

	go conn.writeLoop(r.Context())
	conn.readLoop(r.Context())
}
