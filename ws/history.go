package ws

import (
	"cmp"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/samber/lo"

	"talkative/auth"
	"talkative/contract"
	"talkative/domain"
	"talkative/services"
)

// HistoryHandler serves a room's stored messages over plain HTTP for
// clients catching up before opening a websocket.
type HistoryHandler struct {
	log        *slog.Logger
	gate       *auth.Gate
	membership contract.IMembershipOracle
	chat       services.IChatService
}

func NewHistoryHandler(log *slog.Logger, gate *auth.Gate,
	membership contract.IMembershipOracle, chat services.IChatService) *HistoryHandler {
	return &HistoryHandler{log: log, gate: gate, membership: membership, chat: chat}
}

type historyResponse struct {
	Messages []MessagePayload `json:"messages"`
	Cursor   *string          `json:"cursor,omitempty"`
}

// Serve handles GET /api/chat/{room}/messages?type=...&cursor=...
func (h *HistoryHandler) Serve(w http.ResponseWriter, r *http.Request) {
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

	identity, err := h.gate.Resolve(bearerToken(r))
	if err != nil {
		http.Error(w, "authentication required", http.StatusUnauthorized)
		return
	}
	member, err := h.membership.IsParticipant(identity.ID, room)
	if err != nil {
		http.Error(w, "room lookup failed", http.StatusInternalServerError)
		return
	}
	if !member {
		http.Error(w, "not a participant", http.StatusForbidden)
		return
	}

	var cursor *string
	if c := r.URL.Query().Get("cursor"); c != "" {
		cursor = &c
	}
	messages, next, err := h.chat.History(room, cursor)
	if err != nil {
		h.log.Error("History lookup failed", "room", room.String(), "error", err)
		http.Error(w, "history lookup failed", http.StatusInternalServerError)
		return
	}

	response := historyResponse{
		Messages: lo.Map(messages, func(m domain.Message, _ int) MessagePayload {
			return toMessagePayload(m)
		}),
		Cursor: next,
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		h.log.Error("Failed to write history response", "error", err)
	}
}

func bearerToken(r *http.Request) string {
	if header := r.Header.Get("Authorization"); header != "" {
		return strings.TrimPrefix(header, "Bearer ")
	}
	return r.URL.Query().Get("token")
}
