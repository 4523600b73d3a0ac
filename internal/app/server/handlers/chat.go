package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"linkup/internal/app/server/ws"
	"linkup/internal/core/contracts"
	"linkup/internal/core/domain"
	"linkup/internal/core/services"
	"linkup/internal/platform/logger"
	"linkup/pkg/middleware"
)

// ChatHandler owns the global chat socket. Joining subscribes the connection
// to the shared room topic; everything the room knows lives in process memory.
type ChatHandler struct {
	hub     contracts.Registry
	chatSvc *services.ChatService
	userSvc *services.UserService
}

func NewChatHandler(hub contracts.Registry, chatSvc *services.ChatService, userSvc *services.UserService) *ChatHandler {
	return &ChatHandler{hub: hub, chatSvc: chatSvc, userSvc: userSvc}
}

func (h *ChatHandler) Handler(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	participant := domain.RoomParticipant{UserID: identity.UserID, Username: identity.Username}
	if profile, err := h.userSvc.Profile(r.Context(), identity.UserID); err == nil {
		participant.AvatarURL = profile.AvatarURL
	}

	sessionCtx := context.WithoutCancel(r.Context())
	ctx, cancel := context.WithCancel(sessionCtx)
	defer cancel()

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.ErrorContext(r.Context(), "chat handler - upgrade failed", "err", err)
		return
	}
	socket := ws.NewWebSocket(ctx, conn, log)
	client := ws.NewClient(ctx, socket, identity)
	defer client.Close()

	// Subscribe before announcing so the newcomer's own snapshot frames have
	// a registered connection to land on.
	h.hub.Subscribe(client, domain.TopicGlobalChat)
	h.chatSvc.Join(ctx, client.ID(), participant)
	defer h.chatSvc.Leave(sessionCtx, participant)
	defer h.hub.UnsubscribeAll(client)

	log.InfoContext(ctx, "chat handler - joined", "user_id", identity.UserID, "conn_id", client.ID())

	socket.ReadLoop(func(data []byte) {
		var frame domain.InboundFrame
		if err := json.Unmarshal(data, &frame); err != nil {
			log.WarnContext(ctx, "chat handler - malformed frame dropped", "user_id", identity.UserID)
			return
		}
		if frame.Action != domain.ActionChatMessage {
			log.WarnContext(ctx, "chat handler - unknown action dropped", "action", frame.Action)
			return
		}
		var action domain.ChatSayAction
		if err := json.Unmarshal(data, &action); err != nil {
			log.WarnContext(ctx, "chat handler - malformed action dropped", "user_id", identity.UserID)
			return
		}
		if err := h.chatSvc.Say(ctx, client.ID(), participant, action); err != nil {
			h.hub.Send(ctx, client.ID(), domain.ErrorEvent{
				Type:    domain.TypeError,
				Code:    "say_failed",
				Message: clientErrorMessage(err),
			})
		}
	})
	log.InfoContext(ctx, "chat handler - left", "user_id", identity.UserID, "conn_id", client.ID())
}

// Online lists users recently active in the room.
func (h *ChatHandler) Online(w http.ResponseWriter, r *http.Request) {
	users, err := h.chatSvc.OnlineUsers(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"online": users})
}
