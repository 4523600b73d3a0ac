package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"linkup/internal/app/server/ws"
	"linkup/internal/core/contracts"
	"linkup/internal/core/domain"
	"linkup/internal/core/services"
	"linkup/internal/platform/logger"
	"linkup/pkg/middleware"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // tighten later
	},
}

// GatewayHandler owns the central socket. One connection per session: it is
// subscribed to the caller's three private topics plus the shared central
// topic, and accepts conversation-message actions inbound.
type GatewayHandler struct {
	hub        contracts.Registry
	messageSvc *services.MessageService
}

func NewGatewayHandler(hub contracts.Registry, messageSvc *services.MessageService) *GatewayHandler {
	return &GatewayHandler{hub: hub, messageSvc: messageSvc}
}

func (h *GatewayHandler) Handler(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	span := trace.SpanFromContext(r.Context())
	span.SetAttributes(attribute.String("user.id", identity.UserID.String()))

	// The socket outlives the upgrade request.
	sessionCtx := context.WithoutCancel(r.Context())
	ctx, cancel := context.WithCancel(sessionCtx)
	defer cancel()

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.ErrorContext(r.Context(), "gateway handler - upgrade failed", "err", err)
		return
	}
	socket := ws.NewWebSocket(ctx, conn, log)
	client := ws.NewClient(ctx, socket, identity)
	defer client.Close()

	// Reject-before-resolve already happened in middleware; from here the
	// connection is fully authenticated and subscriptions are fixed for its
	// lifetime.
	h.hub.Subscribe(client, domain.NotificationTopic(identity.UserID))
	h.hub.Subscribe(client, domain.ConversationTopic(identity.UserID))
	h.hub.Subscribe(client, domain.FriendTopic(identity.UserID))
	h.hub.Subscribe(client, domain.TopicCentral)
	defer h.hub.UnsubscribeAll(client)

	log.InfoContext(ctx, "gateway handler - connection established", "user_id", identity.UserID, "conn_id", client.ID())

	socket.ReadLoop(func(data []byte) {
		h.dispatch(ctx, log, client, identity, data)
	})
	log.InfoContext(ctx, "gateway handler - connection closed", "user_id", identity.UserID, "conn_id", client.ID())
}

// dispatch routes one inbound frame. Malformed or unknown frames are dropped;
// a failed action is reported only to the acting connection.
func (h *GatewayHandler) dispatch(ctx context.Context, log *slog.Logger, client *ws.RuntimeClient, identity domain.Identity, data []byte) {
	var frame domain.InboundFrame
	if err := json.Unmarshal(data, &frame); err != nil {
		log.WarnContext(ctx, "gateway handler - malformed frame dropped", "user_id", identity.UserID)
		return
	}
	switch frame.Action {
	case domain.ActionConversationMessage:
		var action domain.SendMessageAction
		if err := json.Unmarshal(data, &action); err != nil {
			log.WarnContext(ctx, "gateway handler - malformed action dropped", "user_id", identity.UserID)
			return
		}
		if _, err := h.messageSvc.Send(ctx, identity, action); err != nil {
			h.hub.Send(ctx, client.ID(), domain.ErrorEvent{
				Type:    domain.TypeError,
				Code:    "send_failed",
				Message: clientErrorMessage(err),
			})
		}
	default:
		log.WarnContext(ctx, "gateway handler - unknown action dropped", "action", frame.Action)
	}
}
