package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"linkup/internal/core/domain"
	"linkup/internal/core/services"
	"linkup/internal/platform/logger"
	"linkup/pkg/middleware"
)

type ConversationHandler struct {
	svc *services.MessageService
}

func NewConversationHandler(svc *services.MessageService) *ConversationHandler {
	return &ConversationHandler{svc: svc}
}

func (h *ConversationHandler) List(w http.ResponseWriter, r *http.Request) {
	identity, _ := middleware.IdentityFromContext(r.Context())
	conversations, err := h.svc.Conversations(r.Context(), identity.UserID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"conversations": conversations})
}

func (h *ConversationHandler) Start(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())
	identity, _ := middleware.IdentityFromContext(r.Context())
	var req struct {
		UserID uuid.UUID `json:"userId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	conv, err := h.svc.StartConversation(r.Context(), identity, req.UserID)
	if err != nil {
		log.ErrorContext(r.Context(), "conversation handler - start failed", "actor", identity.UserID, "err", err)
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"conversationId": conv.ID,
		"createdAt":      conv.CreatedAt,
	})
}

func (h *ConversationHandler) Messages(w http.ResponseWriter, r *http.Request) {
	identity, _ := middleware.IdentityFromContext(r.Context())
	conversationID, err := pathUUID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	cursor, err := cursorFromQuery(r)
	if err != nil {
		writeError(w, err)
		return
	}
	messages, err := h.svc.List(r.Context(), identity, conversationID, cursor)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"messages": messages})
}

// Send is the REST twin of the socket action; both paths run the same
// service method and fan out identically.
func (h *ConversationHandler) Send(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())
	identity, _ := middleware.IdentityFromContext(r.Context())
	var req domain.SendMessageAction
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	event, err := h.svc.Send(r.Context(), identity, req)
	if err != nil {
		log.ErrorContext(r.Context(), "conversation handler - send failed", "actor", identity.UserID, "err", err)
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, event)
}
