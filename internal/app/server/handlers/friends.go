package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"linkup/internal/core/domain"
	"linkup/internal/core/services"
	"linkup/internal/platform/logger"
	"linkup/pkg/middleware"
)

type FriendHandler struct {
	svc *services.FriendService
}

func NewFriendHandler(svc *services.FriendService) *FriendHandler {
	return &FriendHandler{svc: svc}
}

func (h *FriendHandler) SendRequest(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())
	identity, _ := middleware.IdentityFromContext(r.Context())
	var req struct {
		ReceiverID uuid.UUID `json:"receiverId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	created, err := h.svc.SendRequest(r.Context(), identity, req.ReceiverID)
	if err != nil {
		log.ErrorContext(r.Context(), "friend handler - send request failed", "actor", identity.UserID, "err", err)
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"friendId":  created.ID,
		"status":    created.Status,
		"createdAt": created.CreatedAt,
	})
}

func (h *FriendHandler) Accept(w http.ResponseWriter, r *http.Request) {
	h.respond(w, r, h.svc.Accept)
}

func (h *FriendHandler) Reject(w http.ResponseWriter, r *http.Request) {
	h.respond(w, r, h.svc.Reject)
}

func (h *FriendHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	identity, _ := middleware.IdentityFromContext(r.Context())
	otherID, err := pathUUID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	if err := h.svc.CancelRequest(r.Context(), identity, otherID); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *FriendHandler) Status(w http.ResponseWriter, r *http.Request) {
	identity, _ := middleware.IdentityFromContext(r.Context())
	otherID, err := pathUUID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	status, err := h.svc.Status(r.Context(), identity.UserID, otherID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": status})
}

func (h *FriendHandler) ListPending(w http.ResponseWriter, r *http.Request) {
	identity, _ := middleware.IdentityFromContext(r.Context())
	cursor, err := cursorFromQuery(r)
	if err != nil {
		writeError(w, err)
		return
	}
	requests, err := h.svc.ListPending(r.Context(), identity.UserID, cursor)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"requests": requests})
}

func (h *FriendHandler) ListSent(w http.ResponseWriter, r *http.Request) {
	identity, _ := middleware.IdentityFromContext(r.Context())
	cursor, err := cursorFromQuery(r)
	if err != nil {
		writeError(w, err)
		return
	}
	requests, err := h.svc.ListSent(r.Context(), identity.UserID, cursor)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"requests": requests})
}

type statusChange func(ctx context.Context, actor domain.Identity, otherID uuid.UUID) (*domain.Friendship, error)

func (h *FriendHandler) respond(w http.ResponseWriter, r *http.Request, change statusChange) {
	identity, _ := middleware.IdentityFromContext(r.Context())
	otherID, err := pathUUID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	updated, err := change(r.Context(), identity, otherID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"friendId":  updated.ID,
		"status":    updated.Status,
		"updatedAt": updated.UpdatedAt,
	})
}
