package handlers

import (
	"encoding/json"
	"net/http"

	"linkup/internal/core/services"
	"linkup/internal/platform/logger"
	"linkup/pkg/middleware"
)

type ProfileHandler struct {
	userSvc *services.UserService
}

func NewProfileHandler(u *services.UserService) *ProfileHandler {
	return &ProfileHandler{userSvc: u}
}

func (h *ProfileHandler) Get(w http.ResponseWriter, r *http.Request) {
	identity, _ := middleware.IdentityFromContext(r.Context())
	profile, err := h.userSvc.Profile(r.Context(), identity.UserID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"userId":    profile.UserID,
		"fullName":  profile.FullName,
		"bio":       profile.Bio,
		"avatarUrl": profile.AvatarURL,
		"updatedAt": profile.UpdatedAt,
	})
}

func (h *ProfileHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	userID, err := pathUUID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	profile, err := h.userSvc.Profile(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"userId":    profile.UserID,
		"fullName":  profile.FullName,
		"bio":       profile.Bio,
		"avatarUrl": profile.AvatarURL,
	})
}

func (h *ProfileHandler) Update(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())
	identity, _ := middleware.IdentityFromContext(r.Context())
	var req struct {
		FullName  string  `json:"fullName"`
		Bio       string  `json:"bio"`
		AvatarURL *string `json:"avatarUrl"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	profile, err := h.userSvc.UpdateProfile(r.Context(), identity, req.FullName, req.Bio, req.AvatarURL)
	if err != nil {
		log.ErrorContext(r.Context(), "profile handler - update failed", "user_id", identity.UserID, "err", err)
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"userId":    profile.UserID,
		"fullName":  profile.FullName,
		"bio":       profile.Bio,
		"avatarUrl": profile.AvatarURL,
		"updatedAt": profile.UpdatedAt,
	})
}
