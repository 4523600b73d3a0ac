package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"

	"linkup/internal/core/domain"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps domain sentinels onto HTTP statuses. Anything unrecognized
// is a 500 with a generic body so internals never leak to clients.
func writeError(w http.ResponseWriter, err error) {
	status, message := errorStatus(err)
	writeJSON(w, status, map[string]string{"error": message})
}

// errorStatus is the single sentinel-to-client mapping; both the REST error
// body and the socket error ack go through it, so an unrecognized error is
// always reduced to a generic message before it reaches a client.
func errorStatus(err error) (int, string) {
	status := http.StatusInternalServerError
	message := "internal error"
	switch {
	case errors.Is(err, domain.ErrValidationFailed):
		status = http.StatusBadRequest
		message = err.Error()
	case errors.Is(err, domain.ErrUnauthenticated),
		errors.Is(err, domain.ErrInvalidCredentials):
		status = http.StatusUnauthorized
		message = "unauthorized"
	case errors.Is(err, domain.ErrNotParticipant):
		status = http.StatusForbidden
		message = "forbidden"
	case errors.Is(err, domain.ErrUserNotFound),
		errors.Is(err, domain.ErrNotificationNotFound),
		errors.Is(err, domain.ErrFriendshipNotFound),
		errors.Is(err, domain.ErrConversationNotFound),
		errors.Is(err, domain.ErrPostNotFound),
		errors.Is(err, domain.ErrCommentNotFound):
		status = http.StatusNotFound
		message = err.Error()
	case errors.Is(err, domain.ErrUserAlreadyExists),
		errors.Is(err, domain.ErrFriendshipExists):
		status = http.StatusConflict
		message = err.Error()
	}
	return status, message
}

// clientErrorMessage is the socket-side counterpart of writeError.
func clientErrorMessage(err error) string {
	_, message := errorStatus(err)
	return message
}

// cursorFromQuery reads the optional keyset cursor pair. Both parameters must
// be present for a cursor to apply.
func cursorFromQuery(r *http.Request) (*domain.Cursor, error) {
	idStr := r.URL.Query().Get("cursorId")
	atStr := r.URL.Query().Get("cursorCreatedAt")
	if idStr == "" || atStr == "" {
		return nil, nil
	}
	id, err := uuid.Parse(idStr)
	if err != nil {
		return nil, domain.ErrValidationFailed
	}
	at, err := time.Parse(time.RFC3339Nano, atStr)
	if err != nil {
		return nil, domain.ErrValidationFailed
	}
	return &domain.Cursor{ID: id, CreatedAt: at}, nil
}

func pathUUID(r *http.Request, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(r.PathValue(name))
	if err != nil {
		return uuid.Nil, domain.ErrValidationFailed
	}
	return id, nil
}
