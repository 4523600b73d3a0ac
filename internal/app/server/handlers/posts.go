package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"linkup/internal/core/services"
	"linkup/internal/platform/logger"
	"linkup/pkg/middleware"
)

type PostHandler struct {
	svc *services.PostService
}

func NewPostHandler(svc *services.PostService) *PostHandler {
	return &PostHandler{svc: svc}
}

type postBody struct {
	Title   string `json:"postTitle"`
	Content string `json:"postContent"`
}

func (h *PostHandler) Create(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())
	identity, _ := middleware.IdentityFromContext(r.Context())
	var req postBody
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	post, err := h.svc.Create(r.Context(), identity, req.Title, req.Content)
	if err != nil {
		log.ErrorContext(r.Context(), "post handler - create failed", "actor", identity.UserID, "err", err)
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"postId":    post.ID,
		"createdAt": post.CreatedAt,
	})
}

func (h *PostHandler) Update(w http.ResponseWriter, r *http.Request) {
	identity, _ := middleware.IdentityFromContext(r.Context())
	postID, err := pathUUID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	var req postBody
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	post, err := h.svc.Update(r.Context(), identity, postID, req.Title, req.Content)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"postId":      post.ID,
		"postTitle":   post.Title,
		"postContent": post.Content,
		"createdAt":   post.CreatedAt,
		"updatedAt":   post.UpdatedAt,
	})
}

func (h *PostHandler) Delete(w http.ResponseWriter, r *http.Request) {
	identity, _ := middleware.IdentityFromContext(r.Context())
	postID, err := pathUUID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	if err := h.svc.Delete(r.Context(), identity, postID); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *PostHandler) Get(w http.ResponseWriter, r *http.Request) {
	identity, _ := middleware.IdentityFromContext(r.Context())
	postID, err := pathUUID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	post, err := h.svc.Get(r.Context(), identity, postID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, post)
}

func (h *PostHandler) Latest(w http.ResponseWriter, r *http.Request) {
	identity, _ := middleware.IdentityFromContext(r.Context())
	cursor, err := cursorFromQuery(r)
	if err != nil {
		writeError(w, err)
		return
	}
	posts, err := h.svc.Latest(r.Context(), identity, cursor)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"posts": posts})
}

func (h *PostHandler) Followed(w http.ResponseWriter, r *http.Request) {
	identity, _ := middleware.IdentityFromContext(r.Context())
	cursor, err := cursorFromQuery(r)
	if err != nil {
		writeError(w, err)
		return
	}
	posts, err := h.svc.Followed(r.Context(), identity, cursor)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"posts": posts})
}

func (h *PostHandler) ByAuthor(w http.ResponseWriter, r *http.Request) {
	identity, _ := middleware.IdentityFromContext(r.Context())
	authorID, err := pathUUID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	cursor, err := cursorFromQuery(r)
	if err != nil {
		writeError(w, err)
		return
	}
	posts, err := h.svc.ByAuthor(r.Context(), identity, authorID, cursor)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"posts": posts})
}

func (h *PostHandler) Comment(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())
	identity, _ := middleware.IdentityFromContext(r.Context())
	postID, err := pathUUID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	var req struct {
		Content  string     `json:"commentContent"`
		ParentID *uuid.UUID `json:"parentCommentId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	comment, err := h.svc.Comment(r.Context(), identity, postID, req.ParentID, req.Content)
	if err != nil {
		log.ErrorContext(r.Context(), "post handler - comment failed", "post_id", postID, "actor", identity.UserID, "err", err)
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"commentId":       comment.ID,
		"parentCommentId": comment.ParentID,
		"commentContent":  comment.Content,
		"createdAt":       comment.CreatedAt,
		"updatedAt":       comment.UpdatedAt,
	})
}

func (h *PostHandler) Comments(w http.ResponseWriter, r *http.Request) {
	postID, err := pathUUID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	cursor, err := cursorFromQuery(r)
	if err != nil {
		writeError(w, err)
		return
	}
	comments, err := h.svc.Comments(r.Context(), postID, cursor)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"comments": comments})
}

func (h *PostHandler) Replies(w http.ResponseWriter, r *http.Request) {
	commentID, err := pathUUID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	cursor, err := cursorFromQuery(r)
	if err != nil {
		writeError(w, err)
		return
	}
	replies, err := h.svc.Replies(r.Context(), commentID, cursor)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"replies": replies})
}

// React replaces any previous reaction the caller holds on the post.
func (h *PostHandler) React(w http.ResponseWriter, r *http.Request) {
	identity, _ := middleware.IdentityFromContext(r.Context())
	postID, err := pathUUID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	var req struct {
		Type string `json:"type"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	if err := h.svc.React(r.Context(), identity, postID, req.Type); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *PostHandler) Unreact(w http.ResponseWriter, r *http.Request) {
	identity, _ := middleware.IdentityFromContext(r.Context())
	postID, err := pathUUID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	if err := h.svc.Unreact(r.Context(), identity, postID); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
