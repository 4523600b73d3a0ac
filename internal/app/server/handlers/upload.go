package handlers

import (
	"io"
	"net/http"
	"path/filepath"

	"github.com/google/uuid"

	"linkup/internal/core/contracts"
	"linkup/internal/platform/logger"
	"linkup/pkg/middleware"
)

const maxUploadBytes = 10 << 20 // 10 MiB

type UploadHandler struct {
	blobs contracts.BlobStore
}

func NewUploadHandler(blobs contracts.BlobStore) *UploadHandler {
	return &UploadHandler{blobs: blobs}
}

// Upload stores one multipart file and returns its opaque path. The path is
// what messages and chat attachments carry by reference.
func (h *UploadHandler) Upload(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())
	identity, _ := middleware.IdentityFromContext(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "file field required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	path := identity.UserID.String() + "/" + uuid.NewString() + filepath.Ext(header.Filename)
	size, err := h.blobs.Save(r.Context(), path, file)
	if err != nil {
		log.ErrorContext(r.Context(), "upload handler - save failed", "user_id", identity.UserID, "err", err)
		http.Error(w, "upload failed", http.StatusInternalServerError)
		return
	}
	log.InfoContext(r.Context(), "upload handler - stored", "path", path, "bytes", size)
	writeJSON(w, http.StatusCreated, map[string]any{"path": path, "size": size})
}

// Download streams a stored attachment back.
func (h *UploadHandler) Download(w http.ResponseWriter, r *http.Request) {
	path := r.PathValue("path")
	if path == "" {
		http.Error(w, "path required", http.StatusBadRequest)
		return
	}
	f, err := h.blobs.Open(r.Context(), path)
	if err != nil {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}
	defer f.Close()
	w.Header().Set("Content-Type", "application/octet-stream")
	_, _ = io.Copy(w, f)
}
