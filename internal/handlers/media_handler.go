package handlers

import (
	"io"
	"net/http"

	"github.com/campuslink/campuslink/pkg/logger"
	"github.com/campuslink/campuslink/pkg/media"
)

const maxUploadSize = 10 << 20 // 10 MB

// MediaHandler uploads post and profile media to object storage.
type MediaHandler struct {
	Store *media.Store
}

func NewMediaHandler(store *media.Store) *MediaHandler {
	return &MediaHandler{Store: store}
}

// UploadHandler handles POST /media/upload (multipart form, field "file").
func (h *MediaHandler) UploadHandler(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		writeMessage(w, http.StatusBadRequest, "File too large")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "Failed to read file")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxUploadSize))
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "Failed to read file")
		return
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}

	asset, err := h.Store.Upload(r.Context(), header.Filename, contentType, data)
	if err != nil {
		logger.Log.Errorf("Media upload failed: %v", err)
		writeMessage(w, http.StatusInternalServerError, "Upload failed")
		return
	}

	writeJSON(w, http.StatusCreated, asset)
}
