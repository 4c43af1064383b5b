package handler

import (
	"net/http"

	"github.com/msomdec/tasktrack/internal/service"
)

// ImageHandler exposes the image intake pipeline.
type ImageHandler struct {
	photos *service.PhotoService
}

// NewImageHandler creates a new ImageHandler.
func NewImageHandler(photos *service.PhotoService) *ImageHandler {
	return &ImageHandler{photos: photos}
}

// HandleCompress measures an image and compresses it when it exceeds the
// budget. A result that still misses the budget is returned with
// budgetMet=false so the client can decide.
// POST /api/images/compress
// Request:  {"image":"data:image/...;base64,...","maxSizeBytes":1048576}
// Response: {"payload","size","formattedSize","compressed","originalSize",...}
func (h *ImageHandler) HandleCompress(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Image        string `json:"image"`
		MaxSizeBytes int64  `json:"maxSizeBytes"`
	}
	if err := readJSON(r, &req); err != nil {
		writeDecodeError(w, err)
		return
	}
	if req.MaxSizeBytes < 0 {
		writeError(w, http.StatusBadRequest, "maxSizeBytes must not be negative.")
		return
	}

	result, err := h.photos.Compress(r.Context(), req.Image, req.MaxSizeBytes)
	if err != nil {
		writeServiceError(w, r, err, "Image not found")
		return
	}
	if result.Compressed {
		logFor(r).InfoContext(r.Context(), "image compressed",
			"original_size", result.OriginalSize,
			"size", result.Size,
			"quality", result.Quality,
		)
	}
	writeJSON(w, http.StatusOK, toCompressResultDTO(result))
}
