package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/msomdec/tasktrack/internal/domain"
	"github.com/msomdec/tasktrack/internal/imaging"
)

// writeJSON sends a JSON response with the given status code and data.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("write JSON response", "error", err)
	}
}

// messageResponse is the body of every error and of message-only successes.
type messageResponse struct {
	Message string `json:"message"`
}

// writeMessage sends a JSON response carrying only a message.
func writeMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, messageResponse{Message: message})
}

// writeError sends a JSON error response. Errors share the message body, so
// clients read the same field on success and failure.
func writeError(w http.ResponseWriter, status int, message string) {
	if status < http.StatusBadRequest {
		status = http.StatusInternalServerError
	}
	writeMessage(w, status, message)
}

// readJSON decodes the request body into the given destination.
func readJSON(r *http.Request, dst any) error {
	return json.NewDecoder(r.Body).Decode(dst)
}

// writeDecodeError reports a body that could not be read.
func writeDecodeError(w http.ResponseWriter, err error) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		writeError(w, http.StatusRequestEntityTooLarge, "Request body is too large.")
		return
	}
	writeError(w, http.StatusBadRequest, "Invalid request body.")
}

// writeServiceError maps a service error to a status code and user-facing
// message. notFound is the message used for domain.ErrNotFound.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error, notFound string) {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, detail(err, domain.ErrInvalidInput, "Invalid input."))
	case errors.Is(err, domain.ErrUnauthorized):
		writeError(w, http.StatusUnauthorized, "Invalid email or password.")
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, notFound)
	case errors.Is(err, domain.ErrDuplicateEmail):
		writeError(w, http.StatusConflict, "User already exists")
	case errors.Is(err, imaging.ErrInvalidAsset):
		writeError(w, http.StatusBadRequest, "A valid image is required.")
	case errors.Is(err, imaging.ErrImageTooLarge):
		writeError(w, http.StatusRequestEntityTooLarge, detail(err, imaging.ErrImageTooLarge, "Image is too large."))
	case errors.Is(err, imaging.ErrEncodingFailure):
		logFor(r).WarnContext(r.Context(), "image processing failed", "error", err)
		writeError(w, http.StatusUnprocessableEntity, "Failed to process image. Please try again.")
	default:
		logFor(r).ErrorContext(r.Context(), "request failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Server error")
	}
}

// detail returns the text following sentinel in err's message.
func detail(err, sentinel error, fallback string) string {
	msg := err.Error()
	prefix := sentinel.Error() + ": "
	if i := strings.Index(msg, prefix); i >= 0 {
		return msg[i+len(prefix):]
	}
	return fallback
}
