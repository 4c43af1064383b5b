package handler

import (
	"net/http"

	"github.com/msomdec/tasktrack/internal/service"
)

// ProfileHandler serves the caller's own account.
type ProfileHandler struct {
	profiles *service.ProfileService
}

// NewProfileHandler creates a new ProfileHandler.
func NewProfileHandler(profiles *service.ProfileService) *ProfileHandler {
	return &ProfileHandler{profiles: profiles}
}

// HandleGet returns the profile.
// GET /api/profile
func (h *ProfileHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())

	p, err := h.profiles.Get(r.Context(), user.ID)
	if err != nil {
		writeServiceError(w, r, err, "User not found")
		return
	}
	writeJSON(w, http.StatusOK, toProfileDTO(p))
}

// HandleUpdate edits the profile and returns the refreshed view.
// PUT /api/profile/update
// Request: {"name","email","phone","profilePhoto","password"}
func (h *ProfileHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())

	var req struct {
		Name         string `json:"name"`
		Email        string `json:"email"`
		Phone        string `json:"phone"`
		ProfilePhoto string `json:"profilePhoto"`
		Password     string `json:"password"`
	}
	if err := readJSON(r, &req); err != nil {
		writeDecodeError(w, err)
		return
	}

	p, err := h.profiles.Update(r.Context(), user.ID, service.ProfileInput{
		Name:         req.Name,
		Email:        req.Email,
		Phone:        req.Phone,
		ProfilePhoto: req.ProfilePhoto,
		Password:     req.Password,
	})
	if err != nil {
		writeServiceError(w, r, err, "User not found")
		return
	}
	writeJSON(w, http.StatusOK, toProfileDTO(p))
}

// HandleDelete removes the account and its todos.
// DELETE /api/profile/delete
func (h *ProfileHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())

	if err := h.profiles.Delete(r.Context(), user.ID); err != nil {
		writeServiceError(w, r, err, "User not found")
		return
	}
	logFor(r).InfoContext(r.Context(), "account deleted", "user_id", user.ID)
	writeMessage(w, http.StatusOK, "Account deleted successfully")
}
