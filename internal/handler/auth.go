package handler

import (
	"net/http"

	"github.com/msomdec/tasktrack/internal/service"
)

// AuthHandler handles registration and login.
type AuthHandler struct {
	auth *service.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(auth *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// HandleRegister processes a JSON registration request.
// POST /api/auth/register
// Request:  {"name","email","phone","password","confirmPassword","profilePhoto","agreeToTerms"}
// Response: 201 {"message": "..."}
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name            string `json:"name"`
		Email           string `json:"email"`
		Phone           string `json:"phone"`
		Password        string `json:"password"`
		ConfirmPassword string `json:"confirmPassword"`
		ProfilePhoto    string `json:"profilePhoto"`
		AgreeToTerms    bool   `json:"agreeToTerms"`
	}
	if err := readJSON(r, &req); err != nil {
		writeDecodeError(w, err)
		return
	}

	user, err := h.auth.Register(r.Context(), service.RegisterInput{
		Name:            req.Name,
		Email:           req.Email,
		Phone:           req.Phone,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
		ProfilePhoto:    req.ProfilePhoto,
		AgreeToTerms:    req.AgreeToTerms,
	})
	if err != nil {
		writeServiceError(w, r, err, "User not found")
		return
	}

	logFor(r).InfoContext(r.Context(), "user registered", "user_id", user.ID)
	writeMessage(w, http.StatusCreated, "User registered successfully")
}

// HandleLogin processes a JSON login request.
// POST /api/auth/login
// Request:  {"email":"...","password":"..."}
// Response: {"token":"..."}
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := readJSON(r, &req); err != nil {
		writeDecodeError(w, err)
		return
	}

	token, err := h.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeServiceError(w, r, err, "User not found")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"token": token})
}
