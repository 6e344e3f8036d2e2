package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/liteauth/liteauth-be/internal/auth"
	"github.com/liteauth/liteauth-be/internal/services"
	"github.com/rs/zerolog/log"
)

// AuthHandler handles registration, login/logout and the availability
// check endpoints.
type AuthHandler struct {
	service services.UserServiceProvider
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(service services.UserServiceProvider) *AuthHandler {
	return &AuthHandler{service: service}
}

// AuthPayload defines the structure for login requests.
type AuthPayload struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register handles new user registration. Field rules and the unique
// indexes are re-checked here regardless of what the client's advisory
// checks concluded.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var payload services.RegisterInput
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, err := h.service.CreateUser(payload)
	if err != nil {
		switch {
		case services.IsValidation(err):
			respondError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, services.ErrConflict):
			respondError(w, http.StatusConflict, services.ErrConflict.Error())
		default:
			log.Error().Err(err).Str("email", payload.Email).Msg("Failed to register user")
			respondError(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}

	respondJSON(w, http.StatusCreated, map[string]any{
		"message": "User created successfully",
		"user":    auth.Summary(user),
	})
}

// Login handles user authentication and session issuance. Unknown
// email and wrong password produce the identical response.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var payload AuthPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if payload.Email == "" || payload.Password == "" {
		respondError(w, http.StatusBadRequest, "Email and password are required")
		return
	}

	user, err := h.service.AuthenticateUser(payload.Email, payload.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			log.Warn().Str("email", payload.Email).Msg("Failed authentication attempt")
			respondError(w, http.StatusUnauthorized, "Invalid credentials")
			return
		}
		log.Error().Err(err).Msg("Authentication lookup failed")
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	token, err := auth.IssueSession(w, user)
	if err != nil {
		log.Error().Err(err).Str("user_id", user.ID).Msg("Failed to generate JWT")
		respondError(w, http.StatusInternalServerError, "Failed to generate token")
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"message": "Login successful",
		"token":   token,
		"user":    auth.Summary(user),
	})
}

// Logout clears the session cookie. Idempotent: logging out without a
// session is a success.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	auth.ClearSession(w)
	respondJSON(w, http.StatusOK, map[string]string{"message": "Logged out"})
}

// CheckUsername reports whether a username is free to register. The
// lookup is case-insensitive; the answer is advisory only.
func (h *AuthHandler) CheckUsername(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Username string `json:"username"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil || payload.Username == "" {
		respondError(w, http.StatusBadRequest, "Username is required")
		return
	}

	_, err := h.service.FindByUsername(payload.Username)
	switch {
	case errors.Is(err, services.ErrNotFound):
		respondJSON(w, http.StatusOK, map[string]any{"available": true, "message": "Username is available"})
	case err == nil:
		respondJSON(w, http.StatusOK, map[string]any{"available": false, "message": "Username is already taken"})
	default:
		log.Error().Err(err).Msg("Username check failed")
		respondError(w, http.StatusInternalServerError, "Internal server error")
	}
}

// CheckEmail reports whether an email is free to register.
func (h *AuthHandler) CheckEmail(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Email string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil || payload.Email == "" {
		respondError(w, http.StatusBadRequest, "Email is required")
		return
	}

	_, err := h.service.FindByEmail(payload.Email)
	switch {
	case errors.Is(err, services.ErrNotFound):
		respondJSON(w, http.StatusOK, map[string]any{"available": true, "message": "Email is available"})
	case err == nil:
		respondJSON(w, http.StatusOK, map[string]any{"available": false, "message": "Email is already registered"})
	default:
		log.Error().Err(err).Msg("Email check failed")
		respondError(w, http.StatusInternalServerError, "Internal server error")
	}
}

// CheckPassword reports whether the supplied password matches the
// account's stored credential, in the same shape as the availability
// checks.
func (h *AuthHandler) CheckPassword(w http.ResponseWriter, r *http.Request) {
	var payload AuthPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil || payload.Email == "" || payload.Password == "" {
		respondError(w, http.StatusBadRequest, "Email and password are required")
		return
	}

	_, err := h.service.AuthenticateUser(payload.Email, payload.Password)
	switch {
	case err == nil:
		respondJSON(w, http.StatusOK, map[string]any{"available": true, "message": "Password is correct"})
	case errors.Is(err, services.ErrInvalidCredentials):
		respondJSON(w, http.StatusOK, map[string]any{"available": false, "message": "Password is incorrect"})
	default:
		log.Error().Err(err).Msg("Password check failed")
		respondError(w, http.StatusInternalServerError, "Internal server error")
	}
}
