package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/liteauth/liteauth-be/internal/auth"
	"github.com/liteauth/liteauth-be/internal/services"
	"github.com/rs/zerolog/log"
)

// UserHandler handles HTTP requests for user management. Both routes
// sit behind the admin gate except GetMe.
type UserHandler struct {
	service services.UserServiceProvider
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(service services.UserServiceProvider) *UserHandler {
	return &UserHandler{service: service}
}

// List returns every user, newest first, password field stripped.
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.service.ListUsers()
	if err != nil {
		log.Error().Err(err).Msg("Failed to list users")
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{"users": users})
}

// UpdateRole sets a target user's role. Role input is accepted in any
// casing and stored in canonical lowercase.
func (h *UserHandler) UpdateRole(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		ID   string `json:"id"`
		Role string `json:"role"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil || payload.ID == "" || payload.Role == "" {
		respondError(w, http.StatusBadRequest, "User ID and role are required")
		return
	}

	user, err := h.service.UpdateRole(payload.ID, payload.Role)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidRole):
			respondError(w, http.StatusBadRequest, "Role must be either user or admin")
		case errors.Is(err, services.ErrNotFound):
			respondError(w, http.StatusNotFound, "User not found")
		default:
			log.Error().Err(err).Str("user_id", payload.ID).Msg("Failed to update user role")
			respondError(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"message": "User role updated successfully",
		"user":    auth.Summary(user),
	})
}

// GetMe retrieves the currently authenticated user from the token.
func (h *UserHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	claims, ok := r.Context().Value(auth.UserClaimsKey).(*auth.Claims)
	if !ok {
		log.Error().Msg("Could not retrieve user claims from context")
		respondError(w, http.StatusInternalServerError, "Could not retrieve user from token")
		return
	}

	user, err := h.service.GetUserByID(claims.UserID)
	if err != nil {
		log.Warn().Err(err).Str("user_id", claims.UserID).Msg("User from token not found in DB")
		respondError(w, http.StatusNotFound, "User not found")
		return
	}

	respondJSON(w, http.StatusOK, auth.Summary(user))
}
