package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/beardtrust/user-service/internal/models"
	"github.com/beardtrust/user-service/internal/services"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

// UserHandler handles HTTP requests for user management.
type UserHandler struct {
	service services.UserServiceProvider
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(service services.UserServiceProvider) *UserHandler {
	return &UserHandler{service: service}
}

// UpdatePayload is the body accepted by the update endpoints. The password is
// optional; when empty the stored hash is kept.
type UpdatePayload struct {
	models.User
	Password string `json:"password"`
}

// Health is the liveness probe.
func (h *UserHandler) Health(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("Healthy"))
}

// Register handles new user registration.
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var payload models.Registration
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := validate.Struct(payload); err != nil {
		writeValidationError(w, err)
		return
	}

	id, err := h.service.RegisterUser(payload)
	if err != nil {
		log.Warn().Err(err).Str("email", payload.Email).Msg("Failed to register user")
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{"userId": id})
}

// Get handles retrieving a user by their ID. The password hash never leaves
// the service layer.
func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	user, err := h.service.GetUserByID(id)
	if err != nil {
		log.Warn().Err(err).Str("user_id", id).Msg("Failed to get user by ID")
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, user)
}

// Update handles updating a user record. The record's id and role are always
// preserved regardless of the request body.
func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var payload UpdatePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, err := h.service.UpdateUser(id, payload.User, payload.Password)
	if err != nil {
		log.Error().Err(err).Str("user_id", id).Msg("Failed to update user")
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, user)
}

// Delete handles the permanent deletion of a user account.
func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.service.DeleteUser(id); err != nil {
		log.Warn().Err(err).Str("user_id", id).Msg("Failed to delete user")
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
