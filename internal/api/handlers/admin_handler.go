package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/beardtrust/user-service/internal/services"
	"github.com/rs/zerolog/log"
)

const defaultPageSize = 20

// AdminHandler handles the administrative endpoints over user records.
type AdminHandler struct {
	service services.UserServiceProvider
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(service services.UserServiceProvider) *AdminHandler {
	return &AdminHandler{service: service}
}

// List returns one page of users, optionally sorted and filtered by a search
// term matched case-insensitively against name, username, email, and phone.
func (h *AdminHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	page, err := strconv.Atoi(q.Get("page"))
	if err != nil || page < 0 {
		page = 0
	}
	size, err := strconv.Atoi(q.Get("size"))
	if err != nil || size <= 0 {
		size = defaultPageSize
	}
	asc, _ := strconv.ParseBool(q.Get("asc"))

	result, err := h.service.FindPaginated(page, size, q.Get("sort"), asc, q.Get("search"))
	if err != nil {
		log.Error().Err(err).Msg("Failed to list users")
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// Create persists a user record as submitted by an administrator; unlike
// self-registration, the role in the body is honored.
func (h *AdminHandler) Create(w http.ResponseWriter, r *http.Request) {
	var payload UpdatePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if payload.Password == "" {
		writeError(w, http.StatusBadRequest, "password is required")
		return
	}

	user, err := h.service.CreateUser(payload.User, payload.Password)
	if err != nil {
		log.Error().Err(err).Str("email", payload.Email).Msg("Failed to create user")
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, user)
}
