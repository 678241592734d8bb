package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/beardtrust/user-service/internal/apperrors"
	"github.com/beardtrust/user-service/internal/auth"
	"github.com/beardtrust/user-service/internal/config"
	"github.com/beardtrust/user-service/internal/services"
	"github.com/rs/zerolog/log"
)

// AuthHandler handles the login flow: credential verification and token
// issuance.
type AuthHandler struct {
	service services.UserServiceProvider
	tokens  *auth.TokenManager
	cfg     *config.Config
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(service services.UserServiceProvider, tokens *auth.TokenManager, cfg *config.Config) *AuthHandler {
	return &AuthHandler{service: service, tokens: tokens, cfg: cfg}
}

// LoginPayload defines the structure for login requests.
type LoginPayload struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login authenticates a user and, on success, returns the signed token in the
// configured token header and the user's id in the BTUID header. The body is
// empty. All authentication failures produce the same 401; the response never
// names the factor that failed.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var payload LoginPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	claimedRole := r.Header.Get(h.cfg.RoleHeaderName)

	user, err := h.service.AuthenticateUser(payload.Email, payload.Password, claimedRole)
	if err != nil {
		if !errors.Is(err, apperrors.ErrBadCredentials) {
			log.Error().Err(err).Msg("Store fault during authentication")
			writeError(w, http.StatusInternalServerError, "Internal server error")
			return
		}
		log.Warn().Str("email", payload.Email).Msg("Failed authentication attempt")
		writeError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	token, err := h.tokens.Generate(user.ID)
	if err != nil {
		log.Error().Err(err).Str("user_id", user.ID).Msg("Failed to generate token")
		writeError(w, http.StatusInternalServerError, "Failed to generate token")
		return
	}

	w.Header().Set(h.cfg.TokenHeaderName, h.cfg.TokenHeaderPrefix+" "+token)
	w.Header().Set("BTUID", user.ID)
	w.WriteHeader(http.StatusOK)

	log.Info().Str("user_id", user.ID).Msg("User authenticated")
}
