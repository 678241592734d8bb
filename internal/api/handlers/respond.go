package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/beardtrust/user-service/internal/apperrors"
	"github.com/rs/zerolog/log"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}

// writeError sends the standard error payload: a timestamp plus a
// human-readable message.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{
		"timestamp": time.Now().Format(time.RFC3339),
		"message":   message,
	})
}

// writeServiceError maps a service-layer error to its HTTP status.
func writeServiceError(w http.ResponseWriter, err error) {
	var dup *apperrors.DuplicateEntryError
	switch {
	case errors.As(err, &dup):
		writeError(w, http.StatusConflict, dup.Message)
	case errors.Is(err, apperrors.ErrNotFound):
		writeError(w, http.StatusNotFound, "User not found")
	default:
		writeError(w, http.StatusInternalServerError, "Internal server error")
	}
}
