package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"
	"github.com/white/session-tracker/internal/middleware"
	"github.com/white/session-tracker/internal/services"
)

// PreferencesHandler serves the preference update endpoint.
type PreferencesHandler struct {
	authService *services.AuthService
	logger      zerolog.Logger
}

func NewPreferencesHandler(authService *services.AuthService, logger zerolog.Logger) *PreferencesHandler {
	return &PreferencesHandler{
		authService: authService,
		logger:      logger.With().Str("component", "preferences_handler").Logger(),
	}
}

// UpdatePreferences handles POST /api/preferences. The request body is
// the full replacement preferences mapping; keys not present are
// dropped, not merged.
func (h *PreferencesHandler) UpdatePreferences(w http.ResponseWriter, r *http.Request) {
	sess, ok := middleware.SessionFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	var prefs map[string]string
	if err := json.NewDecoder(r.Body).Decode(&prefs); err != nil || prefs == nil {
		respondWithError(w, http.StatusBadRequest, "Preferences payload is required")
		return
	}

	if err := h.authService.UpdatePreferences(r.Context(), sess.UserID, sess.ID, prefs); err != nil {
		h.logger.Error().Err(err).Str("user_id", sess.UserID).Msg("failed to update preferences")
		respondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]string{"message": "Preferences updated successfully"})
}
