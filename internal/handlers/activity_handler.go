package handlers

import (
	"net/http"

	"github.com/rs/zerolog"
	"github.com/white/session-tracker/internal/middleware"
	"github.com/white/session-tracker/internal/pagination"
	"github.com/white/session-tracker/internal/services"
)

// ActivityHandler serves the paginated per-user activity log.
type ActivityHandler struct {
	activity *services.ActivityService
	logger   zerolog.Logger
}

func NewActivityHandler(activity *services.ActivityService, logger zerolog.Logger) *ActivityHandler {
	return &ActivityHandler{
		activity: activity,
		logger:   logger.With().Str("component", "activity_handler").Logger(),
	}
}

// ListActivities handles GET /api/activities
func (h *ActivityHandler) ListActivities(w http.ResponseWriter, r *http.Request) {
	sess, ok := middleware.SessionFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	page, perPage := pagination.ParseParams(r.URL.Query())

	activities, meta, err := h.activity.List(r.Context(), sess.UserID, page, perPage)
	if err != nil {
		h.logger.Error().Err(err).Str("user_id", sess.UserID).Msg("failed to list activities")
		respondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"activities": activities,
		"pagination": meta,
	})
}
