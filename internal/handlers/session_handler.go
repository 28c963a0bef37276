package handlers

import (
	"errors"
	"net/http"

	"github.com/rs/zerolog"
	"github.com/white/session-tracker/internal/middleware"
	"github.com/white/session-tracker/internal/models"
	"github.com/white/session-tracker/internal/pagination"
	"github.com/white/session-tracker/internal/services"
	"github.com/white/session-tracker/internal/session"
)

// SessionHandler serves the per-session page-visit tracking endpoints.
type SessionHandler struct {
	sessions *session.Store
	activity *services.ActivityService
	logger   zerolog.Logger
}

func NewSessionHandler(sessions *session.Store, activity *services.ActivityService, logger zerolog.Logger) *SessionHandler {
	return &SessionHandler{
		sessions: sessions,
		activity: activity,
		logger:   logger.With().Str("component", "session_handler").Logger(),
	}
}

type pageVisitRequest struct {
	Page string `json:"page" validate:"required"`
}

// RecordPageVisit handles POST /api/session/page
func (h *SessionHandler) RecordPageVisit(w http.ResponseWriter, r *http.Request) {
	sess, ok := middleware.SessionFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req pageVisitRequest
	if err := decodeAndValidate(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Page name is required")
		return
	}

	if err := h.sessions.RecordPageVisit(sess.ID, req.Page); err != nil {
		respondWithError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	h.activity.Record(r.Context(), sess.UserID, sess.ID, models.ActionPageVisit, map[string]interface{}{
		"page": req.Page,
	})

	respondWithJSON(w, http.StatusOK, map[string]string{"message": "Page visit logged"})
}

// GetSession handles GET /api/session
func (h *SessionHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	sess, ok := middleware.SessionFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	page, perPage := pagination.ParseParams(r.URL.Query())

	view, err := h.sessions.View(sess.ID, page, perPage)
	if err != nil {
		if errors.Is(err, session.ErrNoSession) {
			respondWithError(w, http.StatusNotFound, "No active session")
			return
		}
		h.logger.Error().Err(err).Msg("failed to build session view")
		respondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	respondWithJSON(w, http.StatusOK, view)
}
