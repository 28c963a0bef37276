package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"github.com/white/session-tracker/internal/events"
	"github.com/white/session-tracker/internal/services"
	"github.com/white/session-tracker/internal/session"
)

// AuthHandler serves registration, login, and logout.
type AuthHandler struct {
	authService *services.AuthService
	sessions    *session.Store
	publisher   *events.AuthPublisher
	cookieName  string
	cookieTTL   time.Duration
	secure      bool
	logger      zerolog.Logger
}

func NewAuthHandler(
	authService *services.AuthService,
	sessions *session.Store,
	publisher *events.AuthPublisher,
	cookieName string,
	cookieTTL time.Duration,
	secure bool,
	logger zerolog.Logger,
) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		sessions:    sessions,
		publisher:   publisher,
		cookieName:  cookieName,
		cookieTTL:   cookieTTL,
		secure:      secure,
		logger:      logger.With().Str("component", "auth_handler").Logger(),
	}
}

type credentialsRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Register handles POST /api/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decodeAndValidate(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, "A valid email and password are required")
		return
	}

	user, err := h.authService.Register(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrEmailTaken) {
			respondWithError(w, http.StatusBadRequest, "Email already exists")
			return
		}
		h.logger.Error().Err(err).Msg("registration failed")
		respondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	h.publisher.Publish(events.ActionUserRegistered, user.ID, user.Email, "")

	respondWithJSON(w, http.StatusCreated, map[string]string{"message": "User registered successfully"})
}

// Login handles POST /api/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decodeAndValidate(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, "A valid email and password are required")
		return
	}

	user, err := h.authService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			respondWithError(w, http.StatusUnauthorized, "Invalid credentials")
			return
		}
		h.logger.Error().Err(err).Msg("login failed")
		respondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	sess := h.sessions.Start(user.ID)
	h.setSessionCookie(w, sess.ID)

	h.publisher.Publish(events.ActionUserLoggedIn, user.ID, user.Email, sess.ID)

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"message":     "Login successful",
		"preferences": user.Preferences,
	})
}

// Logout handles POST /api/logout. Idempotent: logging out without an
// active session still succeeds.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(h.cookieName); err == nil {
		if sess, ok := h.sessions.Get(cookie.Value); ok {
			h.publisher.Publish(events.ActionUserLoggedOut, sess.UserID, "", sess.ID)
		}
		h.sessions.End(cookie.Value)
	}

	h.clearSessionCookie(w)

	respondWithJSON(w, http.StatusOK, map[string]string{"message": "Logout successful"})
}

func (h *AuthHandler) setSessionCookie(w http.ResponseWriter, sessionID string) {
	http.SetCookie(w, &http.Cookie{
		Name:     h.cookieName,
		Value:    sessionID,
		Path:     "/",
		MaxAge:   int(h.cookieTTL.Seconds()),
		HttpOnly: true,
		Secure:   h.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *AuthHandler) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     h.cookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.secure,
		SameSite: http.SameSiteLaxMode,
	})
}
