package middleware

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/white/session-tracker/internal/session"
	"github.com/white/session-tracker/pkg/uuid"
)

type contextKey string

// sessionContextKey is where RequireSession stores the loaded session.
const sessionContextKey contextKey = "session"

func respondWithError(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}

// RequireSession is a middleware that resolves the session cookie
// against the store and injects the live session into the request
// context. Requests without a valid, unexpired session get a 401.
func RequireSession(store *session.Store, cookieName string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(cookieName)
			if err != nil {
				respondWithError(w, http.StatusUnauthorized, "Authentication required")
				return
			}

			// Session IDs are UUIDs; reject garbage before the lookup.
			if err := uuid.ValidateUUID(cookie.Value); err != nil {
				respondWithError(w, http.StatusUnauthorized, "Authentication required")
				return
			}

			sess, ok := store.Get(cookie.Value)
			if !ok {
				respondWithError(w, http.StatusUnauthorized, "Authentication required")
				return
			}

			ctx := context.WithValue(r.Context(), sessionContextKey, sess)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// SessionFromContext returns the session injected by RequireSession.
func SessionFromContext(ctx context.Context) (*session.Session, bool) {
	sess, ok := ctx.Value(sessionContextKey).(*session.Session)
	return sess, ok
}
