package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"github.com/white/session-tracker/config"
	"github.com/white/session-tracker/internal/events"
	"github.com/white/session-tracker/internal/handlers"
	"github.com/white/session-tracker/internal/middleware"
	"github.com/white/session-tracker/internal/models"
	"github.com/white/session-tracker/internal/repositories"
	"github.com/white/session-tracker/internal/services"
	"github.com/white/session-tracker/internal/session"
)

const cookieName = "session_id"

type fakeUserStore struct {
	byEmail map[string]*models.User
	nextID  int
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{byEmail: make(map[string]*models.User)}
}

func (f *fakeUserStore) Create(_ context.Context, user *models.User) error {
	if _, exists := f.byEmail[user.Email]; exists {
		return fmt.Errorf("%w: user with email %s already exists", repositories.ErrDuplicateKey, user.Email)
	}
	f.nextID++
	user.ID = fmt.Sprintf("user-%d", f.nextID)
	f.byEmail[user.Email] = user
	return nil
}

func (f *fakeUserStore) GetByEmail(_ context.Context, email string) (*models.User, error) {
	user, ok := f.byEmail[email]
	if !ok {
		return nil, repositories.ErrUserNotFound
	}
	return user, nil
}

func (f *fakeUserStore) GetByID(_ context.Context, id string) (*models.User, error) {
	for _, user := range f.byEmail {
		if user.ID == id {
			return user, nil
		}
	}
	return nil, repositories.ErrUserNotFound
}

func (f *fakeUserStore) ReplacePreferences(_ context.Context, userID string, prefs map[string]string) error {
	for _, user := range f.byEmail {
		if user.ID == userID {
			user.Preferences = prefs
			return nil
		}
	}
	return repositories.ErrUserNotFound
}

// fakeActivityStore keeps activities newest first, mirroring the Mongo
// repository's sort order.
type fakeActivityStore struct {
	items []models.Activity
}

func (f *fakeActivityStore) Insert(_ context.Context, activity *models.Activity) error {
	f.items = append([]models.Activity{*activity}, f.items...)
	return nil
}

func (f *fakeActivityStore) CountByUser(_ context.Context, userID string) (int64, error) {
	var count int64
	for _, a := range f.items {
		if a.UserID == userID {
			count++
		}
	}
	return count, nil
}

func (f *fakeActivityStore) ListByUser(_ context.Context, userID string, skip, limit int64) ([]models.Activity, error) {
	var matched []models.Activity
	for _, a := range f.items {
		if a.UserID == userID {
			matched = append(matched, a)
		}
	}
	if skip >= int64(len(matched)) {
		return nil, nil
	}
	matched = matched[skip:]
	if limit < int64(len(matched)) {
		matched = matched[:limit]
	}
	return matched, nil
}

// testApp wires the full handler stack against in-memory fakes, using
// the same routing shape as cmd/api.
type testApp struct {
	router      *mux.Router
	sessions    *session.Store
	users       *fakeUserStore
	activities  *fakeActivityStore
	activitySvc *services.ActivityService
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()

	logger := zerolog.New(io.Discard)
	users := newFakeUserStore()
	activities := &fakeActivityStore{}
	sessions := session.NewStore(30*time.Minute, time.Minute, logger)
	t.Cleanup(sessions.Close)

	activitySvc := services.NewActivityService(activities, logger)
	authSvc := services.NewAuthService(users, activitySvc, logger)
	publisher := events.NewAuthPublisher(nil, config.KafkaTopics{}, logger)

	authHandler := handlers.NewAuthHandler(authSvc, sessions, publisher, cookieName, 30*time.Minute, false, logger)
	sessionHandler := handlers.NewSessionHandler(sessions, activitySvc, logger)
	preferencesHandler := handlers.NewPreferencesHandler(authSvc, logger)
	activityHandler := handlers.NewActivityHandler(activitySvc, logger)

	router := mux.NewRouter()
	api := router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/register", authHandler.Register).Methods("POST")
	api.HandleFunc("/login", authHandler.Login).Methods("POST")
	api.HandleFunc("/logout", authHandler.Logout).Methods("POST")

	protected := router.PathPrefix("/api").Subrouter()
	protected.Use(middleware.RequireSession(sessions, cookieName))
	protected.HandleFunc("/preferences", preferencesHandler.UpdatePreferences).Methods("POST")
	protected.HandleFunc("/session/page", sessionHandler.RecordPageVisit).Methods("POST")
	protected.HandleFunc("/session", sessionHandler.GetSession).Methods("GET")
	protected.HandleFunc("/activities", activityHandler.ListActivities).Methods("GET")

	return &testApp{
		router:      router,
		sessions:    sessions,
		users:       users,
		activities:  activities,
		activitySvc: activitySvc,
	}
}

func (a *testApp) do(t *testing.T, method, target string, body interface{}, cookie *http.Cookie) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}

	req := httptest.NewRequest(method, target, reader)
	if cookie != nil {
		req.AddCookie(cookie)
	}

	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)
	return rec
}

// register creates a user and logs in, returning the session cookie.
func (a *testApp) register(t *testing.T, email, password string) *http.Cookie {
	t.Helper()

	rec := a.do(t, http.MethodPost, "/api/register", map[string]string{"email": email, "password": password}, nil)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = a.do(t, http.MethodPost, "/api/login", map[string]string{"email": email, "password": password}, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	cookie := sessionCookie(rec)
	require.NotNil(t, cookie, "login did not set a session cookie")
	return cookie
}

func sessionCookie(rec *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == cookieName && c.Value != "" {
			return c
		}
	}
	return nil
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v))
}
