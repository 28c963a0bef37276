package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/white/session-tracker/internal/models"
	"github.com/white/session-tracker/internal/repositories"
	"golang.org/x/crypto/bcrypt"
)

var (
	// ErrEmailTaken is returned when registering an already-used email
	ErrEmailTaken = errors.New("email already exists")

	// ErrInvalidCredentials is returned for unknown emails and wrong
	// passwords alike, so callers cannot tell which one failed
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// UserStore is the persistence surface the auth service needs.
type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	ReplacePreferences(ctx context.Context, userID string, prefs map[string]string) error
}

// AuthService orchestrates registration, credential checks, and
// preference updates against the user store.
type AuthService struct {
	users    UserStore
	activity *ActivityService
	logger   zerolog.Logger
}

func NewAuthService(users UserStore, activity *ActivityService, logger zerolog.Logger) *AuthService {
	return &AuthService{
		users:    users,
		activity: activity,
		logger:   logger.With().Str("component", "auth_service").Logger(),
	}
}

// Register creates a user with a bcrypt-hashed password and default
// preferences. Duplicate emails surface as ErrEmailTaken; the unique
// index on email is the source of truth.
func (s *AuthService) Register(ctx context.Context, email, password string) (*models.User, error) {
	hash, err := HashPassword(password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Email:        email,
		PasswordHash: hash,
		Preferences:  models.DefaultPreferences(),
	}

	if err := s.users.Create(ctx, user); err != nil {
		if repositories.IsDuplicateKey(err) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

// Login verifies credentials and returns the user. Unknown email and
// hash mismatch both return ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, email, password string) (*models.User, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if repositories.IsNotFound(err) || repositories.IsUserNotFound(err) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if err := VerifyPassword(user.PasswordHash, password); err != nil {
		return nil, ErrInvalidCredentials
	}

	return user, nil
}

// UpdatePreferences replaces the user's whole preferences mapping and
// records an update_preferences activity (best-effort).
func (s *AuthService) UpdatePreferences(ctx context.Context, userID, sessionID string, prefs map[string]string) error {
	if err := s.users.ReplacePreferences(ctx, userID, prefs); err != nil {
		return fmt.Errorf("failed to update preferences: %w", err)
	}

	s.activity.Record(ctx, userID, sessionID, models.ActionUpdatePreferences, map[string]interface{}{
		"new_preferences": prefs,
	})

	return nil
}

// HashPassword hashes a password using bcrypt
func HashPassword(password string) (string, error) {
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hashedBytes), nil
}

// VerifyPassword verifies a password against a hash
func VerifyPassword(hashedPassword, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
}
