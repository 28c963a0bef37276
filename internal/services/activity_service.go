package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/white/session-tracker/internal/models"
	"github.com/white/session-tracker/internal/pagination"
)

// ActivityStore is the persistence surface the activity service needs.
type ActivityStore interface {
	Insert(ctx context.Context, activity *models.Activity) error
	CountByUser(ctx context.Context, userID string) (int64, error)
	ListByUser(ctx context.Context, userID string, skip, limit int64) ([]models.Activity, error)
}

// ActivityService writes and reads the append-only activity log.
type ActivityService struct {
	store  ActivityStore
	logger zerolog.Logger
}

func NewActivityService(store ActivityStore, logger zerolog.Logger) *ActivityService {
	return &ActivityService{
		store:  store,
		logger: logger.With().Str("component", "activity_service").Logger(),
	}
}

// Record appends an activity entry. Logging is best-effort: a storage
// failure is logged and swallowed so it never fails the operation that
// triggered it.
func (s *ActivityService) Record(ctx context.Context, userID, sessionID, action string, details map[string]interface{}) {
	if details == nil {
		details = map[string]interface{}{}
	}

	activity := &models.Activity{
		UserID:    userID,
		SessionID: sessionID,
		Action:    action,
		Details:   details,
		Timestamp: time.Now().UTC(),
	}

	if err := s.store.Insert(ctx, activity); err != nil {
		s.logger.Error().Err(err).
			Str("user_id", userID).
			Str("action", action).
			Msg("failed to record activity")
	}
}

// List returns a page of the user's activities, most recent first, with
// pagination metadata computed against the durable count.
func (s *ActivityService) List(ctx context.Context, userID string, page, perPage int) ([]models.Activity, pagination.Meta, error) {
	total, err := s.store.CountByUser(ctx, userID)
	if err != nil {
		return nil, pagination.Meta{}, err
	}

	activities, err := s.store.ListByUser(ctx, userID, pagination.Skip(page, perPage), int64(perPage))
	if err != nil {
		return nil, pagination.Meta{}, err
	}
	if activities == nil {
		activities = []models.Activity{}
	}

	return activities, pagination.New(total, page, perPage), nil
}
