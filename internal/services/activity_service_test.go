package services_test

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/white/session-tracker/internal/models"
	"github.com/white/session-tracker/internal/services"
)

// fakeActivityStore keeps activities in memory, newest first, the same
// order the Mongo repository returns them in.
type fakeActivityStore struct {
	items     []models.Activity
	insertErr error
	lastSkip  int64
	lastLimit int64
}

func (f *fakeActivityStore) Insert(_ context.Context, activity *models.Activity) error {
	if f.insertErr != nil {
		return f.insertErr
	}
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
	f.lastSkip = skip
	f.lastLimit = limit

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

func newActivityService(store *fakeActivityStore) *services.ActivityService {
	return services.NewActivityService(store, zerolog.New(io.Discard))
}

func TestActivityService_RecordDefaultsDetails(t *testing.T) {
	store := &fakeActivityStore{}
	svc := newActivityService(store)

	svc.Record(context.Background(), "user-1", "sess-1", models.ActionPageVisit, nil)

	require.Len(t, store.items, 1)
	got := store.items[0]
	assert.Equal(t, "user-1", got.UserID)
	assert.Equal(t, "sess-1", got.SessionID)
	assert.Equal(t, models.ActionPageVisit, got.Action)
	assert.NotNil(t, got.Details)
	assert.Empty(t, got.Details)
	assert.False(t, got.Timestamp.IsZero())
}

func TestActivityService_RecordSwallowsStorageFailure(t *testing.T) {
	store := &fakeActivityStore{insertErr: errors.New("write concern failure")}
	svc := newActivityService(store)

	// Must not panic or propagate: logging is best-effort.
	svc.Record(context.Background(), "user-1", "", models.ActionUpdatePreferences, map[string]interface{}{"theme": "dark"})

	assert.Empty(t, store.items)
}

func TestActivityService_ListPaginatesNewestFirst(t *testing.T) {
	store := &fakeActivityStore{}
	svc := newActivityService(store)

	for i := 0; i < 5; i++ {
		svc.Record(context.Background(), "user-1", "", models.ActionPageVisit, map[string]interface{}{"seq": i})
	}

	activities, meta, err := svc.List(context.Background(), "user-1", 2, 2)
	require.NoError(t, err)

	// Page 2 of 5 items, newest first: sequence numbers 2 and 1.
	require.Len(t, activities, 2)
	assert.Equal(t, 2, activities[0].Details["seq"])
	assert.Equal(t, 1, activities[1].Details["seq"])

	assert.Equal(t, int64(5), meta.TotalItems)
	assert.Equal(t, 3, meta.TotalPages)
	assert.Equal(t, 2, meta.CurrentPage)
	assert.Equal(t, 2, meta.PerPage)

	assert.Equal(t, int64(2), store.lastSkip)
	assert.Equal(t, int64(2), store.lastLimit)
}

func TestActivityService_ListEmptyReturnsEmptySlice(t *testing.T) {
	svc := newActivityService(&fakeActivityStore{})

	activities, meta, err := svc.List(context.Background(), "user-1", 1, 10)
	require.NoError(t, err)

	assert.NotNil(t, activities)
	assert.Empty(t, activities)
	assert.Equal(t, 0, meta.TotalPages)
}
