package repositories

import (
	"context"
	"fmt"

	"github.com/white/session-tracker/internal/models"
	"github.com/white/session-tracker/pkg/mongodb"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoActivityRepository handles the append-only activity log with MongoDB
type MongoActivityRepository struct {
	client     *mongodb.Client
	collection *mongo.Collection
}

// NewMongoActivityRepository creates a new MongoActivityRepository
func NewMongoActivityRepository(client *mongodb.Client) *MongoActivityRepository {
	return &MongoActivityRepository{
		client:     client,
		collection: client.Collection("activities"),
	}
}

// EnsureIndexes creates the compound index backing the paginated
// per-user, newest-first query.
func (r *MongoActivityRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "user_id", Value: 1},
			{Key: "timestamp", Value: -1},
		},
	})
	if err != nil {
		return fmt.Errorf("error creating activities indexes: %w", err)
	}
	return nil
}

// Insert appends a new activity record
func (r *MongoActivityRepository) Insert(ctx context.Context, activity *models.Activity) error {
	_, err := r.collection.InsertOne(ctx, activity)
	if err != nil {
		return fmt.Errorf("error inserting activity: %w", err)
	}
	return nil
}

// CountByUser returns the durable number of activities for a user
func (r *MongoActivityRepository) CountByUser(ctx context.Context, userID string) (int64, error) {
	count, err := r.collection.CountDocuments(ctx, bson.M{"user_id": userID})
	if err != nil {
		return 0, fmt.Errorf("error counting activities: %w", err)
	}
	return count, nil
}

// ListByUser retrieves a page of activities for a user, most recent
// first. The storage-assigned _id is projected out of the results.
func (r *MongoActivityRepository) ListByUser(ctx context.Context, userID string, skip, limit int64) ([]models.Activity, error) {
	filter := bson.M{"user_id": userID}

	opts := options.Find().
		SetSort(bson.D{{Key: "timestamp", Value: -1}}).
		SetSkip(skip).
		SetLimit(limit).
		SetProjection(bson.M{"_id": 0})

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("error listing activities: %w", err)
	}
	defer cursor.Close(ctx)

	var activities []models.Activity
	if err := cursor.All(ctx, &activities); err != nil {
		return nil, fmt.Errorf("error decoding activities: %w", err)
	}

	return activities, nil
}
