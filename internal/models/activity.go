package models

import (
	"time"
)

// Activity action names, stored verbatim in the activities collection.
const (
	ActionPageVisit         = "page_visit"
	ActionUpdatePreferences = "update_preferences"
)

// Activity represents a single durable log entry describing a user action.
// Collection: activities. Records are append-only; the storage-assigned
// _id stays internal and is projected out of query results.
type Activity struct {
	UserID    string                 `bson:"user_id" json:"user_id"`
	SessionID string                 `bson:"session_id,omitempty" json:"session_id,omitempty"`
	Action    string                 `bson:"action" json:"action"`
	Details   map[string]interface{} `bson:"details" json:"details"`
	Timestamp time.Time              `bson:"timestamp" json:"timestamp"`
}
