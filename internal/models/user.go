package models

import (
	"time"
)

// User represents a registered user in the MongoDB database
// Collection: users
type User struct {
	ID           string            `bson:"_id,omitempty" json:"id"`
	Email        string            `bson:"email" json:"email"`
	PasswordHash string            `bson:"password_hash" json:"-"` // Never expose in JSON
	Preferences  map[string]string `bson:"preferences" json:"preferences"`
	CreatedAt    time.Time         `bson:"created_at" json:"created_at"`
}

// DefaultPreferences returns the preference set assigned to new users.
func DefaultPreferences() map[string]string {
	return map[string]string{
		"theme":         "light",
		"notifications": "enabled",
		"language":      "English",
	}
}
