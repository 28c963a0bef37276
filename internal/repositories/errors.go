package repositories

import (
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"
)

// Common repository errors
var (
	// ErrNotFound is returned when a document is not found
	ErrNotFound = mongo.ErrNoDocuments

	// ErrDuplicateKey is returned when trying to insert a duplicate document
	ErrDuplicateKey = errors.New("duplicate key error")

	// ErrUserNotFound is returned when a user is not found
	ErrUserNotFound = errors.New("user not found")
)

// IsNotFound checks if an error is a not found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsDuplicateKey checks if an error is a duplicate key error
func IsDuplicateKey(err error) bool {
	if err == nil {
		return false
	}
	return mongo.IsDuplicateKeyError(err) || errors.Is(err, ErrDuplicateKey)
}

// IsUserNotFound checks if an error indicates a user was not found
func IsUserNotFound(err error) bool {
	return errors.Is(err, ErrUserNotFound)
}

// WrapNotFound wraps mongo.ErrNoDocuments with a domain-specific error.
// This preserves the original MongoDB error while adding domain context,
// so handlers can check either the domain sentinel or the generic one.
func WrapNotFound(err error, domainErr error) error {
	if err == nil {
		return nil
	}
	// Only wrap if it's actually a "not found" error
	if errors.Is(err, mongo.ErrNoDocuments) {
		return fmt.Errorf("%w: %w", domainErr, err)
	}
	// Return original error if it's not a "not found" error
	return err
}
