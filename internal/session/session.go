// Package session implements the server-side, cookie-identified session
// store. Each authenticated client owns exactly one record, keyed by an
// opaque session ID and invalidated after a fixed idle timeout.
package session

import (
	"errors"
	"time"

	"github.com/white/session-tracker/internal/pagination"
)

// ErrNoSession is returned when a session ID has no live record, either
// because it never existed, was ended, or expired.
var ErrNoSession = errors.New("no active session")

// PageVisit is a single entry in a session's visit history.
type PageVisit struct {
	Page      string    `json:"page"`
	Timestamp time.Time `json:"timestamp"`
}

// Session is the per-client authenticated state. PagesVisited grows only
// while the session is live and preserves insertion order.
type Session struct {
	ID           string
	UserID       string
	StartTime    time.Time
	LastSeen     time.Time
	PagesVisited []PageVisit
}

// View is a paginated snapshot of a session returned to read endpoints.
type View struct {
	StartTime       time.Time       `json:"start_time"`
	DurationSeconds int64           `json:"duration_seconds"`
	PagesVisited    []PageVisit     `json:"pages_visited"`
	Pagination      pagination.Meta `json:"pagination"`
}
