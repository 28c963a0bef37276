package session

import (
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/white/session-tracker/internal/pagination"
	"github.com/white/session-tracker/pkg/uuid"
)

// Store keeps session records in memory, keyed by session ID. Records
// expire after the idle TTL; a janitor goroutine sweeps expired entries
// and lookups drop them lazily in between sweeps.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	ttl      time.Duration
	logger   zerolog.Logger
	done     chan struct{}
	closing  sync.Once
}

// NewStore creates a session store and starts its sweep loop.
func NewStore(ttl, sweepInterval time.Duration, logger zerolog.Logger) *Store {
	s := &Store{
		sessions: make(map[string]*Session),
		ttl:      ttl,
		logger:   logger.With().Str("component", "session_store").Logger(),
		done:     make(chan struct{}),
	}

	go s.sweepLoop(sweepInterval)

	return s
}

// Start creates a fresh authenticated session for the user and returns
// it. The caller replaces the client's cookie with the new ID; any
// record behind a previous cookie ages out via the TTL sweep.
func (s *Store) Start(userID string) *Session {
	now := time.Now().UTC()
	sess := &Session{
		ID:           uuid.MustNewUUID(),
		UserID:       userID,
		StartTime:    now,
		LastSeen:     now,
		PagesVisited: []PageVisit{},
	}

	s.mu.Lock()
	s.sessions[sess.ID] = sess
	s.mu.Unlock()

	return sess
}

// Get returns the live session for the given ID and touches its idle
// timer. Expired records are deleted on access.
func (s *Store) Get(id string) (*Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return nil, false
	}
	if s.expired(sess) {
		delete(s.sessions, id)
		return nil, false
	}

	sess.LastSeen = time.Now().UTC()
	return sess, true
}

// RecordPageVisit appends a visit to the session's history, preserving
// insertion order. Returns ErrNoSession if the session is gone.
func (s *Store) RecordPageVisit(id, page string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok || s.expired(sess) {
		if ok {
			delete(s.sessions, id)
		}
		return ErrNoSession
	}

	now := time.Now().UTC()
	sess.PagesVisited = append(sess.PagesVisited, PageVisit{Page: page, Timestamp: now})
	sess.LastSeen = now

	return nil
}

// View returns a paginated snapshot of the session: its start time, the
// elapsed duration truncated to whole seconds, and the requested window
// of visited pages. Out-of-range pages yield an empty window.
func (s *Store) View(id string, page, perPage int) (*View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok || s.expired(sess) {
		if ok {
			delete(s.sessions, id)
		}
		return nil, ErrNoSession
	}

	now := time.Now().UTC()
	sess.LastSeen = now

	total := len(sess.PagesVisited)
	start, end := pagination.Window(total, page, perPage)

	visited := make([]PageVisit, end-start)
	copy(visited, sess.PagesVisited[start:end])

	return &View{
		StartTime:       sess.StartTime,
		DurationSeconds: int64(now.Sub(sess.StartTime).Seconds()),
		PagesVisited:    visited,
		Pagination:      pagination.New(int64(total), page, perPage),
	}, nil
}

// End removes the session. Idempotent: ending an absent session is a
// no-op.
func (s *Store) End(id string) {
	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()
}

// Count returns the number of records currently held, expired or not.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Close stops the sweep loop.
func (s *Store) Close() {
	s.closing.Do(func() {
		close(s.done)
	})
}

func (s *Store) expired(sess *Session) bool {
	return time.Since(sess.LastSeen) > s.ttl
}

func (s *Store) sweepLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.done:
			return
		case <-ticker.C:
			s.sweep()
		}
	}
}

func (s *Store) sweep() {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, sess := range s.sessions {
		if s.expired(sess) {
			delete(s.sessions, id)
			removed++
		}
	}

	if removed > 0 {
		s.logger.Debug().Int("removed", removed).Int("remaining", len(s.sessions)).Msg("swept expired sessions")
	}
}
