// package session correlates an in-flight authorization redirect with the
// visitor's original request.
//
// A pending session lives only for the external round trip: created before the
// redirect to the authorization server, consumed exactly once when the
// callback returns with a matching state token. Entries are evicted on match
// and expire after [DefaultTTL] so the table stays bounded and the window for
// guessing a state token stays narrow.
package session

import (
	"sync"
	"time"

	"quotelist/internal/models"
	"quotelist/internal/shared"
)

// DefaultTTL bounds how long a pending session waits for its callback.
const DefaultTTL = 10 * time.Minute

// Tracker is a process-local table of pending authorization sessions keyed by state token.
type Tracker struct {
	mu       sync.Mutex
	ttl      time.Duration
	now      func() time.Time
	sessions map[string]models.Session
}

// NewTracker creates a Tracker with the given session lifetime.
// A non-positive ttl falls back to [DefaultTTL].
func NewTracker(ttl time.Duration) *Tracker {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Tracker{
		ttl:      ttl,
		now:      time.Now,
		sessions: make(map[string]models.Session),
	}
}

// NewTrackerAt creates a Tracker with an injectable clock for tests.
func NewTrackerAt(ttl time.Duration, now func() time.Time) *Tracker {
	t := NewTracker(ttl)
	t.now = now
	return t
}

// Create mints an unguessable state token, records the pending session, and
// returns the token. Expired entries are swept on the way in so the table
// cannot grow past the set of callbacks still worth waiting for.
func (t *Tracker) Create(playlistName string) string {
	state := shared.GenerateToken()
	now := t.now()

	t.mu.Lock()
	defer t.mu.Unlock()

	for key, s := range t.sessions {
		if s.Expired(now, t.ttl) {
			delete(t.sessions, key)
		}
	}

	t.sessions[state] = models.Session{
		State:        state,
		PlaylistName: playlistName,
		CreatedAt:    now,
	}

	return state
}

// Consume looks up the session for a state token and removes it.
//
// Returns false for an unknown, already consumed, or expired state; the
// caller surfaces that as a not-found outcome.
func (t *Tracker) Consume(state string) (models.Session, bool) {
	if state == "" {
		return models.Session{}, false
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	s, ok := t.sessions[state]
	if !ok {
		return models.Session{}, false
	}

	delete(t.sessions, state)

	if s.Expired(t.now(), t.ttl) {
		return models.Session{}, false
	}
	return s, true
}

// Len reports the number of pending sessions.
func (t *Tracker) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.sessions)
}
