package dialogue

import (
	"sync"
	"time"

	"github.com/dukanx/vaani/internal/model/billing"
)

// DefaultSessionTimeout is how long a session survives without a turn.
const DefaultSessionTimeout = 60 * time.Second

// Partial is a scalar-field session update. Nil/zero fields leave the
// existing value untouched (merge-preserve).
type Partial struct {
	Active       *bool
	Intent       billing.Intent
	CustomerName string
	LastQuestion billing.Question
}

// Store maps user identifiers to live sessions. Implementations never fail:
// an absent or expired session is replaced by a fresh one, not reported as
// an error. The interface exists so the in-memory map can be swapped for a
// distributed cache without touching the merge engine or planner.
type Store interface {
	Get(userID string) *billing.Session
	Update(userID string, fields Partial)
	Clear(userID string)
}

// MemoryStore keeps sessions in a process-wide map. Expiry is checked lazily
// on access; stale sessions are inert and bounded by active-user count, so
// no background sweep is needed.
type MemoryStore struct {
	mu       sync.Mutex
	timeout  time.Duration
	sessions map[string]*billing.Session
}

// NewMemoryStore returns a store with the given idle timeout. A zero or
// negative timeout falls back to DefaultSessionTimeout.
func NewMemoryStore(timeout time.Duration) *MemoryStore {
	if timeout <= 0 {
		timeout = DefaultSessionTimeout
	}
	return &MemoryStore{
		timeout:  timeout,
		sessions: make(map[string]*billing.Session),
	}
}

// Get returns the live session for the user, evicting it first when it has
// been idle past the timeout. A fresh session is indistinguishable from one
// that never existed.
func (s *MemoryStore) Get(userID string) *billing.Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	if session, ok := s.sessions[userID]; ok {
		if time.Since(session.LastActiveAt) <= s.timeout {
			return session
		}
		delete(s.sessions, userID)
	}

	session := billing.NewSession(userID)
	s.sessions[userID] = session
	return session
}

// Update overwrites the supplied non-zero scalar fields and refreshes the
// activity timestamp. Zero values never erase known data.
func (s *MemoryStore) Update(userID string, fields Partial) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[userID]
	if !ok {
		return
	}

	if fields.Active != nil {
		session.Active = *fields.Active
	}
	if fields.Intent != "" {
		session.Intent = fields.Intent
	}
	if fields.CustomerName != "" {
		session.CustomerName = fields.CustomerName
	}
	if fields.LastQuestion != "" {
		session.LastQuestion = fields.LastQuestion
	}
	session.LastActiveAt = time.Now().UTC()
}

// Clear removes the session. Clearing an absent session is a no-op.
func (s *MemoryStore) Clear(userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, userID)
}
