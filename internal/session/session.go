// Package session holds per-upload dashboard state: the cleaned table and
// everything derived from it. Each derived piece is replaced wholesale on
// recompute, never merged; a new upload supersedes the previous session data.
package session

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/kbellanger/salescope/internal/analytics"
	"github.com/kbellanger/salescope/internal/classify"
	"github.com/kbellanger/salescope/internal/filter"
	"github.com/kbellanger/salescope/internal/loader"
	"github.com/kbellanger/salescope/internal/table"
)

// Session is the explicit context object threaded through pipeline stages.
type Session struct {
	ID          string
	Filename    string
	CreatedAt   time.Time
	Table       *table.Table
	Diagnostics *loader.Diagnostics
	Candidates  classify.Candidates
	Roles       classify.Assignment
	Criteria    filter.Criteria
	Result      *analytics.Result
}

// Store keeps sessions in memory, keyed by ID. Handlers run concurrently,
// so every field access goes through the store lock: Create and Get hand out
// copies rather than the stored pointer, and Update is the only writer.
// Nested pointers (table, diagnostics, result) are replaced wholesale on
// update and never mutated in place, so sharing them across copies is safe.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

func NewStore() *Store {
	return &Store{sessions: make(map[string]*Session)}
}

// Create registers a new session around a cleaned table and returns a copy.
func (s *Store) Create(filename string, t *table.Table, diag *loader.Diagnostics, cand classify.Candidates, roles classify.Assignment) Session {
	sess := &Session{
		ID:          uuid.NewString(),
		Filename:    filename,
		CreatedAt:   time.Now(),
		Table:       t,
		Diagnostics: diag,
		Candidates:  cand,
		Roles:       roles,
	}
	s.mu.Lock()
	s.sessions[sess.ID] = sess
	s.mu.Unlock()
	return *sess
}

// Get returns a copy of the session for id, taken under the read lock.
func (s *Store) Get(id string) (Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[id]
	if !ok {
		return Session{}, false
	}
	return *sess, true
}

// Update applies fn to the session under the store lock.
func (s *Store) Update(id string, fn func(*Session)) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok {
		return false
	}
	fn(sess)
	return true
}

// Delete drops the session.
func (s *Store) Delete(id string) {
	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()
}
