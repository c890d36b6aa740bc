// Package memory holds process-lifetime stores. Sessions live here by
// design: a restart invalidates every token.
package memory

import (
	"sync"
	"time"

	"github.com/kdmarlow/intervue/internal/domain"
)

// SessionStore implements domain.SessionRepository with a mutex-guarded map.
// Expired sessions are treated as absent and evicted lazily on Get.
type SessionStore struct {
	mu       sync.Mutex
	sessions map[string]domain.Session
	now      func() time.Time
}

// NewSessionStore creates an empty in-memory session store.
func NewSessionStore() *SessionStore {
	return &SessionStore{
		sessions: make(map[string]domain.Session),
		now:      time.Now,
	}
}

// NewSessionStoreWithClock creates a session store with an injectable clock
// for expiry tests.
func NewSessionStoreWithClock(now func() time.Time) *SessionStore {
	return &SessionStore{
		sessions: make(map[string]domain.Session),
		now:      now,
	}
}

func (s *SessionStore) Put(session domain.Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.Token] = session
}

func (s *SessionStore) Get(token string) (domain.Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[token]
	if !ok {
		return domain.Session{}, false
	}
	if s.now().After(session.ExpiresAt) {
		delete(s.sessions, token)
		return domain.Session{}, false
	}
	return session, true
}

func (s *SessionStore) Delete(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, token)
}

// Len reports the number of stored sessions, expired entries included.
func (s *SessionStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}
