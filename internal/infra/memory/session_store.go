package memory

import (
	"sync"

	"quiz-session-service/internal/app"
	"quiz-session-service/internal/domain"
)

// SessionStore is an in-memory implementation of app.SessionRepository.
// Sessions are never evicted; a production deployment would layer a TTL
// policy on top.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*app.Session
}

func NewSessionStore() *SessionStore {
	return &SessionStore{
		sessions: make(map[string]*app.Session),
	}
}

func (s *SessionStore) Create(quizID string, mode domain.Mode) *app.Session {
	session := app.NewSession(quizID, mode)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.ID()] = session
	return session
}

func (s *SessionStore) Get(sessionID string) (*app.Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[sessionID]
	return session, ok
}
