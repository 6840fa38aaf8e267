package memory

import (
	"sync"

	"fireflybot/internal/domain"
)

// SessionStore keeps sessions in a map. Used in tests and for local
// development; nothing survives a restart.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[domain.UserID]domain.Session
}

func NewSessionStore() *SessionStore {
	return &SessionStore{
		sessions: make(map[domain.UserID]domain.Session),
	}
}

func (s *SessionStore) Get(id domain.UserID) (*domain.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[id]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}

	// Copy out so callers never share the stored value.
	return &sess, nil
}

func (s *SessionStore) Put(session *domain.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sessions[session.UserID] = *session
	return nil
}

func (s *SessionStore) Close() error {
	return nil
}
