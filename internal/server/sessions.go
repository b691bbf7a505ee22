package server

import (
	"errors"
	"sync"

	"github.com/google/uuid"

	"github.com/agenthands/deepmemory/internal/wizard"
)

var ErrSessionNotFound = errors.New("capture session not found")

// Sessions holds the capture wizards of connected clients. They live only
// in memory; a restart abandons unfinished drafts.
type Sessions struct {
	mu       sync.Mutex
	sessions map[string]*wizard.Session
}

func NewSessions() *Sessions {
	return &Sessions{sessions: make(map[string]*wizard.Session)}
}

func (s *Sessions) New() *wizard.Session {
	sess := wizard.NewSession(uuid.New().String())
	s.mu.Lock()
	s.sessions[sess.ID()] = sess
	s.mu.Unlock()
	return sess
}

func (s *Sessions) Get(id string) (*wizard.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return sess, nil
}

func (s *Sessions) Delete(id string) {
	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()
}
