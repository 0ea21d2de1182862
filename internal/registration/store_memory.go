package registration

import (
	"context"
	"fmt"
	"sync"
	"time"

	id "samadhan/pkg/domain"
	"samadhan/pkg/platform/sentinel"
)

// InMemorySessionStore is the only session store: sessions are working state
// scoped to one node, so there is nothing to share or survive a restart.
type InMemorySessionStore struct {
	mu       sync.RWMutex
	sessions map[id.SessionID]Session
}

func NewInMemorySessionStore() *InMemorySessionStore {
	return &InMemorySessionStore{sessions: make(map[id.SessionID]Session)}
}

func (s *InMemorySessionStore) Create(_ context.Context, session Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.sessions[session.ID]; exists {
		return fmt.Errorf("session %s: %w", session.ID, sentinel.ErrConflict)
	}
	s.sessions[session.ID] = session
	return nil
}

func (s *InMemorySessionStore) Get(_ context.Context, sessionID id.SessionID) (Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, ok := s.sessions[sessionID]
	if !ok {
		return Session{}, fmt.Errorf("session %s: %w", sessionID, sentinel.ErrNotFound)
	}
	if session.Expired(time.Now()) {
		return Session{}, fmt.Errorf("session %s: %w", sessionID, sentinel.ErrExpired)
	}
	return session, nil
}

func (s *InMemorySessionStore) Update(_ context.Context, session Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.sessions[session.ID]; !exists {
		return fmt.Errorf("session %s: %w", session.ID, sentinel.ErrNotFound)
	}
	s.sessions[session.ID] = session
	return nil
}

func (s *InMemorySessionStore) Delete(_ context.Context, sessionID id.SessionID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, sessionID)
	return nil
}

func (s *InMemorySessionStore) PurgeExpired(_ context.Context, now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	purged := 0
	for sessionID, session := range s.sessions {
		if session.Expired(now) {
			delete(s.sessions, sessionID)
			purged++
		}
	}
	return purged
}

// Len reports the number of live sessions; test helper.
func (s *InMemorySessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
