package memory

import (
	"sync"

	"team-trivia-service/internal/game"
)

// GameStore is an in-memory implementation of game.SessionRepository.
type GameStore struct {
	mu       sync.RWMutex
	sessions map[string]*game.Session
}

func NewGameStore() *GameStore {
	return &GameStore{
		sessions: make(map[string]*game.Session),
	}
}

func (s *GameStore) Put(gameID string, session *game.Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[gameID] = session
}

func (s *GameStore) Get(gameID string) (*game.Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[gameID]
	return session, ok
}

func (s *GameStore) Delete(gameID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, gameID)
}
