package redis

import (
	"context"
	"sync"
	"time"

	"team-trivia-service/internal/game"
	"github.com/redis/go-redis/v9"
)

// GameStore is a Redis-aware implementation of game.SessionRepository.
// Notes:
//   - It still keeps a local in-memory map of sessions so the in-process
//     turn state machine and broadcast logic are reused as-is.
//   - Redis marks game liveness (and could be extended to share snapshots
//     or route cross-instance pub/sub).
//   - For true distribution you'd pair this with a pub/sub projector that
//     fans out standings.
type GameStore struct {
	client   *redis.Client
	ttl      time.Duration
	mu       sync.RWMutex
	sessions map[string]*game.Session
}

func NewGameStore(client *redis.Client, ttl time.Duration) *GameStore {
	return &GameStore{
		client:   client,
		ttl:      ttl,
		sessions: make(map[string]*game.Session),
	}
}

func (s *GameStore) Put(gameID string, session *game.Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[gameID] = session
	// best-effort liveness marker
	_ = s.client.Set(context.Background(), s.key(gameID), "1", s.ttl).Err()
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
	_ = s.client.Del(context.Background(), s.key(gameID)).Err()
}

func (s *GameStore) key(gameID string) string {
	return "trivia:game:" + gameID
}
