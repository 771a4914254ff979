package game

import (
	"context"
	"math/rand"
	"strings"
	"time"

	"team-trivia-service/internal/domain"
)

// SessionRepository abstracts how running games are stored (in-memory,
// Redis-backed, etc).
type SessionRepository interface {
	Put(gameID string, session *Session)
	Get(gameID string) (*Session, bool)
	Delete(gameID string)
}

// BankRepository loads question banks (from cache/backing store).
type BankRepository interface {
	GetBank(ctx context.Context, bankID string) (domain.QuestionBank, error)
}

// GameService contains the trivia use cases: creating a game, submitting
// and skipping answers, resolving the outcome, and watching standings.
type GameService struct {
	sessions SessionRepository
	banks    BankRepository
	rnd      *rand.Rand
}

func NewGameService(store SessionRepository, banks BankRepository) *GameService {
	return NewGameServiceWithRand(store, banks, rand.New(rand.NewSource(time.Now().UnixNano())))
}

// NewGameServiceWithRand is test-only for deterministic assignment.
func NewGameServiceWithRand(store SessionRepository, banks BankRepository, rnd *rand.Rand) *GameService {
	return &GameService{sessions: store, banks: banks, rnd: rnd}
}

// CreateGame validates the team list, partitions the named bank among the
// teams and registers the new session. At least two usable names are
// required; a pool too small for every slice is tolerated and flagged on
// the returned snapshot.
func (s *GameService) CreateGame(ctx context.Context, gameID, bankID string, teamNames []string, perTeam int) (Snapshot, error) {
	usable := 0
	for _, name := range teamNames {
		if strings.TrimSpace(name) != "" {
			usable++
		}
	}
	if usable < 2 {
		return Snapshot{}, domain.ErrInvalidInput
	}

	bank, err := s.banks.GetBank(ctx, bankID)
	if err != nil {
		return Snapshot{}, err
	}

	asn, err := Assign(teamNames, bank.Questions, perTeam, s.rnd)
	if err != nil {
		return Snapshot{}, err
	}

	session := NewSession(gameID, asn)
	s.sessions.Put(gameID, session)
	return session.Snapshot(), nil
}

// State returns a snapshot of an existing game, e.g. for re-render after
// a reconnect.
func (s *GameService) State(_ context.Context, gameID string) (Snapshot, error) {
	session, ok := s.sessions.Get(gameID)
	if !ok {
		return Snapshot{}, domain.ErrGameNotFound
	}
	return session.Snapshot(), nil
}

// Submit records an answer for the active turn of a game.
func (s *GameService) Submit(_ context.Context, gameID string, sub domain.AnswerSubmission) (domain.AnswerResult, domain.Standings, error) {
	session, ok := s.sessions.Get(gameID)
	if !ok {
		return domain.AnswerResult{}, domain.Standings{}, domain.ErrGameNotFound
	}
	result, err := session.Submit(sub)
	if err != nil {
		return domain.AnswerResult{}, domain.Standings{}, err
	}
	return result, session.Standings(), nil
}

// Skip records the active question as passed over; it scores as an
// incorrect answer.
func (s *GameService) Skip(ctx context.Context, gameID string, teamID, questionID int) (domain.AnswerResult, domain.Standings, error) {
	return s.Submit(ctx, gameID, domain.AnswerSubmission{
		TeamID:     teamID,
		QuestionID: questionID,
		Skip:       true,
	})
}

// Results resolves the final ranking once the game is complete.
func (s *GameService) Results(_ context.Context, gameID string) (domain.Outcome, error) {
	session, ok := s.sessions.Get(gameID)
	if !ok {
		return domain.Outcome{}, domain.ErrGameNotFound
	}
	return session.Resolve()
}

// Subscribe returns a channel that receives standings updates for a game.
// The caller must invoke the returned cancel function to avoid leaks.
func (s *GameService) Subscribe(_ context.Context, gameID string) (<-chan domain.Standings, func(), error) {
	session, ok := s.sessions.Get(gameID)
	if !ok {
		return nil, nil, domain.ErrGameNotFound
	}
	ch, cancel := session.Subscribe()
	return ch, cancel, nil
}

// Abandon discards a game outright; there is no partial rollback, the
// session is simply dropped.
func (s *GameService) Abandon(_ context.Context, gameID string) {
	s.sessions.Delete(gameID)
}
