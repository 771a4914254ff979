package game

import (
	"sort"
	"sync"

	"team-trivia-service/internal/domain"
)

// Session is the in-memory state machine for one running game. All
// mutation funnels through the single active (team, question) pair, so a
// submission that targets anything else is rejected without touching
// state. The mutex makes each operation atomic when the transport layer
// delivers calls concurrently.
type Session struct {
	id         string
	mu         sync.RWMutex
	teams      []domain.Team
	activeTeam int
	complete   bool
	degenerate bool

	subscribers map[chan domain.Standings]struct{}
}

// Snapshot is a copy of the full session state for initial render.
type Snapshot struct {
	GameID     string             `json:"gameId"`
	Teams      []domain.Team      `json:"teams"`
	Active     *domain.ActiveTurn `json:"active,omitempty"`
	Degenerate bool               `json:"degenerate"`
	Complete   bool               `json:"complete"`
}

// NewSession builds a session from an assignment. Teams with empty slices
// at the front are skipped so the first active turn points at a real
// question; a game where no team got any questions starts complete.
func NewSession(id string, asn Assignment) *Session {
	s := &Session{
		id:          id,
		teams:       asn.Teams,
		degenerate:  asn.Degenerate,
		subscribers: make(map[chan domain.Standings]struct{}),
	}
	s.activeTeam = s.nextUnexhausted(0)
	if s.activeTeam == len(s.teams) {
		s.complete = true
	}
	return s
}

// nextUnexhausted scans forward from team index `from` to the first team
// with questions remaining; returns len(teams) when there is none. Earlier
// teams are always exhausted under the sequential policy, so the scan
// never needs to wrap.
func (s *Session) nextUnexhausted(from int) int {
	for i := from; i < len(s.teams); i++ {
		if !s.teams[i].Exhausted() {
			return i
		}
	}
	return len(s.teams)
}

// ActiveTurn returns the (team, question) pair currently accepting an
// answer; ok is false once the game is complete.
func (s *Session) ActiveTurn() (domain.ActiveTurn, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.activeTurnLocked()
}

func (s *Session) activeTurnLocked() (domain.ActiveTurn, bool) {
	if s.complete {
		return domain.ActiveTurn{}, false
	}
	team := s.teams[s.activeTeam]
	return domain.ActiveTurn{
		TeamID:     team.ID,
		QuestionID: team.Questions[team.CurrentQuestionIndex].ID,
	}, true
}

// Submit records an answer (or a skip) for the active turn and advances
// the scheduler. Every rejection leaves the session unchanged:
// ErrGameComplete after completion, ErrInvalidInput for a missing
// selection, ErrOutOfTurn when the targeted pair is not the active one.
func (s *Session) Submit(sub domain.AnswerSubmission) (domain.AnswerResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.complete {
		return domain.AnswerResult{}, domain.ErrGameComplete
	}
	if !sub.Skip && sub.Option == "" {
		return domain.AnswerResult{}, domain.ErrInvalidInput
	}

	active, _ := s.activeTurnLocked()
	if sub.TeamID != active.TeamID || sub.QuestionID != active.QuestionID {
		return domain.AnswerResult{}, domain.ErrOutOfTurn
	}

	team := &s.teams[s.activeTeam]
	correct, err := record(team, team.CurrentQuestionIndex, sub.Option, sub.Skip)
	if err != nil {
		return domain.AnswerResult{}, err
	}

	result := domain.AnswerResult{
		TeamID:     team.ID,
		QuestionID: sub.QuestionID,
		Correct:    correct,
		TeamScore:  team.Score,
	}
	if !correct {
		result.CorrectAnswer = team.Questions[team.CurrentQuestionIndex].Template.CorrectAnswer
	}

	s.advanceLocked()
	result.Complete = s.complete

	switch {
	case s.complete:
		result.Cue = domain.CueGameComplete
	case correct:
		result.Cue = domain.CueCorrect
	default:
		result.Cue = domain.CueWrong
	}

	s.broadcastLocked()
	return result, nil
}

// advanceLocked moves the cursor to the next question within the active
// team, or on to the next team with questions remaining, or to complete.
func (s *Session) advanceLocked() {
	team := &s.teams[s.activeTeam]
	team.CurrentQuestionIndex++
	if !team.Exhausted() {
		return
	}
	s.activeTeam = s.nextUnexhausted(s.activeTeam + 1)
	if s.activeTeam == len(s.teams) {
		s.complete = true
	}
}

// Complete reports whether every team has exhausted its slice.
func (s *Session) Complete() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.complete
}

// Snapshot returns a deep copy of the session for initial render.
func (s *Session) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := Snapshot{
		GameID:     s.id,
		Teams:      copyTeams(s.teams),
		Degenerate: s.degenerate,
		Complete:   s.complete,
	}
	if active, ok := s.activeTurnLocked(); ok {
		snap.Active = &active
	}
	return snap
}

// Resolve ranks the teams once the game is complete. Calling it earlier
// is rejected with ErrGameActive.
func (s *Session) Resolve() (domain.Outcome, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.complete {
		return domain.Outcome{}, domain.ErrGameActive
	}
	return resolve(s.teams), nil
}

// Standings returns the current score-ordered board.
func (s *Session) Standings() domain.Standings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.standingsLocked()
}

// Subscribe returns a channel receiving standings after every mutation,
// primed with the current board. The caller must invoke cancel to avoid
// leaks.
func (s *Session) Subscribe() (<-chan domain.Standings, func()) {
	ch := make(chan domain.Standings, 8)

	s.mu.Lock()
	s.subscribers[ch] = struct{}{}
	initial := s.standingsLocked()
	s.mu.Unlock()

	ch <- initial

	cancel := func() {
		s.mu.Lock()
		if _, ok := s.subscribers[ch]; ok {
			delete(s.subscribers, ch)
			close(ch)
		}
		s.mu.Unlock()
	}
	return ch, cancel
}

func (s *Session) broadcastLocked() {
	board := s.standingsLocked()
	for ch := range s.subscribers {
		select {
		case ch <- board:
		default:
			// Drop the stalest update so a slow reader never blocks the game.
			select {
			case <-ch:
			default:
			}
			ch <- board
		}
	}
}

func (s *Session) standingsLocked() domain.Standings {
	board := domain.Standings{
		GameID:   s.id,
		Entries:  make([]domain.StandingsEntry, 0, len(s.teams)),
		Complete: s.complete,
	}
	for _, team := range s.teams {
		answered := 0
		for _, q := range team.Questions {
			if q.Answered {
				answered++
			}
		}
		board.Entries = append(board.Entries, domain.StandingsEntry{
			TeamID:   team.ID,
			Name:     team.Name,
			Score:    team.Score,
			Answered: answered,
			Total:    len(team.Questions),
		})
		board.AnsweredTotal += answered
		board.QuestionsTotal += len(team.Questions)
	}

	// Stable sort keeps setup order among equal scores.
	sort.SliceStable(board.Entries, func(i, j int) bool {
		return board.Entries[i].Score > board.Entries[j].Score
	})
	return board
}

func copyTeams(teams []domain.Team) []domain.Team {
	out := make([]domain.Team, len(teams))
	copy(out, teams)
	for i := range out {
		questions := make([]domain.AssignedQuestion, len(teams[i].Questions))
		copy(questions, teams[i].Questions)
		out[i].Questions = questions
	}
	return out
}
