package game

import (
	"math/rand"
	"strings"

	"team-trivia-service/internal/domain"
)

// Assignment is the output of partitioning a question pool among teams.
// Degenerate is set when the pool was too small to fill every slice; the
// game proceeds with short slices rather than failing.
type Assignment struct {
	Teams      []domain.Team
	Degenerate bool
}

// Assign shuffles the pool uniformly and deals contiguous slices of
// perTeam questions to the teams in input order: team 0 takes positions
// [0, perTeam), team 1 takes [perTeam, 2*perTeam), and so on. Slices are
// therefore pairwise disjoint within one game. Each assigned question
// gets a fresh local ID 1..len(slice) independent of its pool position.
//
// The shuffle is Fisher-Yates over a copy of the pool; the caller's rand
// source makes it deterministic in tests. The pool itself is never
// touched.
func Assign(teamNames []string, pool []domain.QuestionTemplate, perTeam int, rnd *rand.Rand) (Assignment, error) {
	names := trimNames(teamNames)
	if len(names) == 0 || perTeam < 1 {
		return Assignment{}, domain.ErrInvalidInput
	}

	shuffled := make([]domain.QuestionTemplate, len(pool))
	copy(shuffled, pool)
	rnd.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	teams := make([]domain.Team, 0, len(names))
	for i, name := range names {
		start := i * perTeam
		if start > len(shuffled) {
			start = len(shuffled)
		}
		end := start + perTeam
		if end > len(shuffled) {
			end = len(shuffled)
		}

		slice := shuffled[start:end]
		questions := make([]domain.AssignedQuestion, len(slice))
		for qi, tpl := range slice {
			questions[qi] = domain.AssignedQuestion{
				ID:       qi + 1,
				Template: tpl,
			}
		}
		teams = append(teams, domain.Team{
			ID:        i + 1,
			Name:      name,
			Questions: questions,
		})
	}

	return Assignment{
		Teams:      teams,
		Degenerate: len(pool) < len(names)*perTeam,
	}, nil
}

// trimNames drops blank entries and trims surrounding whitespace,
// preserving input order.
func trimNames(raw []string) []string {
	names := make([]string, 0, len(raw))
	for _, name := range raw {
		trimmed := strings.TrimSpace(name)
		if trimmed == "" {
			continue
		}
		names = append(names, trimmed)
	}
	return names
}
