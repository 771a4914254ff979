package game

import (
	"sort"

	"team-trivia-service/internal/domain"
)

// resolve ranks teams by score descending and collects every team tied at
// the maximum score as a winner. Ranking among equal scores preserves
// setup order; a multi-team tie stays a tie, it is never broken down to a
// single winner. The input teams are copied, never mutated.
func resolve(teams []domain.Team) domain.Outcome {
	ranked := copyTeams(teams)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})

	outcome := domain.Outcome{Ranked: ranked}
	if len(ranked) == 0 {
		return outcome
	}

	max := ranked[0].Score
	for _, team := range ranked {
		if team.Score != max {
			break
		}
		outcome.Winners = append(outcome.Winners, team)
	}
	return outcome
}
