package game

import "team-trivia-service/internal/domain"

// record scores a single question for a team. Each question may be scored
// exactly once: a second attempt is rejected with ErrAlreadyAnswered and
// leaves both the question and the score untouched. A skip is recorded as
// an incorrect answer.
//
// Correctness is an exact string match against the template's designated
// correct option, not an option position. A correct answer awards one
// point; there is no partial credit.
func record(team *domain.Team, questionIndex int, option string, skip bool) (bool, error) {
	if questionIndex < 0 || questionIndex >= len(team.Questions) {
		return false, domain.ErrInvalidInput
	}
	question := &team.Questions[questionIndex]
	if question.Answered {
		return false, domain.ErrAlreadyAnswered
	}

	correct := !skip && option == question.Template.CorrectAnswer
	question.Answered = true
	question.Correct = correct
	if correct {
		team.Score++
	}
	return correct, nil
}
