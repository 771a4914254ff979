package domain

import "errors"

var (
	// ErrInvalidInput is returned for malformed caller input: a missing
	// answer selection or fewer than two usable team names.
	ErrInvalidInput = errors.New("invalid input")
	// ErrOutOfTurn is returned when a submission targets a team/question
	// pair other than the currently active one.
	ErrOutOfTurn = errors.New("submission out of turn")
	// ErrAlreadyAnswered is returned on a duplicate scoring attempt; the
	// duplicate is rejected rather than ignored so callers can detect
	// programming errors.
	ErrAlreadyAnswered = errors.New("question already answered")
	// ErrGameComplete is returned when a submission arrives after every
	// team has exhausted its questions.
	ErrGameComplete = errors.New("game already complete")
	// ErrGameActive is returned when results are requested before the
	// game has completed.
	ErrGameActive = errors.New("game still in progress")
	// ErrGameNotFound is returned when no session exists for a game ID.
	ErrGameNotFound = errors.New("game not found")
	// ErrBankNotFound indicates the question bank could not be loaded.
	ErrBankNotFound = errors.New("question bank not found")
)
