package domain

// QuestionTemplate is one immutable trivia item from a bank. The option
// order is fixed at authoring time and the correct option is designated
// by value, so scoring compares option strings rather than positions.
type QuestionTemplate struct {
	Prompt        string   `json:"prompt"`
	Options       []string `json:"options"` // four entries by convention
	CorrectAnswer string   `json:"correctAnswer"`
}

// QuestionBank is a read-only ordered pool of templates.
type QuestionBank struct {
	ID        string             `json:"id"`
	Questions []QuestionTemplate `json:"questions"`
}

// AssignedQuestion binds a template to a team with a per-team local ID
// (1..N in slice order) and the mutable answer state.
type AssignedQuestion struct {
	ID       int              `json:"id"`
	Template QuestionTemplate `json:"template"`
	Answered bool             `json:"answered"`
	Correct  bool             `json:"correct"`
}

// Team owns a disjoint slice of the shuffled pool plus a cursor into it.
// The cursor ranges over [0, len(Questions)]; at len(Questions) the team
// has exhausted its slice.
type Team struct {
	ID                   int                `json:"id"`
	Name                 string             `json:"name"`
	Score                int                `json:"score"`
	Questions            []AssignedQuestion `json:"questions"`
	CurrentQuestionIndex int                `json:"currentQuestionIndex"`
}

// Exhausted reports whether the team has no questions left to answer.
func (t Team) Exhausted() bool {
	return t.CurrentQuestionIndex >= len(t.Questions)
}

// ActiveTurn identifies the single (team, question) pair currently
// eligible to accept an answer.
type ActiveTurn struct {
	TeamID     int `json:"teamId"`
	QuestionID int `json:"questionId"`
}

// AnswerSubmission models the answer signal from clients. An empty Option
// on a non-skip submission is rejected as invalid input.
type AnswerSubmission struct {
	TeamID     int
	QuestionID int
	Option     string
	Skip       bool
}

// Audio cue tags forwarded to the presentation layer. The core never
// plays sounds itself.
const (
	CueCorrect      = "correct"
	CueWrong        = "wrong"
	CueGameComplete = "gameComplete"
)

// AnswerResult summarizes the outcome of a single submission.
type AnswerResult struct {
	TeamID        int    `json:"teamId"`
	QuestionID    int    `json:"questionId"`
	Correct       bool   `json:"correct"`
	CorrectAnswer string `json:"correctAnswer,omitempty"` // revealed on wrong answers
	TeamScore     int    `json:"teamScore"`
	Cue           string `json:"cue"`
	Complete      bool   `json:"complete"`
}

// StandingsEntry is a snapshot-friendly view of a team mid-game.
type StandingsEntry struct {
	TeamID   int    `json:"teamId"`
	Name     string `json:"name"`
	Score    int    `json:"score"`
	Answered int    `json:"answered"`
	Total    int    `json:"total"`
}

// Standings captures the score-ordered board plus overall progress,
// pushed to subscribers after every mutation.
type Standings struct {
	GameID         string           `json:"gameId"`
	Entries        []StandingsEntry `json:"entries"`
	AnsweredTotal  int              `json:"answeredTotal"`
	QuestionsTotal int              `json:"questionsTotal"`
	Complete       bool             `json:"complete"`
}

// Outcome is the post-completion result: teams ranked by score descending
// (original order preserved among ties) and the full set of max-score
// winners. More than one winner means the game is a tie among all of them.
type Outcome struct {
	Ranked  []Team `json:"ranked"`
	Winners []Team `json:"winners"`
}

// Tie reports whether the outcome is shared by more than one team.
func (o Outcome) Tie() bool {
	return len(o.Winners) > 1
}
