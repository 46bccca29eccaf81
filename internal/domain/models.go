package domain

import "time"

// Mode selects the session flavor. It is carried through and echoed back but
// does not change scoring yet; test mode is reserved for hiding explanations.
type Mode string

const (
	ModePractice Mode = "practice"
	ModeTest     Mode = "test"
)

// ParseMode validates a raw mode string, defaulting empty to practice.
func ParseMode(raw string) (Mode, bool) {
	switch Mode(raw) {
	case "":
		return ModePractice, true
	case ModePractice, ModeTest:
		return Mode(raw), true
	}
	return "", false
}

// Status is the session lifecycle state. Finished is terminal.
type Status string

const (
	StatusActive   Status = "active"
	StatusFinished Status = "finished"
)

// Question models a single quiz question. Correct holds 0-based indexes into
// Options; more than one entry is only meaningful when MultiSelect is set.
type Question struct {
	ID          string   `json:"id"`
	Prompt      string   `json:"prompt"`
	Options     []string `json:"options"`
	Correct     []int    `json:"correct"`
	Explanation string   `json:"explanation"`
	MultiSelect bool     `json:"multiSelect"`
}

// Quiz is an immutable ordered sequence of questions.
type Quiz struct {
	ID        string     `json:"id"`
	Questions []Question `json:"questions"`
}

// QuestionView is the client-safe projection of a question: prompt and
// options only, never the correct set or the explanation.
type QuestionView struct {
	QuestionID  string   `json:"questionId"`
	Prompt      string   `json:"prompt"`
	Options     []string `json:"options"`
	MultiSelect bool     `json:"multiSelect"`
}

// Progress reports how far a session has advanced through its quiz.
type Progress struct {
	Current int `json:"current"`
	Total   int `json:"total"`
}

// AnswerRecord is one answered question. Selected is normalized: sorted,
// duplicate-free. Immutable once appended to a session.
type AnswerRecord struct {
	QuestionID string    `json:"questionId"`
	Selected   []int     `json:"selected"`
	Correct    bool      `json:"correct"`
	AnsweredAt time.Time `json:"answeredAt"`
}

// SessionInfo is returned on session creation.
type SessionInfo struct {
	SessionID string `json:"sessionId"`
	QuizID    string `json:"quizId"`
	Mode      Mode   `json:"mode"`
	Status    Status `json:"status"`
}

// SessionSnapshot is a read-only view of session state.
type SessionSnapshot struct {
	SessionID    string    `json:"sessionId"`
	QuizID       string    `json:"quizId"`
	Mode         Mode      `json:"mode"`
	Status       Status    `json:"status"`
	CurrentIndex int       `json:"currentIndex"`
	Total        int       `json:"total"`
	Score        int       `json:"score"`
	StartedAt    time.Time `json:"startedAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// NextQuestion is the response to a next-question request. Question is nil
// once the session is finished or the quiz is exhausted.
type NextQuestion struct {
	SessionID string        `json:"sessionId"`
	Question  *QuestionView `json:"question"`
	Progress  Progress      `json:"progress"`
	Status    Status        `json:"status"`
}

// AnswerOutcome summarizes a scored submission.
type AnswerOutcome struct {
	SessionID     string   `json:"sessionId"`
	QuestionID    string   `json:"questionId"`
	Correct       bool     `json:"correct"`
	Score         int      `json:"score"`
	Explanation   string   `json:"explanation"`
	Progress      Progress `json:"progress"`
	Status        Status   `json:"status"`
	NextAvailable bool     `json:"nextAvailable"`
}

// FinishSummary is returned by an explicit finish request.
type FinishSummary struct {
	SessionID string `json:"sessionId"`
	Status    Status `json:"status"`
	Score     int    `json:"score"`
	Total     int    `json:"total"`
}

// Results is the full scoreboard for a session, partial while still active.
type Results struct {
	SessionID string         `json:"sessionId"`
	QuizID    string         `json:"quizId"`
	Score     int            `json:"score"`
	Total     int            `json:"total"`
	Answers   []AnswerRecord `json:"answers"`
}
