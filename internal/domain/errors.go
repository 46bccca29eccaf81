package domain

import "errors"

var (
	// ErrUnauthorized is returned when the bearer token is missing or wrong.
	ErrUnauthorized = errors.New("invalid token")
	// ErrQuizNotFound indicates the quiz content could not be loaded.
	ErrQuizNotFound = errors.New("quiz not found")
	// ErrSessionNotFound is returned for unknown session identifiers.
	ErrSessionNotFound = errors.New("session not found")
	// ErrInvalidMode is returned when the requested mode is unknown.
	ErrInvalidMode = errors.New("invalid session mode")
	// ErrAlreadyFinished rejects mutations against a finished session.
	ErrAlreadyFinished = errors.New("session already finished")
	// ErrNoActiveQuestion is returned when the cursor is past the last question.
	ErrNoActiveQuestion = errors.New("no active question to answer")
	// ErrQuestionMismatch is returned when the submitted question id is not
	// the one at the cursor. Wrapped messages name the expected id so clients
	// can resynchronize.
	ErrQuestionMismatch = errors.New("question id mismatch")
	// ErrAlreadyAnswered guards against a question being scored twice.
	ErrAlreadyAnswered = errors.New("question already answered")
	// ErrEmptySelection rejects submissions with no selected options.
	ErrEmptySelection = errors.New("selected cannot be empty")
	// ErrIndexOutOfRange rejects selected indexes outside the option range.
	ErrIndexOutOfRange = errors.New("selected contains out-of-range index")
)
