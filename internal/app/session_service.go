package app

import (
	"context"

	"quiz-session-service/internal/domain"
)

// SessionRepository abstracts how sessions are stored (in-memory, Redis-backed).
// The repository owns all session records; mutations happen only through the
// session methods invoked by this service.
type SessionRepository interface {
	Create(quizID string, mode domain.Mode) *Session
	Get(sessionID string) (*Session, bool)
}

// QuizRepository loads quiz content (from cache/backing store).
type QuizRepository interface {
	GetQuiz(ctx context.Context, quizID string) (domain.Quiz, error)
}

// SessionService contains the quiz-taking use cases.
type SessionService struct {
	sessions SessionRepository
	quizzes  QuizRepository
}

func NewSessionService(sessions SessionRepository, quizzes QuizRepository) *SessionService {
	return &SessionService{sessions: sessions, quizzes: quizzes}
}

// Create starts a session against a known quiz.
func (s *SessionService) Create(ctx context.Context, quizID string, mode domain.Mode) (domain.SessionInfo, error) {
	if _, err := s.quizzes.GetQuiz(ctx, quizID); err != nil {
		return domain.SessionInfo{}, err
	}
	session := s.sessions.Create(quizID, mode)
	return session.info(), nil
}

// State returns a read-only snapshot of the session.
func (s *SessionService) State(ctx context.Context, sessionID string) (domain.SessionSnapshot, error) {
	session, quiz, err := s.lookup(ctx, sessionID)
	if err != nil {
		return domain.SessionSnapshot{}, err
	}
	return session.snapshot(len(quiz.Questions)), nil
}

// NextQuestion returns the question at the cursor, stripped of its answer
// key. Repeated calls without answering return the same question.
func (s *SessionService) NextQuestion(ctx context.Context, sessionID string) (domain.NextQuestion, error) {
	session, quiz, err := s.lookup(ctx, sessionID)
	if err != nil {
		return domain.NextQuestion{}, err
	}
	return session.peekNext(quiz), nil
}

// SubmitAnswer scores a submission against the current question.
func (s *SessionService) SubmitAnswer(ctx context.Context, sessionID, questionID string, selected []int) (domain.AnswerOutcome, error) {
	session, quiz, err := s.lookup(ctx, sessionID)
	if err != nil {
		return domain.AnswerOutcome{}, err
	}
	return session.submit(quiz, questionID, selected)
}

// Finish forces the session into its terminal state.
func (s *SessionService) Finish(ctx context.Context, sessionID string) (domain.FinishSummary, error) {
	session, quiz, err := s.lookup(ctx, sessionID)
	if err != nil {
		return domain.FinishSummary{}, err
	}
	return session.finish(len(quiz.Questions)), nil
}

// Results returns the answer records and score, partial while still active.
func (s *SessionService) Results(ctx context.Context, sessionID string) (domain.Results, error) {
	session, quiz, err := s.lookup(ctx, sessionID)
	if err != nil {
		return domain.Results{}, err
	}
	return session.results(len(quiz.Questions)), nil
}

// Watch returns a channel that receives a snapshot after every session
// mutation. The caller must invoke the returned cancel function to avoid leaks.
func (s *SessionService) Watch(ctx context.Context, sessionID string) (<-chan domain.SessionSnapshot, func(), error) {
	session, quiz, err := s.lookup(ctx, sessionID)
	if err != nil {
		return nil, nil, err
	}
	ch, cancel := session.subscribe(len(quiz.Questions))
	return ch, cancel, nil
}

func (s *SessionService) lookup(ctx context.Context, sessionID string) (*Session, domain.Quiz, error) {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return nil, domain.Quiz{}, domain.ErrSessionNotFound
	}
	quiz, err := s.quizzes.GetQuiz(ctx, session.QuizID())
	if err != nil {
		return nil, domain.Quiz{}, err
	}
	return session, quiz, nil
}
