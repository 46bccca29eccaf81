package app

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"quiz-session-service/internal/domain"
)

// Session is the in-memory record of one quiz attempt. All reads and
// read-modify-write sequences go through its mutex, so two concurrent
// submissions can never both pass the precondition checks.
type Session struct {
	id     string
	quizID string
	mode   domain.Mode
	now    func() time.Time

	mu           sync.RWMutex
	status       domain.Status
	currentIndex int
	score        int
	answers      []domain.AnswerRecord
	startedAt    time.Time
	updatedAt    time.Time
	subscribers  map[chan domain.SessionSnapshot]struct{}
}

// NewSession creates an active session with a fresh opaque identifier.
func NewSession(quizID string, mode domain.Mode) *Session {
	return newSessionWithClock(uuid.NewString(), quizID, mode, time.Now)
}

// NewSessionWithClock is test-only for deterministic ids and timestamps.
func NewSessionWithClock(id, quizID string, mode domain.Mode, now func() time.Time) *Session {
	return newSessionWithClock(id, quizID, mode, now)
}

func newSessionWithClock(id, quizID string, mode domain.Mode, now func() time.Time) *Session {
	started := now()
	return &Session{
		id:          id,
		quizID:      quizID,
		mode:        mode,
		now:         now,
		status:      domain.StatusActive,
		startedAt:   started,
		updatedAt:   started,
		subscribers: make(map[chan domain.SessionSnapshot]struct{}),
	}
}

// ID returns the session identifier for store indexing.
func (s *Session) ID() string {
	return s.id
}

// QuizID returns the quiz this session runs against.
func (s *Session) QuizID() string {
	return s.quizID
}

func (s *Session) info() domain.SessionInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return domain.SessionInfo{
		SessionID: s.id,
		QuizID:    s.quizID,
		Mode:      s.mode,
		Status:    s.status,
	}
}

func (s *Session) snapshot(total int) domain.SessionSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked(total)
}

func (s *Session) snapshotLocked(total int) domain.SessionSnapshot {
	return domain.SessionSnapshot{
		SessionID:    s.id,
		QuizID:       s.quizID,
		Mode:         s.mode,
		Status:       s.status,
		CurrentIndex: s.currentIndex,
		Total:        total,
		Score:        s.score,
		StartedAt:    s.startedAt,
		UpdatedAt:    s.updatedAt,
	}
}

// peekNext returns the question at the cursor without advancing it. Observing
// an exhausted cursor flips the session to finished; clients that answer
// every question never need an explicit finish call.
func (s *Session) peekNext(quiz domain.Quiz) domain.NextQuestion {
	s.mu.Lock()
	defer s.mu.Unlock()

	total := len(quiz.Questions)
	if s.status == domain.StatusFinished || s.currentIndex >= total {
		s.status = domain.StatusFinished
		s.updatedAt = s.now()
		s.broadcastLocked(total)
		return domain.NextQuestion{
			SessionID: s.id,
			Question:  nil,
			Progress:  domain.Progress{Current: total, Total: total},
			Status:    domain.StatusFinished,
		}
	}

	q := quiz.Questions[s.currentIndex]
	return domain.NextQuestion{
		SessionID: s.id,
		Question: &domain.QuestionView{
			QuestionID:  q.ID,
			Prompt:      q.Prompt,
			Options:     q.Options,
			MultiSelect: q.MultiSelect,
		},
		Progress: domain.Progress{Current: s.currentIndex + 1, Total: total},
		Status:   domain.StatusActive,
	}
}

// submit validates a submission against the question at the cursor, records
// it, and advances. Precondition failures leave the session untouched except
// for the cursor-exhaustion case, which forces finished.
func (s *Session) submit(quiz domain.Quiz, questionID string, selected []int) (domain.AnswerOutcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	total := len(quiz.Questions)

	if s.status == domain.StatusFinished {
		return domain.AnswerOutcome{}, domain.ErrAlreadyFinished
	}
	if s.currentIndex >= total {
		s.status = domain.StatusFinished
		s.broadcastLocked(total)
		return domain.AnswerOutcome{}, domain.ErrNoActiveQuestion
	}

	current := quiz.Questions[s.currentIndex]
	if questionID != current.ID {
		return domain.AnswerOutcome{}, fmt.Errorf("%w: expected %q", domain.ErrQuestionMismatch, current.ID)
	}
	for _, a := range s.answers {
		if a.QuestionID == questionID {
			return domain.AnswerOutcome{}, domain.ErrAlreadyAnswered
		}
	}
	if len(selected) == 0 {
		return domain.AnswerOutcome{}, domain.ErrEmptySelection
	}
	for _, idx := range selected {
		if idx < 0 || idx >= len(current.Options) {
			return domain.AnswerOutcome{}, domain.ErrIndexOutOfRange
		}
	}

	normalized := normalizeSelection(selected)
	correct := equalSets(normalized, normalizeSelection(current.Correct))
	if correct {
		s.score++
	}

	answeredAt := s.now()
	s.answers = append(s.answers, domain.AnswerRecord{
		QuestionID: questionID,
		Selected:   normalized,
		Correct:    correct,
		AnsweredAt: answeredAt,
	})
	s.currentIndex++
	if s.currentIndex >= total {
		s.status = domain.StatusFinished
	}
	s.updatedAt = answeredAt
	s.broadcastLocked(total)

	return domain.AnswerOutcome{
		SessionID:     s.id,
		QuestionID:    questionID,
		Correct:       correct,
		Score:         s.score,
		Explanation:   current.Explanation,
		Progress:      domain.Progress{Current: len(s.answers), Total: total},
		Status:        s.status,
		NextAvailable: s.status == domain.StatusActive,
	}, nil
}

// finish forces the terminal state. Recorded answers and score are kept;
// calling it on an already finished session is harmless.
func (s *Session) finish(total int) domain.FinishSummary {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.status = domain.StatusFinished
	s.updatedAt = s.now()
	s.broadcastLocked(total)
	return domain.FinishSummary{
		SessionID: s.id,
		Status:    domain.StatusFinished,
		Score:     s.score,
		Total:     total,
	}
}

func (s *Session) results(total int) domain.Results {
	s.mu.RLock()
	defer s.mu.RUnlock()

	answers := make([]domain.AnswerRecord, len(s.answers))
	copy(answers, s.answers)
	return domain.Results{
		SessionID: s.id,
		QuizID:    s.quizID,
		Score:     s.score,
		Total:     total,
		Answers:   answers,
	}
}

func (s *Session) subscribe(total int) (<-chan domain.SessionSnapshot, func()) {
	ch := make(chan domain.SessionSnapshot, 8)

	s.mu.Lock()
	s.subscribers[ch] = struct{}{}
	initial := s.snapshotLocked(total)
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

func (s *Session) broadcastLocked(total int) {
	snap := s.snapshotLocked(total)
	for ch := range s.subscribers {
		select {
		case ch <- snap:
		default:
			// Drop the stale snapshot so a slow watcher never blocks a submit.
			select {
			case <-ch:
			default:
			}
			ch <- snap
		}
	}
}

// normalizeSelection returns the selection as a sorted, duplicate-free set.
func normalizeSelection(selected []int) []int {
	seen := make(map[int]struct{}, len(selected))
	out := make([]int, 0, len(selected))
	for _, idx := range selected {
		if _, ok := seen[idx]; ok {
			continue
		}
		seen[idx] = struct{}{}
		out = append(out, idx)
	}
	sort.Ints(out)
	return out
}

func equalSets(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
