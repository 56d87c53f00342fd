package attempt

import (
	"context"
	"fmt"
	"sync"
	"time"

	"mentor-quiz-service/internal/domain"
	"mentor-quiz-service/internal/scoring"
)

// State is the lifecycle phase of one attempt.
type State int

const (
	StateLoading State = iota
	StateInProgress
	StateSubmitting
	StateCompleted
	StateError
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateInProgress:
		return "in_progress"
	case StateSubmitting:
		return "submitting"
	case StateCompleted:
		return "completed"
	case StateError:
		return "error"
	}
	return "unknown"
}

// ResultSink persists a scored result. Submit performs exactly one write per
// completed attempt; retries are the adapter's concern, not the engine's.
type ResultSink interface {
	SaveResult(ctx context.Context, result domain.QuizResult) error
}

// Attempt drives one user's timed run through one quiz:
// Loading -> InProgress -> Submitting -> Completed, with Error reachable from
// Loading and Submitting. Completed and Error are terminal.
//
// An Attempt is owned by a single logical caller (one connection, one timer).
// Methods are mutex-guarded so the countdown goroutine and the caller can
// interleave safely, but the engine is not designed for multiple concurrent
// drivers.
type Attempt struct {
	userID string
	now    func() time.Time

	mu        sync.Mutex
	state     State
	quiz      domain.Quiz
	startedAt time.Time
	remaining int
	index     int
	pending   string
	answers   []domain.Answer
	result    domain.QuizResult
	lastErr   error
}

// New creates an attempt in the Loading state.
func New(userID string) *Attempt {
	return NewWithClock(userID, time.Now)
}

// NewWithClock allows deterministic timestamps in tests.
func NewWithClock(userID string, now func() time.Time) *Attempt {
	return &Attempt{userID: userID, now: now, state: StateLoading}
}

// Start transitions Loading -> InProgress with the full countdown and an
// empty answer list. A quiz without questions fails the attempt immediately.
func (a *Attempt) Start(quiz domain.Quiz) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.state != StateLoading {
		return fmt.Errorf("%w: start in %s", domain.ErrAttemptState, a.state)
	}
	if len(quiz.Questions) == 0 {
		a.state = StateError
		a.lastErr = domain.ErrQuizEmpty
		return domain.ErrQuizEmpty
	}

	a.quiz = quiz
	a.remaining = quiz.TimeLimit()
	a.index = 0
	a.pending = ""
	a.answers = nil
	a.startedAt = a.now()
	a.state = StateInProgress
	return nil
}

// SelectOption records a tentative choice for the current question. It does
// not advance; re-selecting replaces the pending choice.
func (a *Attempt) SelectOption(optionID string) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.state != StateInProgress {
		return fmt.Errorf("%w: select in %s", domain.ErrAttemptState, a.state)
	}
	q := a.quiz.Questions[a.index]
	if !hasOption(q, optionID) {
		return fmt.Errorf("%w: %s on question %s", domain.ErrOptionNotFound, optionID, q.ID)
	}
	a.pending = optionID
	return nil
}

// Advance freezes the pending selection into an Answer and moves to the next
// question, or to Submitting when the current question was the last. The
// pending selection is always cleared so it cannot leak into the next prompt.
func (a *Attempt) Advance() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.state != StateInProgress {
		return fmt.Errorf("%w: advance in %s", domain.ErrAttemptState, a.state)
	}
	if a.pending == "" {
		return domain.ErrNoSelection
	}

	q := a.quiz.Questions[a.index]
	correct := a.pending == q.CorrectOptionID
	points := 0
	if correct {
		points = q.Points
		if points == 0 {
			points = 1
		}
	}
	a.answers = append(a.answers, domain.Answer{
		QuestionID:       q.ID,
		SelectedOptionID: a.pending,
		Correct:          correct,
		Points:           points,
		AnsweredAt:       a.now(),
	})
	a.pending = ""

	if a.index == len(a.quiz.Questions)-1 {
		a.state = StateSubmitting
	} else {
		a.index++
	}
	return nil
}

// Tick consumes one second of the countdown. When the countdown reaches zero
// the attempt is forced into Submitting; a pending selection that was never
// advanced is discarded rather than recorded as an answer. Ticks outside
// InProgress are no-ops, so a timer racing its own cancellation is harmless.
func (a *Attempt) Tick() (remaining int, expired bool) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.state != StateInProgress {
		return a.remaining, false
	}
	a.remaining--
	if a.remaining <= 0 {
		a.remaining = 0
		a.pending = ""
		a.state = StateSubmitting
		return 0, true
	}
	return a.remaining, false
}

// Submit scores the captured answers and writes the result through sink.
// Valid only in Submitting; this is the only transition that performs I/O.
// A grading or persistence failure is terminal: the attempt moves to Error
// and must not be resubmitted.
func (a *Attempt) Submit(ctx context.Context, sink ResultSink) (domain.QuizResult, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.state != StateSubmitting {
		return domain.QuizResult{}, fmt.Errorf("%w: submit in %s", domain.ErrAttemptState, a.state)
	}

	completedAt := a.now()
	elapsed := int(completedAt.Sub(a.startedAt) / time.Second)
	result, err := scoring.Score(a.quiz, a.userID, a.answers, elapsed, completedAt)
	if err != nil {
		a.state = StateError
		a.lastErr = err
		return domain.QuizResult{}, err
	}

	if err := sink.SaveResult(ctx, result); err != nil {
		a.state = StateError
		a.lastErr = fmt.Errorf("%w: %v", domain.ErrPersistResult, err)
		return domain.QuizResult{}, a.lastErr
	}

	a.result = result
	a.state = StateCompleted
	return result, nil
}

// State returns the current lifecycle phase.
func (a *Attempt) State() State {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state
}

// Remaining returns the countdown in seconds.
func (a *Attempt) Remaining() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.remaining
}

// QuestionIndex returns the zero-based index of the question being presented.
func (a *Attempt) QuestionIndex() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.index
}

// CurrentQuestion returns the question being presented, or false outside
// InProgress.
func (a *Attempt) CurrentQuestion() (domain.Question, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.state != StateInProgress {
		return domain.Question{}, false
	}
	return a.quiz.Questions[a.index], true
}

// Result returns the scored result once the attempt has completed.
func (a *Attempt) Result() (domain.QuizResult, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.state != StateCompleted {
		return domain.QuizResult{}, false
	}
	return a.result, true
}

// Err returns the failure that moved the attempt into Error, if any.
func (a *Attempt) Err() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.lastErr
}

// Quiz returns the definition the attempt was started with.
func (a *Attempt) Quiz() domain.Quiz {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.quiz
}

// UserID returns the attempting user.
func (a *Attempt) UserID() string {
	return a.userID
}

func hasOption(q domain.Question, optionID string) bool {
	for _, opt := range q.Options {
		if opt.ID == optionID {
			return true
		}
	}
	return false
}
