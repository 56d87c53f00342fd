package domain

import "errors"

var (
	// ErrQuizNotFound indicates the quiz definition could not be loaded.
	ErrQuizNotFound = errors.New("quiz not found")
	// ErrQuizEmpty is returned when an attempt is started on a quiz with no questions.
	ErrQuizEmpty = errors.New("quiz has no questions")
	// ErrQuizInactive is returned when an attempt is started on a deactivated quiz.
	ErrQuizInactive = errors.New("quiz is not active")

	// ErrAttemptState is returned when an operation is invoked outside the
	// state it is valid in.
	ErrAttemptState = errors.New("operation not valid in current attempt state")
	// ErrAttemptNotFound indicates an attempt ID is unknown.
	ErrAttemptNotFound = errors.New("attempt not found")
	// ErrNoSelection is returned by advance when no option is pending.
	ErrNoSelection = errors.New("no option selected for current question")
	// ErrOptionNotFound indicates a selected option ID is not on the current question.
	ErrOptionNotFound = errors.New("option not found")

	// ErrQuestionNotFound is a grading failure: an answer references a
	// question ID absent from the quiz. It signals a definition mismatch
	// between attempt start and submission and is never masked.
	ErrQuestionNotFound = errors.New("answer references unknown question")
	// ErrAnswerMismatch is a grading failure: the answer list has duplicates
	// or more entries than the quiz has questions.
	ErrAnswerMismatch = errors.New("answer list does not match quiz questions")

	// ErrPersistResult wraps a failed result write; terminal for the attempt.
	ErrPersistResult = errors.New("result persistence failed")
)

// IsGradingError reports whether err belongs to the grading failure family.
func IsGradingError(err error) bool {
	return errors.Is(err, ErrQuestionNotFound) || errors.Is(err, ErrAnswerMismatch) || errors.Is(err, ErrQuizEmpty)
}
