package app

import (
	"context"

	"mentor-quiz-service/internal/attempt"
	"mentor-quiz-service/internal/domain"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// QuizRepository loads quiz definitions (from cache/backing store).
type QuizRepository interface {
	GetQuiz(ctx context.Context, quizID string) (domain.Quiz, error)
}

// ResultStore is the narrow persistence contract the core depends on. The
// store itself (document DB, SQL, memory) lives behind this boundary.
type ResultStore interface {
	SaveResult(ctx context.Context, result domain.QuizResult) error
	ResultsByUser(ctx context.Context, userID string) ([]domain.QuizResult, error)
	ResultsByQuiz(ctx context.Context, quizID string) ([]domain.QuizResult, error)
}

// AttemptRepository tracks in-flight attempts by ID (in-memory, Redis-marked, etc).
type AttemptRepository interface {
	Put(attemptID string, a *attempt.Attempt)
	Get(attemptID string) (*attempt.Attempt, bool)
	Delete(attemptID string)
}

// AttemptService owns the attempt lifecycle: it fetches the definition,
// starts the engine, and funnels the single submission write to the store.
type AttemptService struct {
	quizzes  QuizRepository
	results  ResultStore
	attempts AttemptRepository
	log      *zap.Logger
}

func NewAttemptService(quizzes QuizRepository, results ResultStore, attempts AttemptRepository, log *zap.Logger) *AttemptService {
	if log == nil {
		log = zap.NewNop()
	}
	return &AttemptService{quizzes: quizzes, results: results, attempts: attempts, log: log}
}

// Begin fetches the quiz and starts a new attempt for the user, returning the
// attempt handle and its tracking ID.
func (s *AttemptService) Begin(ctx context.Context, quizID, userID string) (string, *attempt.Attempt, error) {
	quiz, err := s.quizzes.GetQuiz(ctx, quizID)
	if err != nil {
		return "", nil, err
	}
	if !quiz.Active {
		return "", nil, domain.ErrQuizInactive
	}

	a := attempt.New(userID)
	if err := a.Start(quiz); err != nil {
		return "", nil, err
	}

	attemptID := uuid.NewString()
	s.attempts.Put(attemptID, a)
	s.log.Info("attempt started",
		zap.String("attemptId", attemptID),
		zap.String("quizId", quizID),
		zap.String("userId", userID),
		zap.Int("questions", len(quiz.Questions)),
		zap.Int("timeLimitSeconds", quiz.TimeLimit()))
	return attemptID, a, nil
}

// Get resolves a tracked attempt.
func (s *AttemptService) Get(attemptID string) (*attempt.Attempt, error) {
	a, ok := s.attempts.Get(attemptID)
	if !ok {
		return nil, domain.ErrAttemptNotFound
	}
	return a, nil
}

// Submit scores and persists the attempt's answers. Grading and persistence
// failures leave the attempt in its Error state and are returned as-is; the
// core never retries, so a failed attempt can never double-write a result.
func (s *AttemptService) Submit(ctx context.Context, attemptID string) (domain.QuizResult, error) {
	a, ok := s.attempts.Get(attemptID)
	if !ok {
		return domain.QuizResult{}, domain.ErrAttemptNotFound
	}

	result, err := a.Submit(ctx, s.results)
	if err != nil {
		s.log.Warn("attempt submission failed",
			zap.String("attemptId", attemptID),
			zap.Bool("gradingError", domain.IsGradingError(err)),
			zap.Error(err))
		return domain.QuizResult{}, err
	}

	s.log.Info("attempt completed",
		zap.String("attemptId", attemptID),
		zap.String("resultId", result.ID),
		zap.Int("score", result.Score),
		zap.Float64("percentage", result.Percentage))
	return result, nil
}

// End drops a tracked attempt. Callers invoke it on teardown regardless of
// how the attempt finished.
func (s *AttemptService) End(attemptID string) {
	s.attempts.Delete(attemptID)
}
