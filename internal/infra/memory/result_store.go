package memory

import (
	"context"
	"fmt"
	"sync"

	"mentor-quiz-service/internal/domain"
)

// ResultStore is an in-memory implementation of app.ResultStore, used by
// tests and storeless demo runs.
type ResultStore struct {
	mu     sync.RWMutex
	byID   map[string]struct{}
	byUser map[string][]domain.QuizResult
	byQuiz map[string][]domain.QuizResult
}

func NewResultStore() *ResultStore {
	return &ResultStore{
		byID:   make(map[string]struct{}),
		byUser: make(map[string][]domain.QuizResult),
		byQuiz: make(map[string][]domain.QuizResult),
	}
}

func (s *ResultStore) SaveResult(_ context.Context, result domain.QuizResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byID[result.ID]; ok {
		return fmt.Errorf("result %s already persisted", result.ID)
	}
	s.byID[result.ID] = struct{}{}
	s.byUser[result.UserID] = append(s.byUser[result.UserID], result)
	s.byQuiz[result.QuizID] = append(s.byQuiz[result.QuizID], result)
	return nil
}

func (s *ResultStore) ResultsByUser(_ context.Context, userID string) ([]domain.QuizResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copyResults(s.byUser[userID]), nil
}

func (s *ResultStore) ResultsByQuiz(_ context.Context, quizID string) ([]domain.QuizResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copyResults(s.byQuiz[quizID]), nil
}

func copyResults(results []domain.QuizResult) []domain.QuizResult {
	out := make([]domain.QuizResult, len(results))
	copy(out, results)
	return out
}
