package memory

import (
	"sync"

	"mentor-quiz-service/internal/attempt"
)

// AttemptStore is an in-memory implementation of app.AttemptRepository.
type AttemptStore struct {
	mu       sync.RWMutex
	attempts map[string]*attempt.Attempt
}

func NewAttemptStore() *AttemptStore {
	return &AttemptStore{
		attempts: make(map[string]*attempt.Attempt),
	}
}

func (s *AttemptStore) Put(attemptID string, a *attempt.Attempt) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.attempts[attemptID] = a
}

func (s *AttemptStore) Get(attemptID string) (*attempt.Attempt, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.attempts[attemptID]
	return a, ok
}

func (s *AttemptStore) Delete(attemptID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.attempts, attemptID)
}
