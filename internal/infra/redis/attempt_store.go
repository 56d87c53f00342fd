package redis

import (
	"context"
	"sync"
	"time"

	"mentor-quiz-service/internal/attempt"

	"github.com/redis/go-redis/v9"
)

// AttemptStore is a Redis-aware implementation of app.AttemptRepository.
// The engine state itself stays in process memory (one attempt is owned by
// one connection); Redis carries a liveness marker per active attempt so
// operators can see in-flight attempts across the fleet.
type AttemptStore struct {
	client   *redis.Client
	ttl      time.Duration
	mu       sync.RWMutex
	attempts map[string]*attempt.Attempt
}

func NewAttemptStore(client *redis.Client, ttl time.Duration) *AttemptStore {
	return &AttemptStore{
		client:   client,
		ttl:      ttl,
		attempts: make(map[string]*attempt.Attempt),
	}
}

func (s *AttemptStore) Put(attemptID string, a *attempt.Attempt) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.attempts[attemptID] = a
	// best-effort liveness marker
	_ = s.client.Set(context.Background(), s.key(attemptID), a.UserID(), s.ttl).Err()
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
	_ = s.client.Del(context.Background(), s.key(attemptID)).Err()
}

func (s *AttemptStore) key(attemptID string) string {
	return "attempt:active:" + attemptID
}
