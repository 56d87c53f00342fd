package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"mentor-quiz-service/internal/domain"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

// ResultStore persists quiz results as JSONB rows, indexed by user and quiz.
// The row's id/user/quiz/completed columns are denormalized for querying;
// the record of truth is the data column.
type ResultStore struct {
	pool *pgxpool.Pool
}

func NewResultStore(pool *pgxpool.Pool) *ResultStore {
	return &ResultStore{pool: pool}
}

func (s *ResultStore) SaveResult(ctx context.Context, result domain.QuizResult) error {
	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}
	// Plain INSERT, no upsert: a duplicate result ID is a double submission
	// and must surface as an error.
	_, err = s.pool.Exec(ctx,
		`INSERT INTO quiz_results (id, quiz_id, user_id, completed_at, data) VALUES ($1, $2, $3, $4, $5)`,
		result.ID, result.QuizID, result.UserID, result.CompletedAt, data)
	if err != nil {
		return fmt.Errorf("save result: %w", err)
	}
	return nil
}

func (s *ResultStore) ResultsByUser(ctx context.Context, userID string) ([]domain.QuizResult, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT data FROM quiz_results WHERE user_id=$1 ORDER BY completed_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("results by user: %w", err)
	}
	return scanResults(rows)
}

func (s *ResultStore) ResultsByQuiz(ctx context.Context, quizID string) ([]domain.QuizResult, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT data FROM quiz_results WHERE quiz_id=$1 ORDER BY completed_at DESC`, quizID)
	if err != nil {
		return nil, fmt.Errorf("results by quiz: %w", err)
	}
	return scanResults(rows)
}

func scanResults(rows pgx.Rows) ([]domain.QuizResult, error) {
	defer rows.Close()
	var results []domain.QuizResult
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("scan result: %w", err)
		}
		var result domain.QuizResult
		if err := json.Unmarshal(raw, &result); err != nil {
			return nil, fmt.Errorf("unmarshal result: %w", err)
		}
		results = append(results, result)
	}
	return results, rows.Err()
}
