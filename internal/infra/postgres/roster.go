package postgres

import (
	"context"
	"fmt"

	"mentor-quiz-service/internal/domain"

	"github.com/jackc/pgx/v4/pgxpool"
)

// Roster resolves mentor-to-student assignments from Postgres.
type Roster struct {
	pool *pgxpool.Pool
}

func NewRoster(pool *pgxpool.Pool) *Roster {
	return &Roster{pool: pool}
}

func (r *Roster) StudentsOf(ctx context.Context, mentorID string) ([]domain.Student, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT student_id, display_name FROM mentor_students WHERE mentor_id=$1 ORDER BY display_name`, mentorID)
	if err != nil {
		return nil, fmt.Errorf("roster lookup: %w", err)
	}
	defer rows.Close()

	var students []domain.Student
	for rows.Next() {
		var s domain.Student
		if err := rows.Scan(&s.ID, &s.DisplayName); err != nil {
			return nil, fmt.Errorf("scan student: %w", err)
		}
		students = append(students, s)
	}
	return students, rows.Err()
}
