package memory

import (
	"context"

	"mentor-quiz-service/internal/domain"
)

// StaticRoster is a map-backed mentor roster (tests and demo runs).
type StaticRoster struct {
	students map[string][]domain.Student
}

func NewStaticRoster(students map[string][]domain.Student) *StaticRoster {
	return &StaticRoster{students: students}
}

// StudentsOf returns the mentor's students. An unknown mentor has an empty
// roster, not an error; the dashboard for them simply shows no students.
func (r *StaticRoster) StudentsOf(_ context.Context, mentorID string) ([]domain.Student, error) {
	return r.students[mentorID], nil
}
