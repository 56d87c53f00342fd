package analytics_test

import (
	"reflect"
	"testing"
	"time"

	"mentor-quiz-service/internal/analytics"
	"mentor-quiz-service/internal/domain"
)

func TestAggregateUserEmpty(t *testing.T) {
	summary := analytics.AggregateUser("u1", nil)
	if summary.TotalQuizzes != 0 || summary.AverageScore != 0 || summary.TotalTimeSpentSeconds != 0 {
		t.Fatalf("expected zero summary, got %+v", summary)
	}
	if len(summary.Recent) != 0 || len(summary.CategoryAverages) != 0 {
		t.Fatalf("expected empty collections, got %+v", summary)
	}
}

func TestAggregateUserAverages(t *testing.T) {
	results := []domain.QuizResult{
		resultAt("r1", 80, 60, day(1), stats("math", "easy")),
		resultAt("r2", 60, 90, day(2), stats("math", "hard")),
		resultAt("r3", 100, 30, day(3), stats("science", "easy")),
	}

	summary := analytics.AggregateUser("u1", results)
	if summary.TotalQuizzes != 3 {
		t.Fatalf("expected 3 quizzes, got %d", summary.TotalQuizzes)
	}
	if summary.AverageScore != 80 {
		t.Fatalf("expected average 80, got %v", summary.AverageScore)
	}
	if summary.TotalTimeSpentSeconds != 180 {
		t.Fatalf("expected 180s spent, got %d", summary.TotalTimeSpentSeconds)
	}
	if summary.CategoryAverages["math"] != 70 || summary.CategoryAverages["science"] != 100 {
		t.Fatalf("unexpected category averages: %+v", summary.CategoryAverages)
	}
	if summary.DifficultyAverages["easy"] != 90 || summary.DifficultyAverages["hard"] != 60 {
		t.Fatalf("unexpected difficulty averages: %+v", summary.DifficultyAverages)
	}
}

func TestAggregateUserSkipsMissingStats(t *testing.T) {
	results := []domain.QuizResult{
		resultAt("r1", 80, 60, day(1), stats("math", "easy")),
		resultAt("r2", 0, 60, day(2), nil),
	}

	summary := analytics.AggregateUser("u1", results)
	// The statless result still counts toward the overall average...
	if summary.AverageScore != 40 {
		t.Fatalf("expected overall average 40, got %v", summary.AverageScore)
	}
	// ...but is excluded from grouped averages, not defaulted into a group.
	if summary.CategoryAverages["math"] != 80 || len(summary.CategoryAverages) != 1 {
		t.Fatalf("unexpected category averages: %+v", summary.CategoryAverages)
	}
}

func TestAggregateUserRecentFive(t *testing.T) {
	var results []domain.QuizResult
	for i := 1; i <= 7; i++ {
		results = append(results, resultAt("r"+string(rune('0'+i)), 50, 10, day(i), nil))
	}

	summary := analytics.AggregateUser("u1", results)
	if len(summary.Recent) != 5 {
		t.Fatalf("expected 5 recent, got %d", len(summary.Recent))
	}
	if summary.Recent[0].ID != "r7" || summary.Recent[4].ID != "r3" {
		t.Fatalf("expected most-recent-first truncation, got %s..%s", summary.Recent[0].ID, summary.Recent[4].ID)
	}
}

func TestAggregateUserPureAndIdempotent(t *testing.T) {
	results := []domain.QuizResult{
		resultAt("r1", 80, 60, day(2), stats("math", "easy")),
		resultAt("r2", 60, 90, day(1), nil),
	}
	snapshot := make([]domain.QuizResult, len(results))
	copy(snapshot, results)

	first := analytics.AggregateUser("u1", results)
	second := analytics.AggregateUser("u1", results)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("expected identical output on identical input")
	}
	if !reflect.DeepEqual(results, snapshot) {
		t.Fatalf("input slice was mutated")
	}
}

func TestAggregateMentorMeanOfMeans(t *testing.T) {
	perStudent := []analytics.StudentResults{
		{
			Student: domain.Student{ID: "u1", DisplayName: "Alice"},
			Results: []domain.QuizResult{
				resultAt("r1", 80, 60, day(1), nil),
				resultAt("r2", 80, 60, day(2), nil),
				resultAt("r3", 80, 60, day(3), nil),
			},
		},
		{Student: domain.Student{ID: "u2", DisplayName: "Bob"}},
	}

	summary := analytics.AggregateMentor(perStudent)
	if summary.TotalStudents != 2 {
		t.Fatalf("expected 2 students, got %d", summary.TotalStudents)
	}
	// (80 + 0) / 2: the zero-attempt student stays in the mean so low
	// engagement is visible, and attempt volume does not weight it.
	if summary.AverageStudentScore != 40 {
		t.Fatalf("expected mean-of-means 40, got %v", summary.AverageStudentScore)
	}
	if summary.TotalQuizzesCompleted != 3 {
		t.Fatalf("expected 3 quizzes total, got %d", summary.TotalQuizzesCompleted)
	}

	var bob domain.StudentProgress
	for _, s := range summary.Students {
		if s.UserID == "u2" {
			bob = s
		}
	}
	if bob.QuizCount != 0 || bob.AverageScore != 0 || !bob.LastAttempt.IsZero() {
		t.Fatalf("expected zero-activity row for Bob, got %+v", bob)
	}
}

func TestAggregateMentorOrderInvariant(t *testing.T) {
	a := analytics.StudentResults{
		Student: domain.Student{ID: "u1", DisplayName: "Alice"},
		Results: []domain.QuizResult{resultAt("r1", 90, 60, day(1), nil)},
	}
	b := analytics.StudentResults{
		Student: domain.Student{ID: "u2", DisplayName: "Bob"},
		Results: []domain.QuizResult{resultAt("r2", 50, 60, day(2), nil)},
	}

	forward := analytics.AggregateMentor([]analytics.StudentResults{a, b})
	reversed := analytics.AggregateMentor([]analytics.StudentResults{b, a})
	if !reflect.DeepEqual(forward, reversed) {
		t.Fatalf("aggregation must be invariant to student order")
	}
}

func TestAggregateMentorEmpty(t *testing.T) {
	summary := analytics.AggregateMentor(nil)
	if summary.TotalStudents != 0 || summary.AverageStudentScore != 0 {
		t.Fatalf("expected zero summary, got %+v", summary)
	}
}

func TestAggregateQuiz(t *testing.T) {
	results := []domain.QuizResult{
		resultAt("r1", 100, 60, day(1), nil),
		resultAt("r2", 50, 60, day(2), nil),
	}
	activity := analytics.AggregateQuiz("quiz-1", results)
	if activity.Attempts != 2 || activity.AveragePercentage != 75 {
		t.Fatalf("unexpected activity: %+v", activity)
	}
	if empty := analytics.AggregateQuiz("quiz-1", nil); empty.Attempts != 0 {
		t.Fatalf("expected zero activity, got %+v", empty)
	}
}

func day(n int) time.Time {
	return time.Date(2025, 8, n, 12, 0, 0, 0, time.UTC)
}

func stats(category, difficulty string) *domain.ResultStats {
	return &domain.ResultStats{Category: category, Difficulty: difficulty}
}

func resultAt(id string, percentage float64, timeTaken int, completedAt time.Time, s *domain.ResultStats) domain.QuizResult {
	return domain.QuizResult{
		ID:               id,
		QuizID:           "quiz-1",
		UserID:           "u1",
		Percentage:       percentage,
		TimeTakenSeconds: timeTaken,
		CompletedAt:      completedAt,
		Stats:            s,
	}
}
