package analytics

import (
	"sort"

	"mentor-quiz-service/internal/domain"
)

// recentLimit caps how many recent results a summary carries.
const recentLimit = 5

// StudentResults pairs a roster entry with their fetched result history.
type StudentResults struct {
	Student domain.Student
	Results []domain.QuizResult
}

// AggregateUser folds a user's result history into a summary. An empty
// history yields a zero summary rather than an error. Each attempt is
// weighted equally in the average, regardless of question count.
func AggregateUser(userID string, results []domain.QuizResult) domain.UserSummary {
	summary := domain.UserSummary{
		UserID:             userID,
		CategoryAverages:   map[string]float64{},
		DifficultyAverages: map[string]float64{},
		Recent:             []domain.QuizResult{},
	}
	if len(results) == 0 {
		return summary
	}

	ordered := sortedByCompletion(results)

	totalPct := 0.0
	categories := map[string][]float64{}
	difficulties := map[string][]float64{}
	for _, r := range ordered {
		totalPct += r.Percentage
		summary.TotalTimeSpentSeconds += r.TimeTakenSeconds
		// Results without an analytics bag are excluded from the grouped
		// averages, not defaulted into an empty group.
		if r.Stats == nil {
			continue
		}
		if r.Stats.Category != "" {
			categories[r.Stats.Category] = append(categories[r.Stats.Category], r.Percentage)
		}
		if r.Stats.Difficulty != "" {
			difficulties[r.Stats.Difficulty] = append(difficulties[r.Stats.Difficulty], r.Percentage)
		}
	}

	summary.TotalQuizzes = len(ordered)
	summary.AverageScore = totalPct / float64(len(ordered))
	for category, pcts := range categories {
		summary.CategoryAverages[category] = mean(pcts)
	}
	for difficulty, pcts := range difficulties {
		summary.DifficultyAverages[difficulty] = mean(pcts)
	}

	recent := ordered
	if len(recent) > recentLimit {
		recent = recent[:recentLimit]
	}
	summary.Recent = recent
	return summary
}

// AggregateMentor folds many students' histories into one mentor summary.
// AverageStudentScore is a mean of each student's own average, so a student
// with one attempt and a student with a hundred contribute equally. Students
// with zero results stay in the mean at 0 so low engagement is visible.
// The fold is commutative over students; output rows are sorted by name for
// a stable dashboard order.
func AggregateMentor(perStudent []StudentResults) domain.MentorSummary {
	summary := domain.MentorSummary{Students: []domain.StudentProgress{}}
	if len(perStudent) == 0 {
		return summary
	}

	totalAvg := 0.0
	for _, sr := range perStudent {
		user := AggregateUser(sr.Student.ID, sr.Results)
		progress := domain.StudentProgress{
			UserID:       sr.Student.ID,
			DisplayName:  sr.Student.DisplayName,
			QuizCount:    user.TotalQuizzes,
			AverageScore: user.AverageScore,
			Recent:       user.Recent,
		}
		if len(user.Recent) > 0 {
			progress.LastAttempt = user.Recent[0].CompletedAt
		}
		summary.Students = append(summary.Students, progress)
		summary.TotalQuizzesCompleted += user.TotalQuizzes
		totalAvg += user.AverageScore
	}

	summary.TotalStudents = len(perStudent)
	summary.AverageStudentScore = totalAvg / float64(len(perStudent))

	sort.Slice(summary.Students, func(i, j int) bool {
		if summary.Students[i].DisplayName != summary.Students[j].DisplayName {
			return summary.Students[i].DisplayName < summary.Students[j].DisplayName
		}
		return summary.Students[i].UserID < summary.Students[j].UserID
	})
	return summary
}

// AggregateQuiz rolls up all attempts of one quiz for its author.
func AggregateQuiz(quizID string, results []domain.QuizResult) domain.QuizActivity {
	activity := domain.QuizActivity{QuizID: quizID}
	if len(results) == 0 {
		return activity
	}
	total := 0.0
	for _, r := range results {
		total += r.Percentage
	}
	activity.Attempts = len(results)
	activity.AveragePercentage = total / float64(len(results))
	return activity
}

// sortedByCompletion returns a copy ordered most-recent first. The input is
// never mutated; aggregation stays a pure function of its arguments.
func sortedByCompletion(results []domain.QuizResult) []domain.QuizResult {
	ordered := make([]domain.QuizResult, len(results))
	copy(ordered, results)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].CompletedAt.After(ordered[j].CompletedAt)
	})
	return ordered
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	total := 0.0
	for _, v := range values {
		total += v
	}
	return total / float64(len(values))
}
