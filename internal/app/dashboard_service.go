package app

import (
	"context"

	"mentor-quiz-service/internal/analytics"
	"mentor-quiz-service/internal/domain"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// MentorRoster resolves the students a mentor manages (external lookup).
type MentorRoster interface {
	StudentsOf(ctx context.Context, mentorID string) ([]domain.Student, error)
}

const defaultFanOut = 8

// DashboardService builds derived dashboards over persisted results. Mentor
// dashboards fan out one fetch per student with bounded parallelism.
type DashboardService struct {
	roster  MentorRoster
	results ResultStore
	fanOut  int
	log     *zap.Logger
}

func NewDashboardService(roster MentorRoster, results ResultStore, fanOut int, log *zap.Logger) *DashboardService {
	if fanOut <= 0 {
		fanOut = defaultFanOut
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &DashboardService{roster: roster, results: results, fanOut: fanOut, log: log}
}

// BuildMentorDashboard resolves the mentor's students, fetches each history
// concurrently, and folds them into one summary. A failed per-student fetch
// is downgraded to a zero-activity row instead of aborting the aggregation:
// one unreachable record must not blank the whole dashboard. Only the roster
// lookup itself can fail the call.
func (s *DashboardService) BuildMentorDashboard(ctx context.Context, mentorID string) (domain.MentorSummary, error) {
	students, err := s.roster.StudentsOf(ctx, mentorID)
	if err != nil {
		return domain.MentorSummary{}, err
	}

	// Each goroutine writes only its own slot, so the fan-out shares no
	// mutable state and student completion order is irrelevant.
	perStudent := make([]analytics.StudentResults, len(students))
	var g errgroup.Group
	g.SetLimit(s.fanOut)
	for i, student := range students {
		i, student := i, student
		g.Go(func() error {
			results, err := s.results.ResultsByUser(ctx, student.ID)
			if err != nil {
				s.log.Warn("student history fetch failed, reporting zero activity",
					zap.String("mentorId", mentorID),
					zap.String("studentId", student.ID),
					zap.Error(err))
				results = nil
			}
			perStudent[i] = analytics.StudentResults{Student: student, Results: results}
			return nil
		})
	}
	_ = g.Wait()

	return analytics.AggregateMentor(perStudent), nil
}

// BuildStudentDashboard folds one user's history into their summary.
func (s *DashboardService) BuildStudentDashboard(ctx context.Context, userID string) (domain.UserSummary, error) {
	results, err := s.results.ResultsByUser(ctx, userID)
	if err != nil {
		return domain.UserSummary{}, err
	}
	return analytics.AggregateUser(userID, results), nil
}

// BuildQuizActivity rolls up every attempt of one quiz.
func (s *DashboardService) BuildQuizActivity(ctx context.Context, quizID string) (domain.QuizActivity, error) {
	results, err := s.results.ResultsByQuiz(ctx, quizID)
	if err != nil {
		return domain.QuizActivity{}, err
	}
	return analytics.AggregateQuiz(quizID, results), nil
}
