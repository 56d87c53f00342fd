package scoring

import (
	"fmt"
	"time"

	"mentor-quiz-service/internal/domain"

	"github.com/google/uuid"
)

// Score grades a completed set of answers against the quiz definition and
// materializes a QuizResult.
//
// Correctness is recomputed here from Question.CorrectOptionID; the Correct
// flag carried on incoming answers (or on options) is never trusted. The
// percentage is computed against the quiz's full question count, so an
// attempt cut short by the timer is penalized for every unanswered question.
func Score(quiz domain.Quiz, userID string, answers []domain.Answer, timeTakenSeconds int, completedAt time.Time) (domain.QuizResult, error) {
	total := len(quiz.Questions)
	if total == 0 {
		return domain.QuizResult{}, domain.ErrQuizEmpty
	}
	if len(answers) > total {
		return domain.QuizResult{}, fmt.Errorf("%w: %d answers for %d questions", domain.ErrAnswerMismatch, len(answers), total)
	}

	byID := make(map[string]domain.Question, total)
	for _, q := range quiz.Questions {
		byID[q.ID] = q
	}

	graded := make([]domain.Answer, 0, len(answers))
	seen := make(map[string]struct{}, len(answers))
	correct := 0
	score := 0
	for _, a := range answers {
		if _, dup := seen[a.QuestionID]; dup {
			return domain.QuizResult{}, fmt.Errorf("%w: duplicate answer for question %s", domain.ErrAnswerMismatch, a.QuestionID)
		}
		seen[a.QuestionID] = struct{}{}

		q, ok := byID[a.QuestionID]
		if !ok {
			return domain.QuizResult{}, fmt.Errorf("%w: %s", domain.ErrQuestionNotFound, a.QuestionID)
		}

		a.Correct = a.SelectedOptionID == q.CorrectOptionID
		a.Points = 0
		if a.Correct {
			a.Points = pointValue(q)
			correct++
			score += a.Points
		}
		graded = append(graded, a)
	}

	return domain.QuizResult{
		ID:               uuid.NewString(),
		QuizID:           quiz.ID,
		UserID:           userID,
		Answers:          graded,
		TotalQuestions:   total,
		CorrectAnswers:   correct,
		Score:            score,
		Percentage:       100 * float64(correct) / float64(total),
		CompletedAt:      completedAt,
		TimeTakenSeconds: timeTakenSeconds,
		Stats: &domain.ResultStats{
			Category:               quiz.Category,
			Difficulty:             quiz.Difficulty,
			AverageTimePerQuestion: float64(timeTakenSeconds) / float64(total),
		},
	}, nil
}

func pointValue(q domain.Question) int {
	if q.Points > 0 {
		return q.Points
	}
	return 1
}
