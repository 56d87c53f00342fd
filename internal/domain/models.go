package domain

import "time"

// Option is a single choice presented for a question. The Correct flag is
// authoring metadata; grading compares Question.CorrectOptionID and never
// reads this flag.
type Option struct {
	ID      string `json:"id"`
	Text    string `json:"text"`
	Correct bool   `json:"correct,omitempty"`
}

// Question models an MCQ question with exactly one correct option.
type Question struct {
	ID              string   `json:"id"`
	Text            string   `json:"text"`
	Options         []Option `json:"options"`
	CorrectOptionID string   `json:"correctOptionId"`
	Explanation     string   `json:"explanation,omitempty"`
	Points          int      `json:"points"` // defaults to 1 if zero
	Category        string   `json:"category,omitempty"`
	Difficulty      string   `json:"difficulty,omitempty"`
}

// Quiz is an immutable quiz definition; once fetched for an attempt it is
// never modified.
type Quiz struct {
	ID               string            `json:"id"`
	Title            string            `json:"title"`
	Description      string            `json:"description,omitempty"`
	Category         string            `json:"category,omitempty"`
	Difficulty       string            `json:"difficulty,omitempty"`
	TimeLimitMinutes int               `json:"timeLimitMinutes"`
	Questions        []Question        `json:"questions"`
	Active           bool              `json:"active"`
	Metadata         map[string]string `json:"metadata,omitempty"`
}

// TimeLimit returns the attempt countdown as a number of seconds.
func (q Quiz) TimeLimit() int {
	return q.TimeLimitMinutes * 60
}

// Answer records the learner's choice for one question. Created exactly once
// per question per attempt; immutable afterwards.
type Answer struct {
	QuestionID       string    `json:"questionId"`
	SelectedOptionID string    `json:"selectedOptionId"`
	Correct          bool      `json:"correct"`
	Points           int       `json:"points"`
	AnsweredAt       time.Time `json:"answeredAt"`
}

// ResultStats is the derived analytics bag attached to a result at scoring time.
type ResultStats struct {
	Category               string  `json:"category,omitempty"`
	Difficulty             string  `json:"difficulty,omitempty"`
	AverageTimePerQuestion float64 `json:"averageTimePerQuestion"`
}

// QuizResult is the outcome of one completed attempt. Answers appear in the
// order they were given, which may be shorter than question order when the
// timer cut the attempt short.
type QuizResult struct {
	ID               string       `json:"id"`
	QuizID           string       `json:"quizId"`
	UserID           string       `json:"userId"`
	Answers          []Answer     `json:"answers"`
	TotalQuestions   int          `json:"totalQuestions"`
	CorrectAnswers   int          `json:"correctAnswers"`
	Score            int          `json:"score"`
	Percentage       float64      `json:"percentage"`
	CompletedAt      time.Time    `json:"completedAt"`
	TimeTakenSeconds int          `json:"timeTakenSeconds"`
	Stats            *ResultStats `json:"stats,omitempty"`
}

// UserSummary is a derived rollup of one user's result history. It is a pure
// function of the results, recomputed on demand and never persisted.
type UserSummary struct {
	UserID                string             `json:"userId"`
	TotalQuizzes          int                `json:"totalQuizzes"`
	AverageScore          float64            `json:"averageScore"`
	TotalTimeSpentSeconds int                `json:"totalTimeSpentSeconds"`
	CategoryAverages      map[string]float64 `json:"categoryAverages"`
	DifficultyAverages    map[string]float64 `json:"difficultyAverages"`
	Recent                []QuizResult       `json:"recent"`
}

// Student identifies one learner managed by a mentor.
type Student struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName"`
}

// StudentProgress is one row of the mentor dashboard.
type StudentProgress struct {
	UserID       string       `json:"userId"`
	DisplayName  string       `json:"displayName"`
	QuizCount    int          `json:"quizCount"`
	AverageScore float64      `json:"averageScore"`
	LastAttempt  time.Time    `json:"lastAttempt"`
	Recent       []QuizResult `json:"recent"`
}

// MentorSummary aggregates many students' rollups. AverageStudentScore is a
// mean of per-student means, so one student's attempt volume does not skew it.
type MentorSummary struct {
	TotalStudents         int               `json:"totalStudents"`
	AverageStudentScore   float64           `json:"averageStudentScore"`
	TotalQuizzesCompleted int               `json:"totalQuizzesCompleted"`
	Students              []StudentProgress `json:"students"`
}

// QuizActivity is an author-facing rollup over all attempts of one quiz.
type QuizActivity struct {
	QuizID            string  `json:"quizId"`
	Attempts          int     `json:"attempts"`
	AveragePercentage float64 `json:"averagePercentage"`
}
