package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"mentor-quiz-service/internal/app"
	"mentor-quiz-service/internal/domain"

	"go.uber.org/zap"
)

// DashboardHandler exposes the derived analytics rollups over plain HTTP.
type DashboardHandler struct {
	service *app.DashboardService
	log     *zap.Logger
}

func NewDashboardHandler(service *app.DashboardService, log *zap.Logger) *DashboardHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &DashboardHandler{service: service, log: log}
}

// MentorDashboard serves GET /api/mentor/dashboard?mentorId=...
func (h *DashboardHandler) MentorDashboard(w http.ResponseWriter, r *http.Request) {
	mentorID := r.URL.Query().Get("mentorId")
	if mentorID == "" {
		http.Error(w, "missing mentorId", http.StatusBadRequest)
		return
	}
	summary, err := h.service.BuildMentorDashboard(r.Context(), mentorID)
	if err != nil {
		h.writeError(w, "mentor dashboard", err)
		return
	}
	h.writeJSON(w, summary)
}

// StudentSummary serves GET /api/student/summary?userId=...
func (h *DashboardHandler) StudentSummary(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("userId")
	if userID == "" {
		http.Error(w, "missing userId", http.StatusBadRequest)
		return
	}
	summary, err := h.service.BuildStudentDashboard(r.Context(), userID)
	if err != nil {
		h.writeError(w, "student summary", err)
		return
	}
	h.writeJSON(w, summary)
}

// QuizActivity serves GET /api/quiz/activity?quizId=...
func (h *DashboardHandler) QuizActivity(w http.ResponseWriter, r *http.Request) {
	quizID := r.URL.Query().Get("quizId")
	if quizID == "" {
		http.Error(w, "missing quizId", http.StatusBadRequest)
		return
	}
	activity, err := h.service.BuildQuizActivity(r.Context(), quizID)
	if err != nil {
		h.writeError(w, "quiz activity", err)
		return
	}
	h.writeJSON(w, activity)
}

func (h *DashboardHandler) writeJSON(w http.ResponseWriter, payload any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.log.Warn("write response", zap.Error(err))
	}
}

func (h *DashboardHandler) writeError(w http.ResponseWriter, op string, err error) {
	if errors.Is(err, domain.ErrQuizNotFound) {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	h.log.Error(op, zap.Error(err))
	http.Error(w, "internal error", http.StatusInternalServerError)
}
