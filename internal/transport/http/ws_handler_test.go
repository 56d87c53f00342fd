package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"mentor-quiz-service/internal/app"
	"mentor-quiz-service/internal/domain"
	"mentor-quiz-service/internal/infra/memory"

	"github.com/gorilla/websocket"
)

func TestWebSocketAttemptFlow(t *testing.T) {
	results := memory.NewResultStore()
	service := newTestAttemptService(results)
	wsHandler := NewWSHandler(service, nil)

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", wsHandler.ServeWS)
	server := httptest.NewServer(mux)
	defer server.Close()

	u := "ws" + server.URL[len("http"):] + "/ws?quizId=quiz-1&userId=u1"
	conn, _, err := websocket.DefaultDialer.Dial(u, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	// First question is presented immediately.
	payload := readNext(conn, t, "question")
	if payload["index"].(float64) != 0 {
		t.Fatalf("expected first question, got %+v", payload)
	}
	question := payload["question"].(map[string]any)
	options := question["options"].([]any)
	for _, raw := range options {
		opt := raw.(map[string]any)
		if _, leaked := opt["correct"]; leaked {
			t.Fatalf("correctness flag leaked to the learner: %+v", opt)
		}
	}

	answerCurrent(t, conn, "o2")
	payload = readNext(conn, t, "question")
	if payload["index"].(float64) != 1 {
		t.Fatalf("expected second question, got %+v", payload)
	}

	answerCurrent(t, conn, "o1")
	payload = readNext(conn, t, "completed")
	if payload["correctAnswers"].(float64) != 1 || payload["percentage"].(float64) != 50 {
		t.Fatalf("unexpected result: %+v", payload)
	}

	persisted, err := results.ResultsByUser(context.Background(), "u1")
	if err != nil || len(persisted) != 1 {
		t.Fatalf("expected one persisted result, got %d err=%v", len(persisted), err)
	}
}

func TestWebSocketUnknownQuiz(t *testing.T) {
	service := newTestAttemptService(memory.NewResultStore())
	wsHandler := NewWSHandler(service, nil)

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", wsHandler.ServeWS)
	server := httptest.NewServer(mux)
	defer server.Close()

	u := "ws" + server.URL[len("http"):] + "/ws?quizId=quiz-ghost&userId=u1"
	conn, _, err := websocket.DefaultDialer.Dial(u, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	if payload := readNext(conn, t, "error"); payload["message"] == "" {
		t.Fatalf("expected error message")
	}
}

func newTestAttemptService(results *memory.ResultStore) *app.AttemptService {
	quizRepo := memory.NewQuizRepository(memory.NewStaticQuizLoader(map[string]domain.Quiz{
		"quiz-1": {
			ID:               "quiz-1",
			Title:            "Arithmetic basics",
			TimeLimitMinutes: 5,
			Active:           true,
			Questions: []domain.Question{
				{
					ID:   "q1",
					Text: "What is 2 + 2?",
					Options: []domain.Option{
						{ID: "o1", Text: "3"},
						{ID: "o2", Text: "4", Correct: true},
					},
					CorrectOptionID: "o2",
					Points:          1,
				},
				{
					ID:   "q2",
					Text: "What is 3 * 3?",
					Options: []domain.Option{
						{ID: "o1", Text: "6"},
						{ID: "o2", Text: "9", Correct: true},
					},
					CorrectOptionID: "o2",
					Points:          1,
				},
			},
		},
	}), 5*time.Minute)
	return app.NewAttemptService(quizRepo, results, memory.NewAttemptStore(), nil)
}

func answerCurrent(t *testing.T, conn *websocket.Conn, optionID string) {
	t.Helper()
	sel := map[string]any{"type": "select", "payload": map[string]any{"optionId": optionID}}
	if err := conn.WriteJSON(sel); err != nil {
		t.Fatalf("write select: %v", err)
	}
	if err := conn.WriteJSON(map[string]any{"type": "advance"}); err != nil {
		t.Fatalf("write advance: %v", err)
	}
}

// readNext reads frames until one of the expected type arrives, skipping the
// periodic tick frames the server pushes on its own.
func readNext(conn *websocket.Conn, t *testing.T, expect string) map[string]any {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		var msg struct {
			Type    string         `json:"type"`
			Payload map[string]any `json:"payload"`
		}
		_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
		if err := conn.ReadJSON(&msg); err != nil {
			t.Fatalf("read json: %v", err)
		}
		if msg.Type == "tick" && expect != "tick" {
			continue
		}
		if msg.Type != expect {
			t.Fatalf("expected type %s, got %s (%+v)", expect, msg.Type, msg.Payload)
		}
		return msg.Payload
	}
	t.Fatalf("timed out waiting for %s", expect)
	return nil
}
