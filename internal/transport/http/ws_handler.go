package http

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"mentor-quiz-service/internal/app"
	"mentor-quiz-service/internal/attempt"
	"mentor-quiz-service/internal/domain"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// WSHandler drives one quiz attempt per websocket connection. The server
// owns the per-second countdown; the client only selects and advances.
type WSHandler struct {
	service  *app.AttemptService
	upgrader websocket.Upgrader
	interval time.Duration
	log      *zap.Logger
}

func NewWSHandler(service *app.AttemptService, log *zap.Logger) *WSHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &WSHandler{
		service: service,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		interval: time.Second,
		log:      log,
	}
}

type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type selectPayload struct {
	OptionID string `json:"optionId"`
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

type errorPayload struct {
	Message string `json:"message"`
}

// optionView hides the correctness flag from the learner.
type optionView struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// questionView is the learner-facing projection of a question. It carries no
// correct-option information; grading data never crosses this boundary.
type questionView struct {
	ID      string       `json:"id"`
	Text    string       `json:"text"`
	Options []optionView `json:"options"`
}

type questionFrame struct {
	AttemptID string       `json:"attemptId"`
	Index     int          `json:"index"`
	Total     int          `json:"total"`
	Remaining int          `json:"remaining"`
	Question  questionView `json:"question"`
}

type tickFrame struct {
	Remaining int `json:"remaining"`
}

// ServeWS upgrades the request and runs the attempt loop until the client
// disconnects or the attempt reaches a terminal state.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	quizID := r.URL.Query().Get("quizId")
	userID := r.URL.Query().Get("userId")
	if quizID == "" || userID == "" {
		http.Error(w, "missing quizId or userId", http.StatusBadRequest)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("ws upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	attemptID, att, err := h.service.Begin(r.Context(), quizID, userID)
	if err != nil {
		_ = conn.WriteJSON(outboundMessage[errorPayload]{Type: "error", Payload: errorPayload{Message: err.Error()}})
		return
	}
	defer h.service.End(attemptID)

	send := make(chan outboundMessage[any], 16)
	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		for msg := range send {
			if err := conn.WriteJSON(msg); err != nil {
				h.log.Warn("ws write error", zap.Error(err))
				break
			}
		}
		// Keep draining after a write error so senders never block on a
		// dead connection.
		for range send {
		}
	}()

	// Submission may be triggered by the timer or by advancing past the last
	// question; whichever fires first wins, the other is a no-op.
	var submitOnce sync.Once
	finish := func() {
		submitOnce.Do(func() {
			result, err := h.service.Submit(r.Context(), attemptID)
			if err != nil {
				send <- outboundMessage[any]{Type: "error", Payload: errorPayload{Message: err.Error()}}
				return
			}
			send <- outboundMessage[any]{Type: "completed", Payload: result}
		})
	}

	countdown := attempt.StartCountdown(att, h.interval, func(remaining int, expired bool) {
		if expired {
			finish()
			return
		}
		send <- outboundMessage[any]{Type: "tick", Payload: tickFrame{Remaining: remaining}}
	})

	send <- questionMessage(attemptID, att)

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			break
		}
		switch inbound.Type {
		case "select":
			var payload selectPayload
			if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
				send <- outboundMessage[any]{Type: "error", Payload: errorPayload{Message: "invalid select payload"}}
				continue
			}
			if err := att.SelectOption(payload.OptionID); err != nil {
				send <- outboundMessage[any]{Type: "error", Payload: errorPayload{Message: err.Error()}}
			}
		case "advance":
			if err := att.Advance(); err != nil {
				send <- outboundMessage[any]{Type: "error", Payload: errorPayload{Message: err.Error()}}
				continue
			}
			if att.State() == attempt.StateSubmitting {
				finish()
				continue
			}
			send <- questionMessage(attemptID, att)
		default:
			send <- outboundMessage[any]{Type: "error", Payload: errorPayload{Message: "unsupported message type"}}
		}
	}

	// Stop before closing send: after Stop returns no tick callback can fire,
	// so nothing writes to a closed channel.
	countdown.Stop()
	close(send)
	<-writerDone
}

func questionMessage(attemptID string, att *attempt.Attempt) outboundMessage[any] {
	q, ok := att.CurrentQuestion()
	if !ok {
		return outboundMessage[any]{Type: "error", Payload: errorPayload{Message: domain.ErrAttemptState.Error()}}
	}
	options := make([]optionView, 0, len(q.Options))
	for _, opt := range q.Options {
		options = append(options, optionView{ID: opt.ID, Text: opt.Text})
	}
	return outboundMessage[any]{Type: "question", Payload: questionFrame{
		AttemptID: attemptID,
		Index:     att.QuestionIndex(),
		Total:     len(att.Quiz().Questions),
		Remaining: att.Remaining(),
		Question:  questionView{ID: q.ID, Text: q.Text, Options: options},
	}}
}
