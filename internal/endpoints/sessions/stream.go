package sessions

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-kit/log/level"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/pkg/errors"
)

const writeWait = 10 * time.Second

const (
	messageSession = "session"
	messageError   = "error"
)

type streamMessage struct {
	Type    string       `json:"type"`
	Session *sessionView `json:"session,omitempty"`
	Message string       `json:"message,omitempty"`
}

// stream pushes the session view on every change and applies intents sent
// by the client. The socket closes when the session ends.
func (h *Handler) stream() http.HandlerFunc {
	return func(resp http.ResponseWriter, req *http.Request) {
		id := mux.Vars(req)["session_id"]
		coordinator, err := h.store.Get(id)
		if err != nil {
			encodeError(req.Context(), err, resp)
			return
		}
		conn, err := h.upgrader.Upgrade(resp, req, nil)
		if err != nil {
			_ = level.Warn(h.logger).Log("msg", "websocket upgrade failed", "session_id", id, "err", err)
			return
		}
		defer conn.Close()

		updates, unsubscribe := coordinator.Subscribe()
		defer unsubscribe()

		done := make(chan struct{})
		failures := make(chan error, 1)
		go h.readIntents(conn, id, failures, done)

		for {
			var message streamMessage
			select {
			case snapshot, ok := <-updates:
				if !ok {
					_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
					_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, "session closed"))
					return
				}
				message = streamMessage{Type: messageSession, Session: newSessionView(id, snapshot, h.logger)}
			case err := <-failures:
				message = streamMessage{Type: messageError, Message: err.Error()}
			case <-done:
				return
			}
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(message); err != nil {
				_ = level.Debug(h.logger).Log("msg", "websocket write failed", "session_id", id, "err", err)
				return
			}
		}
	}
}

func (h *Handler) readIntents(conn *websocket.Conn, id string, failures chan<- error, done chan<- struct{}) {
	defer close(done)
	report := func(err error) {
		select {
		case failures <- err:
		default:
		}
	}
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				_ = level.Debug(h.logger).Log("msg", "websocket read failed", "session_id", id, "err", err)
			}
			return
		}
		var httpr intentHttpRequest
		if err = json.Unmarshal(data, &httpr); err != nil {
			report(errors.Wrap(ErrBadRequest, err.Error()))
			continue
		}
		req, err := httpr.toIntent(id, intentType(httpr.Type))
		if err != nil {
			report(err)
			continue
		}
		coordinator, err := h.store.Get(id)
		if err != nil {
			report(err)
			return
		}
		applyIntent(coordinator, req)
	}
}
