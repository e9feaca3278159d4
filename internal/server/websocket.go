package server

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"botbridge-backend/internal/dialogflow"
	"botbridge-backend/internal/logger"
)

const closeWriteTimeout = time.Second

// handleWebSocket runs one chat session per connection. The contract is one
// JSON text frame out for every text frame in, processed strictly in arrival
// order; the next frame is not read until the previous reply was written.
// The bearer token was already checked by the auth middleware; gorilla
// rejects non-upgrade requests with a client error on its own.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Debugw("websocket upgrade rejected", "error", err)
		return
	}
	defer conn.Close()

	sessionID := r.URL.Query().Get("session_id")
	if sessionID == "" {
		sessionID = uuid.New().String()
	}
	log := s.log.With("sessionId", sessionID)
	log.Infow("websocket session opened")

	// Closing the connection (either side) cancels any in-flight provider
	// call through this context; a detect call never outlives its session.
	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	for {
		msgType, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Warnw("websocket closed unexpectedly", "error", err)
			} else {
				log.Infow("websocket session closed")
			}
			return
		}
		if msgType != websocket.TextMessage {
			continue
		}

		resp := s.detect(ctx, log, sessionID, string(data))
		payload, err := json.Marshal(resp)
		if err != nil {
			log.Errorw("response marshal failed", "error", err)
			closeWithInternalError(conn)
			return
		}
		if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			log.Warnw("websocket write failed", "error", err)
			return
		}
	}
}

// detect guards the session loop against a panicking bridge. The bridge is
// specified never to fail, but a session must not be left half-open if it
// does anyway.
func (s *Server) detect(ctx context.Context, log *logger.Logger, sessionID, text string) (resp *dialogflow.Response) {
	defer func() {
		if r := recover(); r != nil {
			log.Errorw("intent bridge panicked", "panic", r)
			resp = dialogflow.Fallback()
		}
	}()
	return s.bot.DetectIntent(ctx, sessionID, text)
}

func closeWithInternalError(conn *websocket.Conn) {
	msg := websocket.FormatCloseMessage(websocket.CloseInternalServerErr, "internal error")
	_ = conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(closeWriteTimeout))
}
