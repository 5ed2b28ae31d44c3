package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"

	"github.com/Hikaru-0gasawara/trivia-adventure/internal/simulate"
)

const streamWriteWait = 10 * time.Second

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
}

// handleSimulationStream upgrades to a websocket, reads one simulate.Request
// frame and answers with a "game" frame per finished game followed by a
// single "summary" or "error" frame. Closing the socket cancels the run.
func (s *Server) handleSimulationStream(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetReqID(r.Context())
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Printf("stream_upgrade_failed request_id=%s error=%v", requestID, err)
		return
	}
	defer conn.Close()

	var req simulate.Request
	if err := conn.ReadJSON(&req); err != nil {
		s.writeFrame(conn, StreamMessage{Type: "error", Error: streamError(ErrTypeInvalidParams, "invalid request frame: "+err.Error(), requestID)})
		return
	}

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()
	go func() {
		// Any read after the request frame means the client went away or
		// broke protocol.
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				cancel()
				return
			}
		}
	}()

	s.logger.Printf("stream_started request_id=%s games=%d", requestID, req.Games)
	summary, err := s.runner.Run(ctx, req, func(o simulate.Outcome) {
		if err := s.writeFrame(conn, StreamMessage{Type: "game", Game: &o}); err != nil {
			cancel()
		}
	})
	if err != nil {
		s.writeFrame(conn, StreamMessage{Type: "error", Error: streamError(classify(err), err.Error(), requestID)})
		return
	}
	s.writeFrame(conn, StreamMessage{Type: "summary", Summary: summary})
	conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, "done"),
		time.Now().Add(streamWriteWait))
}

func (s *Server) writeFrame(conn *websocket.Conn, msg StreamMessage) error {
	conn.SetWriteDeadline(time.Now().Add(streamWriteWait))
	if err := conn.WriteJSON(msg); err != nil {
		s.logger.Printf("stream_write_failed type=%s error=%v", msg.Type, err)
		return err
	}
	return nil
}

func streamError(errType, message, requestID string) *APIError {
	e := NewError(errType, message).WithRequestID(requestID).Build()
	return &e
}
