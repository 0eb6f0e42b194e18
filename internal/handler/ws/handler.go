// Package ws carries a conversation over a single websocket, for caller
// frontends that prefer one persistent channel to per-turn requests.
package ws

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/frontdesk-ai/frontdesk/backend/internal/service/convo"
)

// Handler upgrades caller connections and relays message frames through
// the conversation engine.
type Handler struct {
	engine   *convo.Engine
	upgrader websocket.Upgrader
}

// New creates the websocket handler.
func New(engine *convo.Engine) *Handler {
	return &Handler{
		engine: engine,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

// RegisterRoutes mounts the websocket endpoint.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/public/ws/{sessionID}", h.handleConn)
}

type inboundFrame struct {
	Type string `json:"type"`
	Data struct {
		Text string `json:"text"`
	} `json:"data"`
}

type outboundFrame struct {
	Type      string `json:"type"`
	SessionID string `json:"sessionId,omitempty"`
	Text      string `json:"text,omitempty"`
	Error     string `json:"error,omitempty"`
	Timestamp int64  `json:"timestamp"`
}

func (h *Handler) handleConn(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	if sessionID == "" {
		http.Error(w, "sessionID is required", http.StatusBadRequest)
		return
	}

	if _, err := h.engine.Session(r.Context(), sessionID); err != nil {
		http.Error(w, "session not found", http.StatusNotFound)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[ws] upgrade failed for session=%s: %v", sessionID, err)
		return
	}
	defer conn.Close()

	log.Printf("[ws] connected session=%s", sessionID)

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Printf("[ws] read failed for session=%s: %v", sessionID, err)
			}
			return
		}

		var frame inboundFrame
		if err := json.Unmarshal(raw, &frame); err != nil {
			h.write(conn, outboundFrame{Type: "error", SessionID: sessionID, Error: "invalid frame"})
			continue
		}

		switch frame.Type {
		case "message":
			if frame.Data.Text == "" {
				h.write(conn, outboundFrame{Type: "error", SessionID: sessionID, Error: "text is required"})
				continue
			}

			reply, err := h.engine.HandleMessage(r.Context(), sessionID, frame.Data.Text)
			if err != nil {
				if errors.Is(err, convo.ErrSessionNotFound) {
					h.write(conn, outboundFrame{Type: "error", SessionID: sessionID, Error: "session not found"})
					return
				}
				h.write(conn, outboundFrame{Type: "error", SessionID: sessionID, Error: "failed to handle message"})
				continue
			}

			h.write(conn, outboundFrame{Type: "reply", SessionID: sessionID, Text: reply})

		case "ping":
			h.write(conn, outboundFrame{Type: "pong", SessionID: sessionID})

		default:
			h.write(conn, outboundFrame{Type: "error", SessionID: sessionID, Error: "unknown frame type"})
		}
	}
}

func (h *Handler) write(conn *websocket.Conn, frame outboundFrame) {
	frame.Timestamp = time.Now().UnixMilli()
	if err := conn.WriteJSON(frame); err != nil {
		log.Printf("[ws] write failed: %v", err)
	}
}
