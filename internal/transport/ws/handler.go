package ws

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"coalition/internal/service"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for dev
	},
}

// Handler handles WebSocket connections
type Handler struct {
	hub          *Hub
	authSvc      *service.AuthService
	interviewSvc *service.InterviewService
}

// NewHandler creates a new WebSocket handler
func NewHandler(hub *Hub, authSvc *service.AuthService, interviewSvc *service.InterviewService) *Handler {
	return &Handler{
		hub:          hub,
		authSvc:      authSvc,
		interviewSvc: interviewSvc,
	}
}

// ObserveWS handles GET /v1/ws/interviews/{id}. The token must belong to the
// session being observed.
func (h *Handler) ObserveWS(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]
	token := r.URL.Query().Get("token")

	if token == "" {
		http.Error(w, "missing token", http.StatusUnauthorized)
		return
	}

	claims, err := h.authSvc.ValidateCandidateToken(token)
	if err != nil {
		http.Error(w, "invalid token", http.StatusUnauthorized)
		return
	}
	if claims.SessionID != sessionID {
		http.Error(w, "token not valid for this interview", http.StatusForbidden)
		return
	}

	// Verify the session still exists before upgrading.
	if _, err := h.interviewSvc.Current(r.Context(), sessionID); err != nil {
		http.Error(w, "interview not found", http.StatusNotFound)
		return
	}

	wsConn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}

	conn := &Connection{
		SessionID: sessionID,
		Send:      make(chan []byte, 256),
		Hub:       h.hub,
	}

	h.hub.Register(conn)

	go h.writePump(wsConn, conn)
	go h.readPump(wsConn, conn)
}

func (h *Handler) readPump(wsConn *websocket.Conn, conn *Connection) {
	defer func() {
		h.hub.Unregister(conn)
		wsConn.Close()
	}()

	wsConn.SetReadLimit(maxMessageSize)
	wsConn.SetReadDeadline(time.Now().Add(pongWait))
	wsConn.SetPongHandler(func(string) error {
		wsConn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, _, err := wsConn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Debug().Err(err).Msg("websocket read error")
			}
			break
		}
		// Observers are receive-only; inbound frames are ignored.
	}
}

func (h *Handler) writePump(wsConn *websocket.Conn, conn *Connection) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		wsConn.Close()
	}()

	for {
		select {
		case message, ok := <-conn.Send:
			wsConn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				wsConn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := wsConn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)

			if err := w.Close(); err != nil {
				return
			}

		case <-ticker.C:
			wsConn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := wsConn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
