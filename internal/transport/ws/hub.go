package ws

import (
	"encoding/json"
	"sync"

	"github.com/rs/zerolog/log"
)

// MessageType defines the type of WebSocket message
type MessageType string

const (
	MsgAnswerRecorded     MessageType = "answer_recorded"
	MsgMoodChanged        MessageType = "mood_changed"
	MsgContradictionFound MessageType = "contradiction_found"
	MsgInterviewFinished  MessageType = "interview_finished"
	MsgError              MessageType = "error"
)

// Message is the WebSocket envelope format
type Message struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// Hub manages observer connections per interview session. Any number of
// viewers can watch a live interview; they never send, only receive.
type Hub struct {
	observers map[string]map[*Connection]bool // sessionID -> conns

	mu sync.RWMutex

	register   chan *Connection
	unregister chan *Connection
	broadcast  chan *BroadcastMessage
	disconnect chan string
}

// Connection represents one observer connection
type Connection struct {
	SessionID string
	Send      chan []byte
	Hub       *Hub
}

// BroadcastMessage is a message for every observer of one session
type BroadcastMessage struct {
	SessionID string
	Message   *Message
}

// NewHub creates a new WebSocket hub
func NewHub() *Hub {
	h := &Hub{
		observers:  make(map[string]map[*Connection]bool),
		register:   make(chan *Connection),
		unregister: make(chan *Connection),
		broadcast:  make(chan *BroadcastMessage, 256),
		disconnect: make(chan string),
	}
	go h.run()
	return h
}

func (h *Hub) run() {
	for {
		select {
		case conn := <-h.register:
			h.mu.Lock()
			if h.observers[conn.SessionID] == nil {
				h.observers[conn.SessionID] = make(map[*Connection]bool)
			}
			h.observers[conn.SessionID][conn] = true
			h.mu.Unlock()
			log.Debug().Str("sessionId", conn.SessionID).Msg("observer connected")

		case conn := <-h.unregister:
			h.mu.Lock()
			if conns, ok := h.observers[conn.SessionID]; ok && conns[conn] {
				delete(conns, conn)
				close(conn.Send)
				if len(conns) == 0 {
					delete(h.observers, conn.SessionID)
				}
				log.Debug().Str("sessionId", conn.SessionID).Msg("observer disconnected")
			}
			h.mu.Unlock()

		case msg := <-h.broadcast:
			h.mu.RLock()
			data, _ := json.Marshal(msg.Message)
			for conn := range h.observers[msg.SessionID] {
				select {
				case conn.Send <- data:
				default:
					// Drop message if buffer full
				}
			}
			h.mu.RUnlock()

		case sessionID := <-h.disconnect:
			h.mu.Lock()
			for conn := range h.observers[sessionID] {
				close(conn.Send)
			}
			delete(h.observers, sessionID)
			h.mu.Unlock()
		}
	}
}

// Register adds a connection
func (h *Hub) Register(conn *Connection) {
	h.register <- conn
}

// Unregister removes a connection
func (h *Hub) Unregister(conn *Connection) {
	h.unregister <- conn
}

// BroadcastToSession sends a message to every observer of a session
// (implements service.Broadcaster)
func (h *Hub) BroadcastToSession(sessionID string, msgType string, payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		log.Warn().Err(err).Str("type", msgType).Msg("broadcast payload marshal failed")
		return
	}
	h.broadcast <- &BroadcastMessage{
		SessionID: sessionID,
		Message: &Message{
			Type:    MessageType(msgType),
			Payload: data,
		},
	}
}

// DisconnectSession drops every observer of a session (implements
// service.Broadcaster)
func (h *Hub) DisconnectSession(sessionID string) {
	h.disconnect <- sessionID
}
