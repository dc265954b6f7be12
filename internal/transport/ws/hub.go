package ws

import (
	"encoding/json"
	"log"
	"sync"
)

// MessageType defines the type of WebSocket message
type MessageType string

// Message is the WebSocket envelope format
type Message struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// Hub fans session lifecycle events out to WebSocket clients. Lobby
// connections receive lobby-wide events (created/ended/reopened); session
// watchers receive events for one session.
type Hub struct {
	lobbyConns   map[*Connection]bool
	sessionConns map[string]map[*Connection]bool // sessionID -> conns

	mu sync.RWMutex

	// Channels for coordination
	register   chan *Connection
	unregister chan *Connection
	broadcast  chan *BroadcastMessage
}

// Connection represents a WebSocket connection
type Connection struct {
	SessionID string // Empty for lobby connections
	UserID    string
	Send      chan []byte
	Hub       *Hub
}

// BroadcastMessage is a message to broadcast
type BroadcastMessage struct {
	SessionID string // Empty means lobby
	Message   *Message
}

// NewHub creates a new WebSocket hub
func NewHub() *Hub {
	h := &Hub{
		lobbyConns:   make(map[*Connection]bool),
		sessionConns: make(map[string]map[*Connection]bool),
		register:     make(chan *Connection),
		unregister:   make(chan *Connection),
		broadcast:    make(chan *BroadcastMessage, 256),
	}
	go h.run()
	return h
}

func (h *Hub) run() {
	for {
		select {
		case conn := <-h.register:
			h.mu.Lock()
			if conn.SessionID == "" {
				h.lobbyConns[conn] = true
				log.Printf("User %s connected to lobby", conn.UserID)
			} else {
				if h.sessionConns[conn.SessionID] == nil {
					h.sessionConns[conn.SessionID] = make(map[*Connection]bool)
				}
				h.sessionConns[conn.SessionID][conn] = true
				log.Printf("User %s watching session %s", conn.UserID, conn.SessionID)
			}
			h.mu.Unlock()

		case conn := <-h.unregister:
			h.mu.Lock()
			if conn.SessionID == "" {
				if h.lobbyConns[conn] {
					delete(h.lobbyConns, conn)
					close(conn.Send)
					log.Printf("User %s left lobby", conn.UserID)
				}
			} else {
				if watchers, ok := h.sessionConns[conn.SessionID]; ok && watchers[conn] {
					delete(watchers, conn)
					close(conn.Send)
					if len(watchers) == 0 {
						delete(h.sessionConns, conn.SessionID)
					}
					log.Printf("User %s stopped watching session %s", conn.UserID, conn.SessionID)
				}
			}
			h.mu.Unlock()

		case msg := <-h.broadcast:
			h.mu.RLock()
			data, _ := json.Marshal(msg.Message)

			if msg.SessionID == "" {
				for conn := range h.lobbyConns {
					select {
					case conn.Send <- data:
					default:
						// Drop message if buffer full
					}
				}
			} else {
				for conn := range h.sessionConns[msg.SessionID] {
					select {
					case conn.Send <- data:
					default:
					}
				}
			}
			h.mu.RUnlock()
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

// BroadcastLobby sends a message to every lobby connection (implements
// service.Broadcaster)
func (h *Hub) BroadcastLobby(msgType string, payload interface{}) {
	data, _ := json.Marshal(payload)
	h.broadcast <- &BroadcastMessage{
		Message: &Message{
			Type:    MessageType(msgType),
			Payload: data,
		},
	}
}

// BroadcastSession sends a message to everyone watching a session
// (implements service.Broadcaster)
func (h *Hub) BroadcastSession(sessionID string, msgType string, payload interface{}) {
	data, _ := json.Marshal(payload)
	h.broadcast <- &BroadcastMessage{
		SessionID: sessionID,
		Message: &Message{
			Type:    MessageType(msgType),
			Payload: data,
		},
	}
}
