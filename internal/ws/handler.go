package ws

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/playmatatu/minigolf/internal/logging"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	CheckOrigin: func(r *http.Request) bool {
		return true // Origin is checked by middleware.WebSocketCORSCheck
	},
}

// Client is one websocket connection acting for a player slot.
type Client struct {
	conn      *websocket.Conn
	slot      int
	sessionID string
	token     string
	send      chan []byte
}

// Hub tracks connected clients per session. A slot has at most one live
// connection; a new one replaces the old.
type Hub struct {
	rooms      map[string]map[int]*Client // sessionID -> slot -> client
	register   chan *Client
	unregister chan *Client
	mu         sync.RWMutex
}

// NewHub creates a new Hub
func NewHub() *Hub {
	return &Hub{
		rooms:      make(map[string]map[int]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

// RoomSize returns how many clients are connected to a session.
func (h *Hub) RoomSize(sessionID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[sessionID])
}

// BroadcastToGame sends a message to every client of a session.
func (h *Hub) BroadcastToGame(sessionID string, message interface{}) {
	h.mu.RLock()
	room, exists := h.rooms[sessionID]
	if !exists || len(room) == 0 {
		h.mu.RUnlock()
		return
	}
	h.mu.RUnlock()

	data, err := json.Marshal(message)
	if err != nil {
		logging.L().Errorf("[WS] Error marshaling message: %v", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, client := range h.rooms[sessionID] {
		select {
		case client.send <- data:
		default:
			// Client's buffer is full
			logging.L().Debugf("[WS] Send buffer full for slot %d in session %s, dropping message", client.slot, sessionID)
		}
	}
}

// SendToPlayer sends a message to one slot of a session.
func (h *Hub) SendToPlayer(sessionID string, slot int, message interface{}) {
	data, err := json.Marshal(message)
	if err != nil {
		logging.L().Errorf("[WS] Error marshaling message: %v", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	client, exists := h.rooms[sessionID][slot]
	if !exists {
		logging.L().Debugf("[WS] SendToPlayer no client for slot %d in session %s", slot, sessionID)
		return
	}
	select {
	case client.send <- data:
	default:
		logging.L().Debugf("[WS] SendToPlayer dropped message for slot %d (buffer full)", slot)
	}
}

// CloseRoom disconnects every client of a session.
func (h *Hub) CloseRoom(sessionID, reason string) {
	h.mu.RLock()
	var clients []*Client
	for _, c := range h.rooms[sessionID] {
		clients = append(clients, c)
	}
	h.mu.RUnlock()

	for _, c := range clients {
		c.conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, reason), time.Now().Add(time.Second))
		c.conn.Close()
	}
}

// WSMessage is an incoming client message.
type WSMessage struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// writePump writes messages to the WebSocket connection
func (c *Client) writePump() {
	ticker := time.NewTicker(30 * time.Second)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if !ok {
				// Best-effort close frame; the connection may already be gone.
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				logging.L().Debugf("[WS] Write error for slot %d in session %s: %v", c.slot, c.sessionID, err)
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				logging.L().Debugf("[WS] Ping error for slot %d in session %s: %v", c.slot, c.sessionID, err)
				return
			}
		}
	}
}

// sendJSON queues a message without blocking.
func (c *Client) sendJSON(message interface{}) {
	data, err := json.Marshal(message)
	if err != nil {
		return
	}
	select {
	case c.send <- data:
	default:
	}
}

// sendError sends an error message to the client
func (c *Client) sendError(message string) {
	c.sendJSON(map[string]interface{}{
		"type":    "error",
		"message": message,
	})
}
