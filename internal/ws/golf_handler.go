package ws

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/playmatatu/minigolf/internal/auth"
	"github.com/playmatatu/minigolf/internal/config"
	"github.com/playmatatu/minigolf/internal/game"
	"github.com/playmatatu/minigolf/internal/logging"
)

// PointerData is the canvas position carried by pointer_down and pointer_up.
type PointerData struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// SelectLevelData picks a level by its index in the session's level list.
type SelectLevelData struct {
	Index int `json:"index"`
}

// GameHub is the single hub for all sessions.
var GameHub *Hub

func init() {
	GameHub = NewHub()
	go runGameHub(GameHub)
}

// HandleWebSocket upgrades a player connection for the session named by the
// :token path parameter. The pt query parameter carries the player JWT.
func HandleWebSocket(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionToken := c.Param("token")
		playerToken := c.Query("pt")

		if sessionToken == "" || playerToken == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "token and pt required"})
			return
		}

		g, err := game.Manager.GetSessionByToken(sessionToken)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
			return
		}

		claims, err := auth.ParsePlayerToken(cfg.JWTSecret, playerToken)
		if err != nil || claims.SessionID != g.ID || claims.Slot >= len(g.Players) {
			c.JSON(http.StatusForbidden, gin.H{"error": "invalid player token"})
			return
		}

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			logging.L().Warnf("[WS] Upgrade error: %v", err)
			return
		}

		client := &Client{
			conn:      conn,
			slot:      claims.Slot,
			sessionID: g.ID,
			token:     sessionToken,
			send:      make(chan []byte, 256),
		}

		GameHub.register <- client

		go client.writePump()
		go client.readPump()
	}
}

// runGameHub serialises connects and disconnects.
func runGameHub(h *Hub) {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			room, exists := h.rooms[client.sessionID]
			if !exists {
				room = make(map[int]*Client)
				h.rooms[client.sessionID] = room
			}
			if old, ok := room[client.slot]; ok {
				logging.L().Infof("[WS] Slot %d in session %s reconnecting - closing old connection", client.slot, client.sessionID)
				old.conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, "replaced by new connection"), time.Now().Add(5*time.Second))
				old.conn.Close()
			}
			room[client.slot] = client
			h.mu.Unlock()

			logging.L().Infof("[WS] Slot %d connected to session %s", client.slot, client.sessionID)

			g, err := game.Manager.GetSessionByToken(client.token)
			if err != nil {
				logging.L().Warnf("[WS] Session not found for token %s: %v", client.token, err)
				continue
			}

			// The first connection starts play.
			if g.GetStatus() == game.StatusWaiting {
				g.Start()
				h.BroadcastToGame(client.sessionID, map[string]interface{}{
					"type":    "game_starting",
					"message": "Tee off!",
				})
			}
			game.Manager.Touch(g)

			client.sendJSON(stateMessage("game_state", g.Snapshot(), nil))

		case client := <-h.unregister:
			h.mu.Lock()
			if room, ok := h.rooms[client.sessionID]; ok {
				if cur, ok := room[client.slot]; ok && cur == client {
					delete(room, client.slot)
					if len(room) == 0 {
						delete(h.rooms, client.sessionID)
					}
					close(client.send)
					logging.L().Infof("[WS] Slot %d disconnected from session %s", client.slot, client.sessionID)
				}
			}
			h.mu.Unlock()
		}
	}
}

// readPump reads player input until the connection drops.
func (c *Client) readPump() {
	defer func() {
		GameHub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(65536)
	c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure, websocket.CloseNormalClosure) {
				logging.L().Warnf("[WS] Unexpected close for slot %d in session %s: %v", c.slot, c.sessionID, err)
			}
			break
		}

		var msg WSMessage
		if err := json.Unmarshal(message, &msg); err != nil {
			c.sendError("Invalid message")
			continue
		}

		c.handleMessage(msg)
	}
}

// handleMessage processes one player message.
func (c *Client) handleMessage(msg WSMessage) {
	g, err := game.Manager.GetSessionByToken(c.token)
	if err != nil {
		c.sendError("Session not found")
		return
	}
	game.Manager.Touch(g)

	switch msg.Type {
	case "pointer_down":
		var data PointerData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			c.sendError("Invalid pointer data")
			return
		}
		aiming, err := g.PointerDown(c.slot, game.NewVec2(data.X, data.Y))
		if err != nil {
			c.sendError(err.Error())
			return
		}
		GameHub.SendToPlayer(c.sessionID, c.slot, map[string]interface{}{"type": "aim", "aiming": aiming})

	case "pointer_up":
		var data PointerData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			c.sendError("Invalid pointer data")
			return
		}
		force, shot, err := g.PointerUp(c.slot, game.NewVec2(data.X, data.Y))
		if err != nil {
			c.sendError(err.Error())
			return
		}
		if shot {
			GameHub.BroadcastToGame(c.sessionID, map[string]interface{}{
				"type":   "shot",
				"player": c.slot,
				"force":  force,
			})
			saveAsync(g)
		}

	case "get_state":
		c.sendJSON(stateMessage("game_state", g.Snapshot(), nil))

	case "restart_level":
		g.RestartLevel()
		GameHub.BroadcastToGame(c.sessionID, stateMessage("game_state", g.Snapshot(), nil))

	case "select_level":
		var data SelectLevelData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			c.sendError("Invalid level data")
			return
		}
		if err := g.SelectLevel(data.Index); err != nil {
			c.sendError(err.Error())
			return
		}
		GameHub.BroadcastToGame(c.sessionID, stateMessage("game_state", g.Snapshot(), nil))

	default:
		c.sendError("Unknown message type")
	}
}

// HandleTick relays one tick outcome to the session's clients. It is the
// tick worker's listener.
func HandleTick(o game.TickOutcome) {
	if GameHub.RoomSize(o.Session.ID) == 0 {
		return
	}

	GameHub.BroadcastToGame(o.Session.ID, stateMessage("tick", o.Session.Snapshot(), o.Result.Events))

	if r := o.Result.LevelCompleted; r != nil {
		GameHub.BroadcastToGame(o.Session.ID, map[string]interface{}{
			"type":   "level_complete",
			"result": r,
		})
	}
	if o.Result.LevelChanged {
		GameHub.BroadcastToGame(o.Session.ID, stateMessage("game_state", o.Session.Snapshot(), nil))
	}
}

func stateMessage(kind string, snap game.SessionSnapshot, events []game.CollisionEvent) map[string]interface{} {
	msg := map[string]interface{}{
		"type":  kind,
		"state": snap,
	}
	if len(events) > 0 {
		msg["events"] = events
	}
	return msg
}

func saveAsync(g *game.GolfGameState) {
	go func() {
		if err := game.Manager.SaveSession(context.Background(), g); err != nil && !errors.Is(err, game.ErrSessionNotFound) {
			logging.L().Warnf("[WS] Failed to save session %s: %v", g.ID, err)
		}
	}()
}
