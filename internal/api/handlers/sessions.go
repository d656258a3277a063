package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/playmatatu/minigolf/internal/auth"
	"github.com/playmatatu/minigolf/internal/config"
	"github.com/playmatatu/minigolf/internal/game"
	"github.com/playmatatu/minigolf/internal/levels"
	"github.com/playmatatu/minigolf/internal/logging"
)

const maxDisplayNameLength = 50

type createSessionRequest struct {
	Players  []string `json:"players"`
	LevelIDs []int    `json:"level_ids"`
}

type sessionPlayer struct {
	Slot        int    `json:"slot"`
	DisplayName string `json:"display_name"`
	PlayerToken string `json:"player_token"`
	WSURL       string `json:"ws_url"`
}

// normalizePlayers trims names and fills blanks with "Player N".
func normalizePlayers(names []string) ([]string, error) {
	if len(names) == 0 {
		return []string{"Player 1"}, nil
	}
	if len(names) > game.MaxPlayers {
		return nil, fmt.Errorf("at most %d players", game.MaxPlayers)
	}
	out := make([]string, len(names))
	for i, n := range names {
		n = strings.TrimSpace(n)
		if n == "" {
			n = fmt.Sprintf("Player %d", i+1)
		}
		if len(n) > maxDisplayNameLength {
			return nil, fmt.Errorf("player name longer than %d characters", maxDisplayNameLength)
		}
		out[i] = n
	}
	return out, nil
}

// CreateSession starts a session and issues one websocket token per player.
func CreateSession(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req createSessionRequest
		if c.Request.ContentLength != 0 {
			if err := c.ShouldBindJSON(&req); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
				return
			}
		}

		names, err := normalizePlayers(req.Players)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		for _, id := range req.LevelIDs {
			if id <= 0 {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid level id"})
				return
			}
		}

		g, err := game.Manager.CreateSession(c.Request.Context(), names, req.LevelIDs)
		if errors.Is(err, levels.ErrLevelNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Level not found"})
			return
		}
		if err != nil {
			logging.L().Errorf("[ERROR] CreateSession: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create session"})
			return
		}

		ttl := time.Duration(cfg.PlayerTokenTTLHours) * time.Hour
		if ttl <= 0 {
			ttl = 12 * time.Hour
		}
		players := make([]sessionPlayer, len(g.Players))
		for i, p := range g.Players {
			token, err := auth.IssuePlayerToken(cfg.JWTSecret, g.ID, p.Slot, ttl)
			if err != nil {
				logging.L().Errorf("[ERROR] CreateSession - token for slot %d: %v", p.Slot, err)
				c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
				return
			}
			players[i] = sessionPlayer{
				Slot:        p.Slot,
				DisplayName: p.DisplayName,
				PlayerToken: token,
				WSURL:       fmt.Sprintf("/api/v1/sessions/%s/ws?pt=%s", g.Token, url.QueryEscape(token)),
			}
		}

		c.JSON(http.StatusCreated, gin.H{
			"session_id":  g.ID,
			"token":       g.Token,
			"level_count": len(g.Levels),
			"players":     players,
		})
	}
}

// GetSessionState returns the current snapshot of a session.
func GetSessionState() gin.HandlerFunc {
	return func(c *gin.Context) {
		g, err := game.Manager.GetSessionByToken(c.Param("token"))
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"state":         g.Snapshot(),
			"total_strokes": g.TotalStrokes(),
		})
	}
}
