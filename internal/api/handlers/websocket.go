package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/playmatatu/minigolf/internal/config"
	"github.com/playmatatu/minigolf/internal/ws"
)

// HandleGameWebSocket handles real-time session communication
func HandleGameWebSocket(cfg *config.Config) gin.HandlerFunc {
	return ws.HandleWebSocket(cfg)
}
