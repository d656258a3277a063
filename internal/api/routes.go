package api

import (
	"github.com/gin-gonic/gin"
	"github.com/playmatatu/minigolf/internal/admin"
	"github.com/playmatatu/minigolf/internal/api/handlers"
	"github.com/playmatatu/minigolf/internal/config"
	"github.com/playmatatu/minigolf/internal/logging"
	"github.com/playmatatu/minigolf/internal/middleware"
)

// SetupRoutes configures all API routes
func SetupRoutes(router *gin.Engine, store handlers.LevelStore, cfg *config.Config) {
	router.Use(middleware.CORSMiddleware(cfg))

	if cfg.Environment != "production" {
		router.Use(func(c *gin.Context) {
			c.Header("Cache-Control", "no-store, no-cache, must-revalidate, max-age=0")
			c.Header("Pragma", "no-cache")
			c.Next()
		})
		logging.L().Infof("[DEV MODE] no-cache headers enabled for all routes")
	}

	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", handlers.HealthCheck)

		// Level store
		lv := v1.Group("/levels")
		{
			lv.GET("", handlers.ListLevels(store))
			lv.GET("/:id", handlers.GetLevel(store))

			write := lv.Group("", admin.AdminKeyMiddleware(cfg))
			write.POST("", handlers.CreateLevel(store))
			write.POST("/import", handlers.ImportLevels(store))
			write.DELETE("/:id", handlers.DeleteLevel(store))
		}

		// Play sessions
		sessions := v1.Group("/sessions")
		{
			sessions.POST("", handlers.CreateSession(cfg))
			sessions.GET("/:token", handlers.GetSessionState())
			sessions.GET("/:token/ws", middleware.WebSocketCORSCheck(cfg), handlers.HandleGameWebSocket(cfg))
		}
	}
}
