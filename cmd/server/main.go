package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/playmatatu/minigolf/internal/api"
	"github.com/playmatatu/minigolf/internal/config"
	"github.com/playmatatu/minigolf/internal/database"
	"github.com/playmatatu/minigolf/internal/game"
	"github.com/playmatatu/minigolf/internal/levels"
	"github.com/playmatatu/minigolf/internal/logging"
	"github.com/playmatatu/minigolf/internal/migrations"
	"github.com/playmatatu/minigolf/internal/redis"
	"github.com/playmatatu/minigolf/internal/ws"
	"golang.org/x/sync/errgroup"
)

func main() {
	cfg := config.Load()

	if err := logging.Init(cfg.Environment, cfg.LogLevel); err != nil {
		panic(err)
	}
	defer logging.Sync()
	log := logging.L()

	// Initialize database
	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if cfg.MigrateOnStart {
		log.Infof("[MIGRATE] Running DB migrations on startup...")
		if err := migrations.RunMigrations(cfg.DatabaseURL, "migrations"); err != nil {
			log.Fatalf("Failed to run migrations: %v", err)
		}
	}

	// Initialize Redis
	rdb, err := redis.Connect(cfg.RedisURL)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer rdb.Close()

	repo := levels.NewRepository(db, rdb)

	// Sessions play the stored levels unless a level file is configured.
	var source game.LevelSource = repo
	if cfg.LevelsFile != "" {
		static, err := levels.LoadFile(cfg.LevelsFile)
		if err != nil {
			log.Fatalf("Failed to load levels file: %v", err)
		}
		source = static
		log.Infof("[LEVELS] Serving levels from %s", cfg.LevelsFile)
	}

	game.InitializeManager(db, rdb, cfg, source)
	ws.SetRedisClient(rdb)

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	if cfg.Environment != "production" {
		router.Use(gin.Logger())
	}
	api.SetupRoutes(router, repo, cfg)

	port := cfg.Port
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{Addr: ":" + port, Handler: router}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		game.StartTickWorker(gctx, game.Manager, cfg.TickRateHz, ws.HandleTick)
		return nil
	})
	g.Go(func() error {
		game.StartIdleWorker(gctx, game.Manager, rdb, cfg)
		return nil
	})
	g.Go(func() error {
		ws.StartEventSubscriber(gctx)
		return nil
	})
	g.Go(func() error {
		log.Infof("Starting minigolf server on port %s", port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		log.Infof("Shutting down server...")
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Errorf("Server stopped with error: %v", err)
	}
}
