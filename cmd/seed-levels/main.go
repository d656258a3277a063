package main

import (
	"context"
	"flag"
	"os"

	"github.com/playmatatu/minigolf/internal/config"
	"github.com/playmatatu/minigolf/internal/database"
	"github.com/playmatatu/minigolf/internal/game"
	"github.com/playmatatu/minigolf/internal/levels"
	"github.com/playmatatu/minigolf/internal/logging"
	"github.com/playmatatu/minigolf/internal/migrations"
	"github.com/playmatatu/minigolf/internal/redis"
)

func main() {
	replace := flag.Bool("replace", false, "remove existing levels before importing")
	file := flag.String("file", "", "level file to import (defaults to LEVELS_FILE)")
	flag.Parse()

	cfg := config.Load()
	if err := logging.Init(cfg.Environment, cfg.LogLevel); err != nil {
		panic(err)
	}
	defer logging.Sync()
	log := logging.L()

	path := *file
	if path == "" {
		path = cfg.LevelsFile
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if cfg.MigrateOnStart {
		if err := migrations.RunMigrations(cfg.DatabaseURL, "migrations"); err != nil {
			log.Fatalf("Failed to run migrations: %v", err)
		}
	}

	// The level cache is invalidated on import when Redis is reachable.
	rdb, err := redis.Connect(cfg.RedisURL)
	if err != nil {
		log.Warnf("Redis unavailable, level cache will expire on its own: %v", err)
		rdb = nil
	} else {
		defer rdb.Close()
	}

	var data []game.LevelData
	if path == "" {
		log.Infof("No level file given; seeding the default level")
		data = []game.LevelData{game.LevelDataFrom(game.DefaultLevel())}
	} else {
		raw, err := os.ReadFile(path)
		if err != nil {
			log.Fatalf("Failed to read %s: %v", path, err)
		}
		data, err = game.ParseLevelFile(raw)
		if err != nil {
			log.Fatalf("Failed to parse %s: %v", path, err)
		}
	}

	for i := range data {
		if err := data[i].Validate(); err != nil {
			log.Fatalf("Level %d: %v", i, err)
		}
	}

	repo := levels.NewRepository(db, rdb)
	n, err := repo.Import(context.Background(), data, *replace)
	if err != nil {
		log.Fatalf("Failed to import levels: %v", err)
	}

	log.Infof("✓ Imported %d levels (replace=%v)", n, *replace)
}
