package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Key layout shared by the session manager, level cache and idle worker.
const (
	SessionStateTTL = time.Hour
	LevelCacheTTL   = 10 * time.Minute

	LevelListKey  = "golf:levels"
	IdleSetKey    = "golf_idle"
	EventsChannel = "golf_events"
)

// SessionStateKey is where a session snapshot is stored.
func SessionStateKey(token string) string {
	return "golf:" + token + ":state"
}

// Connect establishes a connection to Redis
func Connect(redisURL string) (*redis.Client, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}

	client := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	return client, nil
}
