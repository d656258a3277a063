package game

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/playmatatu/minigolf/internal/config"
	"github.com/playmatatu/minigolf/internal/logging"
	rediskeys "github.com/playmatatu/minigolf/internal/redis"
	"github.com/redis/go-redis/v9"
)

// EventSessionExpired is published on the events channel when the idle
// worker ends a session.
const EventSessionExpired = "session_expired"

// SessionEvent is the payload published on the events channel.
type SessionEvent struct {
	Type         string `json:"type"`
	SessionID    string `json:"session_id"`
	SessionToken string `json:"session_token"`
	Message      string `json:"message,omitempty"`
}

// StartIdleWorker expires sessions whose idle deadline in the golf_idle
// sorted set has passed. It blocks until ctx is done.
func StartIdleWorker(ctx context.Context, gm *GameManager, rdb *redis.Client, cfg *config.Config) {
	if rdb == nil || cfg == nil || gm == nil {
		logging.L().Infof("[IDLE] Redis or config missing; idle worker not started")
		return
	}

	poll := time.Duration(cfg.IdleWorkerPollSeconds) * time.Second
	if poll <= 0 {
		poll = 15 * time.Second
	}
	ticker := time.NewTicker(poll)
	defer ticker.Stop()

	logging.L().Infof("[IDLE] Idle worker started (poll every %v)", poll)
	for {
		select {
		case <-ctx.Done():
			logging.L().Infof("[IDLE] Idle worker stopping")
			return
		case <-ticker.C:
			expireIdleSessions(ctx, gm, rdb)
		}
	}
}

func expireIdleSessions(ctx context.Context, gm *GameManager, rdb *redis.Client) {
	now := time.Now().Unix()
	members, err := rdb.ZRangeByScore(ctx, rediskeys.IdleSetKey, &redis.ZRangeBy{Min: "-inf", Max: fmt.Sprintf("%d", now)}).Result()
	if err != nil {
		logging.L().Warnf("[IDLE] Failed to fetch idle sessions: %v", err)
		return
	}

	for _, token := range members {
		// Whoever removes the member owns the expiry.
		if removed, _ := rdb.ZRem(ctx, rediskeys.IdleSetKey, token).Result(); removed == 0 {
			continue
		}

		g, err := gm.GetSessionByToken(token)
		if err != nil {
			continue
		}

		// Input may have arrived after the deadline was read.
		if g.IdleFor() < time.Duration(gm.idleMinutes())*time.Minute {
			gm.Touch(g)
			continue
		}

		if err := gm.EndSession(g.ID, StatusExpired); err != nil {
			logging.L().Warnf("[IDLE] Failed to end session %s: %v", g.ID, err)
			continue
		}

		payload, _ := json.Marshal(SessionEvent{
			Type:         EventSessionExpired,
			SessionID:    g.ID,
			SessionToken: token,
			Message:      "Session ended after inactivity",
		})
		if n, err := rdb.Publish(ctx, rediskeys.EventsChannel, payload).Result(); err != nil {
			logging.L().Warnf("[IDLE] Publish expiry failed: session=%s err=%v", g.ID, err)
		} else {
			logging.L().Infof("[IDLE] Expired session %s (subscribers=%d)", g.ID, n)
		}
	}
}
