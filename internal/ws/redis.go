package ws

import (
	"context"
	"encoding/json"
	"time"

	"github.com/playmatatu/minigolf/internal/game"
	"github.com/playmatatu/minigolf/internal/logging"
	rediskeys "github.com/playmatatu/minigolf/internal/redis"
	"github.com/redis/go-redis/v9"
)

var rdbClient *redis.Client

func SetRedisClient(r *redis.Client) {
	rdbClient = r
}

// StartEventSubscriber relays session events published on golf_events to the
// connected clients. It blocks until ctx is done.
func StartEventSubscriber(ctx context.Context) {
	if rdbClient == nil {
		logging.L().Infof("[WS] Redis client not set; event subscriber not started")
		return
	}

	pubsub := rdbClient.Subscribe(ctx, rediskeys.EventsChannel)
	defer pubsub.Close()
	ch := pubsub.Channel()

	logging.L().Infof("[WS] %s subscriber started", rediskeys.EventsChannel)
	for {
		select {
		case <-ctx.Done():
			logging.L().Infof("[WS] Event subscriber stopping")
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			handleSessionEvent([]byte(msg.Payload))
		}
	}
}

func handleSessionEvent(raw []byte) {
	var ev game.SessionEvent
	if err := json.Unmarshal(raw, &ev); err != nil {
		logging.L().Warnf("[WS] Invalid event payload: %v", err)
		return
	}

	switch ev.Type {
	case game.EventSessionExpired:
		if GameHub.RoomSize(ev.SessionID) == 0 {
			logging.L().Debugf("[WS] No room for session %s; expiry not broadcast", ev.SessionID)
			return
		}
		GameHub.BroadcastToGame(ev.SessionID, map[string]interface{}{
			"type":    ev.Type,
			"message": ev.Message,
		})
		// Give the write pumps a moment to flush the notice.
		time.AfterFunc(time.Second, func() { GameHub.CloseRoom(ev.SessionID, ev.Type) })

	default:
		logging.L().Debugf("[WS] Unknown event type: %s", ev.Type)
	}
}
