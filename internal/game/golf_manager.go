package game

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/playmatatu/minigolf/internal/config"
	"github.com/playmatatu/minigolf/internal/logging"
	rediskeys "github.com/playmatatu/minigolf/internal/redis"
	"github.com/redis/go-redis/v9"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrTooManyPlayers  = fmt.Errorf("a session takes at most %d players", MaxPlayers)
)

// LevelSource supplies the levels a new session plays.
type LevelSource interface {
	ListLevels(ctx context.Context) ([]*Level, error)
	LevelsByID(ctx context.Context, ids []int) ([]*Level, error)
}

// GameManager owns every live session on this instance.
type GameManager struct {
	sessions map[string]*GolfGameState // keyed by session ID
	byToken  map[string]string         // token -> session ID
	levels   LevelSource
	rdb      *redis.Client
	db       *sqlx.DB
	config   *config.Config
	mu       sync.RWMutex
}

var (
	// Global session manager instance
	Manager *GameManager
)

// InitializeManager sets up the global manager. Workers are started by the caller.
func InitializeManager(db *sqlx.DB, rdb *redis.Client, cfg *config.Config, levels LevelSource) {
	Manager = NewGameManager(db, rdb, cfg, levels)
}

// NewGameManager creates a manager. Any collaborator may be nil: without a
// level source every session plays the default level, and without Redis or
// Postgres nothing is persisted.
func NewGameManager(db *sqlx.DB, rdb *redis.Client, cfg *config.Config, levels LevelSource) *GameManager {
	if cfg == nil {
		cfg = &config.Config{}
	}
	return &GameManager{
		sessions: make(map[string]*GolfGameState),
		byToken:  make(map[string]string),
		levels:   levels,
		rdb:      rdb,
		db:       db,
		config:   cfg,
	}
}

// generateToken generates a secure random token
func generateToken(length int) string {
	bytes := make([]byte, length)
	rand.Read(bytes)
	return hex.EncodeToString(bytes)
}

// CreateSession starts a new session for the named players. With levelIDs the
// session plays exactly those levels in that order; otherwise every level the
// source has. An empty result falls back to the default level.
func (gm *GameManager) CreateSession(ctx context.Context, players []string, levelIDs []int) (*GolfGameState, error) {
	if len(players) > MaxPlayers {
		return nil, ErrTooManyPlayers
	}

	var lvls []*Level
	if gm.levels != nil {
		var err error
		if len(levelIDs) > 0 {
			lvls, err = gm.levels.LevelsByID(ctx, levelIDs)
			if err != nil {
				return nil, err
			}
		} else {
			lvls, err = gm.levels.ListLevels(ctx)
			if err != nil {
				logging.L().Warnf("[SESSION] Level source failed, using default level: %v", err)
				lvls = nil
			}
		}
	}
	if len(lvls) == 0 {
		logging.L().Infof("[SESSION] No levels available, using default level")
	}

	g := NewGolfGame(uuid.NewString(), generateToken(16), players, lvls, gm.config.CanvasWidth, gm.config.CanvasHeight)

	gm.mu.Lock()
	gm.sessions[g.ID] = g
	gm.byToken[g.Token] = g.ID
	gm.mu.Unlock()

	logging.L().Infof("[SESSION] Created session %s (players=%d levels=%d)", g.ID, len(g.Players), len(g.Levels))

	gm.Touch(g)
	if err := gm.SaveSession(ctx, g); err != nil {
		logging.L().Warnf("[SESSION] Failed to save session %s to Redis: %v", g.ID, err)
	}
	return g, nil
}

// GetSession retrieves a session by ID.
func (gm *GameManager) GetSession(id string) (*GolfGameState, error) {
	gm.mu.RLock()
	defer gm.mu.RUnlock()

	g, ok := gm.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return g, nil
}

// GetSessionByToken retrieves a session by token, restoring it from Redis when
// it is not in memory.
func (gm *GameManager) GetSessionByToken(token string) (*GolfGameState, error) {
	gm.mu.RLock()
	id, ok := gm.byToken[token]
	g := gm.sessions[id]
	gm.mu.RUnlock()
	if ok && g != nil {
		return g, nil
	}

	g, err := gm.loadSessionFromRedis(context.Background(), token)
	if err != nil {
		return nil, ErrSessionNotFound
	}

	gm.mu.Lock()
	if existingID, ok := gm.byToken[token]; ok {
		// Lost a race with another loader.
		existing := gm.sessions[existingID]
		gm.mu.Unlock()
		return existing, nil
	}
	gm.sessions[g.ID] = g
	gm.byToken[g.Token] = g.ID
	gm.mu.Unlock()

	logging.L().Infof("[SESSION] Restored session %s from Redis", g.ID)
	return g, nil
}

// EndSession finishes a session with status and drops it from memory. The
// final snapshot stays in Redis until it expires.
func (gm *GameManager) EndSession(id string, status GameStatus) error {
	gm.mu.Lock()
	g, ok := gm.sessions[id]
	if !ok {
		gm.mu.Unlock()
		return ErrSessionNotFound
	}
	delete(gm.sessions, id)
	delete(gm.byToken, g.Token)
	gm.mu.Unlock()

	g.End(status)

	ctx := context.Background()
	if err := gm.SaveSession(ctx, g); err != nil {
		logging.L().Warnf("[SESSION] Failed to save final state of %s: %v", id, err)
	}
	if gm.rdb != nil {
		gm.rdb.ZRem(ctx, rediskeys.IdleSetKey, g.Token)
	}

	logging.L().Infof("[SESSION] Ended session %s (%s)", id, status)
	return nil
}

// ActiveCount returns the number of sessions held in memory.
func (gm *GameManager) ActiveCount() int {
	gm.mu.RLock()
	defer gm.mu.RUnlock()
	return len(gm.sessions)
}

// Sessions returns the live sessions in no particular order.
func (gm *GameManager) Sessions() []*GolfGameState {
	gm.mu.RLock()
	defer gm.mu.RUnlock()

	out := make([]*GolfGameState, 0, len(gm.sessions))
	for _, g := range gm.sessions {
		out = append(out, g)
	}
	return out
}

// TickOutcome pairs a session with what its last tick produced.
type TickOutcome struct {
	Session *GolfGameState
	Result  TickResult
}

// TickAll advances every in-progress session by one tick. Completed levels
// are recorded and the session saved in the background.
func (gm *GameManager) TickAll() []TickOutcome {
	sessions := gm.Sessions()
	outcomes := make([]TickOutcome, 0, len(sessions))

	for _, g := range sessions {
		if g.GetStatus() != StatusInProgress {
			continue
		}
		res := g.Tick()
		if res.LevelCompleted != nil {
			result := *res.LevelCompleted
			go func(g *GolfGameState) {
				gm.RecordLevelResult(g.ID, result)
				if err := gm.SaveSession(context.Background(), g); err != nil {
					logging.L().Warnf("[SESSION] Failed to save session %s: %v", g.ID, err)
				}
			}(g)
		}
		outcomes = append(outcomes, TickOutcome{Session: g, Result: res})
	}
	return outcomes
}

// Touch pushes the session's idle deadline forward.
func (gm *GameManager) Touch(g *GolfGameState) {
	if gm.rdb == nil {
		return
	}
	idle := time.Duration(gm.idleMinutes()) * time.Minute
	deadline := time.Now().Add(idle).Unix()
	if err := gm.rdb.ZAdd(context.Background(), rediskeys.IdleSetKey, redis.Z{Score: float64(deadline), Member: g.Token}).Err(); err != nil {
		logging.L().Warnf("[IDLE] Failed to refresh idle deadline for %s: %v", g.ID, err)
	}
}

func (gm *GameManager) idleMinutes() int {
	if gm.config.SessionIdleMinutes > 0 {
		return gm.config.SessionIdleMinutes
	}
	return 30
}

// RecordLevelResult stores a finished level in Postgres.
func (gm *GameManager) RecordLevelResult(sessionID string, r LevelResult) {
	if gm == nil || gm.db == nil {
		return
	}

	strokes := make([]int64, len(r.Strokes))
	for i, s := range r.Strokes {
		strokes[i] = int64(s)
	}
	var levelID *int
	if r.LevelID > 0 {
		id := r.LevelID
		levelID = &id
	}

	_, err := gm.db.Exec(
		`INSERT INTO level_results (session_id, level_index, level_id, level_name, strokes, completed_at) VALUES ($1,$2,$3,$4,$5,$6)`,
		sessionID, r.LevelIndex, levelID, r.LevelName, pq.Array(strokes), r.CompletedAt,
	)
	if err != nil {
		logging.L().Errorf("[DB] Failed to record level result for session %s: %v", sessionID, err)
	}
}
