package game

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	rediskeys "github.com/playmatatu/minigolf/internal/redis"
)

// sessionRecord is the Redis form of a session: enough to resume play.
type sessionRecord struct {
	ID             string          `json:"id"`
	Token          string          `json:"token"`
	Players        []*GolfPlayer   `json:"players"`
	Balls          []*Ball         `json:"balls"`
	CurrentPlayer  int             `json:"current_player"`
	Levels         []LevelData     `json:"levels"`
	LevelIDs       []int           `json:"level_ids"`
	LevelIndex     int             `json:"level_index"`
	Status         GameStatus      `json:"status"`
	LevelOver      bool            `json:"level_over"`
	LevelOverTicks int             `json:"level_over_ticks"`
	TickCount      int64           `json:"tick"`
	Width          float64         `json:"width"`
	Height         float64         `json:"height"`
	Results        []LevelResult   `json:"results"`
	CreatedAt      time.Time       `json:"created_at"`
	StartedAt      *time.Time      `json:"started_at,omitempty"`
	CompletedAt    *time.Time      `json:"completed_at,omitempty"`
	LastActivity   time.Time       `json:"last_activity"`
	Snapshot       SessionSnapshot `json:"snapshot"`
}

func (g *GolfGameState) record() sessionRecord {
	snap := g.Snapshot()

	g.mu.RLock()
	defer g.mu.RUnlock()

	rec := sessionRecord{
		ID:             g.ID,
		Token:          g.Token,
		Players:        make([]*GolfPlayer, len(g.Players)),
		Balls:          make([]*Ball, len(g.Balls)),
		CurrentPlayer:  g.CurrentPlayer,
		Levels:         make([]LevelData, len(g.Levels)),
		LevelIDs:       make([]int, len(g.Levels)),
		LevelIndex:     g.LevelIndex,
		Status:         g.Status,
		LevelOver:      g.LevelOver,
		LevelOverTicks: g.levelOverTicks,
		TickCount:      g.TickCount,
		Width:          g.Width,
		Height:         g.Height,
		Results:        append([]LevelResult(nil), g.Results...),
		CreatedAt:      g.CreatedAt,
		StartedAt:      g.StartedAt,
		CompletedAt:    g.CompletedAt,
		LastActivity:   g.LastActivity,
		Snapshot:       snap,
	}
	for i, p := range g.Players {
		cp := *p
		rec.Players[i] = &cp
	}
	for i, b := range g.Balls {
		cb := *b
		rec.Balls[i] = &cb
	}
	for i, l := range g.Levels {
		rec.Levels[i] = LevelDataFrom(l)
		rec.LevelIDs[i] = l.ID
	}
	return rec
}

func restoreSession(rec sessionRecord) (*GolfGameState, error) {
	if len(rec.Levels) == 0 || len(rec.Players) == 0 || len(rec.Balls) != len(rec.Players) {
		return nil, errors.New("incomplete session record")
	}

	levels := make([]*Level, len(rec.Levels))
	for i, d := range rec.Levels {
		levels[i] = d.ToLevel()
		if i < len(rec.LevelIDs) {
			levels[i].ID = rec.LevelIDs[i]
		}
	}

	g := &GolfGameState{
		ID:             rec.ID,
		Token:          rec.Token,
		Players:        rec.Players,
		Balls:          rec.Balls,
		CurrentPlayer:  rec.CurrentPlayer,
		Levels:         levels,
		LevelIndex:     rec.LevelIndex,
		Status:         rec.Status,
		LevelOver:      rec.LevelOver,
		TickCount:      rec.TickCount,
		Width:          rec.Width,
		Height:         rec.Height,
		Results:        rec.Results,
		CreatedAt:      rec.CreatedAt,
		StartedAt:      rec.StartedAt,
		CompletedAt:    rec.CompletedAt,
		LastActivity:   rec.LastActivity,
		levelOverTicks: rec.LevelOverTicks,
		resolver:       NewCollisionResolver(),
	}
	if g.LevelIndex < 0 || g.LevelIndex >= len(levels) {
		g.LevelIndex = 0
	}
	if g.CurrentPlayer < 0 || g.CurrentPlayer >= len(g.Players) {
		g.CurrentPlayer = 0
	}
	if g.Results == nil {
		g.Results = []LevelResult{}
	}
	return g, nil
}

// SaveSession writes the session to Redis with a one hour expiry.
func (gm *GameManager) SaveSession(ctx context.Context, g *GolfGameState) error {
	if gm.rdb == nil {
		return nil
	}
	data, err := json.Marshal(g.record())
	if err != nil {
		return err
	}
	return gm.rdb.SetEx(ctx, rediskeys.SessionStateKey(g.Token), data, rediskeys.SessionStateTTL).Err()
}

// loadSessionFromRedis restores a live session saved by SaveSession. Finished
// sessions are not restored.
func (gm *GameManager) loadSessionFromRedis(ctx context.Context, token string) (*GolfGameState, error) {
	if gm.rdb == nil {
		return nil, errors.New("no redis client")
	}

	data, err := gm.rdb.Get(ctx, rediskeys.SessionStateKey(token)).Bytes()
	if err != nil {
		return nil, err
	}

	var rec sessionRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, err
	}
	if rec.Status.IsFinal() {
		return nil, ErrSessionNotFound
	}
	return restoreSession(rec)
}
