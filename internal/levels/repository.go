package levels

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/jmoiron/sqlx/types"
	"github.com/playmatatu/minigolf/internal/game"
	"github.com/playmatatu/minigolf/internal/logging"
	"github.com/playmatatu/minigolf/internal/models"
	rediskeys "github.com/playmatatu/minigolf/internal/redis"
	"github.com/redis/go-redis/v9"
)

var (
	ErrLevelNotFound = errors.New("level not found")
	ErrNoLevels      = errors.New("no levels to import")
)

// Repository stores levels in Postgres and caches the ordered list in Redis.
// A nil Redis client disables caching.
type Repository struct {
	db  *sqlx.DB
	rdb *redis.Client
}

func NewRepository(db *sqlx.DB, rdb *redis.Client) *Repository {
	return &Repository{db: db, rdb: rdb}
}

const selectLevels = `SELECT id, name, position, data, created_at, updated_at FROM levels`

// List returns every stored level in play order.
func (r *Repository) List(ctx context.Context) ([]models.LevelRecord, error) {
	if cached, ok := r.cachedList(ctx); ok {
		return cached, nil
	}

	var recs []models.LevelRecord
	if err := r.db.SelectContext(ctx, &recs, selectLevels+` ORDER BY position, id`); err != nil {
		return nil, fmt.Errorf("failed to list levels: %w", err)
	}
	r.cacheList(ctx, recs)
	return recs, nil
}

// Get returns one stored level.
func (r *Repository) Get(ctx context.Context, id int) (*models.LevelRecord, error) {
	var rec models.LevelRecord
	err := r.db.GetContext(ctx, &rec, selectLevels+` WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrLevelNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get level %d: %w", id, err)
	}
	return &rec, nil
}

// Create appends a level at the end of the play order.
func (r *Repository) Create(ctx context.Context, data game.LevelData) (*models.LevelRecord, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("failed to encode level: %w", err)
	}

	var rec models.LevelRecord
	err = r.db.GetContext(ctx, &rec, `
		INSERT INTO levels (name, position, data, created_at, updated_at)
		VALUES ($1, (SELECT COALESCE(MAX(position), 0) + 1 FROM levels), $2, NOW(), NOW())
		RETURNING id, name, position, data, created_at, updated_at
	`, data.Name, types.JSONText(raw))
	if err != nil {
		return nil, fmt.Errorf("failed to insert level: %w", err)
	}

	r.invalidate(ctx)
	logging.L().Infof("[LEVELS] Created level %d (%q)", rec.ID, rec.Name)
	return &rec, nil
}

// Delete removes a level.
func (r *Repository) Delete(ctx context.Context, id int) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM levels WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete level %d: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrLevelNotFound
	}
	r.invalidate(ctx)
	logging.L().Infof("[LEVELS] Deleted level %d", id)
	return nil
}

// Import stores a batch of levels in file order inside one transaction. With
// replace set, existing levels are removed first.
func (r *Repository) Import(ctx context.Context, data []game.LevelData, replace bool) (int, error) {
	if len(data) == 0 {
		return 0, ErrNoLevels
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if replace {
		if _, err := tx.ExecContext(ctx, `DELETE FROM levels`); err != nil {
			return 0, fmt.Errorf("failed to clear levels: %w", err)
		}
	}

	var base int
	if err := tx.GetContext(ctx, &base, `SELECT COALESCE(MAX(position), 0) FROM levels`); err != nil {
		return 0, fmt.Errorf("failed to read level positions: %w", err)
	}

	for i, d := range data {
		raw, err := json.Marshal(d)
		if err != nil {
			return 0, fmt.Errorf("failed to encode level %d: %w", i, err)
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO levels (name, position, data, created_at, updated_at) VALUES ($1, $2, $3, NOW(), NOW())`,
			d.Name, base+i+1, types.JSONText(raw),
		); err != nil {
			return 0, fmt.Errorf("failed to insert level %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit level import: %w", err)
	}

	r.invalidate(ctx)
	logging.L().Infof("[LEVELS] Imported %d levels (replace=%v)", len(data), replace)
	return len(data), nil
}

// ListLevels returns playable copies of every stored level in order.
func (r *Repository) ListLevels(ctx context.Context) ([]*game.Level, error) {
	recs, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]*game.Level, 0, len(recs))
	for i := range recs {
		lvl, err := Decode(&recs[i])
		if err != nil {
			logging.L().Warnf("[LEVELS] Skipping level %d: %v", recs[i].ID, err)
			continue
		}
		out = append(out, lvl)
	}
	return out, nil
}

// LevelsByID returns the requested levels in the order given.
func (r *Repository) LevelsByID(ctx context.Context, ids []int) ([]*game.Level, error) {
	out := make([]*game.Level, 0, len(ids))
	for _, id := range ids {
		rec, err := r.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		lvl, err := Decode(rec)
		if err != nil {
			return nil, err
		}
		out = append(out, lvl)
	}
	return out, nil
}

// Decode turns a stored record into a playable level.
func Decode(rec *models.LevelRecord) (*game.Level, error) {
	var d game.LevelData
	if err := json.Unmarshal(rec.Data, &d); err != nil {
		return nil, fmt.Errorf("failed to decode level %d: %w", rec.ID, err)
	}
	lvl := d.ToLevel()
	lvl.ID = rec.ID
	if lvl.Name == "" {
		lvl.Name = rec.Name
	}
	return lvl, nil
}

// === Redis cache ===

func (r *Repository) cachedList(ctx context.Context) ([]models.LevelRecord, bool) {
	if r.rdb == nil {
		return nil, false
	}
	raw, err := r.rdb.Get(ctx, rediskeys.LevelListKey).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			logging.L().Warnf("[LEVELS] Cache read failed: %v", err)
		}
		return nil, false
	}
	var recs []models.LevelRecord
	if err := json.Unmarshal(raw, &recs); err != nil {
		logging.L().Warnf("[LEVELS] Discarding bad cache entry: %v", err)
		return nil, false
	}
	return recs, true
}

func (r *Repository) cacheList(ctx context.Context, recs []models.LevelRecord) {
	if r.rdb == nil {
		return
	}
	raw, err := json.Marshal(recs)
	if err != nil {
		return
	}
	if err := r.rdb.SetEx(ctx, rediskeys.LevelListKey, raw, rediskeys.LevelCacheTTL).Err(); err != nil {
		logging.L().Warnf("[LEVELS] Cache write failed: %v", err)
	}
}

func (r *Repository) invalidate(ctx context.Context) {
	if r.rdb == nil {
		return
	}
	if err := r.rdb.Del(ctx, rediskeys.LevelListKey).Err(); err != nil {
		logging.L().Warnf("[LEVELS] Cache invalidation failed: %v", err)
	}
}
