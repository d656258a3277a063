package models

import (
	"time"

	"github.com/jmoiron/sqlx/types"
	"github.com/lib/pq"
)

// LevelRecord is a stored level. Data holds the level in the saved-level JSON format.
type LevelRecord struct {
	ID        int            `db:"id" json:"id"`
	Name      string         `db:"name" json:"name"`
	Position  int            `db:"position" json:"position"`
	Data      types.JSONText `db:"data" json:"data"`
	CreatedAt time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt time.Time      `db:"updated_at" json:"updated_at"`
}

// LevelResultRecord is one finished level in a session, strokes indexed by player slot.
type LevelResultRecord struct {
	ID          int           `db:"id" json:"id"`
	SessionID   string        `db:"session_id" json:"session_id"`
	LevelIndex  int           `db:"level_index" json:"level_index"`
	LevelID     *int          `db:"level_id" json:"level_id,omitempty"`
	LevelName   string        `db:"level_name" json:"level_name"`
	Strokes     pq.Int64Array `db:"strokes" json:"strokes"`
	CompletedAt time.Time     `db:"completed_at" json:"completed_at"`
}
