package levels

import (
	"context"
	"fmt"
	"os"

	"github.com/playmatatu/minigolf/internal/game"
)

// StaticSource serves a fixed list of levels, usually read from a level file.
type StaticSource struct {
	levels []*game.Level
}

func NewStaticSource(data []game.LevelData) *StaticSource {
	s := &StaticSource{levels: make([]*game.Level, len(data))}
	for i, d := range data {
		lvl := d.ToLevel()
		lvl.ID = i + 1
		if lvl.Name == "" {
			lvl.Name = fmt.Sprintf("Level %d", i+1)
		}
		s.levels[i] = lvl
	}
	return s
}

// LoadFile reads a JSON or YAML level file into a StaticSource.
func LoadFile(path string) (*StaticSource, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read level file %s: %w", path, err)
	}
	data, err := game.ParseLevelFile(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to parse level file %s: %w", path, err)
	}
	for i := range data {
		if err := data[i].Validate(); err != nil {
			return nil, fmt.Errorf("level %d in %s: %w", i, path, err)
		}
	}
	return NewStaticSource(data), nil
}

func (s *StaticSource) ListLevels(ctx context.Context) ([]*game.Level, error) {
	out := make([]*game.Level, len(s.levels))
	for i, l := range s.levels {
		out[i] = l.Clone()
	}
	return out, nil
}

// LevelsByID looks levels up by their 1-based position in the file.
func (s *StaticSource) LevelsByID(ctx context.Context, ids []int) ([]*game.Level, error) {
	out := make([]*game.Level, 0, len(ids))
	for _, id := range ids {
		if id < 1 || id > len(s.levels) {
			return nil, ErrLevelNotFound
		}
		out = append(out, s.levels[id-1].Clone())
	}
	return out, nil
}
