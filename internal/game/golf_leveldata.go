package game

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"

	"gopkg.in/yaml.v3"
)

// LevelData is the persisted shape of a level, shared with level files and
// the level store. Field names follow the saved-level format.
type LevelData struct {
	Name           string         `json:"name,omitempty" yaml:"name,omitempty"`
	BoundaryPoints []Vec2         `json:"boundaryPoints" yaml:"boundaryPoints"`
	StartPos       Vec2           `json:"startPos" yaml:"startPos"`
	HolePos        Vec2           `json:"holePos" yaml:"holePos"`
	Obstacles      []ObstacleData `json:"obstacles" yaml:"obstacles"`
}

// ObstacleData is the flat persisted obstacle. Only the fields relevant to
// Type are read; the rest are ignored.
type ObstacleData struct {
	Type         string  `json:"type" yaml:"type"`
	X            float64 `json:"x,omitempty" yaml:"x,omitempty"`
	Y            float64 `json:"y,omitempty" yaml:"y,omitempty"`
	W            float64 `json:"w,omitempty" yaml:"w,omitempty"`
	H            float64 `json:"h,omitempty" yaml:"h,omitempty"`
	Angle        float64 `json:"angle,omitempty" yaml:"angle,omitempty"`
	R            float64 `json:"r,omitempty" yaml:"r,omitempty"`
	Strength     float64 `json:"strength,omitempty" yaml:"strength,omitempty"`
	StartX       float64 `json:"startX,omitempty" yaml:"startX,omitempty"`
	StartY       float64 `json:"startY,omitempty" yaml:"startY,omitempty"`
	EndX         float64 `json:"endX,omitempty" yaml:"endX,omitempty"`
	EndY         float64 `json:"endY,omitempty" yaml:"endY,omitempty"`
	Speed        float64 `json:"speed,omitempty" yaml:"speed,omitempty"`
	T            float64 `json:"t,omitempty" yaml:"t,omitempty"`
	GoingForward bool    `json:"goingForward,omitempty" yaml:"goingForward,omitempty"`
}

var ErrEmptyLevelFile = errors.New("level file is empty")

// ToObstacle converts the flat record into the tagged variant. Unknown types
// keep their name and carry no payload, which makes them inert.
func (d ObstacleData) ToObstacle() Obstacle {
	kind := ObstacleKind(d.Type)
	pos := Vec2{X: d.X, Y: d.Y}
	switch kind {
	case KindRect, KindWater, KindJump:
		return Obstacle{Kind: kind, Box: &BoxParams{Position: pos, Width: d.W, Height: d.H, Angle: d.Angle}}
	case KindCircle, KindRepulsion, KindSpeedUp, KindSlowDown:
		return Obstacle{Kind: kind, Disc: &DiscParams{Position: pos, Radius: d.R, Strength: d.Strength}}
	case KindMovingRect:
		return Obstacle{Kind: kind, Platform: &PlatformParams{
			Start:   Vec2{X: d.StartX, Y: d.StartY},
			End:     Vec2{X: d.EndX, Y: d.EndY},
			Width:   d.W,
			Height:  d.H,
			Angle:   d.Angle,
			Speed:   d.Speed,
			T:       d.T,
			Forward: d.GoingForward,
		}}
	}
	return Obstacle{Kind: kind}
}

// ObstacleDataFrom flattens an obstacle for persistence.
func ObstacleDataFrom(o Obstacle) ObstacleData {
	d := ObstacleData{Type: string(o.Kind)}
	switch {
	case o.Box != nil:
		d.X, d.Y = o.Box.Position.X, o.Box.Position.Y
		d.W, d.H, d.Angle = o.Box.Width, o.Box.Height, o.Box.Angle
	case o.Disc != nil:
		d.X, d.Y = o.Disc.Position.X, o.Disc.Position.Y
		d.R, d.Strength = o.Disc.Radius, o.Disc.Strength
	case o.Platform != nil:
		p := o.Platform
		pos := p.Position()
		d.X, d.Y = pos.X, pos.Y
		d.StartX, d.StartY = p.Start.X, p.Start.Y
		d.EndX, d.EndY = p.End.X, p.End.Y
		d.W, d.H, d.Angle = p.Width, p.Height, p.Angle
		d.Speed, d.T, d.GoingForward = p.Speed, p.T, p.Forward
	}
	return d
}

// ToLevel builds a playable level from the persisted shape.
func (d LevelData) ToLevel() *Level {
	pts := make([]Vec2, len(d.BoundaryPoints))
	copy(pts, d.BoundaryPoints)
	lvl := &Level{
		Name:         d.Name,
		Boundary:     CourseBoundary{Points: pts},
		Obstacles:    make([]Obstacle, 0, len(d.Obstacles)),
		Start:        d.StartPos,
		HolePosition: d.HolePos,
	}
	for _, od := range d.Obstacles {
		lvl.Obstacles = append(lvl.Obstacles, od.ToObstacle())
	}
	return lvl
}

// LevelDataFrom serialises a level back to the persisted shape.
func LevelDataFrom(l *Level) LevelData {
	d := LevelData{
		Name:           l.Name,
		BoundaryPoints: make([]Vec2, len(l.Boundary.Points)),
		StartPos:       l.Start,
		HolePos:        l.HolePosition,
		Obstacles:      make([]ObstacleData, 0, len(l.Obstacles)),
	}
	copy(d.BoundaryPoints, l.Boundary.Points)
	for _, o := range l.Obstacles {
		d.Obstacles = append(d.Obstacles, ObstacleDataFrom(o))
	}
	return d
}

// ParseLevelFile decodes a level file. JSON input may be an array of levels
// or a single level object; anything else is tried as YAML with the same keys.
func ParseLevelFile(data []byte) ([]LevelData, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, ErrEmptyLevelFile
	}

	switch trimmed[0] {
	case '[':
		var levels []LevelData
		if err := json.Unmarshal(trimmed, &levels); err != nil {
			return nil, fmt.Errorf("failed to decode level array: %w", err)
		}
		return levels, nil
	case '{':
		var lvl LevelData
		if err := json.Unmarshal(trimmed, &lvl); err != nil {
			return nil, fmt.Errorf("failed to decode level: %w", err)
		}
		return []LevelData{lvl}, nil
	}

	var levels []LevelData
	if err := yaml.Unmarshal(trimmed, &levels); err == nil {
		return levels, nil
	}
	var lvl LevelData
	if err := yaml.Unmarshal(trimmed, &lvl); err != nil {
		return nil, fmt.Errorf("failed to decode level yaml: %w", err)
	}
	return []LevelData{lvl}, nil
}

// Limits accepted from level uploads.
const (
	MaxLevelNameLength = 100
	MaxBoundaryPoints  = 1000
	MaxObstacles       = 500
)

var ErrInvalidLevel = errors.New("invalid level")

// Validate rejects levels that cannot be stored. Unknown obstacle types are
// allowed; they load as inert obstacles.
func (d LevelData) Validate() error {
	if len(d.Name) > MaxLevelNameLength {
		return fmt.Errorf("%w: name longer than %d characters", ErrInvalidLevel, MaxLevelNameLength)
	}
	if len(d.BoundaryPoints) > MaxBoundaryPoints {
		return fmt.Errorf("%w: more than %d boundary points", ErrInvalidLevel, MaxBoundaryPoints)
	}
	if len(d.Obstacles) > MaxObstacles {
		return fmt.Errorf("%w: more than %d obstacles", ErrInvalidLevel, MaxObstacles)
	}
	for i, p := range d.BoundaryPoints {
		if !finite(p.X, p.Y) {
			return fmt.Errorf("%w: boundary point %d is not finite", ErrInvalidLevel, i)
		}
	}
	if !finite(d.StartPos.X, d.StartPos.Y, d.HolePos.X, d.HolePos.Y) {
		return fmt.Errorf("%w: start or hole position is not finite", ErrInvalidLevel)
	}
	for i, o := range d.Obstacles {
		if o.Type == "" {
			return fmt.Errorf("%w: obstacle %d has no type", ErrInvalidLevel, i)
		}
		if !finite(o.X, o.Y, o.W, o.H, o.Angle, o.R, o.Strength,
			o.StartX, o.StartY, o.EndX, o.EndY, o.Speed, o.T) {
			return fmt.Errorf("%w: obstacle %d has a non-finite value", ErrInvalidLevel, i)
		}
		if ObstacleKind(o.Type) == KindMovingRect {
			if o.Speed < 0 {
				return fmt.Errorf("%w: obstacle %d has a negative speed", ErrInvalidLevel, i)
			}
			if o.T < 0 || o.T > 1 {
				return fmt.Errorf("%w: obstacle %d has t outside [0,1]", ErrInvalidLevel, i)
			}
		}
	}
	return nil
}

func finite(vs ...float64) bool {
	for _, v := range vs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
