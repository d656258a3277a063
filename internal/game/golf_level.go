package game

// Hole is the cup. A ball is in when it is grounded and its centre is within Radius.
type Hole struct {
	Position Vec2    `json:"position"`
	Radius   float64 `json:"radius"`
}

func (h Hole) Contains(b *Ball) bool {
	if b.Height != 0 {
		return false
	}
	return h.Position.Distance(b.Position) <= h.Radius
}

// Level is one course: boundary, obstacles, tee and cup. Obstacle order is the
// collision iteration order.
type Level struct {
	ID           int            `json:"id,omitempty"`
	Name         string         `json:"name,omitempty"`
	Boundary     CourseBoundary `json:"boundary"`
	Obstacles    []Obstacle     `json:"obstacles"`
	Start        Vec2           `json:"start"`
	HolePosition Vec2           `json:"hole_position"`
}

// Hole returns the cup for this level with the standard radius.
func (l *Level) Hole() Hole {
	return Hole{Position: l.HolePosition, Radius: HoleRadius}
}

// Clone deep-copies the level so a session can animate its own platforms.
func (l *Level) Clone() *Level {
	c := &Level{
		ID:           l.ID,
		Name:         l.Name,
		Boundary:     l.Boundary.Clone(),
		Obstacles:    make([]Obstacle, len(l.Obstacles)),
		Start:        l.Start,
		HolePosition: l.HolePosition,
	}
	for i, o := range l.Obstacles {
		c.Obstacles[i] = o.Clone()
	}
	return c
}

// DefaultLevel is the built-in course the host falls back to when no levels
// are available. A plain rectangle with no obstacles.
func DefaultLevel() *Level {
	return &Level{
		Name: "Default",
		Boundary: CourseBoundary{Points: []Vec2{
			{X: 100, Y: 100}, {X: 1100, Y: 100}, {X: 1100, Y: 700}, {X: 100, Y: 700},
		}},
		Obstacles:    []Obstacle{},
		Start:        Vec2{X: 200, Y: 200},
		HolePosition: Vec2{X: 1000, Y: 600},
	}
}
