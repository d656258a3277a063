package game

// BallView is a ball as the client draws it.
type BallView struct {
	Player   int     `json:"player"`
	Position Vec2    `json:"position"`
	Radius   float64 `json:"radius"`
	Height   float64 `json:"height"`
	Resting  bool    `json:"resting"`
}

// ObstacleView is an obstacle with its world transform resolved. Moving
// platforms report their interpolated position.
type ObstacleView struct {
	Type     string  `json:"type"`
	Position Vec2    `json:"position"`
	Width    float64 `json:"w,omitempty"`
	Height   float64 `json:"h,omitempty"`
	Angle    float64 `json:"angle,omitempty"`
	Radius   float64 `json:"r,omitempty"`
	Strength float64 `json:"strength,omitempty"`
	Start    *Vec2   `json:"start,omitempty"`
	End      *Vec2   `json:"end,omitempty"`
}

// SessionSnapshot is the read-only render query for one session.
type SessionSnapshot struct {
	ID             string         `json:"id"`
	Token          string         `json:"token"`
	Status         GameStatus     `json:"status"`
	Tick           int64          `json:"tick"`
	Width          float64        `json:"width"`
	Height         float64        `json:"height"`
	LevelIndex     int            `json:"level_index"`
	LevelCount     int            `json:"level_count"`
	LevelName      string         `json:"level_name"`
	Boundary       []Vec2         `json:"boundary"`
	BoundaryClosed bool           `json:"boundary_closed"`
	Obstacles      []ObstacleView `json:"obstacles"`
	Hole           Hole           `json:"hole"`
	Start          Vec2           `json:"start"`
	Balls          []BallView     `json:"balls"`
	Players        []GolfPlayer   `json:"players"`
	CurrentPlayer  int            `json:"current_player"`
	LevelOver      bool           `json:"level_over"`
	AimStart       *Vec2          `json:"aim_start,omitempty"`
	Results        []LevelResult  `json:"results"`
}

// Snapshot copies everything a client needs to draw the current frame.
func (g *GolfGameState) Snapshot() SessionSnapshot {
	g.mu.RLock()
	defer g.mu.RUnlock()

	lvl := g.currentLevel()
	s := SessionSnapshot{
		ID:             g.ID,
		Token:          g.Token,
		Status:         g.Status,
		Tick:           g.TickCount,
		Width:          g.Width,
		Height:         g.Height,
		LevelIndex:     g.LevelIndex,
		LevelCount:     len(g.Levels),
		LevelName:      lvl.Name,
		Boundary:       make([]Vec2, len(lvl.Boundary.Points)),
		BoundaryClosed: lvl.Boundary.IsClosed(),
		Obstacles:      make([]ObstacleView, 0, len(lvl.Obstacles)),
		Hole:           lvl.Hole(),
		Start:          lvl.Start,
		Balls:          make([]BallView, len(g.Balls)),
		Players:        make([]GolfPlayer, len(g.Players)),
		CurrentPlayer:  g.CurrentPlayer,
		LevelOver:      g.LevelOver,
		Results:        make([]LevelResult, len(g.Results)),
	}
	copy(s.Boundary, lvl.Boundary.Points)
	copy(s.Results, g.Results)

	for i := range lvl.Obstacles {
		s.Obstacles = append(s.Obstacles, viewOf(&lvl.Obstacles[i]))
	}
	for i, b := range g.Balls {
		s.Balls[i] = BallView{Player: i, Position: b.Position, Radius: b.Radius, Height: b.Height, Resting: b.IsResting()}
	}
	for i, p := range g.Players {
		s.Players[i] = *p
	}
	if start, ok := g.shot.AimStart(); ok {
		s.AimStart = &start
	}
	return s
}

func viewOf(o *Obstacle) ObstacleView {
	v := ObstacleView{Type: string(o.Kind)}
	v.Position, _ = o.WorldPosition()
	switch {
	case o.Box != nil:
		v.Width, v.Height, v.Angle = o.Box.Width, o.Box.Height, o.Box.Angle
	case o.Disc != nil:
		v.Radius, v.Strength = o.Disc.Radius, o.Disc.Strength
	case o.Platform != nil:
		p := o.Platform
		start, end := p.Start, p.End
		v.Width, v.Height, v.Angle = p.Width, p.Height, p.Angle
		v.Start, v.End = &start, &end
	}
	return v
}
