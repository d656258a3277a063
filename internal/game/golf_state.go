package game

import (
	"errors"
	"sync"
	"time"

	"github.com/playmatatu/minigolf/internal/logging"
)

var (
	ErrSessionNotActive = errors.New("session is not in progress")
	ErrLevelOver        = errors.New("level is complete")
	ErrLevelOutOfRange  = errors.New("level index out of range")
	ErrNotYourTurn      = errors.New("not your turn")
	ErrUnknownPlayer    = errors.New("unknown player slot")
)

// GolfPlayer is one participant in a locally shared session.
type GolfPlayer struct {
	Slot         int    `json:"slot"`
	DisplayName  string `json:"display_name"`
	Strokes      int    `json:"strokes"`
	HoleComplete bool   `json:"hole_complete"`
}

// AddStroke charges the player one stroke.
func (p *GolfPlayer) AddStroke() {
	p.Strokes++
}

// LevelResult is the per-player stroke count for one finished level.
type LevelResult struct {
	LevelIndex  int       `json:"level_index"`
	LevelID     int       `json:"level_id,omitempty"`
	LevelName   string    `json:"level_name"`
	Strokes     []int     `json:"strokes"`
	CompletedAt time.Time `json:"completed_at"`
}

// TickResult is what one simulation step produced for the host.
type TickResult struct {
	Events         []CollisionEvent
	LevelCompleted *LevelResult
	LevelChanged   bool
}

// GolfGameState is a mini-golf match: players take turns on a shared list of
// levels, one active ball at a time.
type GolfGameState struct {
	ID            string        `json:"id"`
	Token         string        `json:"token"`
	Players       []*GolfPlayer `json:"players"`
	Balls         []*Ball       `json:"balls"`
	CurrentPlayer int           `json:"current_player"`
	Levels        []*Level      `json:"-"`
	LevelIndex    int           `json:"level_index"`
	Status        GameStatus    `json:"status"`
	LevelOver     bool          `json:"level_over"`
	TickCount     int64         `json:"tick"`
	Width         float64       `json:"width"`
	Height        float64       `json:"height"`
	Results       []LevelResult `json:"results"`
	CreatedAt     time.Time     `json:"created_at"`
	StartedAt     *time.Time    `json:"started_at,omitempty"`
	CompletedAt   *time.Time    `json:"completed_at,omitempty"`
	LastActivity  time.Time     `json:"last_activity"`

	levelOverTicks int
	shot           ShotController
	resolver       *CollisionResolver
	recorder       EventRecorder
	mu             sync.RWMutex
}

// NewGolfGame creates a session over copies of levels. With no levels the
// built-in default course is used. Width and Height bound the playable canvas.
func NewGolfGame(id, token string, playerNames []string, levels []*Level, width, height float64) *GolfGameState {
	if len(levels) == 0 {
		levels = []*Level{DefaultLevel()}
	}
	if len(playerNames) == 0 {
		playerNames = []string{"Player 1"}
	}
	if len(playerNames) > MaxPlayers {
		playerNames = playerNames[:MaxPlayers]
	}
	if width <= 0 {
		width = DefaultCanvasWidth
	}
	if height <= 0 {
		height = DefaultCanvasHeight
	}

	owned := make([]*Level, len(levels))
	for i, l := range levels {
		owned[i] = l.Clone()
	}

	players := make([]*GolfPlayer, len(playerNames))
	for i, name := range playerNames {
		players[i] = &GolfPlayer{Slot: i, DisplayName: name}
	}

	now := time.Now()
	g := &GolfGameState{
		ID:           id,
		Token:        token,
		Players:      players,
		Levels:       owned,
		Status:       StatusWaiting,
		Width:        width,
		Height:       height,
		Results:      []LevelResult{},
		CreatedAt:    now,
		LastActivity: now,
		resolver:     NewCollisionResolver(),
	}
	g.initialiseLevel()
	return g
}

// Start moves a waiting session into play. Calling it again is a no-op.
func (g *GolfGameState) Start() {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.Status != StatusWaiting {
		return
	}
	now := time.Now()
	g.StartedAt = &now
	g.Status = StatusInProgress
	g.LastActivity = now

	logging.L().Infof("[GOLF] Session %s started (%d players, %d levels)", g.ID, len(g.Players), len(g.Levels))
}

// Tick advances the session by one frame: out-of-bounds check, platform
// animation, integration, collision, then the hole check.
func (g *GolfGameState) Tick() TickResult {
	g.mu.Lock()
	defer g.mu.Unlock()

	var res TickResult
	if g.Status != StatusInProgress {
		return res
	}

	g.TickCount++
	g.recorder.Tick = g.TickCount
	g.recorder.Player = g.CurrentPlayer
	lvl := g.currentLevel()

	if g.LevelOver {
		AdvancePlatforms(lvl)
		g.levelOverTicks--
		if g.levelOverTicks <= 0 {
			g.nextLevel()
			res.LevelChanged = true
		}
		res.Events = g.recorder.Drain()
		return res
	}

	ball := g.Balls[g.CurrentPlayer]
	player := g.Players[g.CurrentPlayer]

	// Leaving the canvas is not a penalty.
	if g.outOfBounds(ball) {
		ball.ResetTo(lvl.Start)
	}

	AdvancePlatforms(lvl)
	ctx := TickContext{Sink: &g.recorder, Strokes: player}
	ball.Integrate()
	g.resolver.Resolve(ball, lvl, ctx)

	if !player.HoleComplete && lvl.Hole().Contains(ball) {
		ctx.holeComplete()
		player.HoleComplete = true
		g.shot.Cancel()
		logging.L().Infof("[GOLF] Session %s: player %d holed level %d in %d", g.ID, player.Slot, g.LevelIndex, player.Strokes)

		if g.allHoled() {
			result := g.levelResult()
			g.Results = append(g.Results, result)
			res.LevelCompleted = &result
			g.LevelOver = true
			g.levelOverTicks = LevelCompleteDelayTicks
		} else {
			g.switchPlayer()
		}
	}

	res.Events = g.recorder.Drain()
	return res
}

// PointerDown begins aiming the active ball for the player in slot. It reports
// whether aiming began.
func (g *GolfGameState) PointerDown(slot int, p Vec2) (bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if err := g.canShoot(slot); err != nil {
		return false, err
	}
	g.LastActivity = time.Now()
	return g.shot.PointerDown(g.Balls[g.CurrentPlayer], p), nil
}

// PointerUp releases the shot. It returns the applied force and whether a
// shot was taken; a release without a prior grab takes no shot.
func (g *GolfGameState) PointerUp(slot int, p Vec2) (Vec2, bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if err := g.canShoot(slot); err != nil {
		if !errors.Is(err, ErrNotYourTurn) {
			g.shot.Cancel()
		}
		return Vec2{}, false, err
	}
	g.LastActivity = time.Now()

	g.recorder.Player = g.CurrentPlayer
	player := g.Players[g.CurrentPlayer]
	force, ok := g.shot.PointerUp(g.Balls[g.CurrentPlayer], p, TickContext{Sink: &g.recorder, Strokes: player})
	if ok {
		logging.L().Debugf("[GOLF] Session %s: player %d shot #%d force=(%.2f, %.2f)", g.ID, player.Slot, player.Strokes, force.X, force.Y)
	}
	return force, ok, nil
}

// SelectLevel jumps straight to level i and resets the round on it.
func (g *GolfGameState) SelectLevel(i int) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if i < 0 || i >= len(g.Levels) {
		return ErrLevelOutOfRange
	}
	g.LevelIndex = i
	g.initialiseLevel()
	g.LastActivity = time.Now()
	return nil
}

// RestartLevel puts every ball back on the tee and clears this level's strokes.
func (g *GolfGameState) RestartLevel() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.initialiseLevel()
	g.LastActivity = time.Now()
}

// End finishes the session with the given final status.
func (g *GolfGameState) End(status GameStatus) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.Status.IsFinal() {
		return
	}
	now := time.Now()
	g.Status = status
	g.CompletedAt = &now
	g.shot.Cancel()
}

// GetStatus returns the session status under the read lock.
func (g *GolfGameState) GetStatus() GameStatus {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.Status
}

// IdleFor returns how long since the last input.
func (g *GolfGameState) IdleFor() time.Duration {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return time.Since(g.LastActivity)
}

// TotalStrokes sums every finished level plus the level in play, per player.
func (g *GolfGameState) TotalStrokes() []int {
	g.mu.RLock()
	defer g.mu.RUnlock()

	totals := make([]int, len(g.Players))
	for _, r := range g.Results {
		for i, s := range r.Strokes {
			if i < len(totals) {
				totals[i] += s
			}
		}
	}
	if !g.LevelOver {
		for i, p := range g.Players {
			totals[i] += p.Strokes
		}
	}
	return totals
}

// === Internal helpers ===

func (g *GolfGameState) currentLevel() *Level {
	return g.Levels[g.LevelIndex]
}

func (g *GolfGameState) canShoot(slot int) error {
	if slot < 0 || slot >= len(g.Players) {
		return ErrUnknownPlayer
	}
	if g.Status != StatusInProgress {
		return ErrSessionNotActive
	}
	if slot != g.CurrentPlayer {
		return ErrNotYourTurn
	}
	if g.LevelOver {
		return ErrLevelOver
	}
	return nil
}

// initialiseLevel puts a fresh ball for every player on the tee of the
// current level and clears per-level scoring.
func (g *GolfGameState) initialiseLevel() {
	if g.LevelIndex >= len(g.Levels) {
		g.LevelIndex = 0
	}
	lvl := g.currentLevel()

	g.Balls = make([]*Ball, len(g.Players))
	for i, p := range g.Players {
		g.Balls[i] = NewBall(lvl.Start)
		p.Strokes = 0
		p.HoleComplete = false
	}
	g.CurrentPlayer = 0
	g.LevelOver = false
	g.levelOverTicks = 0
	g.shot.Cancel()
}

func (g *GolfGameState) nextLevel() {
	g.LevelIndex++
	if g.LevelIndex >= len(g.Levels) {
		g.LevelIndex = 0
	}
	g.initialiseLevel()
	logging.L().Infof("[GOLF] Session %s advanced to level %d/%d", g.ID, g.LevelIndex+1, len(g.Levels))
}

// switchPlayer hands the turn to the next player who has not holed out.
func (g *GolfGameState) switchPlayer() {
	n := len(g.Players)
	for i := 1; i <= n; i++ {
		next := (g.CurrentPlayer + i) % n
		if !g.Players[next].HoleComplete {
			g.CurrentPlayer = next
			return
		}
	}
}

func (g *GolfGameState) allHoled() bool {
	for _, p := range g.Players {
		if !p.HoleComplete {
			return false
		}
	}
	return true
}

func (g *GolfGameState) levelResult() LevelResult {
	lvl := g.currentLevel()
	strokes := make([]int, len(g.Players))
	for i, p := range g.Players {
		strokes[i] = p.Strokes
	}
	return LevelResult{
		LevelIndex:  g.LevelIndex,
		LevelID:     lvl.ID,
		LevelName:   lvl.Name,
		Strokes:     strokes,
		CompletedAt: time.Now(),
	}
}

func (g *GolfGameState) outOfBounds(b *Ball) bool {
	return b.Position.X < 0 || b.Position.X > g.Width || b.Position.Y < 0 || b.Position.Y > g.Height
}
