package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLevel(name string, obstacles ...Obstacle) *Level {
	return &Level{
		Name:         name,
		Obstacles:    obstacles,
		Start:        NewVec2(100, 100),
		HolePosition: NewVec2(300, 100),
	}
}

func startedGame(t *testing.T, players []string, levels ...*Level) *GolfGameState {
	t.Helper()
	g := NewGolfGame("session-1", "tok", players, levels, 0, 0)
	g.Start()
	require.Equal(t, StatusInProgress, g.GetStatus())
	return g
}

func eventTypes(events []CollisionEvent) []string {
	out := make([]string, len(events))
	for i, e := range events {
		out[i] = e.Type
	}
	return out
}

func TestNewGolfGameDefaults(t *testing.T) {
	g := NewGolfGame("id", "tok", nil, nil, 0, -5)

	assert.Equal(t, StatusWaiting, g.Status)
	require.Len(t, g.Players, 1)
	assert.Equal(t, "Player 1", g.Players[0].DisplayName)
	require.Len(t, g.Levels, 1)
	assert.Equal(t, "Default", g.Levels[0].Name)
	assert.Equal(t, DefaultCanvasWidth, g.Width)
	assert.Equal(t, DefaultCanvasHeight, g.Height)
	require.Len(t, g.Balls, 1)
	assert.Equal(t, g.Levels[0].Start, g.Balls[0].Position)

	many := NewGolfGame("id", "tok", []string{"a", "b", "c", "d", "e"}, nil, 0, 0)
	assert.Len(t, many.Players, MaxPlayers)
}

func TestNewGolfGameOwnsItsLevels(t *testing.T) {
	shared := testLevel("Shared", NewMovingRect(NewVec2(0, 0), NewVec2(10, 0), 5, 5, 0, 0.5))
	a := startedGame(t, nil, shared)
	b := startedGame(t, nil, shared)

	a.Tick()

	assert.Equal(t, 0.5, a.Levels[0].Obstacles[0].Platform.T)
	assert.Equal(t, 0.0, b.Levels[0].Obstacles[0].Platform.T)
	assert.Equal(t, 0.0, shared.Obstacles[0].Platform.T)
}

func TestTickDoesNothingUntilStarted(t *testing.T) {
	g := NewGolfGame("id", "tok", nil, []*Level{testLevel("One")}, 0, 0)
	g.Balls[0].Velocity = NewVec2(5, 0)

	res := g.Tick()

	assert.Empty(t, res.Events)
	assert.Equal(t, int64(0), g.TickCount)
	assert.Equal(t, NewVec2(100, 100), g.Balls[0].Position)
}

func TestPointerErrors(t *testing.T) {
	g := NewGolfGame("id", "tok", []string{"Ann", "Ben"}, []*Level{testLevel("One")}, 0, 0)

	_, err := g.PointerDown(0, NewVec2(100, 100))
	assert.ErrorIs(t, err, ErrSessionNotActive)

	g.Start()

	_, err = g.PointerDown(1, NewVec2(100, 100))
	assert.ErrorIs(t, err, ErrNotYourTurn)

	_, err = g.PointerDown(7, NewVec2(100, 100))
	assert.ErrorIs(t, err, ErrUnknownPlayer)

	_, _, err = g.PointerUp(-1, NewVec2(100, 100))
	assert.ErrorIs(t, err, ErrUnknownPlayer)

	aiming, err := g.PointerDown(0, NewVec2(110, 100))
	require.NoError(t, err)
	assert.True(t, aiming)
}

func TestShotChargesStrokeAndReportsHit(t *testing.T) {
	g := startedGame(t, []string{"Ann"}, testLevel("One"))

	aiming, err := g.PointerDown(0, NewVec2(100, 100))
	require.NoError(t, err)
	require.True(t, aiming)
	assert.NotNil(t, g.Snapshot().AimStart)

	force, shot, err := g.PointerUp(0, NewVec2(50, 100))
	require.NoError(t, err)
	require.True(t, shot)
	assert.InDelta(t, 5, force.X, 1e-12)
	assert.Equal(t, 1, g.Players[0].Strokes)
	assert.Nil(t, g.Snapshot().AimStart)

	res := g.Tick()
	assert.Contains(t, eventTypes(res.Events), EventHit)
	assert.InDelta(t, 105, g.Balls[0].Position.X, 1e-12)

	// The ball is moving, so it cannot be grabbed again.
	aiming, err = g.PointerDown(0, g.Balls[0].Position)
	require.NoError(t, err)
	assert.False(t, aiming)
}

func TestReleaseWithoutGrabIsNotAShot(t *testing.T) {
	g := startedGame(t, []string{"Ann"}, testLevel("One"))

	_, shot, err := g.PointerUp(0, NewVec2(0, 0))

	require.NoError(t, err)
	assert.False(t, shot)
	assert.Zero(t, g.Players[0].Strokes)
}

func TestOutOfBoundsResetsWithoutStroke(t *testing.T) {
	g := startedGame(t, []string{"Ann"}, testLevel("One"))
	g.Balls[0].Position = NewVec2(-10, 400)
	g.Balls[0].Velocity = NewVec2(-3, 0)

	g.Tick()

	assert.Equal(t, NewVec2(100, 100), g.Balls[0].Position)
	assert.True(t, g.Balls[0].Velocity.IsZero())
	assert.Zero(t, g.Players[0].Strokes)
}

func TestWaterChargesStroke(t *testing.T) {
	g := startedGame(t, []string{"Ann"}, testLevel("Pond", NewWater(NewVec2(600, 100), 100, 100, 0)))
	g.Balls[0].Position = NewVec2(600, 100)

	res := g.Tick()

	assert.Equal(t, NewVec2(100, 100), g.Balls[0].Position)
	assert.Equal(t, 1, g.Players[0].Strokes)
	assert.Equal(t, []string{EventHazard}, eventTypes(res.Events))
}

func TestHoleSwitchesTurnAndCompletesLevel(t *testing.T) {
	g := startedGame(t, []string{"Ann", "Ben"}, testLevel("One"))
	hole := g.Levels[0].HolePosition

	g.Balls[0].Position = hole
	res := g.Tick()

	assert.Equal(t, []string{EventHoleComplete}, eventTypes(res.Events))
	assert.True(t, g.Players[0].HoleComplete)
	assert.Equal(t, 1, g.CurrentPlayer)
	assert.Nil(t, res.LevelCompleted)

	g.Balls[1].Position = hole
	g.Players[1].Strokes = 3
	res = g.Tick()

	require.NotNil(t, res.LevelCompleted)
	assert.Equal(t, []int{0, 3}, res.LevelCompleted.Strokes)
	assert.Equal(t, "One", res.LevelCompleted.LevelName)
	assert.True(t, g.LevelOver)
	require.Len(t, g.Results, 1)

	_, err := g.PointerDown(1, hole)
	assert.ErrorIs(t, err, ErrLevelOver)

	for i := 1; i < LevelCompleteDelayTicks; i++ {
		res = g.Tick()
		require.False(t, res.LevelChanged, "tick %d", i)
	}
	res = g.Tick()
	assert.True(t, res.LevelChanged)

	// One level wraps back to itself with a fresh round.
	assert.False(t, g.LevelOver)
	assert.Equal(t, 0, g.LevelIndex)
	assert.Equal(t, 0, g.CurrentPlayer)
	for i, p := range g.Players {
		assert.Zero(t, p.Strokes)
		assert.False(t, p.HoleComplete)
		assert.Equal(t, g.Levels[0].Start, g.Balls[i].Position)
	}
}

func TestTurnSkipsPlayersWhoHoled(t *testing.T) {
	g := startedGame(t, []string{"Ann", "Ben", "Cat"}, testLevel("One"))
	hole := g.Levels[0].HolePosition

	// Ben holes first while it is his turn.
	g.CurrentPlayer = 1
	g.Balls[1].Position = hole
	g.Tick()
	assert.Equal(t, 2, g.CurrentPlayer)

	g.Balls[2].Position = hole
	g.Tick()
	assert.Equal(t, 0, g.CurrentPlayer)
	assert.False(t, g.LevelOver)
}

func TestLevelsAdvanceAndWrap(t *testing.T) {
	first := testLevel("First")
	second := testLevel("Second")
	second.Start = NewVec2(400, 400)
	g := startedGame(t, []string{"Ann"}, first, second)

	finish := func() {
		g.Balls[0].Position = g.Levels[g.LevelIndex].HolePosition
		res := g.Tick()
		require.NotNil(t, res.LevelCompleted)
		for i := 0; i < LevelCompleteDelayTicks; i++ {
			g.Tick()
		}
	}

	finish()
	assert.Equal(t, 1, g.LevelIndex)
	assert.Equal(t, NewVec2(400, 400), g.Balls[0].Position)
	assert.Equal(t, "Second", g.Snapshot().LevelName)

	finish()
	assert.Equal(t, 0, g.LevelIndex)
	assert.Len(t, g.Results, 2)
}

func TestTotalStrokes(t *testing.T) {
	g := startedGame(t, []string{"Ann"}, testLevel("One"))

	_, err := g.PointerDown(0, NewVec2(100, 100))
	require.NoError(t, err)
	_, _, err = g.PointerUp(0, NewVec2(50, 100))
	require.NoError(t, err)
	assert.Equal(t, []int{1}, g.TotalStrokes())

	g.Balls[0].Position = g.Levels[0].HolePosition
	g.Tick()
	require.True(t, g.LevelOver)
	assert.Equal(t, []int{1}, g.TotalStrokes(), "finished level is not counted twice")

	for i := 0; i < LevelCompleteDelayTicks; i++ {
		g.Tick()
	}
	assert.Equal(t, []int{1}, g.TotalStrokes())
}

func TestSelectAndRestartLevel(t *testing.T) {
	g := startedGame(t, []string{"Ann", "Ben"}, testLevel("First"), testLevel("Second"))

	assert.ErrorIs(t, g.SelectLevel(2), ErrLevelOutOfRange)
	assert.ErrorIs(t, g.SelectLevel(-1), ErrLevelOutOfRange)

	g.Players[0].Strokes = 4
	g.CurrentPlayer = 1
	require.NoError(t, g.SelectLevel(1))
	assert.Equal(t, 1, g.LevelIndex)
	assert.Equal(t, 0, g.CurrentPlayer)
	assert.Zero(t, g.Players[0].Strokes)

	g.Players[1].Strokes = 2
	g.Balls[0].Position = NewVec2(700, 700)
	g.RestartLevel()
	assert.Equal(t, 1, g.LevelIndex)
	assert.Zero(t, g.Players[1].Strokes)
	assert.Equal(t, NewVec2(100, 100), g.Balls[0].Position)
}

func TestEndIsFinal(t *testing.T) {
	g := startedGame(t, nil, testLevel("One"))

	g.End(StatusExpired)
	g.End(StatusCompleted)

	assert.Equal(t, StatusExpired, g.GetStatus())
	assert.NotNil(t, g.CompletedAt)
	assert.True(t, g.GetStatus().IsFinal())

	_, err := g.PointerDown(0, NewVec2(100, 100))
	assert.ErrorIs(t, err, ErrSessionNotActive)
}

func TestSnapshotResolvesPlatforms(t *testing.T) {
	g := startedGame(t, nil, testLevel("One",
		NewMovingRect(NewVec2(0, 0), NewVec2(100, 0), 20, 10, 0, 0.25),
		NewCircle(NewVec2(50, 50), 12),
	))
	g.Tick()

	s := g.Snapshot()

	assert.Equal(t, 1, s.LevelCount)
	require.Len(t, s.Obstacles, 2)
	assert.Equal(t, "movingRect", s.Obstacles[0].Type)
	assert.Equal(t, NewVec2(25, 0), s.Obstacles[0].Position)
	require.NotNil(t, s.Obstacles[0].End)
	assert.Equal(t, NewVec2(100, 0), *s.Obstacles[0].End)
	assert.Equal(t, 12.0, s.Obstacles[1].Radius)
	assert.Equal(t, HoleRadius, s.Hole.Radius)
	require.Len(t, s.Balls, 1)
	assert.True(t, s.Balls[0].Resting)
}
