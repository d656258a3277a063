package game

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/playmatatu/minigolf/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLevelSource struct {
	levels  []*Level
	listErr error
	byIDErr error
	gotIDs  []int
}

func (f *fakeLevelSource) ListLevels(ctx context.Context) ([]*Level, error) {
	return f.levels, f.listErr
}

func (f *fakeLevelSource) LevelsByID(ctx context.Context, ids []int) ([]*Level, error) {
	f.gotIDs = ids
	if f.byIDErr != nil {
		return nil, f.byIDErr
	}
	out := make([]*Level, 0, len(ids))
	for _, id := range ids {
		out = append(out, f.levels[id-1])
	}
	return out, nil
}

func newTestManager(src LevelSource) *GameManager {
	return NewGameManager(nil, nil, &config.Config{CanvasWidth: 800, CanvasHeight: 600}, src)
}

func TestCreateAndLookupSession(t *testing.T) {
	src := &fakeLevelSource{levels: []*Level{testLevel("First"), testLevel("Second")}}
	gm := newTestManager(src)

	g, err := gm.CreateSession(context.Background(), []string{"Ann", "Ben"}, nil)
	require.NoError(t, err)

	assert.NotEmpty(t, g.ID)
	assert.Len(t, g.Token, 32)
	assert.Len(t, g.Levels, 2)
	assert.Equal(t, 800.0, g.Width)
	assert.Equal(t, 600.0, g.Height)
	assert.Equal(t, StatusWaiting, g.GetStatus())
	assert.Equal(t, 1, gm.ActiveCount())

	byID, err := gm.GetSession(g.ID)
	require.NoError(t, err)
	assert.Same(t, g, byID)

	byToken, err := gm.GetSessionByToken(g.Token)
	require.NoError(t, err)
	assert.Same(t, g, byToken)

	_, err = gm.GetSessionByToken("nope")
	assert.ErrorIs(t, err, ErrSessionNotFound)
	_, err = gm.GetSession("nope")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestCreateSessionWithLevelIDs(t *testing.T) {
	src := &fakeLevelSource{levels: []*Level{testLevel("First"), testLevel("Second")}}
	gm := newTestManager(src)

	g, err := gm.CreateSession(context.Background(), nil, []int{2, 1})
	require.NoError(t, err)

	assert.Equal(t, []int{2, 1}, src.gotIDs)
	require.Len(t, g.Levels, 2)
	assert.Equal(t, "Second", g.Levels[0].Name)
}

func TestCreateSessionErrors(t *testing.T) {
	missing := errors.New("level 9 not found")
	gm := newTestManager(&fakeLevelSource{byIDErr: missing})

	_, err := gm.CreateSession(context.Background(), []string{"a", "b", "c", "d", "e"}, nil)
	assert.ErrorIs(t, err, ErrTooManyPlayers)

	_, err = gm.CreateSession(context.Background(), nil, []int{9})
	assert.ErrorIs(t, err, missing)
	assert.Zero(t, gm.ActiveCount())
}

func TestCreateSessionFallsBackToDefaultLevel(t *testing.T) {
	tests := []struct {
		name string
		src  LevelSource
	}{
		{"no source", nil},
		{"empty source", &fakeLevelSource{}},
		{"failing source", &fakeLevelSource{listErr: errors.New("db down")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gm := newTestManager(tt.src)
			g, err := gm.CreateSession(context.Background(), nil, nil)
			require.NoError(t, err)
			require.Len(t, g.Levels, 1)
			assert.Equal(t, "Default", g.Levels[0].Name)
		})
	}
}

func TestEndSessionRemovesIt(t *testing.T) {
	gm := newTestManager(nil)
	g, err := gm.CreateSession(context.Background(), nil, nil)
	require.NoError(t, err)

	require.NoError(t, gm.EndSession(g.ID, StatusCompleted))

	assert.Equal(t, StatusCompleted, g.GetStatus())
	assert.Zero(t, gm.ActiveCount())
	_, err = gm.GetSessionByToken(g.Token)
	assert.ErrorIs(t, err, ErrSessionNotFound)
	assert.ErrorIs(t, gm.EndSession(g.ID, StatusCompleted), ErrSessionNotFound)
}

func TestTickAllOnlyTicksSessionsInPlay(t *testing.T) {
	gm := newTestManager(nil)
	waiting, err := gm.CreateSession(context.Background(), nil, nil)
	require.NoError(t, err)
	playing, err := gm.CreateSession(context.Background(), nil, nil)
	require.NoError(t, err)
	playing.Start()

	outcomes := gm.TickAll()

	require.Len(t, outcomes, 1)
	assert.Same(t, playing, outcomes[0].Session)
	assert.Equal(t, int64(1), playing.TickCount)
	assert.Equal(t, int64(0), waiting.TickCount)
}

func TestTickAllReportsLevelCompletion(t *testing.T) {
	gm := newTestManager(&fakeLevelSource{levels: []*Level{testLevel("Only")}})
	g, err := gm.CreateSession(context.Background(), []string{"Ann"}, nil)
	require.NoError(t, err)
	g.Start()
	g.Balls[0].Position = g.Levels[0].HolePosition

	outcomes := gm.TickAll()

	require.Len(t, outcomes, 1)
	require.NotNil(t, outcomes[0].Result.LevelCompleted)
	assert.Equal(t, "Only", outcomes[0].Result.LevelCompleted.LevelName)
}

func TestSessionRecordRoundTrip(t *testing.T) {
	lvl := testLevel("Moving", NewMovingRect(NewVec2(0, 0), NewVec2(100, 0), 20, 10, 0, 0.3))
	lvl.ID = 42
	g := startedGame(t, []string{"Ann", "Ben"}, lvl)
	for i := 0; i < 4; i++ {
		g.Tick()
	}
	g.Balls[0].Velocity = NewVec2(1.5, -2)
	g.Players[0].Strokes = 2
	g.CurrentPlayer = 1

	raw, err := json.Marshal(g.record())
	require.NoError(t, err)
	var rec sessionRecord
	require.NoError(t, json.Unmarshal(raw, &rec))

	back, err := restoreSession(rec)
	require.NoError(t, err)

	assert.Equal(t, g.ID, back.ID)
	assert.Equal(t, g.Token, back.Token)
	assert.Equal(t, StatusInProgress, back.Status)
	assert.Equal(t, 1, back.CurrentPlayer)
	assert.Equal(t, 2, back.Players[0].Strokes)
	assert.Equal(t, g.Balls[0].Velocity, back.Balls[0].Velocity)
	assert.Equal(t, g.TickCount, back.TickCount)
	require.Len(t, back.Levels, 1)
	assert.Equal(t, 42, back.Levels[0].ID)
	assert.Equal(t, *g.Levels[0].Obstacles[0].Platform, *back.Levels[0].Obstacles[0].Platform)

	// The restored session keeps playing.
	back.Tick()
	assert.Equal(t, g.TickCount+1, back.TickCount)
}

func TestRestoreRejectsIncompleteRecord(t *testing.T) {
	_, err := restoreSession(sessionRecord{})
	assert.Error(t, err)

	_, err = restoreSession(sessionRecord{
		Levels:  []LevelData{LevelDataFrom(DefaultLevel())},
		Players: []*GolfPlayer{{Slot: 0}},
	})
	assert.Error(t, err)
}
