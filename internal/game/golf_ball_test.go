package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBallIntegrateAppliesFriction(t *testing.T) {
	b := NewBall(NewVec2(100, 100))
	b.Velocity = NewVec2(10, 0)

	b.Integrate()

	assert.Equal(t, NewVec2(110, 100), b.Position)
	assert.InDelta(t, 9.8, b.Velocity.X, 1e-12)
	assert.Equal(t, 0.0, b.Velocity.Y)
}

func TestBallVelocityDecaysToRest(t *testing.T) {
	b := NewBall(Vec2{})
	b.Velocity = NewVec2(3, -4)

	prev := b.Velocity.Magnitude()
	ticks := 0
	for !b.Velocity.IsZero() {
		b.Integrate()
		mag := b.Velocity.Magnitude()
		if mag > prev {
			t.Fatalf("speed increased at tick %d: %f -> %f", ticks, prev, mag)
		}
		prev = mag
		ticks++
		if ticks > 1000 {
			t.Fatal("ball never came to rest")
		}
	}
	assert.True(t, b.IsResting())

	rest := b.Position
	for i := 0; i < 10; i++ {
		b.Integrate()
		assert.True(t, b.Velocity.IsZero(), "tick %d after rest", i)
	}
	assert.Equal(t, rest, b.Position)
}

func TestBallSnapsBelowRestSpeed(t *testing.T) {
	b := NewBall(Vec2{})
	b.Velocity = NewVec2(0.2, 0) // 0.196 after friction

	b.Integrate()

	assert.True(t, b.Velocity.IsZero())
}

func TestBallRestingThresholdIsLooserThanSnap(t *testing.T) {
	b := NewBall(Vec2{})
	b.Velocity = NewVec2(0.3, 0)
	assert.True(t, b.IsResting())

	b.Velocity = NewVec2(0.4, 0)
	assert.False(t, b.IsResting())
}

func TestBallHeightArc(t *testing.T) {
	b := NewBall(Vec2{})
	b.HeightVelocity = JumpLaunchVelocity

	b.Integrate()
	assert.InDelta(t, -7.7, b.Height, 1e-12)
	assert.True(t, b.IsAirborne())

	landed := false
	for i := 0; i < 200; i++ {
		b.Integrate()
		if b.Height == 0 {
			landed = true
			break
		}
	}
	assert.True(t, landed)
	assert.Equal(t, 0.0, b.HeightVelocity)
	assert.False(t, b.IsAirborne())
}

func TestBallResetTo(t *testing.T) {
	b := NewBall(Vec2{})
	b.Velocity = NewVec2(5, 5)
	b.Height = -3
	b.HeightVelocity = -1

	b.ResetTo(NewVec2(20, 30))

	assert.Equal(t, NewVec2(20, 30), b.Position)
	assert.True(t, b.Velocity.IsZero())
	assert.Equal(t, 0.0, b.Height)
	assert.Equal(t, 0.0, b.HeightVelocity)
}
