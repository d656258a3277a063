package game

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVec2Arithmetic(t *testing.T) {
	a := NewVec2(3, 4)
	b := NewVec2(1, -2)

	assert.Equal(t, NewVec2(4, 2), a.Plus(b))
	assert.Equal(t, NewVec2(2, 6), a.Minus(b))
	assert.Equal(t, NewVec2(6, 8), a.Times(2))
	assert.Equal(t, -5.0, a.Dot(b))
	assert.Equal(t, 5.0, a.Magnitude())
	assert.Equal(t, 25.0, a.MagnitudeSquared())
	assert.Equal(t, NewVec2(-3, -4), a.Invert())
	assert.Equal(t, 5.0, a.Distance(Vec2{}))
}

func TestVec2NormalizeZeroIsZero(t *testing.T) {
	assert.True(t, Vec2{}.Normalize().IsZero())
	assert.True(t, Vec2{}.SetMagnitude(10).IsZero())
	assert.InDelta(t, 1.0, NewVec2(7, -3).Normalize().Magnitude(), 1e-12)
}

func TestVec2Limit(t *testing.T) {
	tests := []struct {
		name string
		in   Vec2
		max  float64
		want float64
	}{
		{"under the limit", NewVec2(3, 4), 10, 5},
		{"at the limit", NewVec2(6, 8), 10, 10},
		{"over the limit", NewVec2(-500, 0), 150, 150},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.in.Limit(tt.max)
			assert.InDelta(t, tt.want, got.Magnitude(), 1e-9)
			// Direction is kept.
			assert.InDelta(t, 1.0, got.Normalize().Dot(tt.in.Normalize()), 1e-12)
		})
	}
}

func TestVec2RotateDegrees(t *testing.T) {
	r := NewVec2(1, 0).Rotate(90)
	assert.InDelta(t, 0, r.X, 1e-12)
	assert.InDelta(t, 1, r.Y, 1e-12)

	back := NewVec2(2, 5).Rotate(33).Rotate(-33)
	assert.InDelta(t, 2, back.X, 1e-12)
	assert.InDelta(t, 5, back.Y, 1e-12)
}

func TestReflectPreservesSpeed(t *testing.T) {
	assert.Equal(t, NewVec2(3, -4), reflect(NewVec2(3, 4), NewVec2(0, 1)))

	normals := []Vec2{
		NewVec2(1, 0),
		NewVec2(0, -1),
		NewVec2(1, 1).Normalize(),
		NewVec2(-0.3, 0.8).Normalize(),
	}
	v := NewVec2(7.25, -2.5)
	for _, n := range normals {
		got := reflect(v, n)
		assert.InDelta(t, v.Magnitude(), got.Magnitude(), 1e-9, "normal %v", n)
		// The normal component flips, the tangential one stays.
		assert.InDelta(t, -v.Dot(n), got.Dot(n), 1e-9)
	}
	assert.False(t, math.IsNaN(reflect(v, Vec2{}).X))
}
