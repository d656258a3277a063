package game

import "math"

// Vec2 is a 2D point or vector in course units. Arithmetic is exact float64;
// nothing is rounded, so a reflection keeps the speed of the ball bit for bit.
type Vec2 struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

func NewVec2(x, y float64) Vec2 {
	return Vec2{X: x, Y: y}
}

func (v Vec2) Plus(o Vec2) Vec2 {
	return Vec2{X: v.X + o.X, Y: v.Y + o.Y}
}

func (v Vec2) Minus(o Vec2) Vec2 {
	return Vec2{X: v.X - o.X, Y: v.Y - o.Y}
}

func (v Vec2) Times(s float64) Vec2 {
	return Vec2{X: v.X * s, Y: v.Y * s}
}

func (v Vec2) Dot(o Vec2) float64 {
	return v.X*o.X + v.Y*o.Y
}

func (v Vec2) Magnitude() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y)
}

func (v Vec2) MagnitudeSquared() float64 {
	return v.X*v.X + v.Y*v.Y
}

// Normalize returns the unit vector, or the zero vector when v has no length.
func (v Vec2) Normalize() Vec2 {
	m := v.Magnitude()
	if m == 0 {
		return Vec2{}
	}
	return Vec2{X: v.X / m, Y: v.Y / m}
}

// Limit clamps the magnitude of v to max, keeping its direction.
func (v Vec2) Limit(max float64) Vec2 {
	mSq := v.MagnitudeSquared()
	if mSq <= max*max {
		return v
	}
	return v.Times(max / math.Sqrt(mSq))
}

// SetMagnitude scales v to length m. A zero vector stays zero.
func (v Vec2) SetMagnitude(m float64) Vec2 {
	return v.Normalize().Times(m)
}

// Rotate turns v counter-clockwise by degrees (clockwise on a y-down screen).
func (v Vec2) Rotate(degrees float64) Vec2 {
	rad := degrees * math.Pi / 180
	cos, sin := math.Cos(rad), math.Sin(rad)
	return Vec2{
		X: v.X*cos - v.Y*sin,
		Y: v.X*sin + v.Y*cos,
	}
}

func (v Vec2) Distance(o Vec2) float64 {
	return math.Hypot(o.X-v.X, o.Y-v.Y)
}

func (v Vec2) Invert() Vec2 {
	return Vec2{X: -v.X, Y: -v.Y}
}

func (v Vec2) IsZero() bool {
	return v.X == 0 && v.Y == 0
}

// reflect mirrors v across the unit normal n: v - 2(v.n)n.
func reflect(v, n Vec2) Vec2 {
	return v.Minus(n.Times(2 * v.Dot(n)))
}
