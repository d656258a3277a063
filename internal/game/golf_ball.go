package game

// Ball is the kinematic state of one player's golf ball.
// Height is a pseudo vertical offset: 0 is on the green, negative is airborne.
type Ball struct {
	Position       Vec2    `json:"position"`
	Velocity       Vec2    `json:"velocity"`
	Radius         float64 `json:"radius"`
	Height         float64 `json:"height"`
	HeightVelocity float64 `json:"height_velocity"`
	Friction       float64 `json:"friction"`
	RestSpeed      float64 `json:"rest_speed"`
	Gravity        float64 `json:"gravity"`
}

// NewBall creates a grounded, stationary ball with the default tuning.
func NewBall(pos Vec2) *Ball {
	return &Ball{
		Position:  pos,
		Radius:    BallRadius,
		Friction:  BallFriction,
		RestSpeed: BallRestSpeed,
		Gravity:   BallGravity,
	}
}

// Integrate advances the ball by one tick. Planar motion and the height axis
// are integrated independently and unconditionally.
func (b *Ball) Integrate() {
	b.Position = b.Position.Plus(b.Velocity)
	b.Velocity = b.Velocity.Times(b.Friction)
	if b.Velocity.Magnitude() < b.RestSpeed {
		b.Velocity = Vec2{}
	}

	if b.Height != 0 || b.HeightVelocity != 0 {
		b.HeightVelocity += b.Gravity
		b.Height += b.HeightVelocity
		if b.Height >= 0 {
			b.Height = 0
			b.HeightVelocity = 0
		}
	}
}

// IsResting reports whether the ball is slow enough to be shot again.
// This is looser than the snap-to-zero threshold used by Integrate.
func (b *Ball) IsResting() bool {
	return b.Velocity.Magnitude() < ShotRestingSpeed
}

func (b *Ball) IsAirborne() bool {
	return b.Height < 0
}

// ApplyForce adds f directly to the velocity; there is no mass term.
func (b *Ball) ApplyForce(f Vec2) {
	b.Velocity = b.Velocity.Plus(f)
}

// ResetTo places the ball at p, stopped and grounded.
func (b *Ball) ResetTo(p Vec2) {
	b.Position = p
	b.Velocity = Vec2{}
	b.Height = 0
	b.HeightVelocity = 0
}
