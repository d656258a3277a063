package game

// Physics and course constants for mini-golf.
// Values are per tick; the host steps the simulation at TickRateHz.

const (
	TickRateHz = 60

	BallRadius       = 15.0
	BallFriction     = 0.98
	BallRestSpeed    = 0.2 // velocity snaps to zero below this
	BallGravity      = 0.3 // pseudo-height pull per tick
	ShotRestingSpeed = 0.4 // a new shot may start below this

	HoleRadius = 20.0

	JumpLaunchVelocity = -8.0

	AimGrabFactor = 2.0 // pointer must be within AimGrabFactor * radius of the ball
	MaxPull       = 150.0
	PullScale     = 0.1

	BoundaryClosedDistance = 20.0

	LevelCompleteDelayTicks = 2 * TickRateHz

	DefaultCanvasWidth  = 1280.0
	DefaultCanvasHeight = 800.0

	MaxPlayers = 4
)
