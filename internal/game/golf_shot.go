package game

// ShotController turns a press-drag-release gesture into an impulse on a
// resting ball. Aiming must be entered by a press on the ball before a
// release can produce a shot.
type ShotController struct {
	aiming   bool
	aimStart Vec2
}

// PointerDown starts aiming when the ball is resting and the pointer is
// within AimGrabFactor radii of it. It reports whether aiming began.
func (s *ShotController) PointerDown(ball *Ball, pointer Vec2) bool {
	if !ball.IsResting() {
		return false
	}
	if pointer.Distance(ball.Position) > ball.Radius*AimGrabFactor {
		return false
	}
	s.aiming = true
	s.aimStart = ball.Position
	return true
}

// PointerUp completes the shot: the pull vector is clamped to MaxPull, scaled
// by PullScale and applied to the ball. It returns the applied force and
// false when no aim was in progress.
func (s *ShotController) PointerUp(ball *Ball, pointer Vec2, ctx TickContext) (Vec2, bool) {
	if !s.aiming {
		return Vec2{}, false
	}
	s.aiming = false

	force := ShotForce(s.aimStart, pointer)
	ball.ApplyForce(force)
	ctx.addStroke()
	ctx.hit()
	return force, true
}

// ShotForce is the impulse for a drag from aimStart to aimEnd.
func ShotForce(aimStart, aimEnd Vec2) Vec2 {
	return aimStart.Minus(aimEnd).Limit(MaxPull).Times(PullScale)
}

func (s *ShotController) Cancel() {
	s.aiming = false
}

func (s *ShotController) IsAiming() bool {
	return s.aiming
}

// AimStart is where the current drag line begins; valid only while aiming.
func (s *ShotController) AimStart() (Vec2, bool) {
	return s.aimStart, s.aiming
}
