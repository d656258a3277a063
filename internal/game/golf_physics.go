package game

import "math"

// CollisionResolver applies boundary and obstacle responses to the active
// ball once per tick, after integration. It holds no state of its own.
type CollisionResolver struct{}

func NewCollisionResolver() *CollisionResolver {
	return &CollisionResolver{}
}

// Resolve runs the boundary pass and then the obstacle pass. The obstacle
// pass is skipped entirely while the ball is airborne.
func (r *CollisionResolver) Resolve(ball *Ball, lvl *Level, ctx TickContext) {
	if len(lvl.Boundary.Points) > 1 {
		r.resolveBoundary(ball, lvl.Boundary, ctx)
	}

	if ball.IsAirborne() {
		return
	}

	for i := range lvl.Obstacles {
		r.resolveObstacle(ball, &lvl.Obstacles[i], lvl, ctx)
	}
}

// AdvancePlatforms steps every moving platform's animation by one tick.
// It does not look at any ball.
func AdvancePlatforms(lvl *Level) {
	for i := range lvl.Obstacles {
		o := &lvl.Obstacles[i]
		if o.Kind == KindMovingRect && o.Platform != nil {
			o.Platform.advance()
		}
	}
}

// resolveBoundary tests every segment in order. Overlaps are corrected one
// segment at a time, so a ball in a corner may be pushed twice.
func (r *CollisionResolver) resolveBoundary(ball *Ball, boundary CourseBoundary, ctx TickContext) {
	for _, seg := range boundary.Segments() {
		closest := seg.ClosestPoint(ball.Position)
		d := ball.Position.Distance(closest)
		if d < ball.Radius && ball.Height == 0 {
			overlap := ball.Radius - d
			n := ball.Position.Minus(closest).Normalize()
			ball.Position = ball.Position.Plus(n.Times(overlap))
			ball.Velocity = reflect(ball.Velocity, n)
			ctx.bounce()
		}
	}
}

// resolveObstacle is the single dispatch over the obstacle catalog.
// Kinds without their payload, and unknown kinds, are inert.
func (r *CollisionResolver) resolveObstacle(ball *Ball, obs *Obstacle, lvl *Level, ctx TickContext) {
	switch obs.Kind {
	case KindRect:
		if obs.Box != nil {
			resolveBox(ball, obs.Box.Position, obs.Box.Width, obs.Box.Height, obs.Box.Angle, ctx)
		}
	case KindMovingRect:
		if p := obs.Platform; p != nil {
			resolveBox(ball, p.Position(), p.Width, p.Height, p.Angle, ctx)
		}
	case KindCircle:
		if obs.Disc != nil {
			resolveCircle(ball, obs.Disc, ctx)
		}
	case KindWater:
		if obs.Box != nil && boxContains(obs.Box, ball.Position) {
			ctx.hazard()
			ball.ResetTo(lvl.Start)
			ctx.addStroke()
		}
	case KindJump:
		if obs.Box != nil && ball.Height == 0 && boxContains(obs.Box, ball.Position) {
			ball.HeightVelocity = JumpLaunchVelocity
		}
	case KindRepulsion:
		if obs.Disc != nil {
			resolveRepulsion(ball, obs.Disc)
		}
	case KindSpeedUp:
		if obs.Disc != nil {
			if f, ok := zoneFactor(ball, obs.Disc); ok {
				ball.Velocity = ball.Velocity.Times(1 + obs.Disc.Strength*f)
			}
		}
	case KindSlowDown:
		if obs.Disc != nil {
			if f, ok := zoneFactor(ball, obs.Disc); ok {
				ball.Velocity = ball.Velocity.Times(1 - obs.Disc.Strength*f)
				// No-op for any factor below 1.
				ball.Velocity = ball.Velocity.SetMagnitude(max(ball.Velocity.Magnitude(), 0))
			}
		}
	}
}

// resolveBox bounces the ball off a rotated rectangle centred at pos. The
// penetration is resolved along the dominant local axis only; an exact tie
// goes to the y axis.
func resolveBox(ball *Ball, pos Vec2, w, h, angle float64, ctx TickContext) {
	p := ball.Position.Minus(pos).Rotate(-angle)
	halfW, halfH := w/2, h/2
	r := ball.Radius

	if !(p.X > -halfW-r && p.X < halfW+r && p.Y > -halfH-r && p.Y < halfH+r) {
		return
	}

	closest := Vec2{X: max(-halfW, min(p.X, halfW)), Y: max(-halfH, min(p.Y, halfH))}
	d := p.Distance(closest)
	if d >= r {
		return
	}

	dx := p.X - closest.X
	dy := p.Y - closest.Y
	overlap := r - d

	var push Vec2
	if math.Abs(dx) > math.Abs(dy) {
		push.X = signedOverlap(dx, overlap)
	} else {
		push.Y = signedOverlap(dy, overlap)
	}

	world := push.Rotate(angle)
	ball.Position = ball.Position.Plus(world)
	ball.Velocity = reflect(ball.Velocity, world.Normalize())
	ctx.bounce()
}

func resolveCircle(ball *Ball, disc *DiscParams, ctx TickContext) {
	d := ball.Position.Distance(disc.Position)
	if d >= disc.Radius+ball.Radius {
		return
	}
	n := ball.Position.Minus(disc.Position).Normalize()
	overlap := disc.Radius + ball.Radius - d
	ball.Position = ball.Position.Plus(n.Times(overlap))
	ball.Velocity = reflect(ball.Velocity, n)
	ctx.bounce()
}

// resolveRepulsion pushes the ball outward with a linear falloff: full
// strength at the centre, nothing at the edge of the range.
func resolveRepulsion(ball *Ball, disc *DiscParams) {
	rng := disc.Radius + ball.Radius
	d := ball.Position.Distance(disc.Position)
	if d >= rng {
		return
	}
	factor := (rng - d) / rng
	dir := ball.Position.Minus(disc.Position).Normalize()
	ball.ApplyForce(dir.Times(disc.Strength * factor))
}

// zoneFactor returns 1 - d/range for a ball inside a speed zone.
func zoneFactor(ball *Ball, disc *DiscParams) (float64, bool) {
	rng := disc.Radius + ball.Radius
	d := ball.Position.Distance(disc.Position)
	if d >= rng {
		return 0, false
	}
	return 1 - d/rng, true
}

// boxContains tests p against the box in its local frame, without inflating
// by the ball radius.
func boxContains(box *BoxParams, p Vec2) bool {
	local := p.Minus(box.Position).Rotate(-box.Angle)
	halfW, halfH := box.Width/2, box.Height/2
	return local.X > -halfW && local.X < halfW && local.Y > -halfH && local.Y < halfH
}

func signedOverlap(delta, overlap float64) float64 {
	if delta > 0 {
		return overlap
	}
	return -overlap
}
