package game

// ObstacleKind tags which payload of an Obstacle is meaningful.
type ObstacleKind string

const (
	KindRect       ObstacleKind = "rect"
	KindCircle     ObstacleKind = "circle"
	KindWater      ObstacleKind = "water"
	KindJump       ObstacleKind = "jump"
	KindRepulsion  ObstacleKind = "repulsion"
	KindMovingRect ObstacleKind = "movingRect"
	KindSpeedUp    ObstacleKind = "speedUp"
	KindSlowDown   ObstacleKind = "slowDown"
)

// Known reports whether the kind is part of the obstacle catalog.
// Unknown kinds are carried through untouched and ignored by collision.
func (k ObstacleKind) Known() bool {
	switch k {
	case KindRect, KindCircle, KindWater, KindJump,
		KindRepulsion, KindMovingRect, KindSpeedUp, KindSlowDown:
		return true
	}
	return false
}

// BoxParams describes a rotated rectangle (rect, water, jump).
type BoxParams struct {
	Position Vec2    `json:"position"`
	Width    float64 `json:"width"`
	Height   float64 `json:"height"`
	Angle    float64 `json:"angle"` // degrees
}

// DiscParams describes a circular obstacle or zone (circle, repulsion, speedUp, slowDown).
// Strength is unused by circle.
type DiscParams struct {
	Position Vec2    `json:"position"`
	Radius   float64 `json:"radius"`
	Strength float64 `json:"strength"`
}

// PlatformParams describes a rectangle that ping-pongs between Start and End.
// T and Forward are the platform's own animation state.
type PlatformParams struct {
	Start   Vec2    `json:"start"`
	End     Vec2    `json:"end"`
	Width   float64 `json:"width"`
	Height  float64 `json:"height"`
	Angle   float64 `json:"angle"`
	Speed   float64 `json:"speed"`
	T       float64 `json:"t"`
	Forward bool    `json:"forward"`
}

// Position is the platform centre for the current T.
func (p *PlatformParams) Position() Vec2 {
	return p.Start.Plus(p.End.Minus(p.Start).Times(p.T))
}

// advance moves T by Speed, reversing at either end.
func (p *PlatformParams) advance() {
	if p.Forward {
		p.T += p.Speed
		if p.T > 1 {
			p.T = 1
			p.Forward = false
		}
	} else {
		p.T -= p.Speed
		if p.T < 0 {
			p.T = 0
			p.Forward = true
		}
	}
}

// Obstacle is a closed variant over the obstacle catalog. Exactly one payload
// is set and Kind says which; the others are nil.
type Obstacle struct {
	Kind     ObstacleKind    `json:"type"`
	Box      *BoxParams      `json:"box,omitempty"`
	Disc     *DiscParams     `json:"disc,omitempty"`
	Platform *PlatformParams `json:"platform,omitempty"`
}

func NewRect(pos Vec2, w, h, angle float64) Obstacle {
	return Obstacle{Kind: KindRect, Box: &BoxParams{Position: pos, Width: w, Height: h, Angle: angle}}
}

func NewWater(pos Vec2, w, h, angle float64) Obstacle {
	return Obstacle{Kind: KindWater, Box: &BoxParams{Position: pos, Width: w, Height: h, Angle: angle}}
}

func NewJump(pos Vec2, w, h, angle float64) Obstacle {
	return Obstacle{Kind: KindJump, Box: &BoxParams{Position: pos, Width: w, Height: h, Angle: angle}}
}

func NewCircle(pos Vec2, r float64) Obstacle {
	return Obstacle{Kind: KindCircle, Disc: &DiscParams{Position: pos, Radius: r}}
}

func NewRepulsion(pos Vec2, r, strength float64) Obstacle {
	return Obstacle{Kind: KindRepulsion, Disc: &DiscParams{Position: pos, Radius: r, Strength: strength}}
}

func NewSpeedUp(pos Vec2, r, strength float64) Obstacle {
	return Obstacle{Kind: KindSpeedUp, Disc: &DiscParams{Position: pos, Radius: r, Strength: strength}}
}

func NewSlowDown(pos Vec2, r, strength float64) Obstacle {
	return Obstacle{Kind: KindSlowDown, Disc: &DiscParams{Position: pos, Radius: r, Strength: strength}}
}

func NewMovingRect(start, end Vec2, w, h, angle, speed float64) Obstacle {
	return Obstacle{Kind: KindMovingRect, Platform: &PlatformParams{
		Start: start, End: end, Width: w, Height: h, Angle: angle, Speed: speed, Forward: true,
	}}
}

// WorldPosition returns the obstacle centre in course space, resolving the
// moving platform's current interpolated position.
func (o *Obstacle) WorldPosition() (Vec2, bool) {
	switch {
	case o.Box != nil:
		return o.Box.Position, true
	case o.Disc != nil:
		return o.Disc.Position, true
	case o.Platform != nil:
		return o.Platform.Position(), true
	}
	return Vec2{}, false
}

// Clone returns a deep copy so per-session platform state is not shared.
func (o Obstacle) Clone() Obstacle {
	c := Obstacle{Kind: o.Kind}
	if o.Box != nil {
		box := *o.Box
		c.Box = &box
	}
	if o.Disc != nil {
		disc := *o.Disc
		c.Disc = &disc
	}
	if o.Platform != nil {
		pl := *o.Platform
		c.Platform = &pl
	}
	return c
}
