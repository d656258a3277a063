package game

// CourseBoundary is the ordered polyline around the course. Segments run from
// Points[i] to Points[i+1]; there is no implicit segment from last to first.
type CourseBoundary struct {
	Points []Vec2 `json:"points"`
}

// Segment is one edge of the boundary.
type Segment struct {
	A Vec2
	B Vec2
}

// Segments returns the explicit segments in order.
func (c CourseBoundary) Segments() []Segment {
	if len(c.Points) < 2 {
		return nil
	}
	segs := make([]Segment, 0, len(c.Points)-1)
	for i := 0; i < len(c.Points)-1; i++ {
		segs = append(segs, Segment{A: c.Points[i], B: c.Points[i+1]})
	}
	return segs
}

// ClosestPoint returns the point on the segment nearest to p. The projection
// parameter is clamped to [0,1]; a zero-length segment yields A.
func (s Segment) ClosestPoint(p Vec2) Vec2 {
	ab := s.B.Minus(s.A)
	lenSq := ab.Dot(ab)
	if lenSq == 0 {
		return s.A
	}
	t := p.Minus(s.A).Dot(ab) / lenSq
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	return s.A.Plus(ab.Times(t))
}

// NearestPoint returns the closest point on the whole polyline to p and the
// index of the segment it lies on, or -1 when there are no segments.
func (c CourseBoundary) NearestPoint(p Vec2) (Vec2, int) {
	best := -1
	var bestPt Vec2
	bestDist := 0.0
	for i, seg := range c.Segments() {
		pt := seg.ClosestPoint(p)
		d := pt.Distance(p)
		if best == -1 || d < bestDist {
			best, bestPt, bestDist = i, pt, d
		}
	}
	return bestPt, best
}

// IsClosed is a rendering hint: the last point lies within
// BoundaryClosedDistance of the first. Collision never consults it.
func (c CourseBoundary) IsClosed() bool {
	if len(c.Points) < 3 {
		return false
	}
	return c.Points[0].Distance(c.Points[len(c.Points)-1]) < BoundaryClosedDistance
}

// Clone returns a copy with its own point slice.
func (c CourseBoundary) Clone() CourseBoundary {
	pts := make([]Vec2, len(c.Points))
	copy(pts, c.Points)
	return CourseBoundary{Points: pts}
}
