package intersect

import (
	"math"

	"github.com/godeepar/geocore/geometry"
)

// Kind classifies the intersection of two segments.
type Kind int

const (
	None Kind = iota
	// Point means the segments meet in exactly one point.
	Point
	// Overlap means the segments are collinear and share a sub-segment.
	Overlap
)

// Result of intersecting two segments.
type Result struct {
	Kind Kind
	// Proper is set when the segments cross at a single point interior to
	// both of them.
	Proper bool
	// Points holds one point for Point and the two ends of the shared
	// sub-segment for Overlap.
	Points []geometry.Coordinate
}

// HasIntersection reports whether the segments share at least one point.
func (r Result) HasIntersection() bool {
	return r.Kind != None
}

// IsProper reports a transversal crossing interior to both segments.
func (r Result) IsProper() bool {
	return r.Proper
}

// Segments intersects the closed segments p1-p2 and q1-q2.
func Segments(p1, p2, q1, q2 geometry.Coordinate) Result {
	penv := geometry.NewEnvelope(p1.X, p1.Y, p2.X, p2.Y)
	qenv := geometry.NewEnvelope(q1.X, q1.Y, q2.X, q2.Y)
	if !penv.Intersects(qenv) {
		return Result{}
	}

	pq1 := Orientation(p1, p2, q1)
	pq2 := Orientation(p1, p2, q2)
	if pq1*pq2 > 0 {
		return Result{}
	}
	qp1 := Orientation(q1, q2, p1)
	qp2 := Orientation(q1, q2, p2)
	if qp1*qp2 > 0 {
		return Result{}
	}

	if pq1 == 0 && pq2 == 0 && qp1 == 0 && qp2 == 0 {
		return collinear(p1, p2, q1, q2, penv, qenv)
	}

	// An endpoint touches the other segment. Prefer a shared endpoint so
	// the reported point is an input vertex.
	if pq1 == 0 || pq2 == 0 || qp1 == 0 || qp2 == 0 {
		var pt geometry.Coordinate
		switch {
		case p1.Equals2D(q1) || p1.Equals2D(q2):
			pt = p1
		case p2.Equals2D(q1) || p2.Equals2D(q2):
			pt = p2
		case pq1 == 0:
			pt = q1
		case pq2 == 0:
			pt = q2
		case qp1 == 0:
			pt = p1
		default:
			pt = p2
		}
		return Result{Kind: Point, Points: []geometry.Coordinate{pt}}
	}

	return Result{
		Kind:   Point,
		Proper: true,
		Points: []geometry.Coordinate{crossing(p1, p2, q1, q2, penv, qenv)},
	}
}

func collinear(p1, p2, q1, q2 geometry.Coordinate, penv, qenv geometry.Envelope) Result {
	q1inP := penv.IntersectsCoordinate(q1)
	q2inP := penv.IntersectsCoordinate(q2)
	p1inQ := qenv.IntersectsCoordinate(p1)
	p2inQ := qenv.IntersectsCoordinate(p2)

	switch {
	case q1inP && q2inP:
		return overlap(q1, q2)
	case p1inQ && p2inQ:
		return overlap(p1, p2)
	case q1inP && p1inQ:
		return overlap(q1, p1)
	case q1inP && p2inQ:
		return overlap(q1, p2)
	case q2inP && p1inQ:
		return overlap(q2, p1)
	case q2inP && p2inQ:
		return overlap(q2, p2)
	}
	return Result{}
}

func overlap(a, b geometry.Coordinate) Result {
	if a.Equals2D(b) {
		return Result{Kind: Point, Points: []geometry.Coordinate{a}}
	}
	return Result{Kind: Overlap, Points: []geometry.Coordinate{a, b}}
}

// crossing computes the point where two properly crossing segments meet.
// The computation is done relative to the centre of the envelopes' overlap
// to keep the magnitudes small. A result that rounding pushed outside the
// segments is replaced by the nearest endpoint.
func crossing(p1, p2, q1, q2 geometry.Coordinate, penv, qenv geometry.Envelope) geometry.Coordinate {
	mx := (math.Max(penv.MinX, qenv.MinX) + math.Min(penv.MaxX, qenv.MaxX)) / 2
	my := (math.Max(penv.MinY, qenv.MinY) + math.Min(penv.MaxY, qenv.MaxY)) / 2

	px, py := p1.X-mx, p1.Y-my
	dpx, dpy := p2.X-p1.X, p2.Y-p1.Y
	qx, qy := q1.X-mx, q1.Y-my
	dqx, dqy := q2.X-q1.X, q2.Y-q1.Y

	denom := dpx*dqy - dpy*dqx
	t := ((qx-px)*dqy - (qy-py)*dqx) / denom
	pt := geometry.XY(px+t*dpx+mx, py+t*dpy+my)

	if math.IsNaN(pt.X) || math.IsNaN(pt.Y) || !penv.IntersectsCoordinate(pt) || !qenv.IntersectsCoordinate(pt) {
		return nearestEndpoint(p1, p2, q1, q2)
	}
	return pt
}

// nearestEndpoint returns the endpoint closest to the other segment.
func nearestEndpoint(p1, p2, q1, q2 geometry.Coordinate) geometry.Coordinate {
	best := p1
	minDist := DistancePointSegment(p1, q1, q2)
	for _, c := range []struct {
		pt, a, b geometry.Coordinate
	}{{p2, q1, q2}, {q1, p1, p2}, {q2, p1, p2}} {
		if d := DistancePointSegment(c.pt, c.a, c.b); d < minDist {
			best, minDist = c.pt, d
		}
	}
	return best
}

// DistancePointSegment is the distance from p to the closed segment a-b.
func DistancePointSegment(p, a, b geometry.Coordinate) float64 {
	if a.Equals2D(b) {
		return p.Distance(a)
	}
	dx, dy := b.X-a.X, b.Y-a.Y
	r := ((p.X-a.X)*dx + (p.Y-a.Y)*dy) / (dx*dx + dy*dy)
	switch {
	case r <= 0:
		return p.Distance(a)
	case r >= 1:
		return p.Distance(b)
	}
	return p.Distance(geometry.XY(a.X+r*dx, a.Y+r*dy))
}
