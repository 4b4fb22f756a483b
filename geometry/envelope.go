package geometry

import (
	"fmt"
	"math"

	"github.com/paulmach/orb"
)

// Envelope is an axis-aligned bounding rectangle. Envelopes are values:
// every operation that grows or shrinks one returns a new Envelope.
//
// An envelope whose minimum exceeds its maximum on either axis, or that
// holds a NaN ordinate, is empty. EmptyEnvelope returns the canonical one.
// The zero value is not empty: it is the degenerate envelope at the origin.
type Envelope struct {
	MinX float64 `json:"minx"`
	MinY float64 `json:"miny"`
	MaxX float64 `json:"maxx"`
	MaxY float64 `json:"maxy"`
}

// EmptyEnvelope returns the empty envelope.
func EmptyEnvelope() Envelope {
	return Envelope{MinX: 0, MinY: 0, MaxX: -1, MaxY: -1}
}

// NewEnvelope builds the envelope spanning the two corners given in any order.
func NewEnvelope(x1, y1, x2, y2 float64) Envelope {
	return Envelope{
		MinX: math.Min(x1, x2),
		MinY: math.Min(y1, y2),
		MaxX: math.Max(x1, x2),
		MaxY: math.Max(y1, y2),
	}
}

// EnvelopeOf returns the envelope of a set of coordinates.
func EnvelopeOf(coords ...Coordinate) Envelope {
	env := EmptyEnvelope()
	for _, c := range coords {
		env = env.ExpandToInclude(c)
	}
	return env
}

// EnvelopeFromBound converts an orb bound.
func EnvelopeFromBound(b orb.Bound) Envelope {
	return NewEnvelope(b.Min[0], b.Min[1], b.Max[0], b.Max[1])
}

// IsEmpty reports whether the envelope is the empty sentinel or holds NaN.
func (e Envelope) IsEmpty() bool {
	return !(e.MinX <= e.MaxX && e.MinY <= e.MaxY)
}

// Width is zero for the empty envelope.
func (e Envelope) Width() float64 {
	if e.IsEmpty() {
		return 0
	}
	return e.MaxX - e.MinX
}

// Height is zero for the empty envelope.
func (e Envelope) Height() float64 {
	if e.IsEmpty() {
		return 0
	}
	return e.MaxY - e.MinY
}

// Intersects reports whether the two envelopes share at least one point.
func (e Envelope) Intersects(o Envelope) bool {
	if e.IsEmpty() || o.IsEmpty() {
		return false
	}
	return !(o.MinX > e.MaxX || o.MaxX < e.MinX || o.MinY > e.MaxY || o.MaxY < e.MinY)
}

// IntersectsCoordinate reports whether c lies inside or on the envelope.
func (e Envelope) IntersectsCoordinate(c Coordinate) bool {
	if e.IsEmpty() {
		return false
	}
	return c.X >= e.MinX && c.X <= e.MaxX && c.Y >= e.MinY && c.Y <= e.MaxY
}

// Covers reports whether o lies entirely inside e, boundary included.
func (e Envelope) Covers(o Envelope) bool {
	if e.IsEmpty() || o.IsEmpty() {
		return false
	}
	return o.MinX >= e.MinX && o.MaxX <= e.MaxX && o.MinY >= e.MinY && o.MaxY <= e.MaxY
}

// ExpandToInclude returns the smallest envelope containing e and c.
func (e Envelope) ExpandToInclude(c Coordinate) Envelope {
	if e.IsEmpty() {
		return Envelope{MinX: c.X, MinY: c.Y, MaxX: c.X, MaxY: c.Y}
	}
	return Envelope{
		MinX: math.Min(e.MinX, c.X),
		MinY: math.Min(e.MinY, c.Y),
		MaxX: math.Max(e.MaxX, c.X),
		MaxY: math.Max(e.MaxY, c.Y),
	}
}

// ExpandToIncludeEnvelope returns the union of the two envelopes.
func (e Envelope) ExpandToIncludeEnvelope(o Envelope) Envelope {
	if o.IsEmpty() {
		return e
	}
	if e.IsEmpty() {
		return o
	}
	return Envelope{
		MinX: math.Min(e.MinX, o.MinX),
		MinY: math.Min(e.MinY, o.MinY),
		MaxX: math.Max(e.MaxX, o.MaxX),
		MaxY: math.Max(e.MaxY, o.MaxY),
	}
}

// ExpandBy grows the envelope by dx on both sides of the x axis and by dy on
// both sides of the y axis. Negative distances shrink it and may empty it.
func (e Envelope) ExpandBy(dx, dy float64) Envelope {
	if e.IsEmpty() {
		return e
	}
	out := Envelope{MinX: e.MinX - dx, MinY: e.MinY - dy, MaxX: e.MaxX + dx, MaxY: e.MaxY + dy}
	if out.IsEmpty() {
		return EmptyEnvelope()
	}
	return out
}

// Centre returns the midpoint of the envelope. ok is false when e is empty.
func (e Envelope) Centre() (c Coordinate, ok bool) {
	if e.IsEmpty() {
		return Coordinate{}, false
	}
	return XY((e.MinX+e.MaxX)/2, (e.MinY+e.MaxY)/2), true
}

// Equal treats every empty envelope as equal to every other.
func (e Envelope) Equal(o Envelope) bool {
	if e.IsEmpty() || o.IsEmpty() {
		return e.IsEmpty() && o.IsEmpty()
	}
	return e == o
}

// Bound converts to an orb bound. The empty envelope maps to orb's zero bound.
func (e Envelope) Bound() orb.Bound {
	if e.IsEmpty() {
		return orb.Bound{}
	}
	return orb.Bound{Min: orb.Point{e.MinX, e.MinY}, Max: orb.Point{e.MaxX, e.MaxY}}
}

func (e Envelope) String() string {
	if e.IsEmpty() {
		return "Env[empty]"
	}
	return fmt.Sprintf("Env[%v : %v, %v : %v]", e.MinX, e.MaxX, e.MinY, e.MaxY)
}
