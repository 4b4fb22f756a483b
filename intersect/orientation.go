// Package intersect computes segment intersections whose topology is exact:
// the sidedness of a point with respect to a line is decided without
// rounding error, so "does it cross", "is it proper" and "is it collinear"
// always agree with each other. Only the coordinates of a computed crossing
// point are subject to floating point rounding.
package intersect

import (
	"math"
	"math/big"

	"github.com/twpayne/go-geom"
	geomxy "github.com/twpayne/go-geom/xy"
	"github.com/twpayne/go-geom/xy/orientation"

	"github.com/godeepar/geocore/geometry"
)

// Orientation values.
const (
	Clockwise        = int(orientation.Clockwise)
	Collinear        = int(orientation.Collinear)
	CounterClockwise = int(orientation.CounterClockwise)
)

// filter bound on the relative error of the float determinant.
const orientationErrBound = 1e-15

// Orientation returns the side of q relative to the directed line p1->p2:
// CounterClockwise if q is to the left, Clockwise if to the right, and
// Collinear if on the line. The result is exact.
func Orientation(p1, p2, q geometry.Coordinate) int {
	detLeft := (p2.X - p1.X) * (q.Y - p1.Y)
	detRight := (p2.Y - p1.Y) * (q.X - p1.X)
	det := detLeft - detRight

	if !p1.IsFinite() || !p2.IsFinite() || !q.IsFinite() {
		return sign(det)
	}
	detSum := math.Abs(detLeft) + math.Abs(detRight)
	if math.Abs(det) > orientationErrBound*detSum {
		return int(geomxy.OrientationIndex(geomCoord(p1), geomCoord(p2), geomCoord(q)))
	}
	// too close to call in float64
	return orientationExact(p1, p2, q)
}

func geomCoord(c geometry.Coordinate) geom.Coord {
	return geom.Coord{c.X, c.Y}
}

// orientationExact evaluates the determinant with rational arithmetic. The
// differences of float64 values are exact as rationals, unlike in floating
// point.
func orientationExact(p1, p2, q geometry.Coordinate) int {
	r := func(v float64) *big.Rat { return new(big.Rat).SetFloat64(v) }
	sub := func(a, b float64) *big.Rat { return new(big.Rat).Sub(r(a), r(b)) }

	dx1 := sub(p2.X, p1.X)
	dy1 := sub(p2.Y, p1.Y)
	dx2 := sub(q.X, p1.X)
	dy2 := sub(q.Y, p1.Y)

	left := new(big.Rat).Mul(dx1, dy2)
	right := new(big.Rat).Mul(dy1, dx2)
	return left.Cmp(right)
}

func sign(v float64) int {
	switch {
	case v > 0:
		return CounterClockwise
	case v < 0:
		return Clockwise
	}
	return Collinear
}

// PointOnSegment reports whether p lies on the closed segment a-b.
func PointOnSegment(p, a, b geometry.Coordinate) bool {
	if !geometry.NewEnvelope(a.X, a.Y, b.X, b.Y).IntersectsCoordinate(p) {
		return false
	}
	return Orientation(a, b, p) == Collinear
}
