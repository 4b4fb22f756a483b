// Package snapround holds the hot pixel test used by snap rounding, and the
// small amount of machinery needed to apply it to segment strings.
//
// A hot pixel is the unit square, in grid units, around a rounded vertex.
// Any segment passing through it is snapped to the vertex. All tests run on
// coordinates scaled into the grid, so rounding the same input twice yields
// the same answer.
package snapround

import (
	"math"

	"github.com/godeepar/geocore/geometry"
	"github.com/godeepar/geocore/intersect"
	"github.com/godeepar/geocore/x"
)

const (
	tolerance = 0.5
	// safe envelope half-width, in grid units
	safeEnvExpansion = 0.75
)

// HotPixel is immutable once built.
type HotPixel struct {
	original    geometry.Coordinate
	scaled      geometry.Coordinate
	scaleFactor float64

	minX, maxX, minY, maxY float64
	// (max,max), (min,max), (min,min), (max,min)
	corners [4]geometry.Coordinate
}

// NewHotPixel builds the pixel around center for a grid of 1/scaleFactor.
func NewHotPixel(center geometry.Coordinate, scaleFactor float64) (*HotPixel, error) {
	if !(scaleFactor > 0) || math.IsInf(scaleFactor, 0) {
		return nil, x.InvalidArgf("hot pixel scale factor %v", scaleFactor)
	}
	hp := &HotPixel{
		original:    center,
		scaleFactor: scaleFactor,
	}
	hp.scaled = hp.scale(center)
	hp.minX = hp.scaled.X - tolerance
	hp.maxX = hp.scaled.X + tolerance
	hp.minY = hp.scaled.Y - tolerance
	hp.maxY = hp.scaled.Y + tolerance
	hp.corners = [4]geometry.Coordinate{
		geometry.XY(hp.maxX, hp.maxY),
		geometry.XY(hp.minX, hp.maxY),
		geometry.XY(hp.minX, hp.minY),
		geometry.XY(hp.maxX, hp.minY),
	}
	return hp, nil
}

// Coordinate is the unscaled centre.
func (hp *HotPixel) Coordinate() geometry.Coordinate {
	return hp.original
}

// ScaledCoordinate is the centre in grid units.
func (hp *HotPixel) ScaledCoordinate() geometry.Coordinate {
	return hp.scaled
}

func (hp *HotPixel) ScaleFactor() float64 {
	return hp.scaleFactor
}

// SafeEnvelope is a square around the rounded centre, in unscaled units,
// that strictly contains the pixel. It is meant for index lookups ahead of
// Intersects.
func (hp *HotPixel) SafeEnvelope() geometry.Envelope {
	d := safeEnvExpansion / hp.scaleFactor
	cx := hp.scaled.X / hp.scaleFactor
	cy := hp.scaled.Y / hp.scaleFactor
	return geometry.Envelope{
		MinX: cx - d,
		MinY: cy - d,
		MaxX: cx + d,
		MaxY: cy + d,
	}
}

func (hp *HotPixel) scale(c geometry.Coordinate) geometry.Coordinate {
	return geometry.XY(roundHalfUp(c.X*hp.scaleFactor), roundHalfUp(c.Y*hp.scaleFactor))
}

// roundHalfUp rounds to the nearest integer, halves towards +Inf, so that
// the grid is the same on both sides of the origin.
func roundHalfUp(v float64) float64 {
	f := math.Floor(v)
	if v-f >= 0.5 {
		return f + 1
	}
	return f
}

// Intersects reports whether the segment p0-p1 passes through the pixel.
//
// The pixel is half open: its top and right edges do not belong to it, so a
// segment running along the shared edge of two pixels is caught by one of
// them only. A segment counts when it
//   - crosses any edge at a point interior to both,
//   - meets both the left and the bottom edge (it passes through the
//     bottom-left corner), or
//   - ends at the pixel centre.
func (hp *HotPixel) Intersects(p0, p1 geometry.Coordinate) bool {
	s0 := hp.scale(p0)
	s1 := hp.scale(p1)

	if hp.maxX < math.Min(s0.X, s1.X) || hp.minX > math.Max(s0.X, s1.X) ||
		hp.maxY < math.Min(s0.Y, s1.Y) || hp.minY > math.Max(s0.Y, s1.Y) {
		return false
	}
	hit := hp.intersectsToleranceSquare(s0, s1)
	// anything inside the half-open square is inside the closed one
	x.AssertTruef(!hit || hp.intersectsPixelClosure(s0, s1),
		"hot pixel %v: half-open test hit segment %v-%v outside the closed pixel",
		hp.original, p0, p1)
	return hit
}

func (hp *HotPixel) intersectsToleranceSquare(p0, p1 geometry.Coordinate) bool {
	c := hp.corners

	// top
	if intersect.Segments(p0, p1, c[0], c[1]).IsProper() {
		return true
	}
	left := intersect.Segments(p0, p1, c[1], c[2])
	if left.IsProper() {
		return true
	}
	bottom := intersect.Segments(p0, p1, c[2], c[3])
	if bottom.IsProper() {
		return true
	}
	// right
	if intersect.Segments(p0, p1, c[3], c[0]).IsProper() {
		return true
	}
	if left.HasIntersection() && bottom.HasIntersection() {
		return true
	}
	return p0.Equals2D(hp.scaled) || p1.Equals2D(hp.scaled)
}

// intersectsPixelClosure tests against the closed square: any contact with
// an edge counts. Used only to check the half-open test.
func (hp *HotPixel) intersectsPixelClosure(p0, p1 geometry.Coordinate) bool {
	c := hp.corners
	for i := range c {
		if intersect.Segments(p0, p1, c[i], c[(i+1)%4]).HasIntersection() {
			return true
		}
	}
	// a segment lying entirely inside touches no edge
	return hp.minX <= p0.X && p0.X <= hp.maxX && hp.minY <= p0.Y && p0.Y <= hp.maxY
}

// AddSnappedNode snaps segment index of seg, the edge from vertex index to
// vertex index+1, to the pixel centre if it passes through the pixel.
func (hp *HotPixel) AddSnappedNode(seg SegmentString, index int) bool {
	p0 := seg.Coordinate(index)
	p1 := seg.Coordinate(index + 1)
	if !hp.Intersects(p0, p1) {
		return false
	}
	seg.AddIntersection(hp.Coordinate(), index)
	return true
}
