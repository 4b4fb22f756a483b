// Package locate classifies points against geometries and finds interior
// points of areal geometries.
package locate

import (
	"github.com/godeepar/geocore/geometry"
	"github.com/godeepar/geocore/intersect"
)

// PointLocator computes the topological location of a point. The zero value
// uses the Mod2 boundary rule.
type PointLocator struct {
	Rule BoundaryNodeRule
}

// Locate classifies c against g with the default boundary rule.
func Locate(c geometry.Coordinate, g geometry.Geometry) geometry.Location {
	return PointLocator{}.Locate(c, g)
}

// Intersects reports whether c is not in the exterior of g.
func (l PointLocator) Intersects(c geometry.Coordinate, g geometry.Geometry) bool {
	return l.Locate(c, g) != geometry.Exterior
}

// Locate classifies c against g.
//
// A single line string or polygon is classified directly. For every other
// geometry the components are classified one by one and the boundary rule
// decides, from the number of component boundaries touched, whether c is on
// the boundary of the whole.
func (l PointLocator) Locate(c geometry.Coordinate, g geometry.Geometry) geometry.Location {
	if g == nil || geometry.IsEmpty(g) {
		return geometry.Exterior
	}
	switch g := g.(type) {
	case geometry.LineString:
		return locateOnLineString(c, g)
	case geometry.Polygon:
		return locateInPolygon(c, g)
	}

	isIn := false
	numBoundaries := 0
	geometry.Components(g, func(part geometry.Geometry) bool {
		switch locatePart(c, part) {
		case geometry.Interior:
			isIn = true
		case geometry.Boundary:
			numBoundaries++
		}
		return true
	})

	if l.Rule.IsInBoundary(numBoundaries) {
		return geometry.Boundary
	}
	if numBoundaries > 0 || isIn {
		return geometry.Interior
	}
	return geometry.Exterior
}

func locatePart(c geometry.Coordinate, part geometry.Geometry) geometry.Location {
	switch part := part.(type) {
	case geometry.Point:
		if !part.IsEmpty() && part.Coordinate().Equals2D(c) {
			return geometry.Interior
		}
	case geometry.LineString:
		return locateOnLineString(c, part)
	case geometry.Polygon:
		return locateInPolygon(c, part)
	}
	return geometry.Exterior
}

func locateOnLineString(c geometry.Coordinate, l geometry.LineString) geometry.Location {
	if l.IsEmpty() || !l.Envelope().IntersectsCoordinate(c) {
		return geometry.Exterior
	}
	if !l.IsClosed() {
		if c.Equals2D(l.Coordinate(0)) || c.Equals2D(l.Coordinate(l.NumPoints()-1)) {
			return geometry.Boundary
		}
	}
	if IsOnLine(c, l) {
		return geometry.Interior
	}
	return geometry.Exterior
}

func locateInPolygon(c geometry.Coordinate, p geometry.Polygon) geometry.Location {
	if p.IsEmpty() {
		return geometry.Exterior
	}
	switch locateInRing(c, p.Shell()) {
	case geometry.Exterior:
		return geometry.Exterior
	case geometry.Boundary:
		return geometry.Boundary
	}
	for i := 0; i < p.NumHoles(); i++ {
		switch locateInRing(c, p.Hole(i)) {
		case geometry.Interior:
			return geometry.Exterior
		case geometry.Boundary:
			return geometry.Boundary
		}
	}
	return geometry.Interior
}

func locateInRing(c geometry.Coordinate, ring geometry.LineString) geometry.Location {
	if !ring.Envelope().IntersectsCoordinate(c) {
		return geometry.Exterior
	}
	return LocatePointInRing(c, ring)
}

// IsOnLine reports whether c lies on any segment of l.
func IsOnLine(c geometry.Coordinate, l geometry.LineString) bool {
	for i := 1; i < l.NumPoints(); i++ {
		if intersect.PointOnSegment(c, l.Coordinate(i-1), l.Coordinate(i)) {
			return true
		}
	}
	return false
}
