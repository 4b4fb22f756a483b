package geometry

import (
	"fmt"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

// Bounds returns the envelope of g, or the empty envelope.
func Bounds(g Geometry) Envelope {
	env := EmptyEnvelope()
	Components(g, func(part Geometry) bool {
		switch part := part.(type) {
		case Point:
			if !part.empty {
				env = env.ExpandToInclude(part.c)
			}
		case LineString:
			env = env.ExpandToIncludeEnvelope(part.Envelope())
		case Polygon:
			env = env.ExpandToIncludeEnvelope(part.shell.Envelope())
		}
		return true
	})
	return env
}

// IsEmpty reports whether g has no vertices.
func IsEmpty(g Geometry) bool {
	empty := true
	Components(g, func(part Geometry) bool {
		switch part := part.(type) {
		case Point:
			empty = part.empty
		case LineString:
			empty = part.IsEmpty()
		case Polygon:
			empty = part.IsEmpty()
		}
		return empty
	})
	return empty
}

// Dimension is 0 for puntal, 1 for lineal and 2 for areal geometries. Mixed
// collections report their highest component dimension and empty ones -1.
func Dimension(g Geometry) int {
	dim := -1
	Components(g, func(part Geometry) bool {
		d := -1
		switch part.(type) {
		case Point:
			d = 0
		case LineString:
			d = 1
		case Polygon:
			d = 2
		}
		if d > dim {
			dim = d
		}
		return true
	})
	switch g.(type) {
	case MultiPoint:
		dim = 0
	case MultiLineString:
		dim = 1
	case MultiPolygon:
		dim = 2
	}
	return dim
}

// NumPoints counts every vertex of g, ring closing vertices included.
func NumPoints(g Geometry) int {
	n := 0
	Components(g, func(part Geometry) bool {
		switch part := part.(type) {
		case Point:
			if !part.empty {
				n++
			}
		case LineString:
			n += part.NumPoints()
		case Polygon:
			for _, r := range part.Rings() {
				n += r.NumPoints()
			}
		}
		return true
	})
	return n
}

// Area is the planar area of the areal parts of g.
func Area(g Geometry) float64 {
	if IsEmpty(g) {
		return 0
	}
	return planar.Area(ToOrb(g))
}

// Length is the planar length of the lineal parts of g, polygon rings
// included.
func Length(g Geometry) float64 {
	if IsEmpty(g) {
		return 0
	}
	return planar.Length(ToOrb(g))
}

// Centroid is the area, length or point weighted centre of g, using the
// highest dimension present. ok is false for empty input.
func Centroid(g Geometry) (c Coordinate, ok bool) {
	if IsEmpty(g) {
		return Coordinate{}, false
	}
	pt, _ := planar.CentroidArea(ToOrb(g))
	return XY(pt[0], pt[1]), true
}

// ToOrb converts g to the equivalent orb geometry. Elevations are dropped.
// An empty point becomes an empty orb.MultiPoint.
func ToOrb(g Geometry) orb.Geometry {
	switch g := g.(type) {
	case Point:
		if g.empty {
			return orb.MultiPoint{}
		}
		return orbPoint(g.c)
	case LineString:
		return orbLineString(g)
	case Polygon:
		return orbPolygon(g)
	case MultiPoint:
		mp := make(orb.MultiPoint, 0, len(g.points))
		for _, p := range g.points {
			if !p.empty {
				mp = append(mp, orbPoint(p.c))
			}
		}
		return mp
	case MultiLineString:
		mls := make(orb.MultiLineString, 0, len(g.lines))
		for _, l := range g.lines {
			mls = append(mls, orbLineString(l))
		}
		return mls
	case MultiPolygon:
		mp := make(orb.MultiPolygon, 0, len(g.polygons))
		for _, p := range g.polygons {
			mp = append(mp, orbPolygon(p))
		}
		return mp
	case Collection:
		c := make(orb.Collection, 0, len(g.geoms))
		for _, part := range g.geoms {
			c = append(c, ToOrb(part))
		}
		return c
	}
	return nil
}

// FromOrb converts an orb geometry. Rings become polygons and bounds become
// their rectangle polygon.
func FromOrb(g orb.Geometry) (Geometry, error) {
	switch g := g.(type) {
	case orb.Point:
		return NewPoint(XY(g[0], g[1])), nil
	case orb.MultiPoint:
		return NewMultiPoint(fromOrbPoints(g)...), nil
	case orb.LineString:
		return NewLineString(fromOrbPoints(g)...), nil
	case orb.MultiLineString:
		lines := make([]LineString, 0, len(g))
		for _, l := range g {
			lines = append(lines, NewLineString(fromOrbPoints(l)...))
		}
		return NewMultiLineString(lines...), nil
	case orb.Ring:
		return NewPolygon(fromOrbPoints(g)), nil
	case orb.Polygon:
		return fromOrbPolygon(g), nil
	case orb.MultiPolygon:
		polys := make([]Polygon, 0, len(g))
		for _, p := range g {
			polys = append(polys, fromOrbPolygon(p))
		}
		return NewMultiPolygon(polys...), nil
	case orb.Bound:
		return fromOrbPolygon(g.ToPolygon()), nil
	case orb.Collection:
		parts := make([]Geometry, 0, len(g))
		for _, o := range g {
			part, err := FromOrb(o)
			if err != nil {
				return nil, err
			}
			parts = append(parts, part)
		}
		return NewCollection(parts...), nil
	}
	return nil, fmt.Errorf("unsupported orb geometry %T", g)
}

func orbPoint(c Coordinate) orb.Point {
	return orb.Point{c.X, c.Y}
}

func orbLineString(l LineString) orb.LineString {
	ls := make(orb.LineString, 0, len(l.coords))
	for _, c := range l.coords {
		ls = append(ls, orbPoint(c))
	}
	return ls
}

func orbPolygon(p Polygon) orb.Polygon {
	rings := p.Rings()
	poly := make(orb.Polygon, 0, len(rings))
	for _, r := range rings {
		poly = append(poly, orb.Ring(orbLineString(r)))
	}
	return poly
}

func fromOrbPoints(pts []orb.Point) []Coordinate {
	coords := make([]Coordinate, 0, len(pts))
	for _, p := range pts {
		coords = append(coords, XY(p[0], p[1]))
	}
	return coords
}

func fromOrbPolygon(p orb.Polygon) Polygon {
	if len(p) == 0 {
		return Polygon{}
	}
	holes := make([][]Coordinate, 0, len(p)-1)
	for _, h := range p[1:] {
		holes = append(holes, fromOrbPoints(h))
	}
	return NewPolygon(fromOrbPoints(p[0]), holes...)
}
