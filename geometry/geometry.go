// Package geometry holds the vector model shared by the index, location and
// snapping packages: coordinates, envelopes, and a closed set of geometry
// variants.
//
// Geometries are read-only. Constructors copy the coordinates they are given
// and accessors hand out copies, so a geometry can be shared between
// goroutines once built.
package geometry

// Kind identifies a geometry variant.
type Kind int

const (
	PointKind Kind = iota
	LineStringKind
	PolygonKind
	MultiPointKind
	MultiLineStringKind
	MultiPolygonKind
	CollectionKind
)

var kindNames = [...]string{
	PointKind:           "Point",
	LineStringKind:      "LineString",
	PolygonKind:         "Polygon",
	MultiPointKind:      "MultiPoint",
	MultiLineStringKind: "MultiLineString",
	MultiPolygonKind:    "MultiPolygon",
	CollectionKind:      "GeometryCollection",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "Unknown"
	}
	return kindNames[k]
}

// Geometry is implemented only by the variants in this package.
type Geometry interface {
	Kind() Kind
	sealed()
}

// Point is a single position, or the empty point.
type Point struct {
	c     Coordinate
	empty bool
}

func NewPoint(c Coordinate) Point { return Point{c: c} }

func EmptyPoint() Point { return Point{empty: true} }

func (Point) Kind() Kind { return PointKind }
func (p Point) IsEmpty() bool { return p.empty }
func (p Point) Coordinate() Coordinate { return p.c }

// LineString is an ordered vertex sequence. A closed line string whose first
// and last vertices coincide is also used as a polygon ring.
type LineString struct {
	coords []Coordinate
}

func NewLineString(coords ...Coordinate) LineString {
	return LineString{coords: append([]Coordinate(nil), coords...)}
}

func (LineString) Kind() Kind { return LineStringKind }
func (l LineString) IsEmpty() bool { return len(l.coords) == 0 }
func (l LineString) NumPoints() int { return len(l.coords) }
func (l LineString) Coordinate(i int) Coordinate { return l.coords[i] }

// Coordinates returns a copy of the vertices.
func (l LineString) Coordinates() []Coordinate {
	return append([]Coordinate(nil), l.coords...)
}

// IsClosed reports whether the first and last vertices coincide in 2D.
func (l LineString) IsClosed() bool {
	if len(l.coords) == 0 {
		return false
	}
	return l.coords[0].Equals2D(l.coords[len(l.coords)-1])
}

// Envelope of the vertices.
func (l LineString) Envelope() Envelope {
	return EnvelopeOf(l.coords...)
}

// Polygon is an exterior ring with zero or more holes.
type Polygon struct {
	shell LineString
	holes []LineString
}

// NewPolygon builds a polygon. Rings that are not closed are closed by
// repeating their first vertex.
func NewPolygon(shell []Coordinate, holes ...[]Coordinate) Polygon {
	p := Polygon{shell: closeRing(shell)}
	for _, h := range holes {
		p.holes = append(p.holes, closeRing(h))
	}
	return p
}

func closeRing(coords []Coordinate) LineString {
	ring := NewLineString(coords...)
	if len(coords) > 0 && !ring.IsClosed() {
		ring.coords = append(ring.coords, coords[0])
	}
	return ring
}

func (Polygon) Kind() Kind { return PolygonKind }
func (p Polygon) IsEmpty() bool { return p.shell.IsEmpty() }
func (p Polygon) Shell() LineString { return p.shell }
func (p Polygon) NumHoles() int { return len(p.holes) }
func (p Polygon) Hole(i int) LineString { return p.holes[i] }

// Rings returns the shell followed by the holes.
func (p Polygon) Rings() []LineString {
	if p.IsEmpty() {
		return nil
	}
	return append([]LineString{p.shell}, p.holes...)
}

type MultiPoint struct {
	points []Point
}

func NewMultiPoint(coords ...Coordinate) MultiPoint {
	mp := MultiPoint{points: make([]Point, 0, len(coords))}
	for _, c := range coords {
		mp.points = append(mp.points, NewPoint(c))
	}
	return mp
}

func (MultiPoint) Kind() Kind { return MultiPointKind }
func (m MultiPoint) NumPoints() int { return len(m.points) }
func (m MultiPoint) Point(i int) Point { return m.points[i] }

type MultiLineString struct {
	lines []LineString
}

func NewMultiLineString(lines ...LineString) MultiLineString {
	return MultiLineString{lines: append([]LineString(nil), lines...)}
}

func (MultiLineString) Kind() Kind { return MultiLineStringKind }
func (m MultiLineString) NumLines() int { return len(m.lines) }
func (m MultiLineString) Line(i int) LineString { return m.lines[i] }

type MultiPolygon struct {
	polygons []Polygon
}

func NewMultiPolygon(polygons ...Polygon) MultiPolygon {
	return MultiPolygon{polygons: append([]Polygon(nil), polygons...)}
}

func (MultiPolygon) Kind() Kind { return MultiPolygonKind }
func (m MultiPolygon) NumPolygons() int { return len(m.polygons) }
func (m MultiPolygon) Polygon(i int) Polygon { return m.polygons[i] }

// Collection is a heterogeneous list of geometries, nested collections
// included.
type Collection struct {
	geoms []Geometry
}

func NewCollection(geoms ...Geometry) Collection {
	return Collection{geoms: append([]Geometry(nil), geoms...)}
}

func (Collection) Kind() Kind { return CollectionKind }
func (c Collection) NumGeometries() int { return len(c.geoms) }
func (c Collection) Geometry(i int) Geometry { return c.geoms[i] }

func (Point) sealed() {}
func (LineString) sealed() {}
func (Polygon) sealed() {}
func (MultiPoint) sealed() {}
func (MultiLineString) sealed() {}
func (MultiPolygon) sealed() {}
func (Collection) sealed() {}

// Components calls fn for every non-collection part of g, depth first.
// Multi geometries yield their members. Iteration stops when fn returns false.
func Components(g Geometry, fn func(Geometry) bool) bool {
	switch g := g.(type) {
	case MultiPoint:
		for _, p := range g.points {
			if !fn(p) {
				return false
			}
		}
	case MultiLineString:
		for _, l := range g.lines {
			if !fn(l) {
				return false
			}
		}
	case MultiPolygon:
		for _, p := range g.polygons {
			if !fn(p) {
				return false
			}
		}
	case Collection:
		for _, part := range g.geoms {
			if !Components(part, fn) {
				return false
			}
		}
	case nil:
	default:
		return fn(g)
	}
	return true
}
