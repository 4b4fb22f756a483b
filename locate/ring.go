package locate

import (
	"github.com/twpayne/go-geom"
	geomxy "github.com/twpayne/go-geom/xy"
	"github.com/twpayne/go-geom/xy/location"

	"github.com/godeepar/geocore/geometry"
)

// LocatePointInRing classifies p against the area enclosed by a closed ring.
// Points on the ring are on the boundary.
//
// Edges are counted with the half-open ray crossing rule, so a ray through a
// vertex is counted once.
func LocatePointInRing(p geometry.Coordinate, ring geometry.LineString) geometry.Location {
	if ring.NumPoints() < 2 {
		return geometry.Exterior
	}
	flat := make([]float64, 0, 2*ring.NumPoints())
	for _, c := range ring.Coordinates() {
		flat = append(flat, c.X, c.Y)
	}
	return fromGeomLocation(geomxy.LocatePointInRing(geom.XY, geom.Coord{p.X, p.Y}, flat))
}

func fromGeomLocation(l location.Type) geometry.Location {
	switch l {
	case location.Interior:
		return geometry.Interior
	case location.Boundary:
		return geometry.Boundary
	}
	return geometry.Exterior
}
