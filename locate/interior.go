package locate

import (
	"sort"

	"github.com/godeepar/geocore/geometry"
	"github.com/godeepar/geocore/intersect"
)

// InteriorPoint returns a point in the interior of the areal parts of g.
//
// Each polygon is cut by a horizontal line at a height that avoids every
// vertex. The widest piece of that line inside the polygon is chosen, and
// its midpoint is the answer. For several polygons the widest piece overall
// wins; on ties the first polygon found is kept. ok is false when g has no
// non-empty polygon.
func InteriorPoint(g geometry.Geometry) (pt geometry.Coordinate, ok bool) {
	maxWidth := 0.0
	geometry.Components(g, func(part geometry.Geometry) bool {
		poly, isPoly := part.(geometry.Polygon)
		if !isPoly || poly.IsEmpty() {
			return true
		}
		c, width := polygonInteriorPoint(poly)
		if !ok || width > maxWidth {
			pt, maxWidth, ok = c, width, true
		}
		return true
	})
	return pt, ok
}

func polygonInteriorPoint(poly geometry.Polygon) (geometry.Coordinate, float64) {
	env := poly.Shell().Envelope()
	y := bisectorY(poly, env)
	left := geometry.XY(env.MinX, y)
	right := geometry.XY(env.MaxX, y)
	if left.Equals2D(right) {
		return left, 0
	}

	xs := bisectorCrossings(poly, left, right)
	sort.Float64s(xs)

	// crossings alternate entering and leaving the polygon
	best := -1.0
	var mid geometry.Coordinate
	for i := 0; i+1 < len(xs); i += 2 {
		if w := xs[i+1] - xs[i]; w > best {
			best = w
			mid = geometry.XY((xs[i]+xs[i+1])/2, y)
		}
	}
	if best < 0 {
		// no interval found: collapsed polygon
		return geometry.XY((env.MinX+env.MaxX)/2, y), 0
	}
	return mid, best
}

// bisectorY picks a height near the middle of env that is not the Y of any
// vertex of poly, unless poly has no height at all.
func bisectorY(poly geometry.Polygon, env geometry.Envelope) float64 {
	centreY := (env.MinY + env.MaxY) / 2
	loY, hiY := env.MinY, env.MaxY
	for _, ring := range poly.Rings() {
		for i := 0; i < ring.NumPoints(); i++ {
			y := ring.Coordinate(i).Y
			if y <= centreY {
				if y > loY {
					loY = y
				}
			} else if y < hiY {
				hiY = y
			}
		}
	}
	return (loY + hiY) / 2
}

// bisectorCrossings returns the X of each point where a ring edge meets the
// segment left-right.
func bisectorCrossings(poly geometry.Polygon, left, right geometry.Coordinate) []float64 {
	var xs []float64
	for _, ring := range poly.Rings() {
		for i := 1; i < ring.NumPoints(); i++ {
			r := intersect.Segments(left, right, ring.Coordinate(i-1), ring.Coordinate(i))
			if r.Kind == intersect.Point {
				xs = append(xs, r.Points[0].X)
			}
		}
	}
	return xs
}
