package convert

import (
	"github.com/pkg/errors"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/wkb"
	"github.com/twpayne/go-geom/encoding/wkbhex"

	"github.com/godeepar/geocore/geometry"
)

// FromWKB decodes a well-known binary geometry.
func FromWKB(data []byte) (geometry.Geometry, error) {
	g, err := wkb.Unmarshal(data)
	if err != nil {
		return nil, errors.Wrap(err, "[wkb.Unmarshal] in pkg [convert] encountered")
	}
	return FromGeom(g)
}

// FeatureFromWKB builds a standalone feature from a WKB geometry.
func FeatureFromWKB(id string, data []byte) (*Feature, error) {
	g, err := FromWKB(data)
	if err != nil {
		return nil, err
	}
	return newFeature(id, "", "", nil, g)
}

// FeatureFromWKBHex is FeatureFromWKB for hex encoded WKB, the form
// PostGIS prints geometries in.
func FeatureFromWKBHex(id, data string) (*Feature, error) {
	g, err := wkbhex.Decode(data)
	if err != nil {
		return nil, errors.Wrap(err, "[wkbhex.Decode] in pkg [convert] encountered")
	}
	converted, err := FromGeom(g)
	if err != nil {
		return nil, err
	}
	return newFeature(id, "", "", nil, converted)
}

// FromGeom converts a go-geom geometry. Measures are dropped.
func FromGeom(g geom.T) (geometry.Geometry, error) {
	if g == nil {
		return nil, errors.New("nil geometry")
	}
	if _, ok := g.(*geom.GeometryCollection); !ok {
		if err := checkFlatCoords(g.FlatCoords(), g.Stride()); err != nil {
			return nil, err
		}
	}
	zIndex := g.Layout().ZIndex()
	coord := func(c geom.Coord) geometry.Coordinate {
		if zIndex >= 0 && zIndex < len(c) {
			return geometry.XYZ(c[0], c[1], c[zIndex])
		}
		return geometry.XY(c[0], c[1])
	}
	path := func(cs []geom.Coord) []geometry.Coordinate {
		out := make([]geometry.Coordinate, len(cs))
		for i, c := range cs {
			out[i] = coord(c)
		}
		return out
	}
	polygon := func(rings [][]geom.Coord) geometry.Polygon {
		if len(rings) == 0 {
			return geometry.NewPolygon(nil)
		}
		holes := make([][]geometry.Coordinate, 0, len(rings)-1)
		for _, r := range rings[1:] {
			holes = append(holes, path(r))
		}
		return geometry.NewPolygon(path(rings[0]), holes...)
	}

	switch g := g.(type) {
	case *geom.Point:
		if g.Empty() {
			return geometry.EmptyPoint(), nil
		}
		return geometry.NewPoint(coord(g.Coords())), nil
	case *geom.MultiPoint:
		return geometry.NewMultiPoint(path(g.Coords())...), nil
	case *geom.LineString:
		return geometry.NewLineString(path(g.Coords())...), nil
	case *geom.LinearRing:
		return geometry.NewLineString(path(g.Coords())...), nil
	case *geom.MultiLineString:
		lines := make([]geometry.LineString, g.NumLineStrings())
		for i := range lines {
			lines[i] = geometry.NewLineString(path(g.LineString(i).Coords())...)
		}
		return geometry.NewMultiLineString(lines...), nil
	case *geom.Polygon:
		return polygon(g.Coords()), nil
	case *geom.MultiPolygon:
		polys := make([]geometry.Polygon, g.NumPolygons())
		for i := range polys {
			polys[i] = polygon(g.Polygon(i).Coords())
		}
		return geometry.NewMultiPolygon(polys...), nil
	case *geom.GeometryCollection:
		members := make([]geometry.Geometry, 0, g.NumGeoms())
		for _, m := range g.Geoms() {
			c, err := FromGeom(m)
			if err != nil {
				return nil, err
			}
			members = append(members, c)
		}
		return geometry.NewCollection(members...), nil
	}
	return nil, errors.Errorf("unsupported geometry %T", g)
}

// checkFlatCoords rejects a NaN or infinite x or y.
func checkFlatCoords(flat []float64, stride int) error {
	if stride < 2 {
		return nil
	}
	for i := 0; i+1 < len(flat); i += stride {
		if c := geometry.XY(flat[i], flat[i+1]); !c.IsFinite() {
			return errors.Errorf("non-finite coordinate %v", c)
		}
	}
	return nil
}
