package convert

import (
	"strings"

	"github.com/golang/glog"
	shp "github.com/jonas-p/go-shp"
	"github.com/paulmach/orb"
	"github.com/pkg/errors"

	"github.com/godeepar/geocore/geometry"
)

// DatasetFromShapefile reads a .shp and its .dbf. Field names are matched
// case-insensitively against the same id, name and style keys as GeoJSON
// properties.
func DatasetFromShapefile(path string) (*Dataset, error) {
	reader, err := shp.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "[shp.Open] in pkg [convert] encountered")
	}
	defer reader.Close()

	fields := reader.Fields()
	var features []*Feature
	for reader.Next() {
		n, shape := reader.Shape()
		g, err := FromShape(shape)
		if err != nil {
			glog.Warningf("Non fatal: [FromShape] skipped record %d: %v", n, err)
			continue
		}

		props := make(map[string]interface{}, len(fields))
		for k, field := range fields {
			value := strings.TrimSpace(reader.ReadAttribute(n, k))
			props[strings.ToLower(field.String())] = value
		}
		id, name, styleType, atts := ParseGeoJSONAttributes(props)

		f, err := newFeature(id, name, styleType, atts, g)
		if err != nil {
			glog.Warningf("Non fatal: [newFeature] skipped record %d: %v", n, err)
			continue
		}
		features = append(features, f)
	}
	if err := reader.Err(); err != nil {
		return nil, errors.Wrap(err, "[shp.Reader] in pkg [convert] encountered")
	}

	ds, err := newDataset(features)
	if err != nil {
		return nil, errors.Wrap(err, "[newDataset] in pkg [convert] encountered")
	}
	return ds, nil
}

// FromShape converts a shapefile record. Polygon parts are shells when
// clockwise and holes of the preceding shell otherwise, as the format
// prescribes.
func FromShape(shape shp.Shape) (geometry.Geometry, error) {
	if err := checkShape(shape); err != nil {
		return nil, err
	}
	switch s := shape.(type) {
	case *shp.Point:
		return geometry.NewPoint(geometry.XY(s.X, s.Y)), nil
	case *shp.PointZ:
		return geometry.NewPoint(geometry.XYZ(s.X, s.Y, s.Z)), nil
	case *shp.MultiPoint:
		return geometry.NewMultiPoint(shpCoords(s.Points, nil)...), nil
	case *shp.MultiPointZ:
		return geometry.NewMultiPoint(shpCoords(s.Points, s.ZArray)...), nil
	case *shp.PolyLine:
		return shpLines(shpParts(s.Parts, s.Points, nil)), nil
	case *shp.PolyLineZ:
		return shpLines(shpParts(s.Parts, s.Points, s.ZArray)), nil
	case *shp.Polygon:
		return shpPolygons(shpParts(s.Parts, s.Points, nil))
	case *shp.PolygonZ:
		return shpPolygons(shpParts(s.Parts, s.Points, s.ZArray))
	case *shp.Null, nil:
		return nil, errors.New("null shape")
	}
	return nil, errors.Errorf("unsupported shape %T", shape)
}

// checkShape rejects records with a NaN or infinite x or y.
func checkShape(shape shp.Shape) error {
	var points []shp.Point
	switch s := shape.(type) {
	case *shp.Point:
		points = []shp.Point{*s}
	case *shp.PointZ:
		points = []shp.Point{{X: s.X, Y: s.Y}}
	case *shp.MultiPoint:
		points = s.Points
	case *shp.MultiPointZ:
		points = s.Points
	case *shp.PolyLine:
		points = s.Points
	case *shp.PolyLineZ:
		points = s.Points
	case *shp.Polygon:
		points = s.Points
	case *shp.PolygonZ:
		points = s.Points
	}
	for _, p := range points {
		if c := geometry.XY(p.X, p.Y); !c.IsFinite() {
			return errors.Errorf("non-finite coordinate %v", c)
		}
	}
	return nil
}

func shpCoords(points []shp.Point, z []float64) []geometry.Coordinate {
	coords := make([]geometry.Coordinate, len(points))
	for i, p := range points {
		if i < len(z) {
			coords[i] = geometry.XYZ(p.X, p.Y, z[i])
		} else {
			coords[i] = geometry.XY(p.X, p.Y)
		}
	}
	return coords
}

func shpParts(parts []int32, points []shp.Point, z []float64) [][]geometry.Coordinate {
	coords := shpCoords(points, z)
	out := make([][]geometry.Coordinate, 0, len(parts))
	for i, start := range parts {
		end := len(coords)
		if i+1 < len(parts) {
			end = int(parts[i+1])
		}
		if int(start) < 0 || int(start) > end || end > len(coords) {
			continue
		}
		out = append(out, coords[start:end])
	}
	return out
}

func shpLines(parts [][]geometry.Coordinate) geometry.Geometry {
	if len(parts) == 1 {
		return geometry.NewLineString(parts[0]...)
	}
	lines := make([]geometry.LineString, len(parts))
	for i, p := range parts {
		lines[i] = geometry.NewLineString(p...)
	}
	return geometry.NewMultiLineString(lines...)
}

func shpPolygons(parts [][]geometry.Coordinate) (geometry.Geometry, error) {
	type polygon struct {
		shell []geometry.Coordinate
		holes [][]geometry.Coordinate
	}
	var polys []*polygon
	for _, ring := range parts {
		if len(ring) < 3 {
			continue
		}
		if ringOrientation(ring) == orb.CW || len(polys) == 0 {
			polys = append(polys, &polygon{shell: ring})
			continue
		}
		last := polys[len(polys)-1]
		last.holes = append(last.holes, ring)
	}
	switch len(polys) {
	case 0:
		return nil, errors.New("polygon without rings")
	case 1:
		return geometry.NewPolygon(polys[0].shell, polys[0].holes...), nil
	}
	out := make([]geometry.Polygon, len(polys))
	for i, p := range polys {
		out[i] = geometry.NewPolygon(p.shell, p.holes...)
	}
	return geometry.NewMultiPolygon(out...), nil
}

func ringOrientation(ring []geometry.Coordinate) orb.Orientation {
	r := make(orb.Ring, len(ring))
	for i, c := range ring {
		r[i] = orb.Point{c.X, c.Y}
	}
	return r.Orientation()
}
