package convert

import (
	"fmt"
	"io"
	"io/ioutil"
	"sort"
	"sync"

	"github.com/golang/glog"
	"github.com/pkg/errors"
	geojson "github.com/paulmach/go.geojson"

	"github.com/godeepar/geocore/geometry"
)

// DatasetFromGeoJSON reads a FeatureCollection. Features that cannot be
// parsed are logged and skipped; it is an error only if none survive.
func DatasetFromGeoJSON(contents io.Reader) (*Dataset, error) {
	raw, err := ioutil.ReadAll(contents)
	if err != nil {
		return nil, errors.Wrap(err, "[DatasetFromGeoJSON] in pkg [convert] encountered")
	}
	if len(raw) == 0 {
		return nil, errors.New("no data in dataset")
	}

	collection, err := geojson.UnmarshalFeatureCollection(raw)
	if err != nil {
		return nil, errors.Wrap(err, "[geojson.UnmarshalFeatureCollection] in pkg [convert] encountered")
	}
	if len(collection.Features) < 1 {
		return nil, errors.New("no features to parse")
	}

	// one slot per source feature keeps the source order
	parsed := make([]*Feature, len(collection.Features))
	var wg sync.WaitGroup
	for i, item := range collection.Features {
		wg.Add(1)
		go func(i int, item *geojson.Feature) {
			defer wg.Done()
			f, err := ParseGeoJSONFeature(item)
			if err != nil {
				glog.Warningf("Non fatal: [ParseGeoJSONFeature] skipped feature %d: %v", i, err)
				return
			}
			parsed[i] = f
		}(i, item)
	}
	wg.Wait()

	var features []*Feature
	for _, f := range parsed {
		if f != nil {
			features = append(features, f)
		}
	}
	ds, err := newDataset(features)
	if err != nil {
		return nil, errors.Wrap(err, "[newDataset] in pkg [convert] encountered")
	}
	return ds, nil
}

// ParseGeoJSONFeature converts one GeoJSON feature.
func ParseGeoJSONFeature(item *geojson.Feature) (*Feature, error) {
	if item == nil || item.Geometry == nil {
		return nil, errors.New("feature has no geometry")
	}
	g, err := FromGeoJSONGeometry(item.Geometry)
	if err != nil {
		return nil, err
	}
	id, name, styleType, atts := ParseGeoJSONAttributes(item.Properties)
	if id == "" && item.ID != nil {
		id = fmt.Sprintf("%v", item.ID)
	}
	return newFeature(id, name, styleType, atts, g)
}

// idKeys are the property keys taken as the feature id, highest priority
// first.
var idKeys = []string{"id", "fid", "osm_id", "uid", "uuid"}

// ParseGeoJSONAttributes picks the id, name and style out of a property map
// and returns the rest as attributes, sorted by key. Empty values are
// dropped. When several id keys are present the first of idKeys wins.
func ParseGeoJSONAttributes(props map[string]interface{}) (id, name, styleType string, atts []Attribute) {
	for _, k := range idKeys {
		if !isEmptyProperty(props[k]) {
			id = fmt.Sprintf("%v", props[k])
			break
		}
	}
	for k, v := range props {
		if isEmptyProperty(v) {
			continue
		}

		switch k {
		case "name":
			name = fmt.Sprintf("%v", v)
		case "styletype":
			styleType = fmt.Sprintf("%v", v)
		case "id", "fid", "osm_id", "uid", "uuid", "tags":
			// do nothing
		default:
			atts = append(atts, Attribute{Key: k, Value: fmt.Sprintf("%v", v)})
		}
	}
	sort.Slice(atts, func(i, j int) bool { return atts[i].Key < atts[j].Key })
	return id, name, styleType, atts
}

func isEmptyProperty(v interface{}) bool {
	switch v := v.(type) {
	case nil:
		return true
	case string:
		return v == "" || v == "0"
	case float64:
		return v == 0
	case int:
		return v == 0
	}
	return false
}

// FromGeoJSONGeometry converts a GeoJSON geometry, collections included.
func FromGeoJSONGeometry(g *geojson.Geometry) (geometry.Geometry, error) {
	switch g.Type {
	case geojson.GeometryPoint:
		c, err := CheckCoords(g.Point)
		if err != nil {
			return nil, err
		}
		return geometry.NewPoint(c), nil

	case geojson.GeometryMultiPoint:
		coords, err := checkPath(g.MultiPoint)
		if err != nil {
			return nil, err
		}
		return geometry.NewMultiPoint(coords...), nil

	case geojson.GeometryLineString:
		coords, err := checkPath(g.LineString)
		if err != nil {
			return nil, err
		}
		return geometry.NewLineString(coords...), nil

	case geojson.GeometryMultiLineString:
		lines := make([]geometry.LineString, 0, len(g.MultiLineString))
		for _, l := range g.MultiLineString {
			coords, err := checkPath(l)
			if err != nil {
				return nil, err
			}
			lines = append(lines, geometry.NewLineString(coords...))
		}
		return geometry.NewMultiLineString(lines...), nil

	case geojson.GeometryPolygon:
		return geoJSONPolygon(g.Polygon)

	case geojson.GeometryMultiPolygon:
		polys := make([]geometry.Polygon, 0, len(g.MultiPolygon))
		for _, p := range g.MultiPolygon {
			poly, err := geoJSONPolygon(p)
			if err != nil {
				return nil, err
			}
			polys = append(polys, poly)
		}
		return geometry.NewMultiPolygon(polys...), nil

	case geojson.GeometryCollection:
		geoms := make([]geometry.Geometry, 0, len(g.Geometries))
		for _, member := range g.Geometries {
			m, err := FromGeoJSONGeometry(member)
			if err != nil {
				return nil, err
			}
			geoms = append(geoms, m)
		}
		return geometry.NewCollection(geoms...), nil
	}
	return nil, errors.Errorf("unsupported geometry of type %v", g.Type)
}

func geoJSONPolygon(rings [][][]float64) (geometry.Polygon, error) {
	if len(rings) == 0 {
		return geometry.NewPolygon(nil), nil
	}
	shell, err := checkPath(rings[0])
	if err != nil {
		return geometry.Polygon{}, err
	}
	holes := make([][]geometry.Coordinate, 0, len(rings)-1)
	for _, r := range rings[1:] {
		hole, err := checkPath(r)
		if err != nil {
			return geometry.Polygon{}, err
		}
		holes = append(holes, hole)
	}
	return geometry.NewPolygon(shell, holes...), nil
}

func checkPath(path [][]float64) ([]geometry.Coordinate, error) {
	coords := make([]geometry.Coordinate, 0, len(path))
	for _, p := range path {
		c, err := CheckCoords(p)
		if err != nil {
			return nil, err
		}
		coords = append(coords, c)
	}
	return coords, nil
}

// CheckCoords validates a GeoJSON position: x and y, optionally z, with x
// and y finite.
func CheckCoords(coord []float64) (geometry.Coordinate, error) {
	var c geometry.Coordinate
	switch len(coord) {
	case 0, 1:
		return c, errors.New("missing x, y")
	case 2:
		c = geometry.XY(coord[0], coord[1])
	default:
		// a fourth ordinate is a measure and is dropped
		c = geometry.XYZ(coord[0], coord[1], coord[2])
	}
	if !c.IsFinite() {
		return c, errors.Errorf("non-finite coordinate %v", coord)
	}
	return c, nil
}
