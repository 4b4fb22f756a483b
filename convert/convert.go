// Package convert turns GeoJSON, shapefile and WKB sources into an indexed
// Dataset of features, each with an envelope and a label point, plus the
// dataset's extent, centre and s2 coverage.
package convert

import (
	"iter"
	"sort"
	"strconv"
	"sync"

	"github.com/golang/glog"
	"github.com/pkg/errors"

	"github.com/godeepar/geocore/geometry"
	"github.com/godeepar/geocore/locate"
	"github.com/godeepar/geocore/quadtree"
)

// Attribute ...
type Attribute struct {
	Key   string `json:"key" yaml:"key"`
	Value string `json:"value" yaml:"value"`
}

// Feature is one parsed record of a source.
type Feature struct {
	ID         string              `json:"id" yaml:"id"`
	Name       string              `json:"name,omitempty" yaml:"name,omitempty"`
	StyleType  string              `json:"type,omitempty" yaml:"type,omitempty"`
	Attributes []Attribute         `json:"attributes,omitempty" yaml:"attributes,omitempty"`
	Kind       string              `json:"geometry" yaml:"geometry"`
	Envelope   geometry.Envelope   `json:"bbox" yaml:"bbox"`
	Label      geometry.Coordinate `json:"label" yaml:"label"`
	Geometry   geometry.Geometry   `json:"-" yaml:"-"`

	// position in Dataset.Features
	seq int
}

// Dataset is immutable once built and safe for concurrent readers.
type Dataset struct {
	Features []*Feature          `json:"features" yaml:"features"`
	Extent   geometry.Envelope   `json:"extent" yaml:"extent"`
	Center   geometry.Coordinate `json:"center" yaml:"center"`
	S2       []string            `json:"s2" yaml:"s2"`

	byID  map[string]*Feature
	index *quadtree.IDIndex[*Feature]
}

// Match is a feature that a located coordinate falls in or on.
type Match struct {
	Feature  *Feature          `json:"feature"`
	Location geometry.Location `json:"location"`
}

// newFeature fills in the derived fields of a feature.
func newFeature(id, name, styleType string, atts []Attribute, g geometry.Geometry) (*Feature, error) {
	if geometry.IsEmpty(g) {
		return nil, errors.New("empty geometry")
	}
	env := geometry.Bounds(g)
	if !geometry.XY(env.MinX, env.MinY).IsFinite() || !geometry.XY(env.MaxX, env.MaxY).IsFinite() {
		return nil, errors.Errorf("non-finite extent %v", env)
	}
	label, ok := labelPoint(g)
	if !ok {
		return nil, errors.New("no label point")
	}
	return &Feature{
		ID:         id,
		Name:       name,
		StyleType:  styleType,
		Attributes: atts,
		Kind:       g.Kind().String(),
		Envelope:   env,
		Label:      label,
		Geometry:   g,
	}, nil
}

// labelPoint is an interior point for areal geometries and the first vertex
// for anything else.
func labelPoint(g geometry.Geometry) (geometry.Coordinate, bool) {
	if c, ok := locate.InteriorPoint(g); ok {
		return c, true
	}
	var (
		first geometry.Coordinate
		found bool
	)
	geometry.Components(g, func(part geometry.Geometry) bool {
		switch p := part.(type) {
		case geometry.Point:
			if !p.IsEmpty() {
				first, found = p.Coordinate(), true
			}
		case geometry.LineString:
			if !p.IsEmpty() {
				first, found = p.Coordinate(0), true
			}
		}
		return !found
	})
	return first, found
}

// newDataset indexes the features, collects the extent through an
// ExtentContainer and derives the centre and s2 covering. Features without
// an id get their position in the source as id.
func newDataset(features []*Feature) (*Dataset, error) {
	if len(features) == 0 {
		return nil, errors.New("no valid features in dataset")
	}
	ds := &Dataset{
		Features: features,
		byID:     make(map[string]*Feature, len(features)),
	}
	ds.index = quadtree.NewIDIndex(
		func(f *Feature) geometry.Envelope { return f.Envelope },
		func(f *Feature) int { return f.seq },
		func(seq int) (*Feature, bool) {
			if seq < 0 || seq >= len(ds.Features) {
				return nil, false
			}
			return ds.Features[seq], true
		})

	container := initExtentContainer()
	var wg sync.WaitGroup
	for i, f := range features {
		f.seq = i
		if f.ID == "" {
			f.ID = seqID(i)
		}
		if _, dup := ds.byID[f.ID]; dup {
			glog.Warningf("Non fatal: duplicate feature id %q, later feature only reachable by query", f.ID)
		} else {
			ds.byID[f.ID] = f
		}
		if err := ds.index.Add(f); err != nil {
			// senders must finish before the channel closes
			wg.Wait()
			close(container.ch)
			<-container.done
			return nil, errors.Wrapf(err, "[newDataset] in pkg [convert] indexing feature %q encountered", f.ID)
		}

		wg.Add(1)
		go func(env geometry.Envelope) {
			defer wg.Done()
			container.ch <- env
		}(f.Envelope)
	}
	wg.Wait()

	// close the BBOXListener goroutine
	close(container.ch)
	<-container.done

	ds.Extent = container.extent
	c, ok := ds.Extent.Centre()
	if !ok {
		return nil, errors.Errorf("[newDataset] in pkg [convert] encountered: empty extent %v", ds.Extent)
	}
	ds.Center = c
	ds.S2 = S2Covering(ds.Extent)
	glog.V(2).Infof("dataset of %d features, extent %v, index depth %d", len(features), ds.Extent, ds.index.Depth())
	return ds, nil
}

func seqID(i int) string {
	return strconv.Itoa(i)
}

// Len is the number of features.
func (ds *Dataset) Len() int {
	return len(ds.Features)
}

// IndexDepth is the depth of the spatial index.
func (ds *Dataset) IndexDepth() int {
	return ds.index.Depth()
}

func (ds *Dataset) Feature(id string) (*Feature, bool) {
	f, ok := ds.byID[id]
	return f, ok
}

// Query yields the features whose envelope intersects env, in no
// particular order.
func (ds *Dataset) Query(env geometry.Envelope) iter.Seq[*Feature] {
	return ds.index.Query(env)
}

// QuerySorted collects Query in source order.
func (ds *Dataset) QuerySorted(env geometry.Envelope) []*Feature {
	var out []*Feature
	for f := range ds.Query(env) {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].seq < out[j].seq })
	return out
}

// Locate finds the features that c is not exterior to, in source order.
func (ds *Dataset) Locate(c geometry.Coordinate, rule locate.BoundaryNodeRule) []Match {
	locator := locate.PointLocator{Rule: rule}
	var out []Match
	for _, f := range ds.QuerySorted(geometry.EnvelopeOf(c)) {
		if loc := locator.Locate(c, f.Geometry); loc != geometry.Exterior {
			out = append(out, Match{Feature: f, Location: loc})
		}
	}
	return out
}
