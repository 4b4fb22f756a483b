package convert

import (
	"github.com/golang/glog"

	"github.com/godeepar/geocore/geometry"
	"github.com/godeepar/geocore/snapround"
)

// SnappedLine is one line or ring of a feature after snap rounding.
type SnappedLine struct {
	FeatureID   string                `json:"id"`
	Nodes       int                   `json:"nodes"`
	Coordinates []geometry.Coordinate `json:"coordinates"`
}

// SnapLines places a hot pixel on every vertex of the dataset and nodes
// each line and ring wherever it passes through one. Output coordinates
// are 2D.
func (ds *Dataset) SnapLines(scaleFactor float64) ([]SnappedLine, error) {
	type part struct {
		id   string
		line geometry.LineString
	}
	var (
		parts    []part
		vertices []geometry.Coordinate
	)
	for _, f := range ds.Features {
		geometry.Components(f.Geometry, func(g geometry.Geometry) bool {
			switch g := g.(type) {
			case geometry.Point:
				if !g.IsEmpty() {
					vertices = append(vertices, g.Coordinate())
				}
			case geometry.LineString:
				parts = append(parts, part{f.ID, g})
				vertices = append(vertices, g.Coordinates()...)
			case geometry.Polygon:
				for _, ring := range g.Rings() {
					parts = append(parts, part{f.ID, ring})
					vertices = append(vertices, ring.Coordinates()...)
				}
			}
			return true
		})
	}

	ix, err := snapround.NewPixelIndex(vertices, scaleFactor)
	if err != nil {
		return nil, err
	}
	out := make([]SnappedLine, 0, len(parts))
	for _, p := range parts {
		np := snapround.NewNodedPath(p.line.Coordinates())
		ix.Snap(np)
		out = append(out, SnappedLine{
			FeatureID:   p.id,
			Nodes:       len(np.Nodes()),
			Coordinates: np.Coordinates(),
		})
	}
	glog.V(2).Infof("snapped %d lines against %d hot pixels", len(out), ix.Size())
	return out, nil
}
