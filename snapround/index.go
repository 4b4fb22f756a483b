package snapround

import (
	"github.com/godeepar/geocore/geometry"
	"github.com/godeepar/geocore/quadtree"
)

// PixelIndex finds the hot pixels a segment may pass through. Pixels are
// stored under their safe envelope; candidates from the index are then
// confirmed with the exact Intersects test.
type PixelIndex struct {
	scaleFactor float64
	tree        *quadtree.Quadtree[*HotPixel]
	byCell      map[[2]float64]*HotPixel
}

// NewPixelIndex builds one hot pixel per distinct grid cell among coords.
func NewPixelIndex(coords []geometry.Coordinate, scaleFactor float64) (*PixelIndex, error) {
	ix := &PixelIndex{
		scaleFactor: scaleFactor,
		tree:        quadtree.New[*HotPixel](),
		byCell:      make(map[[2]float64]*HotPixel),
	}
	for _, c := range coords {
		if _, err := ix.Add(c); err != nil {
			return nil, err
		}
	}
	return ix, nil
}

// Add registers a hot pixel at c, unless its cell already has one. It
// returns the pixel for the cell.
func (ix *PixelIndex) Add(c geometry.Coordinate) (*HotPixel, error) {
	hp, err := NewHotPixel(c, ix.scaleFactor)
	if err != nil {
		return nil, err
	}
	cell := [2]float64{hp.scaled.X, hp.scaled.Y}
	if existing, ok := ix.byCell[cell]; ok {
		return existing, nil
	}
	if err := ix.tree.Insert(hp.SafeEnvelope(), hp); err != nil {
		return nil, err
	}
	ix.byCell[cell] = hp
	return hp, nil
}

// Size is the number of distinct pixels.
func (ix *PixelIndex) Size() int {
	return ix.tree.Size()
}

// Candidates yields the pixels whose safe envelope meets the segment p0-p1.
// The segment's envelope is widened by half a grid cell, since Intersects
// tests the segment with its endpoints rounded to the grid.
func (ix *PixelIndex) Candidates(p0, p1 geometry.Coordinate) []*HotPixel {
	d := tolerance / ix.scaleFactor
	env := geometry.EnvelopeOf(p0, p1).ExpandBy(d, d)
	var out []*HotPixel
	for hp := range ix.tree.Query(env) {
		out = append(out, hp)
	}
	return out
}

// Snap adds a node to seg for every pixel one of its edges passes through,
// and returns the number of edge/pixel hits.
func (ix *PixelIndex) Snap(seg SegmentString) int {
	hits := 0
	for i := 0; i+1 < seg.Size(); i++ {
		for _, hp := range ix.Candidates(seg.Coordinate(i), seg.Coordinate(i+1)) {
			if hp.AddSnappedNode(seg, i) {
				hits++
			}
		}
	}
	return hits
}
