package snapround

import (
	geo "github.com/paulmach/go.geo"

	"github.com/godeepar/geocore/geometry"
	"github.com/godeepar/geocore/x"
)

// SegmentString is a vertex sequence that accepts new nodes on its edges.
// Coordinate always reports the original vertices, however many nodes have
// been added, so segment indexes stay valid while snapping.
type SegmentString interface {
	Size() int
	Coordinate(i int) geometry.Coordinate
	AddIntersection(c geometry.Coordinate, segIndex int)
}

// Node is a vertex added to a NodedPath.
type Node struct {
	Coordinate   geometry.Coordinate
	SegmentIndex int
}

// NodedPath is a SegmentString that inserts each node into a go.geo path
// as soon as it is added. Nodes on the same edge are kept in order of their
// distance from the edge's first vertex.
type NodedPath struct {
	orig   []geometry.Coordinate
	path   *geo.Path
	// position in path of each original vertex
	vertex []int
	nodes  []Node
}

func NewNodedPath(coords []geometry.Coordinate) *NodedPath {
	np := &NodedPath{
		orig:   append([]geometry.Coordinate(nil), coords...),
		path:   geo.NewPath(),
		vertex: make([]int, len(coords)),
	}
	for i, c := range coords {
		np.path.Push(geo.NewPoint(c.X, c.Y))
		np.vertex[i] = i
	}
	return np
}

func (np *NodedPath) Size() int {
	return len(np.orig)
}

func (np *NodedPath) Coordinate(i int) geometry.Coordinate {
	return np.orig[i]
}

// AddIntersection inserts c into edge segIndex. Nodes equal to an existing
// vertex or node of that edge are ignored.
func (np *NodedPath) AddIntersection(c geometry.Coordinate, segIndex int) {
	start, end := np.orig[segIndex], np.orig[segIndex+1]
	if c.Equals2D(start) || c.Equals2D(end) {
		return
	}
	dist := c.Distance(start)

	pos := np.vertex[segIndex+1]
	for k := np.vertex[segIndex] + 1; k < np.vertex[segIndex+1]; k++ {
		existing := np.pathCoordinate(k)
		if existing.Equals2D(c) {
			return
		}
		if existing.Distance(start) > dist {
			pos = k
			break
		}
	}

	np.path.InsertAt(pos, geo.NewPoint(c.X, c.Y))
	for j := segIndex + 1; j < len(np.vertex); j++ {
		np.vertex[j]++
	}
	np.nodes = append(np.nodes, Node{Coordinate: c, SegmentIndex: segIndex})
	x.AssertTrue(np.vertex[len(np.vertex)-1] == np.path.Length()-1)
}

func (np *NodedPath) pathCoordinate(k int) geometry.Coordinate {
	pt := np.path.GetAt(k)
	return geometry.XY(pt[0], pt[1])
}

// Nodes returns the added nodes in the order they were added.
func (np *NodedPath) Nodes() []Node {
	return append([]Node(nil), np.nodes...)
}

// Path is the noded path. It must not be modified.
func (np *NodedPath) Path() *geo.Path {
	return np.path
}

// Coordinates returns the noded vertex sequence.
func (np *NodedPath) Coordinates() []geometry.Coordinate {
	n := np.path.Length()
	out := make([]geometry.Coordinate, 0, n)
	for k := 0; k < n; k++ {
		out = append(out, np.pathCoordinate(k))
	}
	return out
}

// LineString returns the noded path as a line string.
func (np *NodedPath) LineString() geometry.LineString {
	return geometry.NewLineString(np.Coordinates()...)
}
