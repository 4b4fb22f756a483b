// Package quadtree is a region quadtree over envelopes.
//
// The tree grows from an implicit, unbounded root centred on the origin.
// Each item is stored in the smallest power-of-two aligned cell that fully
// contains its (padded) envelope; items whose envelope straddles a cell's
// centre lines stay at that cell. Nodes live in a single slice and refer to
// their children by index, so the tree holds no pointers between nodes.
//
// A Quadtree is not safe for concurrent mutation. Once building is done,
// any number of goroutines may query it.
package quadtree

import (
	"iter"
	"math"

	"github.com/godeepar/geocore/geometry"
	"github.com/godeepar/geocore/x"
)

const rootIndex = 0

type entry[T comparable] struct {
	env  geometry.Envelope
	item T
}

type node[T comparable] struct {
	cell   geometry.Envelope
	cx, cy float64
	level  int
	items  []entry[T]
	// 0 means no child; the root is never anyone's child.
	children [4]int32
}

// Quadtree indexes items of type T by envelope.
type Quadtree[T comparable] struct {
	nodes     []node[T]
	size      int
	minExtent float64
}

// New returns an empty tree.
func New[T comparable]() *Quadtree[T] {
	q := &Quadtree[T]{}
	q.Clear()
	return q
}

// Clear removes every item.
func (q *Quadtree[T]) Clear() {
	q.nodes = []node[T]{{cell: infiniteCell()}}
	q.size = 0
	q.minExtent = 1.0
}

func infiniteCell() geometry.Envelope {
	return geometry.Envelope{
		MinX: math.Inf(-1), MinY: math.Inf(-1),
		MaxX: math.Inf(1), MaxY: math.Inf(1),
	}
}

// Size is the number of stored items.
func (q *Quadtree[T]) Size() int {
	return q.size
}

// Depth is the number of nodes on the longest path from the root, root
// included.
func (q *Quadtree[T]) Depth() int {
	return q.depth(rootIndex)
}

func (q *Quadtree[T]) depth(n int32) int {
	maxSub := 0
	for _, c := range q.nodes[n].children {
		if c == 0 {
			continue
		}
		if d := q.depth(c); d > maxSub {
			maxSub = d
		}
	}
	return maxSub + 1
}

// Insert adds item under env. The envelope must be non-empty and finite.
func (q *Quadtree[T]) Insert(env geometry.Envelope, item T) error {
	if env.IsEmpty() || math.IsInf(env.MinX, 0) || math.IsInf(env.MaxX, 0) ||
		math.IsInf(env.MinY, 0) || math.IsInf(env.MaxY, 0) {
		return x.InvalidArgf("quadtree insert: envelope %v", env)
	}
	q.collectStats(env)
	padded := ensureExtent(env, q.minExtent)
	q.insertAtRoot(padded, entry[T]{env: env, item: item})
	q.size++
	return nil
}

// collectStats tracks the smallest non-zero extent seen so far.
func (q *Quadtree[T]) collectStats(env geometry.Envelope) {
	if w := env.Width(); w > 0 && w < q.minExtent {
		q.minExtent = w
	}
	if h := env.Height(); h > 0 && h < q.minExtent {
		q.minExtent = h
	}
}

// ensureExtent pads a zero-width or zero-height envelope by half of
// minExtent on each side of the degenerate axis.
func ensureExtent(env geometry.Envelope, minExtent float64) geometry.Envelope {
	if env.MinX == env.MaxX {
		env.MinX -= minExtent / 2
		env.MaxX += minExtent / 2
	}
	if env.MinY == env.MaxY {
		env.MinY -= minExtent / 2
		env.MaxY += minExtent / 2
	}
	return env
}

func (q *Quadtree[T]) insertAtRoot(padded geometry.Envelope, e entry[T]) {
	index := subnodeIndex(padded, 0, 0)
	if index == -1 {
		q.nodes[rootIndex].items = append(q.nodes[rootIndex].items, e)
		return
	}
	child := q.nodes[rootIndex].children[index]
	if child == 0 || !q.nodes[child].cell.Covers(padded) {
		larger, ok := q.createExpanded(child, padded)
		if !ok {
			// too large for any finite cell
			q.nodes[rootIndex].items = append(q.nodes[rootIndex].items, e)
			return
		}
		child = larger
		q.nodes[rootIndex].children[index] = child
	}
	n := q.descend(child, padded)
	q.nodes[n].items = append(q.nodes[n].items, e)
}

func (q *Quadtree[T]) newNode(cell geometry.Envelope, level int) int32 {
	q.nodes = append(q.nodes, node[T]{
		cell:  cell,
		cx:    (cell.MinX + cell.MaxX) / 2,
		cy:    (cell.MinY + cell.MaxY) / 2,
		level: level,
	})
	return int32(len(q.nodes) - 1)
}

// createExpanded returns a new node whose cell covers both env and the
// cell of old, with old re-attached beneath it. It reports false, and
// changes nothing, when the cell would not be finite.
func (q *Quadtree[T]) createExpanded(old int32, env geometry.Envelope) (int32, bool) {
	expanded := env
	if old != 0 {
		expanded = expanded.ExpandToIncludeEnvelope(q.nodes[old].cell)
	}
	k, ok := newKey(expanded)
	if !ok {
		return 0, false
	}
	larger := q.newNode(k.env, k.level)
	if old != 0 {
		q.attach(larger, old)
	}
	return larger, true
}

// attach places child below parent, creating the intermediate cells
// between their levels.
func (q *Quadtree[T]) attach(parent, child int32) {
	index := subnodeIndex(q.nodes[child].cell, q.nodes[parent].cx, q.nodes[parent].cy)
	x.AssertTruef(index != -1, "quadtree: cell %v does not fit below %v",
		q.nodes[child].cell, q.nodes[parent].cell)
	if q.nodes[child].level == q.nodes[parent].level-1 {
		q.nodes[parent].children[index] = child
		return
	}
	mid := q.createSubnode(parent, index)
	q.attach(mid, child)
	q.nodes[parent].children[index] = mid
}

func (q *Quadtree[T]) createSubnode(parent int32, index int) int32 {
	p := q.nodes[parent]
	return q.newNode(quadrant(p.cell, index), p.level-1)
}

// descend walks from n to the smallest cell containing env, creating cells
// on the way.
func (q *Quadtree[T]) descend(n int32, env geometry.Envelope) int32 {
	for {
		nd := &q.nodes[n]
		index := subnodeIndex(env, nd.cx, nd.cy)
		if index == -1 {
			return n
		}
		// cells this small no longer split in floating point
		if !(nd.cell.MinX < nd.cx && nd.cx < nd.cell.MaxX && nd.cell.MinY < nd.cy && nd.cy < nd.cell.MaxY) {
			return n
		}
		c := nd.children[index]
		if c == 0 {
			c = q.createSubnode(n, index)
			q.nodes[n].children[index] = c
		}
		n = c
	}
}

// Remove deletes the entry stored with exactly this envelope and item. It
// reports whether such an entry was found. Emptied cells are kept.
func (q *Quadtree[T]) Remove(env geometry.Envelope, item T) bool {
	if env.IsEmpty() {
		return false
	}
	padded := ensureExtent(env, q.minExtent)
	removed := false
	q.visit(rootIndex, padded, func(n int32) bool {
		items := q.nodes[n].items
		for i, e := range items {
			if e.item == item && e.env == env {
				q.nodes[n].items = append(items[:i], items[i+1:]...)
				removed = true
				return false
			}
		}
		return true
	})
	if removed {
		q.size--
	}
	return removed
}

// visit calls fn for each node whose cell intersects env, parents before
// children. It stops early when fn returns false.
func (q *Quadtree[T]) visit(n int32, env geometry.Envelope, fn func(int32) bool) bool {
	if n != rootIndex && !q.nodes[n].cell.Intersects(env) {
		return true
	}
	if !fn(n) {
		return false
	}
	for _, c := range q.nodes[n].children {
		if c != 0 && !q.visit(c, env, fn) {
			return false
		}
	}
	return true
}

// Query yields every item whose envelope intersects env. The sequence is
// lazy and may be ranged over more than once; it reflects the tree at the
// time of iteration.
func (q *Quadtree[T]) Query(env geometry.Envelope) iter.Seq[T] {
	return func(yield func(T) bool) {
		if env.IsEmpty() {
			return
		}
		q.visit(rootIndex, env, func(n int32) bool {
			for _, e := range q.nodes[n].items {
				if e.env.Intersects(env) && !yield(e.item) {
					return false
				}
			}
			return true
		})
	}
}

// QueryAll yields every stored item.
func (q *Quadtree[T]) QueryAll() iter.Seq[T] {
	return func(yield func(T) bool) {
		for _, n := range q.nodes {
			for _, e := range n.items {
				if !yield(e.item) {
					return
				}
			}
		}
	}
}

// QueryFunc collects the items intersecting env that match filter.
func (q *Quadtree[T]) QueryFunc(env geometry.Envelope, filter func(T) bool) []T {
	var out []T
	for item := range q.Query(env) {
		if filter(item) {
			out = append(out, item)
		}
	}
	return out
}

// QueryFirst returns the first item intersecting env that matches filter.
func (q *Quadtree[T]) QueryFirst(env geometry.Envelope, filter func(T) bool) (T, bool) {
	for item := range q.Query(env) {
		if filter(item) {
			return item, true
		}
	}
	var zero T
	return zero, false
}
