package quadtree

import (
	"iter"

	"github.com/godeepar/geocore/geometry"
)

// IDIndex indexes objects by the integer id they carry. The tree stores only
// ids; objects are resolved through Lookup when a query yields them, so the
// caller keeps ownership of the objects themselves.
type IDIndex[T any] struct {
	EnvelopeOf func(T) geometry.Envelope
	IDOf       func(T) int
	Lookup     func(id int) (T, bool)

	tree *Quadtree[int]
}

// NewIDIndex wires an index around the three accessors.
func NewIDIndex[T any](envelopeOf func(T) geometry.Envelope, idOf func(T) int, lookup func(int) (T, bool)) *IDIndex[T] {
	return &IDIndex[T]{
		EnvelopeOf: envelopeOf,
		IDOf:       idOf,
		Lookup:     lookup,
		tree:       New[int](),
	}
}

// Add indexes obj under its current envelope.
func (ix *IDIndex[T]) Add(obj T) error {
	return ix.tree.Insert(ix.EnvelopeOf(obj), ix.IDOf(obj))
}

// AddIDs resolves and indexes each id. Unknown ids are skipped.
func (ix *IDIndex[T]) AddIDs(ids ...int) error {
	for _, id := range ids {
		obj, ok := ix.Lookup(id)
		if !ok {
			continue
		}
		if err := ix.Add(obj); err != nil {
			return err
		}
	}
	return nil
}

// Remove drops obj. Its envelope must not have changed since it was added.
func (ix *IDIndex[T]) Remove(obj T) bool {
	return ix.tree.Remove(ix.EnvelopeOf(obj), ix.IDOf(obj))
}

// Query yields the objects whose envelope intersects env.
func (ix *IDIndex[T]) Query(env geometry.Envelope) iter.Seq[T] {
	return func(yield func(T) bool) {
		for id := range ix.tree.Query(env) {
			obj, ok := ix.Lookup(id)
			if !ok || !ix.EnvelopeOf(obj).Intersects(env) {
				continue
			}
			if !yield(obj) {
				return
			}
		}
	}
}

// All yields every indexed object that still resolves.
func (ix *IDIndex[T]) All() iter.Seq[T] {
	return func(yield func(T) bool) {
		for id := range ix.tree.QueryAll() {
			if obj, ok := ix.Lookup(id); ok && !yield(obj) {
				return
			}
		}
	}
}

func (ix *IDIndex[T]) Size() int {
	return ix.tree.Size()
}

func (ix *IDIndex[T]) Depth() int {
	return ix.tree.Depth()
}
