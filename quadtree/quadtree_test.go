package quadtree

import (
	"math/rand"
	"slices"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"github.com/godeepar/geocore/geometry"
	"github.com/godeepar/geocore/x"
)

func pointEnv(x, y float64) geometry.Envelope {
	return geometry.Envelope{MinX: x, MinY: y, MaxX: x, MaxY: y}
}

func collect[T comparable](q *Quadtree[T], env geometry.Envelope) []T {
	return slices.Collect(q.Query(env))
}

func TestThreePoints(t *testing.T) {
	q := New[string]()
	require.NoError(t, q.Insert(pointEnv(0, 0), "a"))
	require.NoError(t, q.Insert(pointEnv(5, 5), "b"))
	require.NoError(t, q.Insert(pointEnv(10, 10), "c"))

	require.Equal(t, []string{"b"}, collect(q, geometry.NewEnvelope(4, 4, 6, 6)))
	require.Equal(t, 3, q.Size())
}

func TestInsertRejectsEmptyEnvelope(t *testing.T) {
	q := New[int]()
	err := q.Insert(geometry.EmptyEnvelope(), 1)
	require.Error(t, err)
	require.True(t, errors.Is(err, x.ErrInvalidArgument))
	require.Equal(t, 0, q.Size())
}

func TestDegenerateEnvelope(t *testing.T) {
	q := New[int]()
	require.NoError(t, q.Insert(pointEnv(123.25, -40.5), 7))
	require.Equal(t, []int{7}, collect(q, geometry.NewEnvelope(123.2, -40.6, 123.3, -40.4)))
	require.Equal(t, []int{7}, collect(q, pointEnv(123.25, -40.5)))
	require.Empty(t, collect(q, geometry.NewEnvelope(123.3, -40.6, 123.4, -40.4)))

	// zero width but non-zero height
	require.NoError(t, q.Insert(geometry.NewEnvelope(2, 0, 2, 3), 8))
	require.Equal(t, []int{8}, collect(q, geometry.NewEnvelope(1.9, 1, 2.1, 1.5)))
}

func TestEnsureExtentIsSymmetric(t *testing.T) {
	got := ensureExtent(pointEnv(3, 4), 1)
	require.Equal(t, geometry.NewEnvelope(2.5, 3.5, 3.5, 4.5), got)
	got = ensureExtent(geometry.NewEnvelope(0, 1, 2, 1), 0.5)
	require.Equal(t, geometry.NewEnvelope(0, 0.75, 2, 1.25), got)
}

func TestMinExtentTracksSmallestSide(t *testing.T) {
	q := New[int]()
	require.Equal(t, 1.0, q.minExtent)
	require.NoError(t, q.Insert(geometry.NewEnvelope(0, 0, 4, 0.25), 1))
	require.Equal(t, 0.25, q.minExtent)
	require.NoError(t, q.Insert(pointEnv(1, 1), 2))
	require.Equal(t, 0.25, q.minExtent)
	require.NoError(t, q.Insert(geometry.NewEnvelope(0, 0, 0.125, 9), 3))
	require.Equal(t, 0.125, q.minExtent)
}

func TestKey(t *testing.T) {
	k, ok := newKey(geometry.NewEnvelope(0.5, 0.5, 0.75, 0.75))
	require.True(t, ok)
	require.Equal(t, -1, k.level)
	require.Equal(t, geometry.NewEnvelope(0.5, 0.5, 1, 1), k.env)

	// straddles a level-1 boundary, so the key must move up
	k, _ = newKey(geometry.NewEnvelope(1.5, 1.5, 2.5, 2.5))
	require.True(t, k.env.Covers(geometry.NewEnvelope(1.5, 1.5, 2.5, 2.5)))
	require.Equal(t, 2, k.level)
	require.Equal(t, geometry.NewEnvelope(0, 0, 4, 4), k.env)

	k, _ = newKey(geometry.NewEnvelope(-3, -3, -2, -2.5))
	require.Equal(t, geometry.NewEnvelope(-4, -4, -2, -2), k.env)

	_, ok = newKey(geometry.NewEnvelope(1, 1, 1.7e308, 2))
	require.False(t, ok)
}

func TestInsertHugeEnvelope(t *testing.T) {
	q := New[int]()
	done := make(chan error, 1)
	go func() {
		done <- q.Insert(geometry.NewEnvelope(1, 1, 1.7e308, 2), 1)
	}()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("insert of a near-overflow envelope did not return")
	}
	require.NoError(t, q.Insert(geometry.NewEnvelope(2, 2, 3, 3), 2))

	var got []int
	for v := range q.Query(geometry.NewEnvelope(1e300, 1.5, 1e300, 1.5)) {
		got = append(got, v)
	}
	require.Equal(t, []int{1}, got)
	require.Equal(t, 2, q.Size())
}

func TestSubnodeIndex(t *testing.T) {
	require.Equal(t, 0, subnodeIndex(geometry.NewEnvelope(-2, -2, -1, -1), 0, 0))
	require.Equal(t, 1, subnodeIndex(geometry.NewEnvelope(1, -2, 2, 0), 0, 0))
	require.Equal(t, 2, subnodeIndex(geometry.NewEnvelope(-2, 0, 0, 2), 0, 0))
	require.Equal(t, 3, subnodeIndex(geometry.NewEnvelope(0, 0, 1, 1), 0, 0))
	require.Equal(t, -1, subnodeIndex(geometry.NewEnvelope(-1, 1, 1, 2), 0, 0))
	for i := 0; i < 4; i++ {
		require.Equal(t, i, subnodeIndex(quadrant(geometry.NewEnvelope(0, 0, 8, 8), i), 4, 4))
	}
}

func TestItemsSpanningOriginStayAtRoot(t *testing.T) {
	q := New[int]()
	require.NoError(t, q.Insert(geometry.NewEnvelope(-1, -1, 1, 1), 1))
	require.Len(t, q.nodes[rootIndex].items, 1)
	require.Equal(t, 1, q.Depth())
	require.Equal(t, []int{1}, collect(q, geometry.NewEnvelope(0.5, 0.5, 3, 3)))

	// stored at the root but not intersecting: must be filtered out
	require.Empty(t, collect(q, geometry.NewEnvelope(2, 2, 3, 3)))
}

func TestExpandingCells(t *testing.T) {
	q := New[int]()
	require.NoError(t, q.Insert(geometry.NewEnvelope(1, 1, 1.5, 1.5), 1))
	depth := q.Depth()
	// far away in the same quadrant: the existing cell must be re-homed
	// under a larger one
	require.NoError(t, q.Insert(geometry.NewEnvelope(1000, 1000, 1001, 1001), 2))
	require.Greater(t, q.Depth(), depth)
	require.Equal(t, []int{1}, collect(q, geometry.NewEnvelope(0, 0, 2, 2)))
	require.Equal(t, []int{2}, collect(q, geometry.NewEnvelope(999, 999, 1000.5, 1000.5)))
	require.ElementsMatch(t, []int{1, 2}, collect(q, geometry.NewEnvelope(0, 0, 2000, 2000)))
}

func TestRemove(t *testing.T) {
	q := New[string]()
	env := geometry.NewEnvelope(3, 3, 4, 5)
	require.NoError(t, q.Insert(env, "a"))
	require.NoError(t, q.Insert(env, "b"))

	require.False(t, q.Remove(env, "z"))
	require.False(t, q.Remove(geometry.NewEnvelope(3, 3, 4, 6), "a"), "envelope must match")
	require.True(t, q.Remove(env, "a"))
	require.False(t, q.Remove(env, "a"))
	require.Equal(t, 1, q.Size())
	require.Equal(t, []string{"b"}, collect(q, env))

	require.NoError(t, q.Insert(pointEnv(-7, 2), "p"))
	require.True(t, q.Remove(pointEnv(-7, 2), "p"))
	require.Empty(t, collect(q, pointEnv(-7, 2)))
}

func TestRemoveAfterMinExtentShrinks(t *testing.T) {
	q := New[int]()
	require.NoError(t, q.Insert(pointEnv(10, 10), 1))
	require.NoError(t, q.Insert(geometry.NewEnvelope(0, 0, 0.001, 0.001), 2))
	require.True(t, q.Remove(pointEnv(10, 10), 1))
	require.Equal(t, 1, q.Size())
}

func TestQueryIsLazyAndRestartable(t *testing.T) {
	q := New[int]()
	for i := 0; i < 10; i++ {
		require.NoError(t, q.Insert(pointEnv(float64(i), float64(i)), i))
	}
	seq := q.Query(geometry.NewEnvelope(-1, -1, 20, 20))
	first := slices.Sorted(seq)
	second := slices.Sorted(seq)
	require.Equal(t, first, second)
	require.Len(t, first, 10)

	n := 0
	for range seq {
		n++
		if n == 3 {
			break
		}
	}
	require.Equal(t, 3, n)

	require.Empty(t, collect(New[int](), geometry.NewEnvelope(0, 0, 1, 1)))
	require.Empty(t, collect(q, geometry.EmptyEnvelope()))
	require.Len(t, slices.Collect(q.QueryAll()), 10)
}

func TestQueryFilters(t *testing.T) {
	q := New[int]()
	for i := 0; i < 10; i++ {
		require.NoError(t, q.Insert(pointEnv(float64(i), 0), i))
	}
	even := func(i int) bool { return i%2 == 0 }
	got := q.QueryFunc(geometry.NewEnvelope(2, -1, 6, 1), even)
	require.ElementsMatch(t, []int{2, 4, 6}, got)

	v, ok := q.QueryFirst(geometry.NewEnvelope(2.5, -1, 3.5, 1), even)
	require.False(t, ok)
	require.Zero(t, v)
	v, ok = q.QueryFirst(geometry.NewEnvelope(7.5, -1, 8.5, 1), even)
	require.True(t, ok)
	require.Equal(t, 8, v)

	q.Clear()
	require.Equal(t, 0, q.Size())
	require.Empty(t, slices.Collect(q.QueryAll()))
}

// Randomised comparison against a linear scan.
func TestMatchesLinearScan(t *testing.T) {
	r := rand.New(rand.NewSource(42))
	q := New[int]()
	envs := make(map[int]geometry.Envelope)

	randEnv := func() geometry.Envelope {
		x0 := r.Float64()*2000 - 1000
		y0 := r.Float64()*2000 - 1000
		switch r.Intn(3) {
		case 0:
			return pointEnv(x0, y0)
		case 1:
			return geometry.NewEnvelope(x0, y0, x0+r.Float64()*0.01, y0+r.Float64()*0.01)
		}
		return geometry.NewEnvelope(x0, y0, x0+r.Float64()*200, y0+r.Float64()*200)
	}

	for i := 0; i < 2000; i++ {
		envs[i] = randEnv()
		require.NoError(t, q.Insert(envs[i], i))
	}
	for i := 0; i < 2000; i += 3 {
		require.True(t, q.Remove(envs[i], i))
		delete(envs, i)
	}
	require.Equal(t, len(envs), q.Size())

	for k := 0; k < 200; k++ {
		query := randEnv().ExpandBy(r.Float64()*50, r.Float64()*50)
		var want []int
		for id, e := range envs {
			if e.Intersects(query) {
				want = append(want, id)
			}
		}
		require.ElementsMatch(t, want, collect(q, query), "query %v", query)
	}

	// every item is found by its own envelope
	for id, e := range envs {
		require.Contains(t, collect(q, e), id)
	}
}

type feature struct {
	id  int
	env geometry.Envelope
}

func TestIDIndex(t *testing.T) {
	store := map[int]feature{
		1: {1, geometry.NewEnvelope(0, 0, 1, 1)},
		2: {2, geometry.NewEnvelope(5, 5, 6, 6)},
		3: {3, pointEnv(10, 10)},
	}
	ix := NewIDIndex(
		func(f feature) geometry.Envelope { return f.env },
		func(f feature) int { return f.id },
		func(id int) (feature, bool) { f, ok := store[id]; return f, ok },
	)
	require.NoError(t, ix.AddIDs(1, 2, 3, 99))
	require.Equal(t, 3, ix.Size())

	got := slices.Collect(ix.Query(geometry.NewEnvelope(4, 4, 11, 11)))
	ids := make([]int, 0, len(got))
	for _, f := range got {
		ids = append(ids, f.id)
	}
	require.ElementsMatch(t, []int{2, 3}, ids)

	require.True(t, ix.Remove(store[2]))
	require.False(t, ix.Remove(store[2]))
	require.Len(t, slices.Collect(ix.All()), 2)

	// objects that no longer resolve are skipped
	delete(store, 3)
	require.Len(t, slices.Collect(ix.All()), 1)
	require.Empty(t, slices.Collect(ix.Query(pointEnv(10, 10))))
	require.GreaterOrEqual(t, ix.Depth(), 1)
}
