package snapround

import (
	"math"
	"math/rand"
	"testing"

	geo "github.com/paulmach/go.geo"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"github.com/godeepar/geocore/geometry"
	"github.com/godeepar/geocore/x"
)

var xy = geometry.XY

func mustPixel(t *testing.T, c geometry.Coordinate, scale float64) *HotPixel {
	hp, err := NewHotPixel(c, scale)
	require.NoError(t, err)
	return hp
}

func TestNewHotPixelRejectsBadScale(t *testing.T) {
	for _, s := range []float64{0, -1, math.NaN(), math.Inf(1)} {
		_, err := NewHotPixel(xy(0, 0), s)
		require.Error(t, err, "scale %v", s)
		require.True(t, errors.Is(err, x.ErrInvalidArgument))
	}
}

func TestHotPixelGeometry(t *testing.T) {
	hp := mustPixel(t, xy(1.23, 4.56), 10)
	require.True(t, hp.ScaledCoordinate().Equals2D(xy(12, 46)))
	require.True(t, hp.Coordinate().Equals2D(xy(1.23, 4.56)))
	require.Equal(t, 10.0, hp.ScaleFactor())
	require.Equal(t, [4]geometry.Coordinate{
		xy(12.5, 46.5), xy(11.5, 46.5), xy(11.5, 45.5), xy(12.5, 45.5),
	}, hp.corners)

	safe := mustPixel(t, xy(10, 20), 4).SafeEnvelope()
	require.Equal(t, geometry.Envelope{MinX: 9.8125, MinY: 19.8125, MaxX: 10.1875, MaxY: 20.1875}, safe)
}

func TestRoundHalfUp(t *testing.T) {
	require.Equal(t, 3.0, roundHalfUp(2.5))
	require.Equal(t, -2.0, roundHalfUp(-2.5))
	require.Equal(t, 0.0, roundHalfUp(-0.5))
	require.Equal(t, -1.0, roundHalfUp(-0.51))
	require.Equal(t, 0.0, roundHalfUp(0.49999999999999994))
}

func TestIntersectsHalfOpenRule(t *testing.T) {
	hp := mustPixel(t, xy(0, 0), 1)
	tests := []struct {
		name   string
		p0, p1 geometry.Coordinate
		want   bool
	}{
		{"ends at centre", xy(0, 0), xy(5, 5), true},
		{"starts far, ends at centre", xy(-7, 3), xy(0, 0), true},
		{"crosses left edge", xy(-2, 0), xy(2, 0), true},
		{"crosses top edge", xy(-1, 1), xy(1, 0), true},
		{"through bottom-left corner", xy(-1, 0), xy(0, -1), true},
		{"grazes top-right corner", xy(1, 0), xy(0, 1), false},
		{"grazes top-left corner", xy(-1, 0), xy(0, 1), false},
		{"grazes bottom-right corner", xy(1, 0), xy(0, -1), false},
		{"disjoint", xy(2, 2), xy(3, 5), false},
		{"near miss", xy(-3, 1), xy(3, 2), false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, hp.Intersects(tc.p0, tc.p1))
			require.Equal(t, tc.want, hp.Intersects(tc.p1, tc.p0), "reversed")
		})
	}
}

// Of the pixels meeting at a corner, a segment passing only through that
// corner is claimed by exactly one of those it does not end in.
func TestSharedCornerClaimedOnce(t *testing.T) {
	p0, p1 := xy(0, 1), xy(1, 0)
	claimed := 0
	for _, c := range []geometry.Coordinate{xy(0, 0), xy(1, 1)} {
		if mustPixel(t, c, 1).Intersects(p0, p1) {
			claimed++
		}
	}
	require.Equal(t, 1, claimed)
	require.True(t, mustPixel(t, xy(1, 1), 1).Intersects(p0, p1))
}

func TestIntersectsScaled(t *testing.T) {
	hp := mustPixel(t, xy(0.011, 0.019), 100)
	require.True(t, hp.ScaledCoordinate().Equals2D(xy(1, 2)))
	require.True(t, hp.Intersects(xy(0, 0.02), xy(0.05, 0.02)))
	require.False(t, hp.Intersects(xy(0, 0.03), xy(0.05, 0.03)))
	// endpoints that round onto the centre
	require.True(t, hp.Intersects(xy(0.0104, 0.0196), xy(0.5, 0.9)))
}

func TestIntersectsAgreesWithClosure(t *testing.T) {
	r := rand.New(rand.NewSource(3))
	hp := mustPixel(t, xy(0, 0), 1)
	hits := 0
	for i := 0; i < 5000; i++ {
		p0 := xy(float64(r.Intn(9)-4), float64(r.Intn(9)-4))
		p1 := xy(float64(r.Intn(9)-4), float64(r.Intn(9)-4))
		var got bool
		require.NotPanics(t, func() { got = hp.Intersects(p0, p1) })
		if got {
			hits++
			require.True(t, hp.intersectsPixelClosure(hp.scale(p0), hp.scale(p1)))
		}
	}
	require.Greater(t, hits, 0)
}

func TestAddSnappedNode(t *testing.T) {
	path := NewNodedPath([]geometry.Coordinate{xy(0, 0), xy(10, 0), xy(10, 10)})

	require.True(t, mustPixel(t, xy(5, 0), 1).AddSnappedNode(path, 0))
	require.True(t, mustPixel(t, xy(2, 0), 1).AddSnappedNode(path, 0))
	require.True(t, mustPixel(t, xy(10, 4), 1).AddSnappedNode(path, 1))
	require.False(t, mustPixel(t, xy(3, 3), 1).AddSnappedNode(path, 0))
	require.False(t, mustPixel(t, xy(10, 4), 1).AddSnappedNode(path, 0))

	// snapping again, or at a vertex, adds nothing
	require.True(t, mustPixel(t, xy(5, 0), 1).AddSnappedNode(path, 0))
	require.True(t, mustPixel(t, xy(10, 0), 1).AddSnappedNode(path, 0))

	require.Equal(t, 3, path.Size())
	require.True(t, path.Coordinate(1).Equals2D(xy(10, 0)), "original vertices are stable")
	require.Len(t, path.Nodes(), 3)
	require.Equal(t, []geometry.Coordinate{
		xy(0, 0), xy(2, 0), xy(5, 0), xy(10, 0), xy(10, 4), xy(10, 10),
	}, path.Coordinates())
	require.Equal(t, 6, path.Path().Length())
	require.Equal(t, 6, path.LineString().NumPoints())
}

func TestPixelIndexSnap(t *testing.T) {
	ix, err := NewPixelIndex([]geometry.Coordinate{
		xy(5, 0), xy(2, 0), xy(10, 4), xy(5.2, 0.1), xy(50, 50),
	}, 1)
	require.NoError(t, err)
	require.Equal(t, 4, ix.Size(), "(5.2, 0.1) shares the cell of (5, 0)")

	hp, err := ix.Add(xy(4.9, -0.3))
	require.NoError(t, err)
	require.True(t, hp.Coordinate().Equals2D(xy(5, 0)))

	require.Len(t, ix.Candidates(xy(0, 0), xy(10, 0)), 2)

	path := NewNodedPath([]geometry.Coordinate{xy(0, 0), xy(10, 0), xy(10, 10)})
	require.Equal(t, 3, ix.Snap(path))
	require.Equal(t, []geometry.Coordinate{
		xy(0, 0), xy(2, 0), xy(5, 0), xy(10, 0), xy(10, 4), xy(10, 10),
	}, path.Coordinates())

	_, err = NewPixelIndex([]geometry.Coordinate{xy(0, 0)}, 0)
	require.True(t, errors.Is(err, x.ErrInvalidArgument))
}

func TestPixelIndexOffGridCentre(t *testing.T) {
	// the pixel rounds to x=0 and the segment's endpoints round onto x=0,
	// though neither the raw centre nor the raw segment is near the other
	ix, err := NewPixelIndex([]geometry.Coordinate{xy(0.49, 0)}, 1)
	require.NoError(t, err)
	p0, p1 := xy(-0.4, -5), xy(-0.4, 5)

	hp := ix.Candidates(xy(100, 100), xy(101, 101))
	require.Empty(t, hp)

	cands := ix.Candidates(p0, p1)
	require.Len(t, cands, 1)
	require.True(t, cands[0].Intersects(p0, p1))

	safe := cands[0].SafeEnvelope()
	require.Equal(t, geometry.Envelope{MinX: -0.75, MinY: -0.75, MaxX: 0.75, MaxY: 0.75}, safe)

	path := NewNodedPath([]geometry.Coordinate{p0, p1})
	require.Equal(t, 1, ix.Snap(path))
}

func TestNodedPathDetectsForeignEdits(t *testing.T) {
	path := NewNodedPath([]geometry.Coordinate{xy(0, 0), xy(10, 0)})
	require.NotPanics(t, func() { path.AddIntersection(xy(5, 0), 0) })

	path.Path().Push(geo.NewPoint(20, 0))
	require.Panics(t, func() { path.AddIntersection(xy(7, 0), 0) })
}
