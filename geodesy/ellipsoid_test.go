package geodesy

import (
	"math"
	"strings"
	"testing"

	"github.com/golang/geo/s2"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"github.com/godeepar/geocore/x"
)

func grs80(t *testing.T) *Ellipsoid {
	el, err := NewEllipsoid("GRS 1980", 6378137, 298.257222101, "EPSG:7019")
	require.NoError(t, err)
	return el
}

func dms(d, m, s float64) float64 {
	return math.Copysign(math.Abs(d)+m/60+s/3600, d)
}

// Flinders Peak and Buninyong, the worked example published with Vincenty's
// formulae by Geoscience Australia.
var (
	flindersLon, flindersLat   = dms(144, 25, 29.52440), dms(-37, 57, 3.72030)
	buninyongLon, buninyongLat = dms(143, 55, 35.38390), dms(-37, 39, 10.15610)
)

func TestNewEllipsoid(t *testing.T) {
	el := grs80(t)
	require.Equal(t, 6378137.0, el.SemiMajorAxis())
	require.InDelta(t, 6356752.314140356, el.SemiMinorAxis(), 1e-6)
	require.InDelta(t, 1/298.257222101, el.Flattening(), 1e-18)
	require.InDelta(t, 0.00669438002290, el.EccentricitySquared(), 1e-14)
	require.InDelta(t, math.Sqrt(el.EccentricitySquared()), el.Eccentricity(), 1e-15)
	require.Equal(t, "GRS 1980", el.String())
	require.Equal(t, "EPSG:7019", el.Authority())
	require.False(t, el.Deprecated())

	clarke, err := NewEllipsoidAxes("Clarke 1866", 6378206.4, 6356583.8, math.NaN(), "", true)
	require.NoError(t, err)
	require.InDelta(t, 294.978698214, clarke.InverseFlattening(), 1e-6)
	require.Equal(t, 6356583.8, clarke.SemiMinorAxis())
	require.True(t, clarke.Deprecated())

	sphere, err := NewEllipsoidAxes("sphere", 6371000, 6371000, math.NaN(), "", false)
	require.NoError(t, err)
	require.Equal(t, 0.0, sphere.Flattening())
	require.Equal(t, 0.0, sphere.Eccentricity())
}

func TestNewEllipsoidInvalid(t *testing.T) {
	nan := math.NaN()
	for _, tc := range []struct {
		name       string
		a, b, invF float64
	}{
		{"zero axis", 0, nan, 298},
		{"negative axis", -1, nan, 298},
		{"nan axis", nan, nan, 298},
		{"infinite axis", math.Inf(1), nan, 298},
		{"underdetermined", 6378137, nan, nan},
		{"zero inverse flattening", 6378137, nan, 0},
	} {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewEllipsoidAxes(tc.name, tc.a, tc.b, tc.invF, "", false)
			require.True(t, errors.Is(err, x.ErrInvalidArgument), "got %v", err)
		})
	}
}

func TestVincentyReference(t *testing.T) {
	el := grs80(t)

	d, err := el.DistanceMetres(flindersLon, flindersLat, buninyongLon, buninyongLat)
	require.NoError(t, err)
	require.InDelta(t, 54972.271, d, 1e-3)

	back, err := el.DistanceMetres(buninyongLon, buninyongLat, flindersLon, flindersLat)
	require.NoError(t, err)
	require.InDelta(t, d, back, 1e-6)

	az, err := el.AzimuthForwards(flindersLon, flindersLat, buninyongLon, buninyongLat)
	require.NoError(t, err)
	require.InDelta(t, dms(306, 52, 5.37), degrees(az), 0.01/3600)

	az, err = el.AzimuthForwards(buninyongLon, buninyongLat, flindersLon, flindersLat)
	require.NoError(t, err)
	require.InDelta(t, dms(127, 10, 25.07), degrees(az), 0.01/3600)
}

func TestVincentyEdgeCases(t *testing.T) {
	el := grs80(t)

	d, err := el.DistanceMetres(12.5, -41.25, 12.5, -41.25)
	require.NoError(t, err)
	require.Equal(t, 0.0, d)
	az, err := el.AzimuthForwards(12.5, -41.25, 12.5, -41.25)
	require.NoError(t, err)
	require.Equal(t, 0.0, az)

	// along the equator the geodesic is the equator itself
	d, err = el.DistanceMetres(0, 0, 1, 0)
	require.NoError(t, err)
	require.InDelta(t, 2*math.Pi*el.SemiMajorAxis()/360, d, 1e-6)
	az, err = el.AzimuthForwards(0, 0, 1, 0)
	require.NoError(t, err)
	require.InDelta(t, math.Pi/2, az, 1e-12)

	az, err = el.AzimuthForwards(0, 0, 0, -1)
	require.NoError(t, err)
	require.InDelta(t, math.Pi, az, 1e-12)
	az, err = el.AzimuthForwards(0, 0, -1, 0)
	require.NoError(t, err)
	require.InDelta(t, 3*math.Pi/2, az, 1e-12)
}

func TestVincentyNonConvergence(t *testing.T) {
	el := grs80(t)
	_, err := el.DistanceMetres(0, 0.5, 179.5, -0.5)
	require.Error(t, err)
	require.True(t, errors.Is(err, x.ErrNonConvergence))
	_, err = el.AzimuthForwards(0, 0.5, 179.5, -0.5)
	require.True(t, errors.Is(err, x.ErrNonConvergence))
	_, err = el.DistanceMetres3D(0, 0.5, 0, 179.5, -0.5, 0)
	require.True(t, errors.Is(err, x.ErrNonConvergence))
	_, err = el.AstronomicAzimuth(0, 0.5, 0, 0, 0, 179.5, -0.5, 0)
	require.True(t, errors.Is(err, x.ErrNonConvergence))
}

func TestDistanceLatLng(t *testing.T) {
	el := grs80(t)
	d, err := el.DistanceLatLng(
		s2.LatLngFromDegrees(flindersLat, flindersLon),
		s2.LatLngFromDegrees(buninyongLat, buninyongLon))
	require.NoError(t, err)
	require.InDelta(t, 54972.271, d, 1e-3)
}

func TestRadii(t *testing.T) {
	el := grs80(t)
	a, b := el.SemiMajorAxis(), el.SemiMinorAxis()
	lat := math.Pi / 4

	require.InDelta(t, 6367381.815566519, el.MeridianRadiusOfCurvature(lat), 1e-6)
	require.InDelta(t, 6388838.290173647, el.PrimeVerticalRadiusOfCurvature(lat), 1e-6)
	require.InDelta(t, a*(1-el.EccentricitySquared()), el.MeridianRadiusOfCurvature(0), 1e-6)
	require.InDelta(t, a, el.PrimeVerticalRadiusOfCurvature(0), 1e-6)
	require.InDelta(t, a*a/b, el.PrimeVerticalRadiusOfCurvature(math.Pi/2), 1e-6)
	require.InDelta(t, a*a/b, el.MeridianRadiusOfCurvature(math.Pi/2), 1e-3)

	require.InDelta(t, el.MeridianRadiusOfCurvature(lat), el.Radius(45, 0), 1e-6)
	require.InDelta(t, el.PrimeVerticalRadiusOfCurvature(lat), el.Radius(45, math.Pi/2), 1e-6)
	r := el.Radius(45, math.Pi/4)
	require.True(t, r > el.MeridianRadiusOfCurvature(lat) && r < el.PrimeVerticalRadiusOfCurvature(lat))

	require.InDelta(t, a, el.RadiusFromDegrees(0), 1e-6)
	require.InDelta(t, b, el.RadiusFromDegrees(90), 1e-6)
	require.InDelta(t, b, el.RadiusFromDegrees(-90), 1e-6)
	require.InDelta(t, 6367489.543811494, el.RadiusFromRadians(lat), 1e-6)
}

func TestDistanceWithHeights(t *testing.T) {
	el := grs80(t)

	flat, err := el.DistanceMetres3D(flindersLon, flindersLat, 0, buninyongLon, buninyongLat, 0)
	require.NoError(t, err)
	require.InDelta(t, 54972.100898, flat, 1e-3)

	d, err := el.DistanceMetres3D(flindersLon, flindersLat, 100, buninyongLon, buninyongLat, 300)
	require.NoError(t, err)
	require.InDelta(t, 54974.188946, d, 1e-3)

	// the chord agrees with the straight line through the earth
	slope := el.SlopeDistance(flindersLon, flindersLat, 100, buninyongLon, buninyongLat, 300)
	require.InDelta(t, d, slope, 1e-3)

	d, err = el.DistanceMetres3D(10, 10, 0, 10, 10, 250)
	require.NoError(t, err)
	require.Equal(t, 250.0, d)
}

func TestToCartesian(t *testing.T) {
	el := grs80(t)
	p := el.ToCartesian(0, 0, 0)
	require.InDelta(t, el.SemiMajorAxis(), p.X, 1e-6)
	require.InDelta(t, 0, p.Y, 1e-6)
	require.InDelta(t, 0, p.Z, 1e-6)

	p = el.ToCartesian(90, 0, 10)
	require.InDelta(t, 0, p.X, 1e-6)
	require.InDelta(t, el.SemiMajorAxis()+10, p.Y, 1e-6)

	p = el.ToCartesian(33, 90, 0)
	require.InDelta(t, el.SemiMinorAxis(), p.Z, 1e-6)
	require.InDelta(t, 0, math.Hypot(p.X, p.Y), 1e-6)
}

func TestAstronomicAzimuth(t *testing.T) {
	el := grs80(t)

	az, err := el.AstronomicAzimuth(flindersLon, flindersLat, 0, 0, 0, buninyongLon, buninyongLat, 0)
	require.NoError(t, err)
	require.InDelta(t, 306.868157783, az, 1e-8)

	az, err = el.AstronomicAzimuth(flindersLon, flindersLat, 0, 0.001, 0.002, buninyongLon, buninyongLat, 500)
	require.NoError(t, err)
	require.InDelta(t, 306.866607036, az, 1e-8)

	// the height of the first point plays no part
	again, err := el.AstronomicAzimuth(flindersLon, flindersLat, 1000, 0.001, 0.002, buninyongLon, buninyongLat, 500)
	require.NoError(t, err)
	require.Equal(t, az, again)

	az, err = el.AstronomicAzimuth(0, 0, 0, 0, 0, 0.0001, 1, 0)
	require.NoError(t, err)
	require.True(t, az >= 0 && az < 360)
}

func TestEquality(t *testing.T) {
	el := grs80(t)
	rounded, err := NewEllipsoid("GRS80", 6378137, 298.2572221, "")
	require.NoError(t, err)
	wgs, err := NewEllipsoid("WGS 84", 6378137, 298.257223563, "EPSG:7030")
	require.NoError(t, err)

	require.True(t, el.Equal(rounded))
	require.True(t, rounded.Equal(el))
	require.Equal(t, el.Key(), rounded.Key())
	require.False(t, el.EqualExact(rounded))
	require.False(t, el.Equal(wgs))
	require.NotEqual(t, el.Key(), wgs.Key())

	// the accessor keeps full precision
	require.Equal(t, 298.257222101, el.InverseFlattening())

	same := grs80(t)
	require.True(t, el.EqualExact(same))
	other, err := NewEllipsoid("GRS 1980", 6378137, 298.257222101, "ESRI:7019")
	require.NoError(t, err)
	require.True(t, el.Equal(other))
	require.False(t, el.EqualExact(other))

	require.False(t, el.Equal(nil))
	require.False(t, el.EqualExact(nil))

	cache := map[Key]string{el.Key(): "grs80"}
	require.Equal(t, "grs80", cache[rounded.Key()])
}

func TestCatalog(t *testing.T) {
	names := Names()
	require.Contains(t, names, "WGS 84")
	require.Contains(t, names, "GRS 1980")
	require.IsIncreasing(t, names)

	for _, name := range []string{"WGS 84", "wgs84", "WGS-84", "epsg:7030"} {
		el, ok := Lookup(name)
		require.True(t, ok, name)
		require.Equal(t, 298.257223563, el.InverseFlattening())
	}
	require.Equal(t, "WGS 84", WGS84().Name())

	_, ok := Lookup("Mars 2000")
	require.False(t, ok)

	grs, ok := Lookup("GRS 1980")
	require.True(t, ok)
	require.True(t, grs.EqualExact(grs80(t)))

	sphere, ok := Lookup("GRS 1980 Authalic Sphere")
	require.True(t, ok)
	require.Equal(t, 0.0, sphere.Flattening())

	clarke, ok := Lookup("Clarke 1866")
	require.True(t, ok)
	require.InDelta(t, 294.978698214, clarke.InverseFlattening(), 1e-6)
}

func TestCatalogLoad(t *testing.T) {
	c := NewCatalog()
	require.NoError(t, c.Load(strings.NewReader(`
ellipsoids:
  - name: Mars 2000
    authority: IAU:49900
    semi_major_axis: 3396190
    semi_minor_axis: 3376200
`)))
	mars, ok := c.Lookup("mars_2000")
	require.True(t, ok)
	require.InDelta(t, 169.894447, mars.InverseFlattening(), 1e-6)
	require.Equal(t, []string{"Mars 2000"}, c.Names())

	err := c.Load(strings.NewReader("ellipsoids:\n  - name: bad\n    semi_major_axis: -4\n    inverse_flattening: 300\n"))
	require.True(t, errors.Is(err, x.ErrInvalidArgument))

	require.Error(t, c.Load(strings.NewReader("ellipsoids:\n  - name: typo\n    semimajor: 1\n")))
}

func TestCatalogClone(t *testing.T) {
	c := Default().Clone()
	el, err := NewEllipsoid("Mars 2000", 3396190, 169.8944472, "")
	require.NoError(t, err)
	c.Add(el)

	_, ok := c.Lookup("mars2000")
	require.True(t, ok)
	_, ok = Lookup("mars2000")
	require.False(t, ok)
	require.Len(t, c.Names(), len(Names())+1)

	wgs, ok := c.Lookup("wgs84")
	require.True(t, ok)
	require.Same(t, WGS84(), wgs)
}
