package geodesy

import (
	"math"

	"github.com/golang/geo/r3"
)

// MeridianRadiusOfCurvature is M at a latitude given in radians.
func (el *Ellipsoid) MeridianRadiusOfCurvature(lat float64) float64 {
	sin := math.Sin(lat)
	return el.a * (1 - el.eSq) / math.Pow(1-el.eSq*sin*sin, 1.5)
}

// PrimeVerticalRadiusOfCurvature is N at a latitude given in radians.
func (el *Ellipsoid) PrimeVerticalRadiusOfCurvature(lat float64) float64 {
	sin, cos := math.Sincos(lat)
	return el.aSq / math.Sqrt(el.aSq*cos*cos+el.bSq*sin*sin)
}

// RadiusFromRadians is the geocentric radius at a latitude in radians:
//
//	R = sqrt(((a² cos φ)² + (b² sin φ)²) / ((a cos φ)² + (b sin φ)²))
func (el *Ellipsoid) RadiusFromRadians(lat float64) float64 {
	sin, cos := math.Sincos(lat)
	aCos := el.a * cos
	bSin := el.b * sin
	aSqCos := el.aSq * cos
	bSqSin := el.bSq * sin
	return math.Sqrt((aSqCos*aSqCos + bSqSin*bSqSin) / (aCos*aCos + bSin*bSin))
}

func (el *Ellipsoid) RadiusFromDegrees(lat float64) float64 {
	return el.RadiusFromRadians(radians(lat))
}

// Radius is the radius of curvature of the normal section at lat (degrees)
// in the direction azimuth (radians from north). It is M heading north or
// south and N heading east or west.
func (el *Ellipsoid) Radius(lat, azimuth float64) float64 {
	sinPhi := math.Sin(radians(lat))
	denom := math.Sqrt(1 - el.eSq*sinPhi*sinPhi)
	n := el.a / denom
	m := el.a * (1 - el.eSq) / (denom * denom * denom)
	sinA, cosA := math.Sincos(azimuth)
	return n * m / (n*cosA*cosA + m*sinA*sinA)
}

// ToCartesian converts a geodetic lon/lat/height to earth-centred
// earth-fixed coordinates.
func (el *Ellipsoid) ToCartesian(lon, lat, h float64) r3.Vector {
	sinPhi, cosPhi := math.Sincos(radians(lat))
	sinLam, cosLam := math.Sincos(radians(lon))
	n := el.a / math.Sqrt(1-el.eSq*sinPhi*sinPhi)
	return r3.Vector{
		X: (n + h) * cosPhi * cosLam,
		Y: (n + h) * cosPhi * sinLam,
		Z: (n*(1-el.eSq) + h) * sinPhi,
	}
}

// SlopeDistance is the straight line distance between two geodetic points.
func (el *Ellipsoid) SlopeDistance(lon1, lat1, h1, lon2, lat2, h2 float64) float64 {
	p1 := el.ToCartesian(lon1, lat1, h1)
	p2 := el.ToCartesian(lon2, lat2, h2)
	return p1.Sub(p2).Norm()
}

// AstronomicAzimuth corrects the geodetic forward azimuth for the deflection
// of the vertical at the first point and for the height h2 of the target.
// xsi and eta are the north-south and east-west deflection components in
// degrees. Of the deflection only eta affects the result, and h1 does not.
// The result is in degrees within [0, 360).
func (el *Ellipsoid) AstronomicAzimuth(lon1, lat1, h1, xsi, eta, lon2, lat2, h2 float64) (float64, error) {
	distance, err := el.DistanceMetres(lon1, lat1, lon2, lat2)
	if err != nil {
		return 0, err
	}
	azimuth, err := el.AzimuthForwards(lon1, lat1, lon2, lat2)
	if err != nil {
		return 0, err
	}

	phi1 := radians(lat1)
	phi2 := radians(lat2)
	phim := (phi1 + phi2) / 2
	esq := (el.aSq - el.bSq) / el.aSq

	sin1 := math.Sin(phi1)
	sin2 := math.Sin(phi2)
	d1 := math.Sqrt(1 - esq*sin1*sin1)
	d2 := math.Sqrt(1 - esq*sin2*sin2)
	mm := (el.a*(1-esq)/(d1*d1*d1) + el.a*(1-esq)/(d2*d2*d2)) / 2
	nm := (el.a/d1 + el.a/d2) / 2

	cos2 := math.Cos(phi2)
	c2 := h2 / mm * esq * math.Sin(azimuth) * math.Cos(azimuth) * cos2 * cos2
	cosm := math.Cos(phim)
	c3 := -esq * distance * distance * cosm * cosm * math.Sin(2*azimuth) / (nm * nm * 12)

	spaz := azimuth + radians(eta)*math.Tan(phi1) - c2 - c3
	spaz = math.Mod(spaz, 2*math.Pi)
	if spaz < 0 {
		spaz += 2 * math.Pi
	}
	return degrees(spaz), nil
}
