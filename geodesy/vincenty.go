package geodesy

import (
	"math"

	"github.com/golang/geo/s2"

	"github.com/godeepar/geocore/x"
)

const (
	vincentyIterations = 100
	vincentyThreshold  = 1e-12
)

// inverse holds the converged state of Vincenty's inverse iteration.
type inverse struct {
	coincident bool

	sinU1, cosU1 float64
	sinU2, cosU2 float64
	sinL, cosL   float64

	sigma, sinSigma, cosSigma float64
	cosSqAlpha, cos2SigmaM    float64
}

// solve iterates on the longitude difference on the auxiliary sphere. It
// fails with x.ErrNonConvergence when the iteration cap is reached, which
// happens for nearly antipodal points.
func (el *Ellipsoid) solve(lon1, lat1, lon2, lat2 float64) (inverse, error) {
	f := el.f
	deltaLon := radians(lon2) - radians(lon1)

	var v inverse
	tanU1 := (1 - f) * math.Tan(radians(lat1))
	v.cosU1 = 1 / math.Sqrt(1+tanU1*tanU1)
	v.sinU1 = tanU1 * v.cosU1
	tanU2 := (1 - f) * math.Tan(radians(lat2))
	v.cosU2 = 1 / math.Sqrt(1+tanU2*tanU2)
	v.sinU2 = tanU2 * v.cosU2

	lambda := deltaLon
	for i := 0; i < vincentyIterations; i++ {
		v.sinL, v.cosL = math.Sincos(lambda)
		t := v.cosU1*v.sinU2 - v.sinU1*v.cosU2*v.cosL
		v.sinSigma = math.Sqrt(v.cosU2*v.sinL*(v.cosU2*v.sinL) + t*t)
		if v.sinSigma == 0 {
			v.coincident = true
			return v, nil
		}
		v.cosSigma = v.sinU1*v.sinU2 + v.cosU1*v.cosU2*v.cosL
		v.sigma = math.Atan2(v.sinSigma, v.cosSigma)
		sinAlpha := v.cosU1 * v.cosU2 * v.sinL / v.sinSigma
		v.cosSqAlpha = 1 - sinAlpha*sinAlpha
		v.cos2SigmaM = v.cosSigma - 2*v.sinU1*v.sinU2/v.cosSqAlpha
		if math.IsNaN(v.cos2SigmaM) || math.IsInf(v.cos2SigmaM, 0) {
			// equatorial line
			v.cos2SigmaM = 0
		}
		c := f / 16 * v.cosSqAlpha * (4 + f*(4-3*v.cosSqAlpha))
		last := lambda
		lambda = deltaLon + (1-c)*f*sinAlpha*
			(v.sigma+c*v.sinSigma*(v.cos2SigmaM+c*v.cosSigma*(-1+2*v.cos2SigmaM*v.cos2SigmaM)))
		if math.Abs(lambda-last) <= vincentyThreshold {
			return v, nil
		}
	}
	return v, x.NonConvergencef("vincenty (%v, %v) to (%v, %v) after %d iterations",
		lon1, lat1, lon2, lat2, vincentyIterations)
}

// DistanceMetres is the geodesic distance between two lon/lat points.
func (el *Ellipsoid) DistanceMetres(lon1, lat1, lon2, lat2 float64) (float64, error) {
	v, err := el.solve(lon1, lat1, lon2, lat2)
	if err != nil {
		return 0, err
	}
	if v.coincident {
		return 0, nil
	}
	uSq := v.cosSqAlpha * (el.aSq - el.bSq) / el.bSq
	a := 1 + uSq/16384*(4096+uSq*(-768+uSq*(320-175*uSq)))
	b := uSq / 1024 * (256 + uSq*(-128+uSq*(74-47*uSq)))
	c2 := v.cos2SigmaM * v.cos2SigmaM
	deltaSigma := b * v.sinSigma * (v.cos2SigmaM + b/4*(v.cosSigma*(-1+2*c2)-
		b/6*v.cos2SigmaM*(-3+4*v.sinSigma*v.sinSigma)*(-3+4*c2)))
	return el.b * a * (v.sigma - deltaSigma), nil
}

// AzimuthForwards is the initial bearing from the first point to the second,
// in radians clockwise from north within [0, 2π). Coincident points have a
// bearing of 0.
func (el *Ellipsoid) AzimuthForwards(lon1, lat1, lon2, lat2 float64) (float64, error) {
	v, err := el.solve(lon1, lat1, lon2, lat2)
	if err != nil {
		return 0, err
	}
	if v.coincident {
		return 0, nil
	}
	az := math.Atan2(v.cosU2*v.sinL, v.cosU1*v.sinU2-v.sinU1*v.cosU2*v.cosL)
	if az < 0 {
		az += 2 * math.Pi
	} else if az >= 2*math.Pi {
		az -= 2 * math.Pi
	}
	return az, nil
}

// DistanceLatLng is DistanceMetres for s2 points.
func (el *Ellipsoid) DistanceLatLng(p, q s2.LatLng) (float64, error) {
	return el.DistanceMetres(p.Lng.Degrees(), p.Lat.Degrees(), q.Lng.Degrees(), q.Lat.Degrees())
}

// DistanceMetres3D is the distance between two points with ellipsoidal
// heights. The geodesic is turned into a chord on a sphere of the local
// radius in the direction of travel at each end, scaled for the heights and
// combined with the height difference.
func (el *Ellipsoid) DistanceMetres3D(lon1, lat1, h1, lon2, lat2, h2 float64) (float64, error) {
	distance, err := el.DistanceMetres(lon1, lat1, lon2, lat2)
	if err != nil {
		return 0, err
	}
	forwards, err := el.AzimuthForwards(lon1, lat1, lon2, lat2)
	if err != nil {
		return 0, err
	}
	backwards, err := el.AzimuthForwards(lon2, lat2, lon1, lat1)
	if err != nil {
		return 0, err
	}
	r1 := el.Radius(lat1, forwards)
	r2 := el.Radius(lat2, backwards)
	dh := h2 - h1
	twoR := r1 + r2
	lo := twoR * math.Sin(distance/twoR)
	return math.Sqrt(lo*lo*(h1/r1+1)*(h2/r2+1) + dh*dh), nil
}
