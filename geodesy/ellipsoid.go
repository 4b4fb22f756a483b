// Package geodesy computes distances, azimuths and radii of curvature on an
// ellipsoid of revolution.
//
// Angles taken by the public API are in decimal degrees unless the name says
// otherwise. Distances and heights are in metres.
package geodesy

import (
	"math"

	"github.com/golang/geo/s1"

	"github.com/godeepar/geocore/x"
)

// Ellipsoid is immutable once constructed. Every derived quantity is fixed
// at construction from the semi-major axis plus one of the semi-minor axis
// or the inverse flattening.
type Ellipsoid struct {
	name       string
	authority  string
	deprecated bool

	a, b     float64
	aSq, bSq float64
	invF, f  float64
	e, eSq   float64
}

// NewEllipsoid defines an ellipsoid from its semi-major axis and inverse
// flattening.
func NewEllipsoid(name string, a, invF float64, authority string) (*Ellipsoid, error) {
	return NewEllipsoidAxes(name, a, math.NaN(), invF, authority, false)
}

// NewEllipsoidAxes defines an ellipsoid from its semi-major axis and either
// of b or invF. Pass NaN for the one that is not known; when both are given
// they are taken as is.
func NewEllipsoidAxes(name string, a, b, invF float64, authority string, deprecated bool) (*Ellipsoid, error) {
	if !(a > 0) || math.IsInf(a, 0) {
		return nil, x.InvalidArgf("ellipsoid %q: semi-major axis %v", name, a)
	}
	if math.IsNaN(b) && math.IsNaN(invF) {
		return nil, x.InvalidArgf("ellipsoid %q: one of semi-minor axis or inverse flattening is required", name)
	}
	el := &Ellipsoid{
		name:       name,
		authority:  authority,
		deprecated: deprecated,
		a:          a,
		b:          b,
		invF:       invF,
	}
	if math.IsNaN(invF) {
		el.invF = a / (a - b)
	}
	el.f = 1 / el.invF
	if math.IsNaN(el.f) || math.IsInf(el.f, 0) {
		return nil, x.InvalidArgf("ellipsoid %q: flattening of 1/%v", name, el.invF)
	}
	if math.IsNaN(b) {
		el.b = a - a*el.f
	}
	el.aSq = a * a
	el.bSq = el.b * el.b
	el.eSq = el.f + el.f - el.f*el.f
	el.e = math.Sqrt(el.eSq)
	return el, nil
}

func (el *Ellipsoid) Name() string { return el.name }
func (el *Ellipsoid) Authority() string { return el.authority }
func (el *Ellipsoid) Deprecated() bool { return el.deprecated }
func (el *Ellipsoid) SemiMajorAxis() float64 { return el.a }
func (el *Ellipsoid) SemiMinorAxis() float64 { return el.b }
func (el *Ellipsoid) InverseFlattening() float64 { return el.invF }
func (el *Ellipsoid) Flattening() float64 { return el.f }
func (el *Ellipsoid) Eccentricity() float64 { return el.e }
func (el *Ellipsoid) EccentricitySquared() float64 { return el.eSq }

func (el *Ellipsoid) String() string {
	return el.name
}

// Key identifies an ellipsoid for caching. Two ellipsoids have the same key
// exactly when Equal reports true.
type Key struct {
	SemiMajorAxis     float64
	InverseFlattening float64
}

func (el *Ellipsoid) Key() Key {
	return Key{SemiMajorAxis: el.a, InverseFlattening: precise(el.invF)}
}

// Equal reports whether o describes the same figure: the semi-major axes are
// identical and the inverse flattenings agree to six decimal places. Use it
// to match definitions of one reference ellipsoid published at different
// precisions.
func (el *Ellipsoid) Equal(o *Ellipsoid) bool {
	if el == o {
		return true
	}
	if o == nil || el == nil {
		return false
	}
	return el.Key() == o.Key()
}

// EqualExact requires the same authority and bit-identical axes and inverse
// flattening.
func (el *Ellipsoid) EqualExact(o *Ellipsoid) bool {
	if el == o {
		return true
	}
	if o == nil || el == nil {
		return false
	}
	return el.authority == o.authority &&
		el.invF == o.invF &&
		el.a == o.a &&
		el.b == o.b
}

// precise rounds v to six decimal places.
func precise(v float64) float64 {
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return v
	}
	return math.Round(v*1e6) / 1e6
}

func radians(deg float64) float64 {
	return (s1.Angle(deg) * s1.Degree).Radians()
}

func degrees(rad float64) float64 {
	return s1.Angle(rad).Degrees()
}
