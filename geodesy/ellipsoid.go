// Package geodesy converts between ECEF, geodetic LLH and local NED
// coordinates on the WGS84 ellipsoid, and derives azimuth/elevation look
// angles from them.
//
// Every function in this package is pure: no state is shared or mutated, so
// all of them are safe for concurrent use.
package geodesy

import "math"

// WGS84 defining parameters.
const (
	wgs84SemiMajorAxis     = 6378137.0
	wgs84InverseFlattening = 298.257223563
)

// Ellipsoid describes a reference ellipsoid. Fields are unexported so a
// value can only be obtained from WGS84 and never modified afterwards.
type Ellipsoid struct {
	a  float64 // semi-major axis, metres
	fi float64 // inverse flattening
	f  float64 // flattening
	e  float64 // first eccentricity
	b  float64 // semi-minor axis, metres
}

var wgs84 = newEllipsoid(wgs84SemiMajorAxis, wgs84InverseFlattening)

func newEllipsoid(a, inverseFlattening float64) Ellipsoid {
	f := 1 / inverseFlattening
	return Ellipsoid{
		a:  a,
		fi: inverseFlattening,
		f:  f,
		e:  math.Sqrt(2*f - f*f),
		b:  a * (1 - f),
	}
}

// WGS84 returns the WGS84 ellipsoid used by the package-level conversions.
func WGS84() Ellipsoid { return wgs84 }

// SemiMajorAxis returns A in metres.
func (el Ellipsoid) SemiMajorAxis() float64 { return el.a }

// InverseFlattening returns 1/F.
func (el Ellipsoid) InverseFlattening() float64 { return el.fi }

// Flattening returns F.
func (el Ellipsoid) Flattening() float64 { return el.f }

// Eccentricity returns the first eccentricity E = sqrt(2F - F²).
func (el Ellipsoid) Eccentricity() float64 { return el.e }

// SemiMinorAxis returns B = A(1-F) in metres.
func (el Ellipsoid) SemiMinorAxis() float64 { return el.b }
