package geodesy

import "math"

const (
	rad2deg = 180 / math.Pi
	deg2rad = math.Pi / 180
)

// Deg2Rad converts degrees to radians.
func Deg2Rad(deg float64) float64 { return deg * deg2rad }

// Rad2Deg converts radians to degrees.
func Rad2Deg(rad float64) float64 { return rad * rad2deg }

// ECEF is an Earth-Centered-Earth-Fixed position or displacement in metres.
type ECEF struct {
	X, Y, Z float64
}

// Sub returns v - other.
func (v ECEF) Sub(other ECEF) ECEF {
	return ECEF{X: v.X - other.X, Y: v.Y - other.Y, Z: v.Z - other.Z}
}

// Add returns v + other.
func (v ECEF) Add(other ECEF) ECEF {
	return ECEF{X: v.X + other.X, Y: v.Y + other.Y, Z: v.Z + other.Z}
}

// Norm returns the Euclidean norm of the vector.
func (v ECEF) Norm() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z)
}

// DistanceTo returns the straight-line distance between two points.
func (v ECEF) DistanceTo(other ECEF) float64 {
	return v.Sub(other).Norm()
}

// LLH is a geodetic position: latitude and longitude in radians, height in
// metres above the ellipsoid. Angles are not normalised.
type LLH struct {
	Lat, Lon, Height float64
}

// LLHFromDegrees builds an LLH from latitude/longitude in degrees.
func LLHFromDegrees(latDeg, lonDeg, height float64) LLH {
	return LLH{Lat: latDeg * deg2rad, Lon: lonDeg * deg2rad, Height: height}
}

// Degrees returns latitude and longitude in degrees.
func (p LLH) Degrees() (lat, lon float64) {
	return p.Lat * rad2deg, p.Lon * rad2deg
}

// NED is a vector in the local North-East-Down frame of a reference point,
// in metres.
type NED struct {
	N, E, D float64
}

// Norm returns the Euclidean norm of the vector.
func (v NED) Norm() float64 {
	return math.Sqrt(v.N*v.N + v.E*v.E + v.D*v.D)
}

// AzEl holds look angles in radians. Az is measured clockwise from north in
// [0, 2π); El is measured up from the local horizontal plane.
type AzEl struct {
	Az, El float64
}

// Degrees returns azimuth and elevation in degrees.
func (a AzEl) Degrees() (az, el float64) {
	return a.Az * rad2deg, a.El * rad2deg
}
