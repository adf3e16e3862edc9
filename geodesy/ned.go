package geodesy

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// NEDMatrix returns the 3×3 direction-cosine matrix that rotates ECEF-frame
// vectors into the North-East-Down frame at ref. Rows are the north, east
// and down unit vectors. Only the latitude and longitude of ref matter, so
// every point on the same local vertical yields the same matrix.
func NEDMatrix(ref ECEF) *mat.Dense {
	return wgs84.NEDMatrix(ref)
}

// NEDMatrix is NEDMatrix evaluated on el.
func (el Ellipsoid) NEDMatrix(ref ECEF) *mat.Dense {
	llh := el.ECEFToLLH(ref)
	sinLat, cosLat := math.Sincos(llh.Lat)
	sinLon, cosLon := math.Sincos(llh.Lon)

	return mat.NewDense(3, 3, []float64{
		-sinLat * cosLon, -sinLat * sinLon, cosLat,
		-sinLon, cosLon, 0,
		-cosLat * cosLon, -cosLat * sinLon, -sinLat,
	})
}

// ECEFToNED rotates v into the NED frame at ref. v is used as given: it is
// not offset by ref, so this is only meaningful for a vector that is already
// a displacement (or a direction such as a velocity). Use ECEFToNEDDelta to
// get the local tangent-plane coordinates of a position.
func ECEFToNED(v, ref ECEF) NED {
	return wgs84.ECEFToNED(v, ref)
}

// ECEFToNEDDelta returns the NED coordinates of pos relative to ref, i.e. the
// rotation of pos-ref into the NED frame at ref.
func ECEFToNEDDelta(pos, ref ECEF) NED {
	return wgs84.ECEFToNEDDelta(pos, ref)
}

// ECEFToNED is ECEFToNED evaluated on el.
func (el Ellipsoid) ECEFToNED(v, ref ECEF) NED {
	var out mat.VecDense
	out.MulVec(el.NEDMatrix(ref), mat.NewVecDense(3, []float64{v.X, v.Y, v.Z}))
	return NED{N: out.AtVec(0), E: out.AtVec(1), D: out.AtVec(2)}
}

// ECEFToNEDDelta is ECEFToNEDDelta evaluated on el.
func (el Ellipsoid) ECEFToNEDDelta(pos, ref ECEF) NED {
	return el.ECEFToNED(pos.Sub(ref), ref)
}
