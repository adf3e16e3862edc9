package geodesy

import "math"

// ECEFToAzEl returns the azimuth and elevation of pos as seen from ref.
//
// The line of sight pos-ref is rotated into the NED frame at ref (see
// ECEFToNEDDelta). Older implementations of this routine passed pos-ref,
// pos and ref positionally into a two-parameter rotation; the behaviour here
// is the corrected one, where the displacement is rotated by the matrix built
// at ref.
//
// Azimuth is in [0, 2π): a tiny negative atan2 result that rounds up to 2π
// when shifted is reported as 0. Elevation is in [-π/2, π/2] and is NaN when pos
// equals ref.
func ECEFToAzEl(pos, ref ECEF) AzEl {
	return wgs84.ECEFToAzEl(pos, ref)
}

// ECEFToAzEl is ECEFToAzEl evaluated on el.
func (el Ellipsoid) ECEFToAzEl(pos, ref ECEF) AzEl {
	ned := el.ECEFToNEDDelta(pos, ref)

	az := math.Atan2(ned.E, ned.N)
	// atan2 is in [-π, π]; azimuth is reported in [0, 2π).
	if az < 0 {
		az += 2 * math.Pi
		if az >= 2*math.Pi {
			az = 0
		}
	}

	return AzEl{
		Az: az,
		El: math.Asin(-ned.D / ned.Norm()),
	}
}
