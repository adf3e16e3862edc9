package geodesy

import "math"

const (
	// maxIterations bounds the ECEF to geodetic fixed-point update. The
	// solver stops here whether or not it has converged.
	maxIterations = 10
	// convergence is the absolute change in both S and C below which the
	// solver exits early.
	convergence = 1e-16
	// polarRadius is the fraction of A under which a point is treated as
	// lying on the polar axis.
	polarRadius = 1e-16
)

// ECEFToLLH converts an ECEF position to WGS84 geodetic coordinates.
func ECEFToLLH(pos ECEF) LLH {
	return wgs84.ECEFToLLH(pos)
}

// LLHToECEF converts WGS84 geodetic coordinates to an ECEF position.
func LLHToECEF(llh LLH) ECEF {
	return wgs84.LLHToECEF(llh)
}

// ECEFToLLH converts an ECEF position to geodetic coordinates on el.
func (el Ellipsoid) ECEFToLLH(pos ECEF) LLH {
	llh, _ := el.Solve(pos)
	return llh
}

// Solve converts an ECEF position to geodetic coordinates and also reports
// how many fixed-point iterations were run. Points on the polar axis take
// the closed-form branch and report zero iterations.
//
// The solver is a division-minimised Borkowski/Vermeille iteration with a
// fixed budget of ten steps. It has no failure mode: if the budget runs out
// the last estimate is used as is. Non-finite inputs give non-finite
// outputs.
func (el Ellipsoid) Solve(pos ECEF) (LLH, int) {
	x, y, z := pos.X, pos.Y, pos.Z
	a, e := el.a, el.e
	e2 := e * e

	var llh LLH
	p := math.Hypot(x, y)
	if p != 0 {
		llh.Lon = math.Atan2(y, x)
	}

	if p < a*polarRadius {
		llh.Lat = math.Copysign(math.Pi/2, z)
		llh.Height = math.Abs(z) - el.b
		return llh, 0
	}

	P := p / a
	ec := math.Sqrt(1 - e2)
	Z := math.Abs(z) * ec / a

	S := Z
	C := ec * P
	prevS, prevC := -1.0, -1.0

	n := 0
	for n < maxIterations {
		n++
		An := math.Sqrt(S*S + C*C)
		An3 := An * An * An
		Dn := Z*An3 + e2*S*S*S
		Fn := P*An3 - e2*C*C*C
		Bn := 1.5 * e * S * C * C * (An*(P*S-Z*C) - e*S*C)

		S = Dn*Fn - Bn*S
		C = Fn*Fn - Bn*C

		// Rescale so the larger term is 1; keeps S and C in range.
		if S > C {
			C /= S
			S = 1
		} else {
			S /= C
			C = 1
		}

		if math.Abs(S-prevS) < convergence && math.Abs(C-prevC) < convergence {
			break
		}
		prevS, prevC = S, C
	}

	An := math.Sqrt(S*S + C*C)
	llh.Lat = math.Copysign(1, z) * math.Atan(S/(ec*C))
	llh.Height = (p*ec*C + math.Abs(z)*S - a*ec*An) / math.Sqrt(ec*ec*C*C+S*S)
	return llh, n
}

// LLHToECEF converts geodetic coordinates on el to an ECEF position.
func (el Ellipsoid) LLHToECEF(llh LLH) ECEF {
	e2 := el.e * el.e
	sinLat, cosLat := math.Sincos(llh.Lat)
	sinLon, cosLon := math.Sincos(llh.Lon)

	d := el.e * sinLat
	n := el.a / math.Sqrt(1-d*d)

	return ECEF{
		X: (n + llh.Height) * cosLat * cosLon,
		Y: (n + llh.Height) * cosLat * sinLon,
		Z: ((1-e2)*n + llh.Height) * sinLat,
	}
}
