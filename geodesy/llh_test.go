package geodesy

import (
	"math"
	"testing"

	satellite "github.com/joshuaferrara/go-satellite"
)

const (
	angleTol  = 1e-9
	heightTol = 1e-6
)

func TestLLHToECEFOrigin(t *testing.T) {
	got := LLHToECEF(LLH{})
	want := ECEF{X: 6378137.0}
	if got != want {
		t.Fatalf("LLHToECEF(0,0,0) = %+v, want %+v", got, want)
	}
}

func TestECEFToLLHEquator(t *testing.T) {
	got := ECEFToLLH(ECEF{X: wgs84SemiMajorAxis})
	if math.Abs(got.Lat) > angleTol || math.Abs(got.Lon) > angleTol || math.Abs(got.Height) > heightTol {
		t.Fatalf("ECEFToLLH(A,0,0) = %+v, want zero", got)
	}
}

func TestRoundTrip(t *testing.T) {
	cases := []struct {
		name string
		llh  LLH
	}{
		{"equator", LLH{Lat: 0, Lon: 0, Height: 0}},
		{"equator high", LLH{Lat: 0, Lon: 1.2, Height: 20_200_000}},
		{"mid latitude", LLHFromDegrees(37.4275, -122.1697, 30)},
		{"southern", LLHFromDegrees(-33.8688, 151.2093, 58)},
		{"negative longitude", LLH{Lat: 0.6, Lon: -2.0, Height: 350}},
		{"below ellipsoid", LLHFromDegrees(31.5, 35.5, -430)},
		{"north pole", LLH{Lat: math.Pi / 2, Lon: 0, Height: 0}},
		{"south pole", LLH{Lat: -math.Pi / 2, Lon: 0, Height: 1200}},
		{"near pole", LLHFromDegrees(89.999, 45, 100)},
		{"leo", LLHFromDegrees(51.6, 10, 420_000)},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ECEFToLLH(LLHToECEF(tc.llh))
			if d := math.Abs(got.Lat - tc.llh.Lat); d > angleTol {
				t.Errorf("lat = %v, want %v (diff %g)", got.Lat, tc.llh.Lat, d)
			}
			if d := math.Abs(got.Lon - tc.llh.Lon); d > angleTol {
				t.Errorf("lon = %v, want %v (diff %g)", got.Lon, tc.llh.Lon, d)
			}
			if d := math.Abs(got.Height - tc.llh.Height); d > heightTol {
				t.Errorf("height = %v, want %v (diff %g)", got.Height, tc.llh.Height, d)
			}
		})
	}
}

func TestECEFToLLHPoles(t *testing.T) {
	b := WGS84().SemiMinorAxis()

	north := ECEFToLLH(ECEF{Z: 7_000_000})
	if north.Lat != math.Pi/2 || north.Lon != 0 || north.Height != 7_000_000-b {
		t.Fatalf("north pole = %+v, want lat=π/2 lon=0 height=%v", north, 7_000_000-b)
	}

	south := ECEFToLLH(ECEF{Z: -7_000_000})
	if south.Lat != -math.Pi/2 || south.Lon != 0 || south.Height != 7_000_000-b {
		t.Fatalf("south pole = %+v, want lat=-π/2 lon=0 height=%v", south, 7_000_000-b)
	}
}

func TestECEFToLLHPolarBranchSkipsIteration(t *testing.T) {
	llh, n := WGS84().Solve(ECEF{X: 1e-10, Y: -1e-10, Z: 6_356_752})
	if n != 0 {
		t.Fatalf("iterations = %d, want 0 for a point on the polar axis", n)
	}
	if llh.Lat != math.Pi/2 {
		t.Fatalf("lat = %v, want π/2", llh.Lat)
	}
}

func TestECEFToLLHSignedZero(t *testing.T) {
	negZero := math.Copysign(0, -1)

	pos := ECEFToLLH(ECEF{})
	if pos.Lat != math.Pi/2 {
		t.Fatalf("lat(+0) = %v, want π/2", pos.Lat)
	}

	neg := ECEFToLLH(ECEF{Z: negZero})
	if neg.Lat != -math.Pi/2 {
		t.Fatalf("lat(-0) = %v, want -π/2", neg.Lat)
	}
	if want := -WGS84().SemiMinorAxis(); neg.Height != want {
		t.Fatalf("height(-0) = %v, want %v", neg.Height, want)
	}
}

func TestSolveIterationBudget(t *testing.T) {
	points := []ECEF{
		LLHToECEF(LLHFromDegrees(45, 45, 0)),
		LLHToECEF(LLHFromDegrees(-80, 170, 35_786_000)),
		LLHToECEF(LLHFromDegrees(1e-6, 0, -6_000_000)),
	}
	for _, p := range points {
		_, n := WGS84().Solve(p)
		if n < 1 || n > maxIterations {
			t.Fatalf("iterations for %+v = %d, want within [1, %d]", p, n, maxIterations)
		}
	}
}

func TestECEFToLLHPropagatesNonFinite(t *testing.T) {
	got := ECEFToLLH(ECEF{X: math.NaN(), Y: 1, Z: 1})
	if !math.IsNaN(got.Lat) || !math.IsNaN(got.Lon) || !math.IsNaN(got.Height) {
		t.Fatalf("ECEFToLLH(NaN) = %+v, want all NaN", got)
	}

	inf := ECEFToLLH(ECEF{X: math.Inf(1), Y: 0, Z: 1000})
	if !math.IsNaN(inf.Lat) && !math.IsInf(inf.Lat, 0) {
		t.Fatalf("ECEFToLLH(+Inf).Lat = %v, want non-finite", inf.Lat)
	}
}

func TestECEFToLLHMatchesGoSatellite(t *testing.T) {
	for _, llh := range []LLH{
		LLHFromDegrees(12.5, 77.6, 920),
		LLHFromDegrees(-45, 120, 550_000),
		LLHFromDegrees(63.4, 10.4, 0),
	} {
		pos := LLHToECEF(llh)
		// With a zero sidereal angle ECI and ECEF coincide.
		altKm, _, ll := satellite.ECIToLLA(satellite.Vector3{
			X: pos.X / 1000, Y: pos.Y / 1000, Z: pos.Z / 1000,
		}, 0)

		got := ECEFToLLH(pos)
		if d := math.Abs(got.Lat - ll.Latitude); d > 1e-8 {
			t.Errorf("lat = %v, go-satellite %v (diff %g)", got.Lat, ll.Latitude, d)
		}
		if d := math.Abs(got.Lon - ll.Longitude); d > 1e-8 {
			t.Errorf("lon = %v, go-satellite %v (diff %g)", got.Lon, ll.Longitude, d)
		}
		if d := math.Abs(got.Height - altKm*1000); d > 1e-2 {
			t.Errorf("height = %v, go-satellite %v (diff %g)", got.Height, altKm*1000, d)
		}
	}
}
