package model

import "github.com/signalsfoundry/gnss-geodesy/geodesy"

// Observer is a fixed site on the ground (or in the air) that looks at
// satellites, e.g. a GNSS reference station or a tracking antenna.
type Observer struct {
	ID   string
	Name string

	// Position is geodetic on WGS84: radians and metres.
	Position geodesy.LLH
}

// ECEF returns the observer's Earth-fixed position in metres.
func (o Observer) ECEF() geodesy.ECEF {
	return geodesy.LLHToECEF(o.Position)
}

// Satellite identifies an orbiting platform propagated from a two-line
// element set.
type Satellite struct {
	ID      string
	Name    string
	NoradID uint32 // optional

	TLE1 string
	TLE2 string

	// Position is the most recently sampled ECEF position in metres. It is
	// zero until a tracker has published one.
	Position geodesy.ECEF
}
