package track

import (
	"fmt"
	"math"
	"time"
)

// Config holds tracking parameters.
type Config struct {
	// MinElevationDeg is the elevation mask: samples below it are not
	// visible. Default: 10 degrees.
	MinElevationDeg float64

	// Step is the simulation time between samples when searching for
	// passes. Default: 30 seconds.
	Step time.Duration
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		MinElevationDeg: 10,
		Step:            30 * time.Second,
	}
}

// ApplyDefaults fills zero or invalid fields. A zero-value Config becomes
// DefaultConfig; an explicit zero mask is kept once Step is set.
func (c Config) ApplyDefaults() Config {
	if c == (Config{}) {
		return DefaultConfig()
	}
	if c.Step <= 0 {
		c.Step = 30 * time.Second
	}
	return c
}

// Validate reports whether the mask is a usable elevation.
func (c Config) Validate() error {
	if math.IsNaN(c.MinElevationDeg) || c.MinElevationDeg < -90 || c.MinElevationDeg > 90 {
		return fmt.Errorf("%w: elevation mask %v° outside [-90, 90]", ErrInvalidConfig, c.MinElevationDeg)
	}
	if c.Step <= 0 {
		return fmt.Errorf("%w: step %v", ErrInvalidConfig, c.Step)
	}
	return nil
}
