// Package track computes look angles from a ground observer to a satellite
// propagated with SGP4, and finds the passes where the satellite rises above
// an elevation mask.
package track

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	satellite "github.com/joshuaferrara/go-satellite"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/signalsfoundry/gnss-geodesy/geodesy"
	"github.com/signalsfoundry/gnss-geodesy/internal/logging"
	"github.com/signalsfoundry/gnss-geodesy/internal/observability"
	"github.com/signalsfoundry/gnss-geodesy/model"
)

var (
	ErrInvalidTLE      = errors.New("invalid TLE")
	ErrInvalidObserver = errors.New("invalid observer")
	ErrInvalidConfig   = errors.New("invalid tracking config")
	ErrPropagation     = errors.New("SGP4 propagation failed")
)

const (
	tracerName    = "github.com/signalsfoundry/gnss-geodesy/track"
	tleLineLength = 69
	kmToM         = 1000.0

	// Earth radius of the WGS72 gravity model the elements are propagated
	// with. SGP4 flags a decayed orbit when the radius drops below it.
	earthRadiusKm = 6378.135
)

// PositionSink receives every sampled satellite position, e.g. a
// kb.KnowledgeBase.
type PositionSink interface {
	UpdateSatellitePosition(id string, pos geodesy.ECEF) error
}

// Sample is the look angle of the satellite at one instant.
type Sample struct {
	Time    time.Time
	AzEl    geodesy.AzEl
	Range   float64 // metres
	Visible bool
}

// Tracker computes look angles from one observer to one satellite. After
// construction it holds no mutable state, so LookAt and Position may be
// called concurrently.
type Tracker struct {
	sat      satellite.Satellite
	def      model.Satellite
	observer model.Observer
	site     geodesy.ECEF
	cfg      Config
	maskRad  float64

	log     logging.Logger
	metrics *observability.TrackerCollector
	sink    PositionSink
	tp      trace.TracerProvider
}

// Option customises a Tracker.
type Option func(*Tracker)

// WithLogger sets the logger used for pass events.
func WithLogger(l logging.Logger) Option {
	return func(t *Tracker) {
		if l != nil {
			t.log = l
		}
	}
}

// WithCollector records samples and passes in c.
func WithCollector(c *observability.TrackerCollector) Option {
	return func(t *Tracker) { t.metrics = c }
}

// WithPositionSink publishes every sampled position taken by Passes to s.
func WithPositionSink(s PositionSink) Option {
	return func(t *Tracker) { t.sink = s }
}

// WithTracerProvider traces pass searches with tp instead of the global
// provider.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(t *Tracker) { t.tp = tp }
}

// New builds a tracker for sat as seen from obs.
func New(sat model.Satellite, obs model.Observer, cfg Config, opts ...Option) (*Tracker, error) {
	cfg = cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := validateObserver(obs); err != nil {
		return nil, err
	}
	elements, err := parseTLE(sat.TLE1, sat.TLE2)
	if err != nil {
		return nil, fmt.Errorf("satellite %q: %w", sat.ID, err)
	}

	t := &Tracker{
		sat:      elements,
		def:      sat,
		observer: obs,
		site:     obs.ECEF(),
		cfg:      cfg,
		maskRad:  geodesy.Deg2Rad(cfg.MinElevationDeg),
		log:      logging.Noop(),
	}
	for _, opt := range opts {
		opt(t)
	}
	t.log = t.log.With(logging.String("satellite", sat.ID), logging.String("observer", obs.ID))
	return t, nil
}

// Catalog is the lookup New needs to resolve IDs.
type Catalog interface {
	Satellite(id string) (model.Satellite, error)
	Observer(id string) (model.Observer, error)
}

// NewFromCatalog resolves satID and obsID in c and builds a tracker.
func NewFromCatalog(c Catalog, satID, obsID string, cfg Config, opts ...Option) (*Tracker, error) {
	sat, err := c.Satellite(satID)
	if err != nil {
		return nil, err
	}
	obs, err := c.Observer(obsID)
	if err != nil {
		return nil, err
	}
	return New(sat, obs, cfg, opts...)
}

// Config returns the effective configuration.
func (t *Tracker) Config() Config { return t.cfg }

// Propagate propagates the satellite to simTime and returns its ECEF
// position in metres. go-satellite works in kilometres at whole-second
// resolution, so sub-second parts of simTime are dropped. It returns
// ErrPropagation when SGP4 yields no usable state, e.g. a decayed orbit.
func (t *Tracker) Propagate(simTime time.Time) (geodesy.ECEF, error) {
	simTime = simTime.UTC()
	year, month, day := simTime.Date()
	hour, min, sec := simTime.Clock()

	// Propagate works on a copy of the elements, so its Error field is not
	// visible here; the returned state is checked instead.
	posECI, _ := satellite.Propagate(t.sat, year, int(month), day, hour, min, sec)
	if propagationFailed(posECI) {
		return geodesy.ECEF{}, fmt.Errorf("%w: satellite %q at %s", ErrPropagation, t.def.ID, simTime.Format(time.RFC3339))
	}
	jd := satellite.JDay(year, int(month), day, hour, min, sec)
	gmst := satellite.ThetaG_JD(jd)
	posECEF := satellite.ECIToECEF(posECI, gmst)

	return geodesy.ECEF{
		X: posECEF.X * kmToM,
		Y: posECEF.Y * kmToM,
		Z: posECEF.Z * kmToM,
	}, nil
}

// Position is Propagate without the error. A failed propagation is logged
// and yields the origin.
func (t *Tracker) Position(simTime time.Time) geodesy.ECEF {
	pos, err := t.Propagate(simTime)
	if err != nil {
		t.log.Warn(context.Background(), "propagation failed",
			logging.Time("time", simTime),
			logging.String("error", err.Error()),
		)
	}
	return pos
}

// Subpoint returns the geodetic point under the satellite at simTime; its
// Height is the satellite altitude above the ellipsoid.
func (t *Tracker) Subpoint(simTime time.Time) geodesy.LLH {
	return geodesy.ECEFToLLH(t.Position(simTime))
}

// LookAt returns the look angle from the observer to the satellite at
// simTime.
func (t *Tracker) LookAt(simTime time.Time) Sample {
	return t.sample(simTime, t.Position(simTime))
}

func (t *Tracker) sample(simTime time.Time, pos geodesy.ECEF) Sample {
	azel := geodesy.ECEFToAzEl(pos, t.site)
	s := Sample{
		Time:    simTime,
		AzEl:    azel,
		Range:   pos.DistanceTo(t.site),
		Visible: azel.El >= t.maskRad,
	}
	t.metrics.ObserveSample(t.def.ID, t.observer.ID, geodesy.Rad2Deg(azel.El), s.Visible)
	return s
}

func validateObserver(obs model.Observer) error {
	lat := obs.Position.Lat
	if math.IsNaN(lat) || lat < -math.Pi/2 || lat > math.Pi/2 {
		return fmt.Errorf("%w: %q latitude %v rad outside [-π/2, π/2]", ErrInvalidObserver, obs.ID, lat)
	}
	if math.IsNaN(obs.Position.Lon) || math.IsNaN(obs.Position.Height) ||
		math.IsInf(obs.Position.Lon, 0) || math.IsInf(obs.Position.Height, 0) {
		return fmt.Errorf("%w: %q has non-finite position", ErrInvalidObserver, obs.ID)
	}
	return nil
}

// parseTLE checks the line framing before handing the lines to
// go-satellite, which panics on malformed numeric fields.
func parseTLE(line1, line2 string) (sat satellite.Satellite, err error) {
	line1 = strings.TrimRight(line1, " \r\n")
	line2 = strings.TrimRight(line2, " \r\n")
	if len(line1) != tleLineLength || len(line2) != tleLineLength {
		return sat, fmt.Errorf("%w: lines must be %d characters", ErrInvalidTLE, tleLineLength)
	}
	if !strings.HasPrefix(line1, "1 ") || !strings.HasPrefix(line2, "2 ") {
		return sat, fmt.Errorf("%w: bad line numbers", ErrInvalidTLE)
	}

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrInvalidTLE, r)
		}
	}()
	sat = satellite.TLEToSat(line1, line2, satellite.GravityWGS72)
	if sat.Error != 0 {
		return sat, fmt.Errorf("%w: %s", ErrInvalidTLE, sat.ErrorStr)
	}
	return sat, nil
}

// propagationFailed reports whether an SGP4 position (km) is unusable:
// non-finite, or inside the Earth.
func propagationFailed(v satellite.Vector3) bool {
	for _, c := range []float64{v.X, v.Y, v.Z} {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return true
		}
	}
	return math.Sqrt(v.X*v.X+v.Y*v.Y+v.Z*v.Z) < earthRadiusKm
}

func (t *Tracker) tracer() trace.Tracer {
	tp := t.tp
	if tp == nil {
		tp = otel.GetTracerProvider()
	}
	return tp.Tracer(tracerName)
}

// logger prefers a logger carried on ctx.
func (t *Tracker) logger(ctx context.Context) logging.Logger {
	return logging.FromContext(ctx, t.log)
}
