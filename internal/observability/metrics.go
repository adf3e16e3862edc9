package observability

import (
	"fmt"
	"math"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// TrackerCollector bundles Prometheus metrics for satellite look-angle
// tracking.
type TrackerCollector struct {
	gatherer prometheus.Gatherer

	Samples   *prometheus.CounterVec
	Passes    *prometheus.CounterVec
	Elevation *prometheus.HistogramVec
	Visible   *prometheus.GaugeVec
}

// NewTrackerCollector registers tracking metrics against the provided
// registerer, defaulting to the global Prometheus registry when nil.
// Registering twice against the same registry returns the existing
// collectors.
func NewTrackerCollector(reg prometheus.Registerer) (*TrackerCollector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	labels := []string{"satellite", "observer"}

	samples, err := registerCounterVec(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "track_look_angle_samples_total",
		Help: "Total number of look-angle samples computed, labeled by satellite and observer.",
	}, labels), "track_look_angle_samples_total")
	if err != nil {
		return nil, err
	}

	passes, err := registerCounterVec(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "track_passes_total",
		Help: "Total number of visible passes found, labeled by satellite and observer.",
	}, labels), "track_passes_total")
	if err != nil {
		return nil, err
	}

	elevation, err := registerHistogramVec(reg, prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "track_elevation_degrees",
		Help:    "Elevation of sampled look angles in degrees.",
		Buckets: []float64{-60, -30, -10, 0, 5, 10, 20, 30, 45, 60, 75, 90},
	}, labels), "track_elevation_degrees")
	if err != nil {
		return nil, err
	}

	visible, err := registerGaugeVec(reg, prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "track_satellite_visible",
		Help: "1 when the last sample was above the elevation mask, else 0.",
	}, labels), "track_satellite_visible")
	if err != nil {
		return nil, err
	}

	return &TrackerCollector{
		gatherer:  gatherer,
		Samples:   samples,
		Passes:    passes,
		Elevation: elevation,
		Visible:   visible,
	}, nil
}

// ObserveSample records one look-angle sample. Safe on a nil collector.
// A NaN elevation (target coincident with the observer) is counted but kept
// out of the elevation histogram.
func (c *TrackerCollector) ObserveSample(satellite, observer string, elevationDeg float64, visible bool) {
	if c == nil {
		return
	}
	if c.Samples != nil {
		c.Samples.WithLabelValues(satellite, observer).Inc()
	}
	if c.Elevation != nil && !math.IsNaN(elevationDeg) {
		c.Elevation.WithLabelValues(satellite, observer).Observe(elevationDeg)
	}
	if c.Visible != nil {
		v := 0.0
		if visible {
			v = 1
		}
		c.Visible.WithLabelValues(satellite, observer).Set(v)
	}
}

// ObservePass records a completed pass. Safe on a nil collector.
func (c *TrackerCollector) ObservePass(satellite, observer string) {
	if c == nil || c.Passes == nil {
		return
	}
	c.Passes.WithLabelValues(satellite, observer).Inc()
}

// Handler exposes a ready-to-use /metrics handler.
func (c *TrackerCollector) Handler() http.Handler {
	gatherer := c.gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

func registerCounterVec(reg prometheus.Registerer, vec *prometheus.CounterVec, name string) (*prometheus.CounterVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.CounterVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}

func registerHistogramVec(reg prometheus.Registerer, vec *prometheus.HistogramVec, name string) (*prometheus.HistogramVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.HistogramVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}

func registerGaugeVec(reg prometheus.Registerer, vec *prometheus.GaugeVec, name string) (*prometheus.GaugeVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.GaugeVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}
