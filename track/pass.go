package track

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/signalsfoundry/gnss-geodesy/geodesy"
	"github.com/signalsfoundry/gnss-geodesy/internal/logging"
	"github.com/signalsfoundry/gnss-geodesy/timectrl"
)

// Pass is a run of consecutive visible samples.
type Pass struct {
	Rise time.Time
	Set  time.Time

	MaxElevation     float64 // radians
	MaxElevationTime time.Time
	RiseAzimuth      float64 // radians
	SetAzimuth       float64 // radians

	// Truncated is true when the satellite was already visible at the start
	// of the window or still visible at its end.
	Truncated bool
}

// Duration returns Set - Rise.
func (p Pass) Duration() time.Duration { return p.Set.Sub(p.Rise) }

// Passes samples the window [start, end] every Config.Step and returns the
// visible passes in time order. Rise and Set are sample times, so they are
// accurate to one step. Each call is traced as one "track.Passes" span.
func (t *Tracker) Passes(ctx context.Context, start, end time.Time) (passes []Pass, err error) {
	ctx, span := t.tracer().Start(ctx, "track.Passes", trace.WithAttributes(
		attribute.String("track.satellite", t.def.ID),
		attribute.String("track.observer", t.observer.ID),
		attribute.String("track.window.start", start.UTC().Format(time.RFC3339)),
		attribute.String("track.window.end", end.UTC().Format(time.RFC3339)),
		attribute.Float64("track.step_seconds", t.cfg.Step.Seconds()),
	))
	defer func() {
		span.SetAttributes(attribute.Int("track.passes", len(passes)))
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	stepper, err := timectrl.NewStepper(start, end, t.cfg.Step)
	if err != nil {
		return nil, err
	}
	log := t.logger(ctx)

	var current *Pass

	closePass := func(p *Pass, truncated bool) {
		p.Truncated = p.Truncated || truncated
		passes = append(passes, *p)
		t.metrics.ObservePass(t.def.ID, t.observer.ID)
		log.Info(ctx, "pass set",
			logging.Time("rise", p.Rise),
			logging.Time("set", p.Set),
			logging.Float("max_el_deg", geodesy.Rad2Deg(p.MaxElevation)),
			logging.Duration("duration", p.Duration()),
		)
	}

	stepper.AddListener(func(simTime time.Time) error {
		pos, err := t.Propagate(simTime)
		if err != nil {
			return err
		}
		if t.sink != nil {
			if err := t.sink.UpdateSatellitePosition(t.def.ID, pos); err != nil {
				return err
			}
		}

		s := t.sample(simTime, pos)
		log.Debug(ctx, "look angle",
			logging.Time("time", simTime),
			logging.Float("az_deg", geodesy.Rad2Deg(s.AzEl.Az)),
			logging.Float("el_deg", geodesy.Rad2Deg(s.AzEl.El)),
			logging.Float("range_m", s.Range),
		)

		switch {
		case s.Visible && current == nil:
			current = &Pass{
				Rise:             simTime,
				Set:              simTime,
				MaxElevation:     s.AzEl.El,
				MaxElevationTime: simTime,
				RiseAzimuth:      s.AzEl.Az,
				SetAzimuth:       s.AzEl.Az,
				Truncated:        simTime.Equal(start),
			}
			log.Info(ctx, "pass rise",
				logging.Time("rise", simTime),
				logging.Float("az_deg", geodesy.Rad2Deg(s.AzEl.Az)),
			)
		case s.Visible:
			current.Set = simTime
			current.SetAzimuth = s.AzEl.Az
			if s.AzEl.El > current.MaxElevation {
				current.MaxElevation = s.AzEl.El
				current.MaxElevationTime = simTime
			}
		case current != nil:
			closePass(current, false)
			current = nil
		}
		return nil
	})

	if err := stepper.Run(ctx); err != nil {
		return passes, err
	}
	if current != nil {
		closePass(current, true)
	}
	return passes, nil
}
