package timectrl

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

var (
	ErrInvalidStep   = errors.New("step must be positive")
	ErrInvalidWindow = errors.New("end must not be before start")
)

// SimClock gives read access to simulation time.
type SimClock interface {
	Now() time.Time
}

// Stepper walks simulation time from Start to End in fixed Step increments
// and notifies registered listeners at every instant, including Start and
// End. It runs on the caller's goroutine and never sleeps.
type Stepper struct {
	mu    sync.RWMutex
	Start time.Time
	End   time.Time
	Step  time.Duration

	currentTime time.Time

	listeners []func(time.Time) error
}

// NewStepper constructs a stepper. It returns an error when step is not
// positive or end precedes start.
func NewStepper(start, end time.Time, step time.Duration) (*Stepper, error) {
	if step <= 0 {
		return nil, fmt.Errorf("%w: %v", ErrInvalidStep, step)
	}
	if end.Before(start) {
		return nil, fmt.Errorf("%w: %v < %v", ErrInvalidWindow, end, start)
	}
	return &Stepper{
		Start:       start,
		End:         end,
		Step:        step,
		currentTime: start,
	}, nil
}

// Now returns the current simulation time. Implements SimClock.
func (s *Stepper) Now() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.currentTime
}

// AddListener registers a callback invoked on every step. A listener error
// stops the run.
func (s *Stepper) AddListener(fn func(time.Time) error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

// Run steps through the window. When End is not a whole number of steps
// after Start, the final instant is End itself. Run stops early if ctx is
// cancelled or a listener fails.
func (s *Stepper) Run(ctx context.Context) error {
	s.mu.RLock()
	listeners := append([]func(time.Time) error{}, s.listeners...)
	s.mu.RUnlock()

	simTime := s.Start
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		s.mu.Lock()
		s.currentTime = simTime
		s.mu.Unlock()

		for _, fn := range listeners {
			if err := fn(simTime); err != nil {
				return err
			}
		}

		if !simTime.Before(s.End) {
			return nil
		}
		simTime = simTime.Add(s.Step)
		if simTime.After(s.End) {
			simTime = s.End
		}
	}
}

// Count returns how many instants Run will visit.
func (s *Stepper) Count() int {
	span := s.End.Sub(s.Start)
	n := int(span / s.Step)
	if span%s.Step != 0 {
		n++
	}
	return n + 1
}
