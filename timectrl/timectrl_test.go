package timectrl

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestStepperVisitsEveryInstant(t *testing.T) {
	start := time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)
	s, err := NewStepper(start, start.Add(10*time.Second), 3*time.Second)
	if err != nil {
		t.Fatalf("NewStepper: %v", err)
	}

	var got []time.Duration
	s.AddListener(func(simTime time.Time) error {
		got = append(got, simTime.Sub(start))
		return nil
	})
	if err := s.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	want := []time.Duration{0, 3 * time.Second, 6 * time.Second, 9 * time.Second, 10 * time.Second}
	if len(got) != len(want) {
		t.Fatalf("visited %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("visited %v, want %v", got, want)
		}
	}
	if s.Count() != len(want) {
		t.Fatalf("Count() = %d, want %d", s.Count(), len(want))
	}
	if now := s.Now(); !now.Equal(start.Add(10 * time.Second)) {
		t.Fatalf("Now() = %v, want end of window", now)
	}
}

func TestStepperSingleInstant(t *testing.T) {
	start := time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)
	s, err := NewStepper(start, start, time.Minute)
	if err != nil {
		t.Fatalf("NewStepper: %v", err)
	}
	calls := 0
	s.AddListener(func(time.Time) error { calls++; return nil })
	if err := s.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if calls != 1 || s.Count() != 1 {
		t.Fatalf("calls = %d, Count() = %d, want 1", calls, s.Count())
	}
}

func TestNewStepperValidation(t *testing.T) {
	start := time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)
	if _, err := NewStepper(start, start.Add(time.Hour), 0); !errors.Is(err, ErrInvalidStep) {
		t.Fatalf("err = %v, want ErrInvalidStep", err)
	}
	if _, err := NewStepper(start, start.Add(-time.Hour), time.Second); !errors.Is(err, ErrInvalidWindow) {
		t.Fatalf("err = %v, want ErrInvalidWindow", err)
	}
}

func TestStepperStopsOnListenerError(t *testing.T) {
	start := time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)
	s, _ := NewStepper(start, start.Add(time.Hour), time.Minute)

	boom := errors.New("boom")
	calls := 0
	s.AddListener(func(time.Time) error {
		calls++
		if calls == 3 {
			return boom
		}
		return nil
	})
	if err := s.Run(context.Background()); !errors.Is(err, boom) {
		t.Fatalf("Run err = %v, want boom", err)
	}
	if calls != 3 {
		t.Fatalf("calls = %d, want 3", calls)
	}
}

func TestStepperHonoursCancellation(t *testing.T) {
	start := time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)
	s, _ := NewStepper(start, start.Add(time.Hour), time.Minute)

	ctx, cancel := context.WithCancel(context.Background())
	s.AddListener(func(simTime time.Time) error {
		if simTime.Sub(start) == 5*time.Minute {
			cancel()
		}
		return nil
	})
	if err := s.Run(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("Run err = %v, want context.Canceled", err)
	}
	if got := s.Now().Sub(start); got != 5*time.Minute {
		t.Fatalf("stopped at %v, want 5m", got)
	}
}
