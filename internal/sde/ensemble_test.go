package sde

import (
	"errors"
	"math"
	"testing"

	"github.com/stochdyn/stochdyn/internal/process"
)

func TestSampleMeanDecaysToMean(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping ensemble statistics in short mode")
	}

	ou, err := process.NewOrnsteinUhlenbeck(0, 1, 0.5, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	mean, err := SampleMean(ou, process.State{1}, 0, 100, 2000, Options{Dt: 0.01, Seed: 42})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(mean.Times) != 101 {
		t.Fatalf("expected 101 sample times, got %d", len(mean.Times))
	}
	if mean.States[0][0] != 1 {
		t.Errorf("ensemble mean should start at x0, got %g", mean.States[0][0])
	}

	// E[x(t)] = x0 exp(-theta t); at t=1 that is exp(-1). The standard
	// error of 2000 samples is about 0.01, so 0.05 is a safe margin.
	final := mean.States[len(mean.States)-1][0]
	want := math.Exp(-1)
	if math.Abs(final-want) > 0.05 {
		t.Errorf("expected ensemble mean near %g, got %g", want, final)
	}
}

func TestSampleMeanObservable(t *testing.T) {
	ou, err := process.NewOrnsteinUhlenbeck(0, 1, 0, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	square := func(x process.State, tm float64) process.State {
		return process.State{x[0] * x[0]}
	}
	mean, err := SampleMean(ou, process.State{2}, 0, 10, 4, Options{Dt: 0.01, Seed: 1, Observable: square})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := mean.States[0][0]; math.Abs(got-4) > 1e-12 {
		t.Errorf("observable should apply at the initial sample: expected 4, got %g", got)
	}
}

func TestSampleMeanValidation(t *testing.T) {
	ou, err := process.NewOrnsteinUhlenbeck(0, 1, 0.5, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := SampleMean(ou, process.State{1}, 0, 10, 0, Options{}); !errors.Is(err, ErrInvalidStep) {
		t.Errorf("expected ErrInvalidStep for zero samples, got %v", err)
	}
	if _, err := SampleMean(ou, process.State{1, 2}, 0, 10, 4, Options{}); !errors.Is(err, ErrDimensionMismatch) {
		t.Errorf("expected ErrDimensionMismatch, got %v", err)
	}
	if _, err := SampleMean(ou, process.State{1}, 0, 10, 4, Options{Scheme: "rk4"}); !errors.Is(err, ErrUnsupportedScheme) {
		t.Errorf("expected ErrUnsupportedScheme, got %v", err)
	}
}
