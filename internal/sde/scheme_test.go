package sde

import (
	"errors"
	"testing"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"

	"github.com/stochdyn/stochdyn/internal/brownian"
	"github.com/stochdyn/stochdyn/internal/process"
)

func TestSchemeAliases(t *testing.T) {
	for _, name := range []string{"", "euler", "Euler-Maruyama", "EM", "milstein"} {
		if _, err := schemeFor(name); err != nil {
			t.Errorf("scheme %q should resolve, got %v", name, err)
		}
	}
	if _, err := schemeFor("rk4"); !errors.Is(err, ErrUnsupportedScheme) {
		t.Errorf("expected ErrUnsupportedScheme, got %v", err)
	}
}

func TestMilsteinRequiresOneDimension(t *testing.T) {
	ou, err := process.NewOrnsteinUhlenbeck(0, 1, 0.5, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err = Integrate(ou, process.State{1, 1}, 0, Options{Scheme: "milstein"})
	if !errors.Is(err, ErrUnsupportedScheme) {
		t.Errorf("expected ErrUnsupportedScheme for multidimensional milstein, got %v", err)
	}
}

// With additive noise the Milstein correction vanishes (sigma' = 0), so
// Milstein and Euler-Maruyama agree exactly on the same path.
func TestMilsteinMatchesEulerForAdditiveNoise(t *testing.T) {
	p, err := process.NewScalar(
		func(x, tm float64) float64 { return -x },
		func(x, tm float64) float64 { return 0.7 },
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	path := brownian.Sample(rand.NewSource(11), 0, 0.01, 100, 1)

	euler, err := Integrate(p, process.State{1}, 0, Options{Dt: 0.01, T: 1.0, Path: path})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	mil, err := Integrate(p, process.State{1}, 0, Options{Scheme: "milstein", Dt: 0.01, T: 1.0, Path: path})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for i := range euler.States {
		diff := euler.States[i][0] - mil.States[i][0]
		if diff > 1e-9 || diff < -1e-9 {
			t.Fatalf("schemes diverge at sample %d: euler %g, milstein %g",
				i, euler.States[i][0], mil.States[i][0])
		}
	}
}

func TestEulerMatrixDiffusionDimensionMismatch(t *testing.T) {
	// A 2x3 diffusion against a 2-dimensional increment cannot be applied.
	p, err := process.NewDiffusion(
		func(x process.State, tm float64) process.State { return process.State{0, 0} },
		func(x process.State, tm float64) *mat.Dense { return mat.NewDense(2, 3, nil) },
		2,
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err = eulerMaruyama(p, process.State{0, 0}, 0, 0.1, []float64{1, 1})
	if !errors.Is(err, ErrDimensionMismatch) {
		t.Errorf("expected ErrDimensionMismatch, got %v", err)
	}
}
