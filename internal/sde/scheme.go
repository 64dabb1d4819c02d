// Package sde integrates stochastic differential equations driven by
// Brownian increments, with scheme dispatch by name, trajectory and
// generator interfaces, and ensemble statistics.
package sde

import (
	"errors"
	"fmt"
	"strings"

	"github.com/stochdyn/stochdyn/internal/brownian"
	"github.com/stochdyn/stochdyn/internal/process"
	"gonum.org/v1/gonum/mat"
)

var (
	// ErrUnsupportedScheme indicates an unknown or inapplicable
	// integration scheme name. There is no fallback scheme.
	ErrUnsupportedScheme = errors.New("sde: unsupported scheme")

	// ErrDimensionMismatch indicates state, process or increment
	// dimensions that do not agree.
	ErrDimensionMismatch = errors.New("sde: dimension mismatch")

	// ErrInvalidStep indicates a non-positive time step.
	ErrInvalidStep = errors.New("sde: invalid time step")
)

// stepFunc advances the state by one step of size dt driven by the
// increment vector w.
type stepFunc func(p process.Process, x process.State, t, dt float64, w []float64) (process.State, error)

// schemeFor resolves an integration scheme by name. The empty name selects
// Euler-Maruyama.
func schemeFor(name string) (stepFunc, error) {
	switch strings.ToLower(name) {
	case "", "euler", "euler-maruyama", "em":
		return eulerMaruyama, nil
	case "milstein":
		return milstein, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedScheme, name)
	}
}

// eulerMaruyama computes x + F(x,t)dt + sigma(x,t)w. Strong order 0.5,
// weak order 1. One-dimensional and additive-noise processes take scalar
// shortcuts; the general case is a matrix-vector product.
func eulerMaruyama(p process.Process, x process.State, t, dt float64, w []float64) (process.State, error) {
	if u, ok := p.(process.Univariate); ok {
		return process.State{x[0] + u.DriftAt(x[0], t)*dt + u.DiffusionAt(x[0], t)*w[0]}, nil
	}
	drift := p.Drift(x, t)
	if a, ok := p.(process.Additive); ok {
		amp := a.Amplitude()
		out := make(process.State, len(x))
		for i := range x {
			out[i] = x[i] + drift[i]*dt + amp*w[i]
		}
		return out, nil
	}
	sigma := p.Diffusion(x, t)
	n, m := sigma.Dims()
	if n != len(x) || m != len(w) {
		return nil, fmt.Errorf("%w: diffusion matrix %dx%d against state %d and increment %d",
			ErrDimensionMismatch, n, m, len(x), len(w))
	}
	var sw mat.VecDense
	sw.MulVec(sigma, mat.NewVecDense(m, w))
	out := make(process.State, n)
	for i := range out {
		out[i] = x[i] + drift[i]*dt + sw.AtVec(i)
	}
	return out, nil
}

// milstein adds the correction 0.5*sigma*sigma'*(w^2 - dt) to the
// Euler-Maruyama update, improving the strong order to 1 when the
// diffusion depends on the state. One-dimensional processes only.
func milstein(p process.Process, x process.State, t, dt float64, w []float64) (process.State, error) {
	u, ok := p.(process.Univariate)
	if !ok || p.Dimension() != 1 {
		return nil, fmt.Errorf("%w: milstein requires a one-dimensional scalar-diffusion process, got dimension %d",
			ErrUnsupportedScheme, p.Dimension())
	}
	s, isScalar := p.(*process.Scalar)
	var sprime float64
	if isScalar {
		sprime = s.SigmaPrime(x[0], t)
	} else {
		sprime = (u.DiffusionAt(x[0]+1e-6, t) - u.DiffusionAt(x[0]-1e-6, t)) / 2e-6
	}
	sigma := u.DiffusionAt(x[0], t)
	next := x[0] + u.DriftAt(x[0], t)*dt + sigma*w[0] + 0.5*sigma*sprime*(w[0]*w[0]-dt)
	return process.State{next}, nil
}

// noiseDim returns the number of independent noise components driving p.
func noiseDim(p process.Process, x0 process.State, t0 float64) int {
	if _, ok := p.(process.Univariate); ok {
		return 1
	}
	if _, ok := p.(process.Additive); ok {
		return p.Dimension()
	}
	_, m := p.Diffusion(x0, t0).Dims()
	return m
}

// increments resolves the Gaussian increments driving an integration over
// num sample times with step dt: aggregated from a supplied finer path, or
// freshly generated.
func increments(opts Options, num, dim int, dt float64) ([][]float64, error) {
	if opts.Path != nil {
		if d := opts.Path.Dim(); d != dim {
			return nil, fmt.Errorf("%w: path dimension %d, want %d", brownian.ErrPathShape, d, dim)
		}
		return opts.Path.CoarseIncrements(num, dt)
	}
	return brownian.Increments(opts.source(), num-1, dim, dt), nil
}
