package process

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// derivStep is the step used for the centered finite-difference estimate
// of the spatial derivative of scalar coefficients.
const derivStep = 1e-6

// Scalar is a one-dimensional diffusion process with scalar drift and
// diffusion coefficients: dx = F(x,t)dt + sigma(x,t)dW.
type Scalar struct {
	drift     ScalarField
	diffusion ScalarField
}

// NewScalar builds a one-dimensional process from scalar coefficients.
func NewScalar(drift, diffusion ScalarField) (*Scalar, error) {
	if drift == nil || diffusion == nil {
		return nil, fmt.Errorf("%w: drift and diffusion must be non-nil", ErrInvalidCoefficient)
	}
	return &Scalar{drift: drift, diffusion: diffusion}, nil
}

func (s *Scalar) DriftAt(x, t float64) float64     { return s.drift(x, t) }
func (s *Scalar) DiffusionAt(x, t float64) float64 { return s.diffusion(x, t) }
func (s *Scalar) Dimension() int                   { return 1 }

func (s *Scalar) Drift(x State, t float64) State {
	return State{s.drift(x[0], t)}
}

func (s *Scalar) Diffusion(x State, t float64) *mat.Dense {
	return mat.NewDense(1, 1, []float64{s.diffusion(x[0], t)})
}

// SigmaPrime estimates the spatial derivative of the diffusion coefficient
// by a centered finite difference.
func (s *Scalar) SigmaPrime(x, t float64) float64 {
	return (s.diffusion(x+derivStep, t) - s.diffusion(x-derivStep, t)) / (2 * derivStep)
}

// Potential integrates -F(., t) from the first sample point, by cumulative
// trapezoidal quadrature, and returns its values at the sample points.
// Only meaningful when the drift derives from a potential, which is always
// the case in one dimension.
func (s *Scalar) Potential(xs []float64, t float64) []float64 {
	v := make([]float64, len(xs))
	for i := 1; i < len(xs); i++ {
		fl := -s.drift(xs[i-1], t)
		fr := -s.drift(xs[i], t)
		v[i] = v[i-1] + 0.5*(fl+fr)*(xs[i]-xs[i-1])
	}
	return v
}

// NewDoubleWell builds the bistable process
// dx = (-x(x^2-1) + famp*sin(omega*t))dt + sqrt(2D)dW,
// a standard model for noise-driven transitions between metastable states,
// optionally with periodic forcing.
func NewDoubleWell(famp, omega, d0 float64) (*Scalar, error) {
	if d0 < 0 {
		return nil, fmt.Errorf("%w: noise amplitude %g, want >= 0", ErrInvalidCoefficient, d0)
	}
	amp := math.Sqrt(2 * d0)
	return NewScalar(
		func(x, t float64) float64 { return -x*(x*x-1) + famp*math.Sin(omega*t) },
		func(x, t float64) float64 { return amp },
	)
}

// NewSaddleNode builds the saddle-node normal form dx = (x^2+t)dt + sqrt(2D)dW.
// Trajectories pass near the bifurcation at t=0 and typically blow up in
// finite time afterwards, which exercises the finite-sample filtering path.
func NewSaddleNode(d0 float64) (*Scalar, error) {
	if d0 < 0 {
		return nil, fmt.Errorf("%w: noise amplitude %g, want >= 0", ErrInvalidCoefficient, d0)
	}
	amp := math.Sqrt(2 * d0)
	return NewScalar(
		func(x, t float64) float64 { return x*x + t },
		func(x, t float64) float64 { return amp },
	)
}
