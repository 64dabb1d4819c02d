// Package process defines stochastic process descriptors for SDEs of the
// form dx = F(x,t)dt + sigma(x,t)dW, where F is an n-dimensional vector
// field and sigma an n x m diffusion matrix.
//
// Descriptors are immutable after construction: changing a parameter means
// building a new descriptor, so there is no stale-closure state to manage.
package process

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// State is a point in R^n.
type State []float64

func (s State) Clone() State {
	c := make(State, len(s))
	copy(c, s)
	return c
}

// IsValid reports whether every component is finite.
func (s State) IsValid() bool {
	for _, v := range s {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func (s State) Norm() float64 {
	sum := 0.0
	for _, v := range s {
		sum += v * v
	}
	return math.Sqrt(sum)
}

// VectorField is a time-dependent vector field F(x, t).
type VectorField func(x State, t float64) State

// MatrixField evaluates the diffusion matrix sigma(x, t).
type MatrixField func(x State, t float64) *mat.Dense

// ScalarField is a scalar coefficient a(x, t) on the line.
type ScalarField func(x, t float64) float64

// Process describes a diffusion process in arbitrary dimension.
type Process interface {
	Drift(x State, t float64) State
	Diffusion(x State, t float64) *mat.Dense
	Dimension() int
}

// Univariate is implemented by one-dimensional processes whose drift and
// diffusion coefficients are scalar functions. Integration schemes that
// only exist in one dimension (e.g. Milstein) require this view.
type Univariate interface {
	DriftAt(x, t float64) float64
	DiffusionAt(x, t float64) float64
}

// Additive is implemented by processes whose noise is additive with a
// diffusion matrix proportional to the identity. Amplitude returns the
// proportionality constant.
type Additive interface {
	Amplitude() float64
}

// Diffusion is the generic process descriptor with arbitrary drift and
// diffusion coefficients.
type Diffusion struct {
	drift     VectorField
	diffusion MatrixField
	dim       int
}

// NewDiffusion builds a generic diffusion process of dimension dim.
func NewDiffusion(drift VectorField, diffusion MatrixField, dim int) (*Diffusion, error) {
	if dim < 1 {
		return nil, fmt.Errorf("%w: dimension %d, want >= 1", ErrInvalidDimension, dim)
	}
	if drift == nil || diffusion == nil {
		return nil, fmt.Errorf("%w: drift and diffusion must be non-nil", ErrInvalidCoefficient)
	}
	return &Diffusion{drift: drift, diffusion: diffusion, dim: dim}, nil
}

func (d *Diffusion) Drift(x State, t float64) State          { return d.drift(x, t) }
func (d *Diffusion) Diffusion(x State, t float64) *mat.Dense { return d.diffusion(x, t) }
func (d *Diffusion) Dimension() int                          { return d.dim }
