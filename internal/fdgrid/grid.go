// Package fdgrid provides a regular one-dimensional finite-difference
// toolkit: grid construction, centered first- and second-derivative
// operators in dense and tridiagonal form, boundary conditions, and
// explicit and linear-operator time steppers.
package fdgrid

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/floats"
)

// ErrGrid indicates invalid grid construction parameters.
var ErrGrid = errors.New("fdgrid: invalid grid")

// Grid is a regular discretization of [Lower, Upper] with N points.
// It is immutable after construction.
type Grid struct {
	Points []float64
	DX     float64
	N      int
}

// New builds a regular grid over [lower, upper] with n points.
func New(lower, upper float64, n int) (*Grid, error) {
	if n < 3 {
		return nil, fmt.Errorf("%w: %d points, want >= 3", ErrGrid, n)
	}
	if upper <= lower {
		return nil, fmt.Errorf("%w: bounds (%g, %g), want lower < upper", ErrGrid, lower, upper)
	}
	pts := floats.Span(make([]float64, n), lower, upper)
	return &Grid{Points: pts, DX: (upper - lower) / float64(n-1), N: n}, nil
}

// ApplyGradient evaluates the centered first derivative of f at the
// interior points. The result has length N-2.
func (g *Grid) ApplyGradient(f []float64) []float64 {
	out := make([]float64, g.N-2)
	inv := 1 / (2 * g.DX)
	for i := 1; i < g.N-1; i++ {
		out[i-1] = (f[i+1] - f[i-1]) * inv
	}
	return out
}

// ApplyLaplacian evaluates the centered second derivative of f at the
// interior points. The result has length N-2.
func (g *Grid) ApplyLaplacian(f []float64) []float64 {
	out := make([]float64, g.N-2)
	inv := 1 / (g.DX * g.DX)
	for i := 1; i < g.N-1; i++ {
		out[i-1] = (f[i+1] - 2*f[i] + f[i-1]) * inv
	}
	return out
}

// GradientMatrix returns the centered first-derivative operator as an NxN
// tridiagonal matrix. The boundary rows are zero; they are meant to be
// overwritten by a boundary condition.
func (g *Grid) GradientMatrix() *Tridiagonal {
	t := NewTridiagonal(g.N)
	inv := 1 / (2 * g.DX)
	for i := 1; i < g.N-1; i++ {
		t.SetRow(i, -inv, 0, inv)
	}
	return t
}

// LaplacianMatrix returns the centered second-derivative operator as an
// NxN tridiagonal matrix with zero boundary rows.
func (g *Grid) LaplacianMatrix() *Tridiagonal {
	t := NewTridiagonal(g.N)
	inv := 1 / (g.DX * g.DX)
	for i := 1; i < g.N-1; i++ {
		t.SetRow(i, inv, -2*inv, inv)
	}
	return t
}
