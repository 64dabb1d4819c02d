package fdgrid

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// ErrStep indicates an invalid time-stepping parameter.
var ErrStep = errors.New("fdgrid: invalid step")

// RHSFunc evaluates the time derivative of the field at the interior
// points (length N-2).
type RHSFunc func(f []float64, g *Grid, t float64) []float64

// OperatorFunc builds the linear operator L(t) of the field equation
// df/dt = L(t) f, with zero boundary rows.
type OperatorFunc func(g *Grid, t float64) *Tridiagonal

func validateStep(t0, T, dt float64) error {
	if dt <= 0 || math.IsNaN(dt) || math.IsInf(dt, 0) {
		return fmt.Errorf("%w: dt %g, want > 0 and finite", ErrStep, dt)
	}
	if T < 0 {
		return fmt.Errorf("%w: duration %g, want >= 0", ErrStep, T)
	}
	return nil
}

// ExplicitStepper advances a field by forward-Euler updates of the interior
// points, re-imposing the boundary condition after every step. The final
// step is truncated so the integration ends exactly at t0+T.
type ExplicitStepper struct{}

// Integrate advances f0 from t0 over a duration T with step dt and returns
// the final time, the grid points and the final field.
func (ExplicitStepper) Integrate(rhs RHSFunc, g *Grid, f0 []float64, t0, T, dt float64, bc BoundaryCondition) (float64, []float64, []float64, error) {
	if err := validateStep(t0, T, dt); err != nil {
		return 0, nil, nil, err
	}
	if len(f0) != g.N {
		return 0, nil, nil, fmt.Errorf("%w: field length %d, want %d", ErrGrid, len(f0), g.N)
	}
	f := append([]float64(nil), f0...)
	t := t0
	end := t0 + T
	for t < end {
		h := math.Min(dt, end-t)
		df := rhs(f, g, t)
		for i := 1; i < g.N-1; i++ {
			f[i] += h * df[i-1]
		}
		t += h
		bc.Apply(f, g.Points, t)
	}
	return t, g.Points, f, nil
}

// LinearStepper advances a field governed by df/dt = L(t) f with the theta
// scheme: (I - theta*dt*L) f' = (I + (1-theta)*dt*L) f. Theta 1 is backward
// Euler, theta 1/2 is Crank-Nicolson. The boundary rows of the system are
// overwritten by the boundary condition each step, which keeps the system
// tridiagonal.
type LinearStepper struct {
	Theta float64
}

// Integrate advances f0 from t0 over a duration T with step dt and returns
// the final time, the grid points and the final field.
func (s LinearStepper) Integrate(build OperatorFunc, g *Grid, f0 []float64, t0, T, dt float64, bc LinearBoundary) (float64, []float64, []float64, error) {
	if err := validateStep(t0, T, dt); err != nil {
		return 0, nil, nil, err
	}
	if s.Theta < 0 || s.Theta > 1 {
		return 0, nil, nil, fmt.Errorf("%w: theta %g, want in [0, 1]", ErrStep, s.Theta)
	}
	if len(f0) != g.N {
		return 0, nil, nil, fmt.Errorf("%w: field length %d, want %d", ErrGrid, len(f0), g.N)
	}
	f := append([]float64(nil), f0...)
	t := t0
	end := t0 + T
	n := g.N
	for t < end {
		h := math.Min(dt, end-t)
		l := build(g, t)

		// Right-hand side (I + (1-theta) h L) f.
		lf := l.Apply(f)
		b := make([]float64, n)
		for i := 0; i < n; i++ {
			b[i] = f[i] + (1-s.Theta)*h*lf[i]
		}

		// System matrix I - theta h L.
		a := l.Scale(-s.Theta * h)
		for i := 0; i < n; i++ {
			a.Diag[i] += 1
		}

		left, right := bc.Rows(g.Points, t+h)
		a.Diag[0] = left.Diag
		a.Super[0] = left.Neighbor
		b[0] = left.RHS
		a.Diag[n-1] = right.Diag
		a.Sub[n-2] = right.Neighbor
		b[n-1] = right.RHS

		tri := mat.NewTridiag(n, a.Sub, a.Diag, a.Super)
		var sol mat.VecDense
		if err := tri.SolveVecTo(&sol, false, mat.NewVecDense(n, b)); err != nil {
			return 0, nil, nil, fmt.Errorf("fdgrid: linear step at t=%g: %w", t, err)
		}
		copy(f, sol.RawVector().Data)
		t += h
	}
	return t, g.Points, f, nil
}
