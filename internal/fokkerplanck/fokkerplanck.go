// Package fokkerplanck numerically solves the one-dimensional
// Fokker-Planck equation associated with a diffusion process, and its
// adjoint, on a regular finite-difference grid. Explicit stepping applies
// the discrete operators directly to the field; implicit and
// Crank-Nicolson stepping solve the tridiagonal system built from the
// grid's gradient and Laplacian matrices. A short-time propagator based on
// the Gaussian expansion of the transition kernel complements the
// finite-difference solvers.
package fokkerplanck

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/stochdyn/stochdyn/internal/fdgrid"
	"github.com/stochdyn/stochdyn/internal/process"
)

var (
	// ErrUnsupportedBoundary indicates a boundary-condition pairing with
	// no registered rule. There is no fallback.
	ErrUnsupportedBoundary = errors.New("fokkerplanck: unimplemented boundary condition")

	// ErrUnsupportedMethod indicates an unknown time-stepping method name.
	ErrUnsupportedMethod = errors.New("fokkerplanck: unsupported method")

	// ErrInvalidStep indicates an unusable time step, supplied or derived.
	ErrInvalidStep = errors.New("fokkerplanck: invalid time step")
)

// Options control a Fokker-Planck integration.
type Options struct {
	// Bounds of the spatial domain; default (-10, 10).
	Bounds [2]float64
	// Npts is the spatial resolution; default 100.
	Npts int
	// Dt is the time step. When zero it defaults to the heat-equation
	// stability bound 0.25*dx^2/D evaluated at the domain midpoint, a
	// heuristic that can misjudge strongly space- or time-dependent
	// diffusion; supply Dt to override.
	Dt float64
	// Boundary names the left and right boundary rules, "absorbing" or
	// "reflecting"; default absorbing on both sides.
	Boundary [2]string
	// Method selects the scheme: "euler" (explicit, default), "implicit"
	// (backward Euler) or "cn" (Crank-Nicolson), with the usual aliases.
	Method string
	// P0 is the initial density on the grid; default is a standard
	// normal density.
	P0 []float64
}

func (o Options) withDefaults() Options {
	if o.Bounds == [2]float64{} {
		o.Bounds = [2]float64{-10, 10}
	}
	if o.Npts == 0 {
		o.Npts = 100
	}
	if o.Boundary == [2]string{} {
		o.Boundary = [2]string{"absorbing", "absorbing"}
	}
	return o
}

// Solution is the outcome of an integration: the final time, the grid
// points and the field values on them.
type Solution struct {
	T float64
	X []float64
	P []float64
}

// equation is the shared shape of the forward and adjoint solvers.
type equation interface {
	diffusionAt(x, t float64) float64
	rhs(f []float64, g *fdgrid.Grid, t float64) []float64
	operator(g *fdgrid.Grid, t float64) *fdgrid.Tridiagonal
	boundary(g *fdgrid.Grid, names [2]string) (fdgrid.LinearBoundary, error)
}

// theta returns the implicitness weight for a linear method name, or an
// error for names that are neither explicit nor linear.
func methodTheta(name string) (theta float64, linear bool, err error) {
	switch strings.ToLower(name) {
	case "", "euler", "explicit", "fwd", "forward":
		return 0, false, nil
	case "impl", "implicit", "bwd", "backward":
		return 1, true, nil
	case "cn", "cranknicolson", "crank-nicolson":
		return 0.5, true, nil
	default:
		return 0, false, fmt.Errorf("%w: %q", ErrUnsupportedMethod, name)
	}
}

func solve(eq equation, t0, T float64, o Options) (*Solution, error) {
	o = o.withDefaults()
	g, err := fdgrid.New(o.Bounds[0], o.Bounds[1], o.Npts)
	if err != nil {
		return nil, err
	}
	theta, linear, err := methodTheta(o.Method)
	if err != nil {
		return nil, err
	}
	bc, err := eq.boundary(g, o.Boundary)
	if err != nil {
		return nil, err
	}

	dt := o.Dt
	if dt == 0 {
		mid := 0.5 * (o.Bounds[0] + o.Bounds[1])
		dt = 0.25 * g.DX * g.DX / eq.diffusionAt(mid, t0)
	}
	if dt <= 0 || math.IsNaN(dt) || math.IsInf(dt, 0) {
		return nil, fmt.Errorf("%w: %g (derived from the diffusion at the domain midpoint; pass Options.Dt to override)",
			ErrInvalidStep, dt)
	}

	p0 := o.P0
	if p0 == nil {
		p0 = Gaussian1D(0, 1, g)
	}
	if len(p0) != g.N {
		return nil, fmt.Errorf("fokkerplanck: initial density length %d, grid has %d points", len(p0), g.N)
	}
	if T <= 0 {
		return &Solution{T: t0, X: g.Points, P: append([]float64(nil), p0...)}, nil
	}

	var t float64
	var pts, p []float64
	if linear {
		t, pts, p, err = fdgrid.LinearStepper{Theta: theta}.Integrate(eq.operator, g, p0, t0, T, dt, bc)
	} else {
		t, pts, p, err = fdgrid.ExplicitStepper{}.Integrate(eq.rhs, g, p0, t0, T, dt, bc)
	}
	if err != nil {
		return nil, err
	}
	return &Solution{T: t, X: pts, P: p}, nil
}

// sampleField evaluates a scalar coefficient on every grid point.
func sampleField(f process.ScalarField, g *fdgrid.Grid, t float64) []float64 {
	out := make([]float64, g.N)
	for i, x := range g.Points {
		out[i] = f(x, t)
	}
	return out
}

// Forward solves the Fokker-Planck equation
// dP/dt = -d/dx(a(x,t) P) + d^2/dx^2(D(x,t) P)
// for the density of the process with drift a and diffusion D.
type Forward struct {
	Drift     process.ScalarField
	Diffusion process.ScalarField
}

// NewForward builds a forward solver from drift and diffusion coefficients.
func NewForward(drift, diffusion process.ScalarField) *Forward {
	return &Forward{Drift: drift, Diffusion: diffusion}
}

// FromProcess builds the forward solver for a one-dimensional process,
// mapping the SDE noise coefficient sigma to the Fokker-Planck diffusion
// D = sigma^2/2.
func FromProcess(p process.Univariate) *Forward {
	return &Forward{
		Drift: p.DriftAt,
		Diffusion: func(x, t float64) float64 {
			s := p.DiffusionAt(x, t)
			return 0.5 * s * s
		},
	}
}

func (f *Forward) diffusionAt(x, t float64) float64 { return f.Diffusion(x, t) }

func (f *Forward) rhs(p []float64, g *fdgrid.Grid, t float64) []float64 {
	ap := make([]float64, g.N)
	dp := make([]float64, g.N)
	for i, x := range g.Points {
		ap[i] = f.Drift(x, t) * p[i]
		dp[i] = f.Diffusion(x, t) * p[i]
	}
	adv := g.ApplyGradient(ap)
	diff := g.ApplyLaplacian(dp)
	out := make([]float64, g.N-2)
	for i := range out {
		out[i] = -adv[i] + diff[i]
	}
	return out
}

func (f *Forward) operator(g *fdgrid.Grid, t float64) *fdgrid.Tridiagonal {
	a := sampleField(f.Drift, g, t)
	d := sampleField(f.Diffusion, g, t)
	adv := g.GradientMatrix().MulDiag(a).Scale(-1)
	diff := g.LaplacianMatrix().MulDiag(d)
	return adv.Add(diff)
}

func (f *Forward) boundary(g *fdgrid.Grid, names [2]string) (fdgrid.LinearBoundary, error) {
	return forwardBoundary(f.Drift, f.Diffusion, g, names)
}

// Solve integrates the equation from t0 over a duration T. A duration of
// zero (or less) returns the initial density unchanged.
func (f *Forward) Solve(t0, T float64, opts Options) (*Solution, error) {
	return solve(f, t0, T, opts)
}

// Backward solves the adjoint Fokker-Planck equation
// dG/dt = a(x,t) dG/dx + D(x,t) d^2G/dx^2,
// governing first-passage and other backward-in-time quantities.
type Backward struct {
	Drift     process.ScalarField
	Diffusion process.ScalarField
}

// NewBackward builds an adjoint solver from drift and diffusion
// coefficients.
func NewBackward(drift, diffusion process.ScalarField) *Backward {
	return &Backward{Drift: drift, Diffusion: diffusion}
}

func (b *Backward) diffusionAt(x, t float64) float64 { return b.Diffusion(x, t) }

func (b *Backward) rhs(p []float64, g *fdgrid.Grid, t float64) []float64 {
	grad := g.ApplyGradient(p)
	lapl := g.ApplyLaplacian(p)
	out := make([]float64, g.N-2)
	for i := range out {
		x := g.Points[i+1]
		out[i] = b.Drift(x, t)*grad[i] + b.Diffusion(x, t)*lapl[i]
	}
	return out
}

func (b *Backward) operator(g *fdgrid.Grid, t float64) *fdgrid.Tridiagonal {
	a := sampleField(b.Drift, g, t)
	d := sampleField(b.Diffusion, g, t)
	adv := g.GradientMatrix().DiagMul(a)
	diff := g.LaplacianMatrix().DiagMul(d)
	return adv.Add(diff)
}

func (b *Backward) boundary(g *fdgrid.Grid, names [2]string) (fdgrid.LinearBoundary, error) {
	return backwardBoundary(g, names)
}

// Solve integrates the adjoint equation from t0 over a duration T.
func (b *Backward) Solve(t0, T float64, opts Options) (*Solution, error) {
	return solve(b, t0, T, opts)
}
