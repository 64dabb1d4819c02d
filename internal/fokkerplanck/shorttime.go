package fokkerplanck

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/integrate"
	"gonum.org/v1/gonum/mat"

	"github.com/stochdyn/stochdyn/internal/fdgrid"
	"github.com/stochdyn/stochdyn/internal/process"
)

// ShortTimePropagator advances a density with the short-time expansion of
// the transition kernel: a Gaussian centered at x0 + a(x0,t)*tau with
// variance 2*D(x0,t)*tau. Each global step rebuilds the full NxN
// transition matrix on the grid and applies it by trapezoidal quadrature.
//
// The propagator has no boundary handling: it is only valid while the
// probability mass stays away from the domain edges, and is meant as a
// cross-check for the finite-difference solvers rather than a replacement.
type ShortTimePropagator struct {
	Drift     process.ScalarField
	Diffusion process.ScalarField
	Tau       float64
}

// NewShortTimePropagator builds a propagator with expansion step tau.
func NewShortTimePropagator(drift, diffusion process.ScalarField, tau float64) (*ShortTimePropagator, error) {
	if tau <= 0 {
		return nil, fmt.Errorf("%w: tau %g, want > 0", ErrInvalidStep, tau)
	}
	return &ShortTimePropagator{Drift: drift, Diffusion: diffusion, Tau: tau}, nil
}

// TransitionProbability approximates p(x, t0+tau | x0, t0).
func (s *ShortTimePropagator) TransitionProbability(x, x0, t0 float64) float64 {
	fdtau := 4 * s.Diffusion(x0, t0) * s.Tau
	d := x - x0 - s.Drift(x0, t0)*s.Tau
	return math.Exp(-d*d/fdtau) / math.Sqrt(math.Pi*fdtau)
}

// TransitionMatrix evaluates the transition kernel on the grid:
// entry (i, j) is p(x_i, t0+tau | x_j, t0).
func (s *ShortTimePropagator) TransitionMatrix(g *fdgrid.Grid, t0 float64) *mat.Dense {
	k := mat.NewDense(g.N, g.N, nil)
	for j, x0 := range g.Points {
		fdtau := 4 * s.Diffusion(x0, t0) * s.Tau
		shift := x0 + s.Drift(x0, t0)*s.Tau
		norm := math.Sqrt(math.Pi * fdtau)
		for i, x := range g.Points {
			d := x - shift
			k.Set(i, j, math.Exp(-d*d/fdtau)/norm)
		}
	}
	return k
}

// Solve advances the density from t0 over a duration T in global steps of
// size tau. Only Bounds, Npts and P0 are honored from the options; the
// final time may overshoot t0+T by less than one tau.
func (s *ShortTimePropagator) Solve(t0, T float64, opts Options) (*Solution, error) {
	opts = opts.withDefaults()
	g, err := fdgrid.New(opts.Bounds[0], opts.Bounds[1], opts.Npts)
	if err != nil {
		return nil, err
	}
	p := opts.P0
	if p == nil {
		p = Gaussian1D(0, 1, g)
	}
	if len(p) != g.N {
		return nil, fmt.Errorf("fokkerplanck: initial density length %d, grid has %d points", len(p), g.N)
	}
	p = append([]float64(nil), p...)
	t := t0
	row := make([]float64, g.N)
	for t < t0+T {
		k := s.TransitionMatrix(g, t)
		next := make([]float64, g.N)
		for i := 0; i < g.N; i++ {
			for j := 0; j < g.N; j++ {
				row[j] = k.At(i, j) * p[j]
			}
			next[i] = integrate.Trapezoidal(g.Points, row)
		}
		p = next
		t += s.Tau
	}
	return &Solution{T: t, X: g.Points, P: p}, nil
}
