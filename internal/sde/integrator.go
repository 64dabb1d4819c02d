package sde

import (
	"fmt"
	"time"

	"github.com/stochdyn/stochdyn/internal/brownian"
	"github.com/stochdyn/stochdyn/internal/process"
	"golang.org/x/exp/rand"
)

const (
	// DefaultDt is the integration step used when none is supplied.
	DefaultDt = 0.1
	// DefaultT is the integration duration used when none is supplied.
	DefaultT = 10.0
)

// Observable maps a state and a time to a derived quantity.
type Observable func(x process.State, t float64) process.State

// Options control a trajectory integration.
type Options struct {
	// Scheme selects the integration scheme by name ("euler" variants or
	// "milstein"); empty means Euler-Maruyama.
	Scheme string
	// Dt is the integration step (DefaultDt when zero).
	Dt float64
	// T is the integration duration (DefaultT when zero).
	T float64
	// Seed seeds the increment stream; zero derives a seed from the clock.
	Seed uint64
	// Path optionally supplies a precomputed Wiener path, possibly at a
	// finer resolution than Dt.
	Path *brownian.Path
	// FiniteOnly filters the returned trajectory down to its finite
	// samples. Non-finite points are dropped individually wherever they
	// occur; the trajectory is not truncated at the first divergence.
	FiniteOnly bool
	// Observable transforms states in generator and ensemble runs
	// (identity when nil).
	Observable Observable
}

func (o Options) withDefaults() Options {
	if o.Dt == 0 {
		o.Dt = DefaultDt
	}
	if o.T == 0 {
		o.T = DefaultT
	}
	return o
}

func clockSeed() uint64 {
	return uint64(time.Now().UnixNano())
}

func (o Options) source() rand.Source {
	seed := o.Seed
	if seed == 0 {
		seed = clockSeed()
	}
	return rand.NewSource(seed)
}

// Trajectory is a time-discrete sample path: times strictly increasing,
// one state per time. It is owned by the caller once returned.
type Trajectory struct {
	Times  []float64
	States []process.State
}

// Integrate produces a sample path of p over [t0, t0+T] with the chosen
// scheme, starting from x0.
func Integrate(p process.Process, x0 process.State, t0 float64, opts Options) (*Trajectory, error) {
	opts = opts.withDefaults()
	step, err := schemeFor(opts.Scheme)
	if err != nil {
		return nil, err
	}
	if opts.Dt < 0 {
		return nil, fmt.Errorf("%w: dt %g, want > 0", ErrInvalidStep, opts.Dt)
	}
	if len(x0) != p.Dimension() {
		return nil, fmt.Errorf("%w: initial state length %d, process dimension %d",
			ErrDimensionMismatch, len(x0), p.Dimension())
	}
	num := int(opts.T/opts.Dt) + 1
	if num < 1 {
		num = 1
	}
	traj, err := integrateN(p, x0, t0, num, opts.T, opts.Dt, step, opts)
	if err != nil {
		return nil, err
	}
	if opts.FiniteOnly {
		return FilterFinite(traj), nil
	}
	return traj, nil
}

// integrateN runs the stepping loop over a precomputed time grid of num
// points spanning [t0, t0+T]. The state array is preallocated and filled
// in place, with x0 at index 0.
func integrateN(p process.Process, x0 process.State, t0 float64, num int, T, dt float64, step stepFunc, opts Options) (*Trajectory, error) {
	times := make([]float64, num)
	states := make([]process.State, num)
	times[0] = t0
	states[0] = x0.Clone()
	for i := 1; i < num; i++ {
		times[i] = t0 + T*float64(i)/float64(num-1)
		states[i] = x0.Clone()
	}
	if num == 1 {
		return &Trajectory{Times: times, States: states}, nil
	}
	dim := noiseDim(p, x0, t0)
	dw, err := increments(opts, num, dim, dt)
	if err != nil {
		return nil, err
	}
	for i := 1; i < num; i++ {
		next, err := step(p, states[i-1], times[i-1], dt, dw[i-1])
		if err != nil {
			return nil, err
		}
		states[i] = next
	}
	return &Trajectory{Times: times, States: states}, nil
}

// FilterFinite returns a copy of the trajectory keeping only the samples
// whose state is entirely finite. Samples are dropped individually: a
// finite sample after a non-finite one is kept.
func FilterFinite(traj *Trajectory) *Trajectory {
	out := &Trajectory{}
	for i, x := range traj.States {
		if x.IsValid() {
			out.Times = append(out.Times, traj.Times[i])
			out.States = append(out.States, x)
		}
	}
	return out
}

// Component extracts one state component as a flat series.
func (t *Trajectory) Component(i int) []float64 {
	out := make([]float64, len(t.States))
	for k, x := range t.States {
		out[k] = x[i]
	}
	return out
}
