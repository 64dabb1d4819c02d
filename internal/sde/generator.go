package sde

import (
	"math"

	"github.com/stochdyn/stochdyn/internal/process"
	"gonum.org/v1/gonum/stat/distuv"
)

// Sample is one generator output: the time and the observable value.
type Sample struct {
	T float64
	X process.State
}

// Generator produces a sample path one step at a time, drawing increments
// on demand. It is single-pass and not restartable; the first sample is
// the initial condition.
type Generator struct {
	p      process.Process
	step   stepFunc
	obs    Observable
	normal distuv.Normal
	dim    int
	dt     float64
	x      process.State
	t      float64
	left   int
	first  bool
}

// NewGenerator prepares a generator yielding nsteps updates after the
// initial condition.
func NewGenerator(p process.Process, x0 process.State, t0 float64, nsteps int, opts Options) (*Generator, error) {
	opts = opts.withDefaults()
	step, err := schemeFor(opts.Scheme)
	if err != nil {
		return nil, err
	}
	obs := opts.Observable
	if obs == nil {
		obs = func(x process.State, t float64) process.State { return x }
	}
	return &Generator{
		p:      p,
		step:   step,
		obs:    obs,
		normal: distuv.Normal{Mu: 0, Sigma: math.Sqrt(opts.Dt), Src: opts.source()},
		dim:    noiseDim(p, x0, t0),
		dt:     opts.Dt,
		x:      x0.Clone(),
		t:      t0,
		left:   nsteps,
		first:  true,
	}, nil
}

// Next returns the next sample, or false when the generator is exhausted
// or a step failed.
func (g *Generator) Next() (Sample, bool) {
	if g.first {
		g.first = false
		return Sample{T: g.t, X: g.obs(g.x, g.t)}, true
	}
	if g.left == 0 {
		return Sample{}, false
	}
	g.left--
	w := make([]float64, g.dim)
	for d := range w {
		w[d] = g.normal.Rand()
	}
	next, err := g.step(g.p, g.x, g.t, g.dt, w)
	if err != nil {
		g.left = 0
		return Sample{}, false
	}
	g.x = next
	g.t += g.dt
	return Sample{T: g.t, X: g.obs(g.x, g.t)}, true
}
