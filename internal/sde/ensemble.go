package sde

import (
	"fmt"
	"sync"

	"github.com/stochdyn/stochdyn/internal/process"
)

// SampleMean integrates nsamples independent trajectories of nsteps each
// and averages the observable at every sample time. Trajectories run on
// independent seeded streams and share no mutable state, so they execute
// concurrently; the aggregate is computed once all of them complete.
func SampleMean(p process.Process, x0 process.State, t0 float64, nsteps, nsamples int, opts Options) (*Trajectory, error) {
	if nsamples < 1 {
		return nil, fmt.Errorf("%w: %d samples, want >= 1", ErrInvalidStep, nsamples)
	}
	opts = opts.withDefaults()
	obs := opts.Observable
	if obs == nil {
		obs = func(x process.State, t float64) process.State { return x }
	}
	step, err := schemeFor(opts.Scheme)
	if err != nil {
		return nil, err
	}
	// Reject dimension mismatches before spawning workers.
	if len(x0) != p.Dimension() {
		return nil, fmt.Errorf("%w: initial state length %d, process dimension %d",
			ErrDimensionMismatch, len(x0), p.Dimension())
	}

	num := nsteps + 1
	T := opts.Dt * float64(nsteps)
	seed := opts.Seed
	if seed == 0 {
		seed = clockSeed()
	}

	trajs := make([]*Trajectory, nsamples)
	errs := make([]error, nsamples)
	var wg sync.WaitGroup
	for i := 0; i < nsamples; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			o := opts
			o.Path = nil
			o.Seed = seed + uint64(idx)
			trajs[idx], errs[idx] = integrateN(p, x0, t0, num, T, opts.Dt, step, o)
		}(i)
	}
	wg.Wait()
	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	mean := &Trajectory{
		Times:  append([]float64(nil), trajs[0].Times...),
		States: make([]process.State, num),
	}
	inv := 1 / float64(nsamples)
	for k := 0; k < num; k++ {
		acc := make(process.State, len(obs(trajs[0].States[k], mean.Times[k])))
		for _, traj := range trajs {
			v := obs(traj.States[k], mean.Times[k])
			for d := range acc {
				acc[d] += v[d]
			}
		}
		for d := range acc {
			acc[d] *= inv
		}
		mean.States[k] = acc
	}
	return mean, nil
}
