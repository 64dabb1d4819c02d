// Package analysis post-processes trajectories and samples rare-event
// statistics: first-passage times, transition counts between metastable
// states, residence times and divergence times.
package analysis

import (
	"fmt"
	"math"
	"sort"
	"sync"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/stochdyn/stochdyn/internal/process"
)

// EscapeTime integrates one realization of p from (t0, x0) with step dt
// until the state first exceeds the threshold, and returns that time.
// The walk runs to completion; processes that cannot reach the threshold
// will not return.
func EscapeTime(p process.Univariate, x0, t0, threshold, dt float64, src rand.Source) float64 {
	normal := distuv.Normal{Mu: 0, Sigma: math.Sqrt(dt), Src: src}
	x, t := x0, t0
	for x <= threshold {
		x += p.DriftAt(x, t)*dt + p.DiffusionAt(x, t)*normal.Rand()
		t += dt
	}
	return t
}

// EscapeTimeSample draws ntraj independent escape times, one seeded stream
// per realization, running them concurrently.
func EscapeTimeSample(p process.Univariate, x0, t0, threshold, dt float64, ntraj int, seed uint64) []float64 {
	out := make([]float64, ntraj)
	var wg sync.WaitGroup
	for i := 0; i < ntraj; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			out[idx] = EscapeTime(p, x0, t0, threshold, dt, rand.NewSource(seed+uint64(idx)))
		}(i)
	}
	wg.Wait()
	return out
}

// EscapeTimePDF estimates the escape-time density from samples by
// histogram, returning bin centers and density values. With standardize
// set, samples are first shifted and scaled to zero mean and unit
// standard deviation.
func EscapeTimePDF(samples []float64, bins int, standardize bool) (centers, density []float64, err error) {
	if len(samples) == 0 || bins < 1 {
		return nil, nil, fmt.Errorf("analysis: pdf needs samples and at least one bin, got %d samples and %d bins",
			len(samples), bins)
	}
	data := append([]float64(nil), samples...)
	if standardize {
		mean, std := stat.MeanStdDev(data, nil)
		for i := range data {
			data[i] = (data[i] - mean) / std
		}
	}
	lo := floats.Min(data)
	hi := floats.Max(data)
	if lo == hi {
		hi = lo + 1
	}
	dividers := floats.Span(make([]float64, bins+1), lo, hi)
	// Histogram requires sorted samples.
	sort.Float64s(data)
	counts := stat.Histogram(nil, dividers, data, nil)

	centers = make([]float64, bins)
	density = make([]float64, bins)
	n := float64(len(data))
	for i := 0; i < bins; i++ {
		width := dividers[i+1] - dividers[i]
		centers[i] = dividers[i] + 0.5*width
		density[i] = counts[i] / (n * width)
	}
	return centers, density, nil
}
