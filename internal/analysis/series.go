package analysis

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// RunningMean returns the cumulative average of x: out[i] is the mean of
// x[0..i].
func RunningMean(x []float64) []float64 {
	out := make([]float64, len(x))
	var sum float64
	for i, v := range x {
		sum += v
		out[i] = sum / float64(i+1)
	}
	return out
}

// TransitionRate estimates the rate of transitions across zero as the
// number of sign changes per unit time. Samples exactly at zero carry the
// sign of the previous sample.
func TransitionRate(times, x []float64) float64 {
	if len(x) < 2 || times[len(times)-1] == times[0] {
		return 0
	}
	count := 0
	prev := math.Signbit(x[0])
	for _, v := range x[1:] {
		if v == 0 {
			continue
		}
		s := math.Signbit(v)
		if s != prev {
			count++
			prev = s
		}
	}
	return float64(count) / (times[len(times)-1] - times[0])
}

// LevelCrossings returns the indices where the trajectory alternates
// between the levels +c and -c: the first index with |x| >= c, then each
// subsequent index where the opposite level is reached. Excursions that
// return to the same level are not counted as crossings.
func LevelCrossings(x []float64, c float64) []int {
	var idx []int
	want := 0 // 0: either level arms the detector; +1/-1: waiting for that side
	for i, v := range x {
		switch {
		case want == 0 && v >= c:
			idx = append(idx, i)
			want = -1
		case want == 0 && v <= -c:
			idx = append(idx, i)
			want = +1
		case want == +1 && v >= c:
			idx = append(idx, i)
			want = -1
		case want == -1 && v <= -c:
			idx = append(idx, i)
			want = +1
		}
	}
	return idx
}

// ResidenceTimes returns the durations spent in each metastable state,
// measured between successive alternating crossings of the levels +c/-c.
func ResidenceTimes(times, x []float64, c float64) []float64 {
	idx := LevelCrossings(x, c)
	if len(idx) < 2 {
		return nil
	}
	out := make([]float64, len(idx)-1)
	for i := 1; i < len(idx); i++ {
		out[i-1] = times[idx[i]] - times[idx[i-1]]
	}
	return out
}

// MeanResidence is the average residence time between the levels +c/-c,
// or NaN when the trajectory never completes a transition.
func MeanResidence(times, x []float64, c float64) float64 {
	rt := ResidenceTimes(times, x, c)
	if len(rt) == 0 {
		return math.NaN()
	}
	return stat.Mean(rt, nil)
}

// BlowupTime returns the last time with a finite sample. For trajectories
// that stay finite it is the final time; found is false when even the
// first sample is non-finite.
func BlowupTime(times, x []float64) (t float64, found bool) {
	for i, v := range x {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			break
		}
		t = times[i]
		found = true
	}
	return t, found
}
