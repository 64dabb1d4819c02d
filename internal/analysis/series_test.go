package analysis

import (
	"math"
	"testing"
)

func TestRunningMean(t *testing.T) {
	got := RunningMean([]float64{2, 4, 6})
	want := []float64{2, 3, 4}
	for i := range want {
		if math.Abs(got[i]-want[i]) > 1e-12 {
			t.Errorf("sample %d: expected %g, got %g", i, want[i], got[i])
		}
	}
}

func TestTransitionRate(t *testing.T) {
	times := []float64{0, 1, 2, 3, 4}
	x := []float64{1, -1, 1, -1, 1}

	// 4 sign changes over 4 time units.
	if got := TransitionRate(times, x); math.Abs(got-1.0) > 1e-12 {
		t.Errorf("expected rate 1.0, got %g", got)
	}
}

func TestTransitionRateNoTransitions(t *testing.T) {
	times := []float64{0, 1, 2}
	x := []float64{1, 2, 3}
	if got := TransitionRate(times, x); got != 0 {
		t.Errorf("expected rate 0, got %g", got)
	}
}

func TestTransitionRateZeroSamplesKeepSign(t *testing.T) {
	times := []float64{0, 1, 2, 3}
	x := []float64{1, 0, 1, -1}

	// The zero carries the previous sign, so only one transition occurs.
	if got := TransitionRate(times, x); math.Abs(got-1.0/3.0) > 1e-12 {
		t.Errorf("expected rate 1/3, got %g", got)
	}
}

func TestLevelCrossingsAlternate(t *testing.T) {
	//             0    1     2    3     4    5   6
	x := []float64{0, 1.5, 1.8, 0.2, -1.2, 1.3, 0}

	idx := LevelCrossings(x, 1.0)
	want := []int{1, 4, 5}
	if len(idx) != len(want) {
		t.Fatalf("expected crossings %v, got %v", want, idx)
	}
	for i := range want {
		if idx[i] != want[i] {
			t.Errorf("crossing %d: expected index %d, got %d", i, want[i], idx[i])
		}
	}
}

func TestResidenceTimes(t *testing.T) {
	times := []float64{0, 1, 2, 3, 4, 5, 6}
	x := []float64{0, 1.5, 1.8, 0.2, -1.2, 1.3, 0}

	rt := ResidenceTimes(times, x, 1.0)
	want := []float64{3, 1} // crossings at t=1, 4, 5
	if len(rt) != len(want) {
		t.Fatalf("expected %d residence times, got %d", len(want), len(rt))
	}
	for i := range want {
		if math.Abs(rt[i]-want[i]) > 1e-12 {
			t.Errorf("residence %d: expected %g, got %g", i, want[i], rt[i])
		}
	}

	if got := MeanResidence(times, x, 1.0); math.Abs(got-2) > 1e-12 {
		t.Errorf("expected mean residence 2, got %g", got)
	}
}

func TestMeanResidenceWithoutTransitions(t *testing.T) {
	times := []float64{0, 1}
	x := []float64{0, 0.5}
	if got := MeanResidence(times, x, 1.0); !math.IsNaN(got) {
		t.Errorf("expected NaN without transitions, got %g", got)
	}
}

func TestBlowupTime(t *testing.T) {
	times := []float64{0, 1, 2, 3}
	x := []float64{1, 2, math.Inf(1), math.NaN()}

	bt, found := BlowupTime(times, x)
	if !found {
		t.Fatal("expected a finite prefix")
	}
	if bt != 1 {
		t.Errorf("expected last finite time 1, got %g", bt)
	}
}

func TestBlowupTimeAllFinite(t *testing.T) {
	times := []float64{0, 1, 2}
	x := []float64{1, 2, 3}

	bt, found := BlowupTime(times, x)
	if !found || bt != 2 {
		t.Errorf("expected final time 2, got %g (found %v)", bt, found)
	}
}

func TestBlowupTimeImmediateDivergence(t *testing.T) {
	times := []float64{0, 1}
	x := []float64{math.NaN(), 1}

	if _, found := BlowupTime(times, x); found {
		t.Error("expected no finite sample")
	}
}
