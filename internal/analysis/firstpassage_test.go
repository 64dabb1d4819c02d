package analysis

import (
	"math"
	"testing"

	"golang.org/x/exp/rand"

	"github.com/stochdyn/stochdyn/internal/process"
)

func driftOnly(t *testing.T, v float64) *process.Scalar {
	t.Helper()
	p, err := process.NewScalar(
		func(x, tm float64) float64 { return v },
		func(x, tm float64) float64 { return 0 },
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return p
}

func TestEscapeTimeDeterministic(t *testing.T) {
	// Pure drift dx = dt from 0 crosses 1 after about one time unit.
	p := driftOnly(t, 1)

	et := EscapeTime(p, 0, 0, 1.0, 0.01, rand.NewSource(1))
	if math.Abs(et-1.0) > 0.05 {
		t.Errorf("expected escape near t=1, got %g", et)
	}
}

func TestEscapeTimeSampleCount(t *testing.T) {
	p := driftOnly(t, 1)

	samples := EscapeTimeSample(p, 0, 0, 0.5, 0.01, 50, 7)
	if len(samples) != 50 {
		t.Fatalf("expected 50 samples, got %d", len(samples))
	}
	for i, v := range samples {
		if math.Abs(v-0.5) > 0.05 {
			t.Errorf("sample %d: expected escape near 0.5, got %g", i, v)
		}
	}
}

func TestEscapeTimePDF(t *testing.T) {
	samples := []float64{1, 1.1, 1.2, 2, 2.1, 3}

	centers, density, err := EscapeTimePDF(samples, 4, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(centers) != 4 || len(density) != 4 {
		t.Fatalf("expected 4 bins, got %d centers and %d densities", len(centers), len(density))
	}

	// A histogram density integrates to 1 over its support.
	total := 0.0
	width := centers[1] - centers[0]
	for _, d := range density {
		total += d * width
	}
	if math.Abs(total-1.0) > 1e-9 {
		t.Errorf("expected density integrating to 1, got %g", total)
	}
}

func TestEscapeTimePDFStandardized(t *testing.T) {
	samples := []float64{1, 2, 3, 4, 5, 6, 7, 8}

	centers, _, err := EscapeTimePDF(samples, 4, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Standardized samples are centered, so the bin range straddles zero.
	if centers[0] >= 0 || centers[len(centers)-1] <= 0 {
		t.Errorf("expected centered bins, got range [%g, %g]", centers[0], centers[len(centers)-1])
	}
}

func TestEscapeTimePDFValidation(t *testing.T) {
	if _, _, err := EscapeTimePDF(nil, 4, false); err == nil {
		t.Error("expected error for empty samples")
	}
	if _, _, err := EscapeTimePDF([]float64{1}, 0, false); err == nil {
		t.Error("expected error for zero bins")
	}
}
