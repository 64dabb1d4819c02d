package fokkerplanck_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gonum.org/v1/gonum/integrate"

	"github.com/stochdyn/stochdyn/internal/fdgrid"
	"github.com/stochdyn/stochdyn/internal/fokkerplanck"
	"github.com/stochdyn/stochdyn/internal/process"
)

func densityMean(x, p []float64) float64 {
	xp := make([]float64, len(x))
	for i := range x {
		xp[i] = x[i] * p[i]
	}
	return integrate.Trapezoidal(x, xp) / fokkerplanck.Mass(x, p)
}

func densityVariance(x, p []float64) float64 {
	m := densityMean(x, p)
	xxp := make([]float64, len(x))
	for i := range x {
		d := x[i] - m
		xxp[i] = d * d * p[i]
	}
	return integrate.Trapezoidal(x, xxp) / fokkerplanck.Mass(x, p)
}

func ouForward(theta, d float64) *fokkerplanck.Forward {
	return fokkerplanck.NewForward(
		func(x, t float64) float64 { return -theta * x },
		func(x, t float64) float64 { return d },
	)
}

var _ = Describe("initial densities", func() {
	var g *fdgrid.Grid

	BeforeEach(func() {
		var err error
		g, err = fdgrid.New(-5, 5, 101)
		Expect(err).NotTo(HaveOccurred())
	})

	It("normalizes the Gaussian to unit mass", func() {
		p := fokkerplanck.Gaussian1D(0, 1, g)
		Expect(fokkerplanck.Mass(g.Points, p)).To(BeNumerically("~", 1.0, 1e-9))
	})

	It("places the Dirac mass on the first point at or above the position", func() {
		p := fokkerplanck.Dirac1D(0.33, g)
		Expect(fokkerplanck.Mass(g.Points, p)).To(BeNumerically("~", 1.0, 1e-9))

		nonzero := 0
		for i, v := range p {
			if v != 0 {
				nonzero++
				Expect(g.Points[i]).To(BeNumerically(">=", 0.33))
				Expect(g.Points[i] - g.DX).To(BeNumerically("<", 0.33))
			}
		}
		Expect(nonzero).To(Equal(1))
	})

	It("spreads the uniform density to unit mass", func() {
		p := fokkerplanck.Uniform1D(g)
		Expect(fokkerplanck.Mass(g.Points, p)).To(BeNumerically("~", 1.0, 1e-9))
	})
})

var _ = Describe("Forward solver", func() {
	It("returns the initial density unchanged for a non-positive duration", func() {
		g, err := fdgrid.New(-5, 5, 51)
		Expect(err).NotTo(HaveOccurred())
		p0 := fokkerplanck.Gaussian1D(0, 1, g)

		sol, err := ouForward(1, 0.5).Solve(2.0, 0, fokkerplanck.Options{
			Bounds: [2]float64{-5, 5},
			Npts:   51,
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(sol.T).To(Equal(2.0))
		for i := range p0 {
			Expect(sol.P[i]).To(BeNumerically("~", p0[i], 1e-12))
		}
	})

	It("relaxes an Ornstein-Uhlenbeck density to the stationary variance D/theta", func() {
		sol, err := ouForward(1, 0.5).Solve(0, 10, fokkerplanck.Options{
			Bounds:   [2]float64{-6, 6},
			Npts:     121,
			Dt:       0.01,
			Boundary: [2]string{"reflecting", "reflecting"},
			Method:   "cn",
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(densityVariance(sol.X, sol.P)).To(BeNumerically("~", 0.5, 0.02))
		Expect(fokkerplanck.Mass(sol.X, sol.P)).To(BeNumerically("~", 1.0, 0.05))
	})

	It("loses mass through absorbing boundaries", func() {
		w := fokkerplanck.NewForward(
			func(x, t float64) float64 { return 0 },
			func(x, t float64) float64 { return 1 },
		)
		sol, err := w.Solve(0, 1, fokkerplanck.Options{
			Bounds: [2]float64{-3, 3},
			Npts:   121,
		})
		Expect(err).NotTo(HaveOccurred())

		m := fokkerplanck.Mass(sol.X, sol.P)
		Expect(m).To(BeNumerically("<", 1.0))
		Expect(m).To(BeNumerically(">", 0))
	})

	It("agrees between implicit and Crank-Nicolson stepping at small steps", func() {
		opts := func(method string) fokkerplanck.Options {
			return fokkerplanck.Options{
				Bounds:   [2]float64{-6, 6},
				Npts:     81,
				Dt:       0.001,
				Boundary: [2]string{"reflecting", "reflecting"},
				Method:   method,
			}
		}
		impl, err := ouForward(1, 0.5).Solve(0, 1, opts("implicit"))
		Expect(err).NotTo(HaveOccurred())
		cn, err := ouForward(1, 0.5).Solve(0, 1, opts("cn"))
		Expect(err).NotTo(HaveOccurred())

		for i := range impl.P {
			Expect(impl.P[i]).To(BeNumerically("~", cn.P[i], 5e-3))
		}
	})

	It("rejects unknown boundary pairings", func() {
		_, err := ouForward(1, 0.5).Solve(0, 1, fokkerplanck.Options{
			Boundary: [2]string{"periodic", "absorbing"},
		})
		Expect(err).To(MatchError(fokkerplanck.ErrUnsupportedBoundary))
	})

	It("rejects unknown methods", func() {
		_, err := ouForward(1, 0.5).Solve(0, 1, fokkerplanck.Options{Method: "rk4"})
		Expect(err).To(MatchError(fokkerplanck.ErrUnsupportedMethod))
	})

	It("rejects an initial density of the wrong length", func() {
		_, err := ouForward(1, 0.5).Solve(0, 1, fokkerplanck.Options{
			Npts: 51,
			P0:   []float64{1, 2, 3},
		})
		Expect(err).To(HaveOccurred())
	})

	It("rejects a step derived from a vanishing diffusion", func() {
		degenerate := fokkerplanck.NewForward(
			func(x, t float64) float64 { return -x },
			func(x, t float64) float64 { return 0 },
		)
		_, err := degenerate.Solve(0, 1, fokkerplanck.Options{})
		Expect(err).To(MatchError(fokkerplanck.ErrInvalidStep))
	})

	It("builds the diffusion coefficient D = sigma^2/2 from a process", func() {
		p, err := process.NewScalar(
			func(x, t float64) float64 { return -x },
			func(x, t float64) float64 { return 2 },
		)
		Expect(err).NotTo(HaveOccurred())

		f := fokkerplanck.FromProcess(p)
		Expect(f.Diffusion(1.5, 0)).To(BeNumerically("~", 2.0, 1e-12))
	})
})

var _ = Describe("Backward solver", func() {
	It("solves the adjoint equation with absorbing boundaries", func() {
		b := fokkerplanck.NewBackward(
			func(x, t float64) float64 { return -x },
			func(x, t float64) float64 { return 0.5 },
		)
		sol, err := b.Solve(0, 1, fokkerplanck.Options{
			Bounds: [2]float64{-4, 4},
			Npts:   81,
			Dt:     0.001,
			Method: "implicit",
		})
		Expect(err).NotTo(HaveOccurred())
		for _, v := range sol.P {
			Expect(math.IsNaN(v)).To(BeFalse())
			Expect(math.IsInf(v, 0)).To(BeFalse())
		}
	})

	It("rejects a reflecting right boundary", func() {
		b := fokkerplanck.NewBackward(
			func(x, t float64) float64 { return -x },
			func(x, t float64) float64 { return 0.5 },
		)
		_, err := b.Solve(0, 1, fokkerplanck.Options{
			Boundary: [2]string{"absorbing", "reflecting"},
		})
		Expect(err).To(MatchError(fokkerplanck.ErrUnsupportedBoundary))
	})
})

var _ = Describe("Snapshots", func() {
	newIter := func(times fokkerplanck.TimeSeq) *fokkerplanck.Iter {
		return ouForward(1, 0.5).Snapshots(0, times, fokkerplanck.Options{
			Bounds:   [2]float64{-6, 6},
			Npts:     81,
			Dt:       0.01,
			Boundary: [2]string{"reflecting", "reflecting"},
			Method:   "cn",
		})
	}

	It("yields checkpoints at the requested times in order", func() {
		iter := newIter(fokkerplanck.Times(0.5, 1.0, 2.0))

		var ts []float64
		for {
			snap, ok := iter.Next()
			if !ok {
				break
			}
			ts = append(ts, snap.T)
		}
		Expect(iter.Err()).NotTo(HaveOccurred())
		Expect(ts).To(HaveLen(3))
		Expect(ts[0]).To(BeNumerically("~", 0.5, 1e-9))
		Expect(ts[1]).To(BeNumerically("~", 1.0, 1e-9))
		Expect(ts[2]).To(BeNumerically("~", 2.0, 1e-9))
	})

	It("chains segments to match one direct integration", func() {
		iter := newIter(fokkerplanck.Times(0.5, 1.0))
		var last *fokkerplanck.Snapshot
		for {
			snap, ok := iter.Next()
			if !ok {
				break
			}
			last = snap
		}
		Expect(iter.Err()).NotTo(HaveOccurred())

		direct, err := ouForward(1, 0.5).Solve(0, 1.0, fokkerplanck.Options{
			Bounds:   [2]float64{-6, 6},
			Npts:     81,
			Dt:       0.01,
			Boundary: [2]string{"reflecting", "reflecting"},
			Method:   "cn",
		})
		Expect(err).NotTo(HaveOccurred())

		for i := range direct.P {
			Expect(last.P[i]).To(BeNumerically("~", direct.P[i], 1e-9))
		}
	})

	It("stops and reports the error of a failing segment", func() {
		iter := ouForward(1, 0.5).Snapshots(0, fokkerplanck.Times(1.0), fokkerplanck.Options{
			Boundary: [2]string{"periodic", "periodic"},
		})
		_, ok := iter.Next()
		Expect(ok).To(BeFalse())
		Expect(iter.Err()).To(MatchError(fokkerplanck.ErrUnsupportedBoundary))
	})
})

var _ = Describe("ShortTimePropagator", func() {
	It("rejects a non-positive expansion step", func() {
		_, err := fokkerplanck.NewShortTimePropagator(
			func(x, t float64) float64 { return 0 },
			func(x, t float64) float64 { return 0.5 },
			0,
		)
		Expect(err).To(MatchError(fokkerplanck.ErrInvalidStep))
	})

	It("normalizes the transition kernel to a Gaussian of variance 2*D*tau", func() {
		d := 0.5
		tau := 0.01
		prop, err := fokkerplanck.NewShortTimePropagator(
			func(x, t float64) float64 { return 0 },
			func(x, t float64) float64 { return d },
			tau,
		)
		Expect(err).NotTo(HaveOccurred())

		// Peak value of a normal density with variance 2*D*tau.
		peak := 1 / math.Sqrt(4*math.Pi*d*tau)
		Expect(prop.TransitionProbability(0, 0, 0)).To(BeNumerically("~", peak, 1e-9))

		// One standard deviation out.
		sd := math.Sqrt(2 * d * tau)
		Expect(prop.TransitionProbability(sd, 0, 0)).To(BeNumerically("~", peak*math.Exp(-0.5), 1e-9))
	})

	It("advects the density mean with a constant drift", func() {
		prop, err := fokkerplanck.NewShortTimePropagator(
			func(x, t float64) float64 { return 1 },
			func(x, t float64) float64 { return 0.05 },
			0.01,
		)
		Expect(err).NotTo(HaveOccurred())

		sol, err := prop.Solve(0, 0.5, fokkerplanck.Options{
			Bounds: [2]float64{-8, 8},
			Npts:   201,
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(sol.T).To(BeNumerically(">=", 0.5))
		Expect(densityMean(sol.X, sol.P)).To(BeNumerically("~", 0.5, 0.05))
	})
})
