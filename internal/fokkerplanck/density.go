package fokkerplanck

import (
	"gonum.org/v1/gonum/integrate"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/stochdyn/stochdyn/internal/fdgrid"
)

// Mass computes the trapezoidal integral of a density over the grid points.
func Mass(x, p []float64) float64 {
	return integrate.Trapezoidal(x, p)
}

// Normalize scales p in place so its trapezoidal integral over x equals 1.
func Normalize(x, p []float64) {
	m := Mass(x, p)
	if m == 0 {
		return
	}
	for i := range p {
		p[i] /= m
	}
}

// Gaussian1D samples a normal density with the given mean and standard
// deviation on the grid and renormalizes it by trapezoidal quadrature.
func Gaussian1D(mean, std float64, g *fdgrid.Grid) []float64 {
	n := distuv.Normal{Mu: mean, Sigma: std}
	p := make([]float64, g.N)
	for i, x := range g.Points {
		p[i] = n.Prob(x)
	}
	Normalize(g.Points, p)
	return p
}

// Dirac1D places unit mass on the first grid point not smaller than pos
// and renormalizes.
func Dirac1D(pos float64, g *fdgrid.Grid) []float64 {
	p := make([]float64, g.N)
	idx := 0
	for idx < g.N-1 && g.Points[idx] < pos {
		idx++
	}
	p[idx] = 1
	Normalize(g.Points, p)
	return p
}

// Uniform1D spreads mass evenly over the grid and renormalizes.
func Uniform1D(g *fdgrid.Grid) []float64 {
	p := make([]float64, g.N)
	for i := range p {
		p[i] = 1
	}
	Normalize(g.Points, p)
	return p
}
