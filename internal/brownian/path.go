// Package brownian generates and resamples Wiener-process increments.
//
// Increments at a base resolution dt are i.i.d. Gaussian with mean zero and
// variance dt, independent across dimensions. A path sampled at a finer
// resolution than an integration step is coarsened by summing contiguous
// blocks of increments; Brownian scaling guarantees the block sums are
// again Gaussian with the summed variance.
package brownian

import (
	"errors"
	"fmt"
	"math"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"
)

// ErrPathShape indicates a supplied path does not carry enough increments
// for the requested integration.
var ErrPathShape = errors.New("brownian: path shape mismatch")

// Increments draws n independent Gaussian increments per dimension, each
// with variance dt. The result has shape n x dim. A nil source falls back
// to the global stream.
func Increments(src rand.Source, n, dim int, dt float64) [][]float64 {
	normal := distuv.Normal{Mu: 0, Sigma: math.Sqrt(dt), Src: src}
	dw := make([][]float64, n)
	for i := range dw {
		row := make([]float64, dim)
		for d := range row {
			row[d] = normal.Rand()
		}
		dw[i] = row
	}
	return dw
}

// Path is a discretely sampled Wiener path at fixed resolution.
type Path struct {
	Times []float64
	W     [][]float64
}

// Sample draws a dim-dimensional Wiener path of the given number of steps
// starting from the origin at time t0, at resolution dt.
func Sample(src rand.Source, t0, dt float64, steps, dim int) *Path {
	dw := Increments(src, steps, dim, dt)
	times := make([]float64, steps+1)
	w := make([][]float64, steps+1)
	w[0] = make([]float64, dim)
	times[0] = t0
	for i := 1; i <= steps; i++ {
		times[i] = t0 + float64(i)*dt
		row := make([]float64, dim)
		for d := 0; d < dim; d++ {
			row[d] = w[i-1][d] + dw[i-1][d]
		}
		w[i] = row
	}
	return &Path{Times: times, W: w}
}

// Step returns the sampling resolution of the path.
func (p *Path) Step() float64 {
	if len(p.Times) < 2 {
		return 0
	}
	return p.Times[1] - p.Times[0]
}

// Dim returns the dimension of the path.
func (p *Path) Dim() int {
	if len(p.W) == 0 {
		return 0
	}
	return len(p.W[0])
}

// Increments returns the successive differences of the path positions.
func (p *Path) Increments() [][]float64 {
	if len(p.W) < 2 {
		return nil
	}
	dim := p.Dim()
	dw := make([][]float64, len(p.W)-1)
	for i := range dw {
		row := make([]float64, dim)
		for d := 0; d < dim; d++ {
			row[d] = p.W[i+1][d] - p.W[i][d]
		}
		dw[i] = row
	}
	return dw
}

// CoarseIncrements aggregates the path increments to match an integration
// over num sample times with step dt. Blocks of round(dt/step) consecutive
// fine increments are summed into one coarse increment each. The path must
// carry at least (num-1)*ratio increments.
func (p *Path) CoarseIncrements(num int, dt float64) ([][]float64, error) {
	fine := p.Step()
	if fine <= 0 {
		return nil, fmt.Errorf("%w: path resolution %g, want > 0", ErrPathShape, fine)
	}
	ratio := int(math.Round(dt / fine))
	if ratio < 1 {
		return nil, fmt.Errorf("%w: path resolution %g coarser than integration step %g", ErrPathShape, fine, dt)
	}
	dw := p.Increments()
	need := (num - 1) * ratio
	if len(dw) < need {
		return nil, fmt.Errorf("%w: got %d increments, want at least %d (%d steps x ratio %d)",
			ErrPathShape, len(dw), need, num-1, ratio)
	}
	dim := p.Dim()
	out := make([][]float64, num-1)
	for i := range out {
		row := make([]float64, dim)
		for j := 0; j < ratio; j++ {
			for d := 0; d < dim; d++ {
				row[d] += dw[i*ratio+j][d]
			}
		}
		out[i] = row
	}
	return out, nil
}
