package fokkerplanck

import (
	"fmt"

	"github.com/stochdyn/stochdyn/internal/fdgrid"
	"github.com/stochdyn/stochdyn/internal/process"
)

// edgeRule relates one boundary value to its interior neighbor:
// f[edge] = coef(t) * f[neighbor]. A nil coef pins the edge to zero
// (absorbing).
type edgeRule func(x []float64, t float64) float64

// pairBC combines one rule per edge. It is applied after every explicit
// step and folded into the boundary rows of implicit systems, where the
// relation f[edge] - coef*f[neighbor] = 0 keeps the system tridiagonal.
type pairBC struct {
	left, right edgeRule
}

func (b pairBC) Apply(f, x []float64, t float64) {
	n := len(f)
	if b.left == nil {
		f[0] = 0
	} else {
		f[0] = b.left(x, t) * f[1]
	}
	if b.right == nil {
		f[n-1] = 0
	} else {
		f[n-1] = b.right(x, t) * f[n-2]
	}
}

func (b pairBC) Rows(x []float64, t float64) (fdgrid.BoundaryRow, fdgrid.BoundaryRow) {
	left := fdgrid.BoundaryRow{Diag: 1}
	if b.left != nil {
		left.Neighbor = -b.left(x, t)
	}
	right := fdgrid.BoundaryRow{Diag: 1}
	if b.right != nil {
		right.Neighbor = -b.right(x, t)
	}
	return left, right
}

// forwardBoundary builds the boundary condition for the forward equation.
// Absorbing pins the edge density to zero; reflecting imposes the no-flux
// relation between the edge and its neighbor, a ratio of adjacent
// diffusion coefficients with a drift correction at the grid-spacing
// scale.
func forwardBoundary(drift, diffusion process.ScalarField, g *fdgrid.Grid, names [2]string) (fdgrid.LinearBoundary, error) {
	dx := g.DX
	refLeft := func(x []float64, t float64) float64 {
		return diffusion(x[1], t) / (diffusion(x[0], t) + drift(x[0], t)*dx)
	}
	refRight := func(x []float64, t float64) float64 {
		n := len(x)
		return diffusion(x[n-2], t) / (diffusion(x[n-1], t) - drift(x[n-1], t)*dx)
	}
	switch names {
	case [2]string{"absorbing", "absorbing"}:
		return pairBC{}, nil
	case [2]string{"absorbing", "reflecting"}:
		return pairBC{right: refRight}, nil
	case [2]string{"reflecting", "absorbing"}:
		return pairBC{left: refLeft}, nil
	case [2]string{"reflecting", "reflecting"}:
		return pairBC{left: refLeft, right: refRight}, nil
	default:
		return nil, fmt.Errorf("%w: (%q, %q)", ErrUnsupportedBoundary, names[0], names[1])
	}
}

// backwardBoundary builds the boundary condition for the adjoint equation.
// Only the pairings with a known rule are registered; reflecting on the
// right has no validated rule for the adjoint operator.
func backwardBoundary(g *fdgrid.Grid, names [2]string) (fdgrid.LinearBoundary, error) {
	mirror := func(x []float64, t float64) float64 { return 1 }
	switch names {
	case [2]string{"absorbing", "absorbing"}:
		return pairBC{}, nil
	case [2]string{"reflecting", "absorbing"}:
		return pairBC{left: mirror}, nil
	default:
		return nil, fmt.Errorf("%w: (%q, %q)", ErrUnsupportedBoundary, names[0], names[1])
	}
}
