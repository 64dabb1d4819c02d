package fdgrid

// BoundaryCondition fixes the two edge values of a field after each
// explicit step.
type BoundaryCondition interface {
	// Apply overwrites f[0] and f[len(f)-1] given the grid points x and
	// the current time.
	Apply(f, x []float64, t float64)
}

// BoundaryRow expresses one edge of an implicit system as the linear
// relation Diag*f[edge] + Neighbor*f[adjacent] = RHS.
type BoundaryRow struct {
	Diag     float64
	Neighbor float64
	RHS      float64
}

// LinearBoundary is a boundary condition that can be folded into a
// tridiagonal linear system by overwriting the boundary rows.
type LinearBoundary interface {
	BoundaryCondition
	Rows(x []float64, t float64) (left, right BoundaryRow)
}

// DirichletBC holds the edge values fixed.
type DirichletBC struct {
	Left, Right float64
}

func (b DirichletBC) Apply(f, x []float64, t float64) {
	f[0] = b.Left
	f[len(f)-1] = b.Right
}

func (b DirichletBC) Rows(x []float64, t float64) (BoundaryRow, BoundaryRow) {
	return BoundaryRow{Diag: 1, RHS: b.Left}, BoundaryRow{Diag: 1, RHS: b.Right}
}

// FuncBC computes the two edge values from the current field, the grid
// points and the time. It supports explicit stepping only.
type FuncBC func(f, x []float64, t float64) (left, right float64)

func (fn FuncBC) Apply(f, x []float64, t float64) {
	l, r := fn(f, x, t)
	f[0] = l
	f[len(f)-1] = r
}
