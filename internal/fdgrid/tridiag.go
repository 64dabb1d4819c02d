package fdgrid

// Tridiagonal is a sparse NxN matrix with three bands, the storage used by
// all grid operators. Sub[k] holds A[k+1][k], Diag[i] holds A[i][i] and
// Super[k] holds A[k][k+1], matching the band layout expected by
// mat.NewTridiag.
type Tridiagonal struct {
	N     int
	Sub   []float64
	Diag  []float64
	Super []float64
}

// NewTridiagonal returns a zero NxN tridiagonal matrix.
func NewTridiagonal(n int) *Tridiagonal {
	return &Tridiagonal{
		N:     n,
		Sub:   make([]float64, n-1),
		Diag:  make([]float64, n),
		Super: make([]float64, n-1),
	}
}

// SetRow sets row i to (sub, diag, super). The sub entry is ignored for
// the first row and the super entry for the last.
func (t *Tridiagonal) SetRow(i int, sub, diag, super float64) {
	if i > 0 {
		t.Sub[i-1] = sub
	}
	t.Diag[i] = diag
	if i < t.N-1 {
		t.Super[i] = super
	}
}

// Apply computes t*f.
func (t *Tridiagonal) Apply(f []float64) []float64 {
	out := make([]float64, t.N)
	for i := 0; i < t.N; i++ {
		v := t.Diag[i] * f[i]
		if i > 0 {
			v += t.Sub[i-1] * f[i-1]
		}
		if i < t.N-1 {
			v += t.Super[i] * f[i+1]
		}
		out[i] = v
	}
	return out
}

// MulDiag computes t*diag(v) in place and returns t.
func (t *Tridiagonal) MulDiag(v []float64) *Tridiagonal {
	for k := range t.Sub {
		t.Sub[k] *= v[k]
	}
	for i := range t.Diag {
		t.Diag[i] *= v[i]
	}
	for k := range t.Super {
		t.Super[k] *= v[k+1]
	}
	return t
}

// DiagMul computes diag(v)*t in place and returns t.
func (t *Tridiagonal) DiagMul(v []float64) *Tridiagonal {
	for k := range t.Sub {
		t.Sub[k] *= v[k+1]
	}
	for i := range t.Diag {
		t.Diag[i] *= v[i]
	}
	for k := range t.Super {
		t.Super[k] *= v[k]
	}
	return t
}

// Scale multiplies every entry by c in place and returns t.
func (t *Tridiagonal) Scale(c float64) *Tridiagonal {
	for k := range t.Sub {
		t.Sub[k] *= c
	}
	for i := range t.Diag {
		t.Diag[i] *= c
	}
	for k := range t.Super {
		t.Super[k] *= c
	}
	return t
}

// Add accumulates o into t in place and returns t.
func (t *Tridiagonal) Add(o *Tridiagonal) *Tridiagonal {
	for k := range t.Sub {
		t.Sub[k] += o.Sub[k]
	}
	for i := range t.Diag {
		t.Diag[i] += o.Diag[i]
	}
	for k := range t.Super {
		t.Super[k] += o.Super[k]
	}
	return t
}
