package fokkerplanck

// TimeSeq produces checkpoint times one at a time, in increasing order.
// It may be unbounded.
type TimeSeq func() (float64, bool)

// Times builds a finite sequence from explicit checkpoint times.
func Times(ts ...float64) TimeSeq {
	i := 0
	return func() (float64, bool) {
		if i >= len(ts) {
			return 0, false
		}
		t := ts[i]
		i++
		return t, true
	}
}

// Ticks builds an unbounded sequence t0, t0+step, t0+2*step, ...
func Ticks(t0, step float64) TimeSeq {
	next := t0
	return func() (float64, bool) {
		t := next
		next += step
		return t, true
	}
}

// Snapshot is the solution at one checkpoint.
type Snapshot struct {
	T float64
	X []float64
	P []float64
}

// Iter lazily produces density snapshots at the requested checkpoint
// times, feeding the final density of each segment into the next. It is
// single-pass and single-consumer; re-invoke Snapshots to start over.
type Iter struct {
	eq    equation
	times TimeSeq
	opts  Options
	t0    float64
	p0    []float64
	err   error
}

// Snapshots prepares an iterator over the given checkpoint sequence,
// starting from t0 with the initial density from opts.
func (f *Forward) Snapshots(t0 float64, times TimeSeq, opts Options) *Iter {
	return &Iter{eq: f, times: times, opts: opts, t0: t0, p0: opts.P0}
}

// Snapshots prepares an iterator for the adjoint equation.
func (b *Backward) Snapshots(t0 float64, times TimeSeq, opts Options) *Iter {
	return &Iter{eq: b, times: times, opts: opts, t0: t0, p0: opts.P0}
}

// Next integrates to the next checkpoint and returns its snapshot, or
// false when the sequence is exhausted or a segment failed (see Err).
func (it *Iter) Next() (*Snapshot, bool) {
	if it.err != nil {
		return nil, false
	}
	t, ok := it.times()
	if !ok {
		return nil, false
	}
	o := it.opts
	o.P0 = it.p0
	sol, err := solve(it.eq, it.t0, t-it.t0, o)
	if err != nil {
		it.err = err
		return nil, false
	}
	it.t0 = sol.T
	it.p0 = sol.P
	return &Snapshot{T: sol.T, X: sol.X, P: sol.P}, true
}

// Err reports the error that stopped the iterator, if any.
func (it *Iter) Err() error { return it.err }
