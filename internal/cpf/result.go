package cpf

// Result is the accumulated trajectory of a continuation run. One entry per
// accepted corrector step; a failed run keeps the trajectory up to the last
// accepted point with Success false.
type Result struct {
	Voltages [][]complex128
	Lambdas  []float64
	NormF    float64
	Success  bool
	Steps    int
	Reason   string
}

// MaxLambda returns the largest lambda reached along the trajectory, 0 for an
// empty trajectory.
func (r *Result) MaxLambda() float64 {
	m := 0.0
	for _, l := range r.Lambdas {
		if l > m {
			m = l
		}
	}
	return m
}

// NosePoint returns the index and lambda of the maximum-loadability point.
// ok is false for an empty trajectory.
func (r *Result) NosePoint() (idx int, lam float64, ok bool) {
	if len(r.Lambdas) == 0 {
		return 0, 0, false
	}
	for i, l := range r.Lambdas {
		if l > lam {
			idx, lam = i, l
		}
	}
	return idx, lam, true
}
