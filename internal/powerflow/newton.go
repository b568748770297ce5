package powerflow

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/pmeridian/gridtrace/internal/network"
)

// ErrNotConverged reports a Newton iteration that ran out of iterations.
var ErrNotConverged = errors.New("power flow did not converge")

// IterFunc receives the iteration number and mismatch norm after each Newton
// iteration. A nil IterFunc is silent.
type IterFunc func(it int, normF float64)

// NewtonPF solves the AC power flow with a full Newton method. It returns the
// solved voltage vector, whether the iteration converged, the number of
// iterations used and the final infinity norm of the mismatch.
//
// The voltage vector v0 carries the setpoint magnitudes at ref and PV buses
// and the reference angle at the ref bus; only angles at pv∪pq buses and
// magnitudes at pq buses are solved for.
func NewtonPF(ybus *network.CMatrix, sbus []complex128, v0 []complex128, sets network.IndexSets, tol float64, maxIt int, onIter IterFunc) ([]complex128, bool, int, float64, error) {
	v := make([]complex128, len(v0))
	copy(v, v0)
	vm, va := Polar(v)

	pvpq := sets.PVPQ()
	pq := sets.PQ
	na := len(pvpq)
	n := na + len(pq)

	f := reduceMismatch(Mismatch(ybus, v, sbus), pvpq, pq)
	normF := NormInf(f)

	it := 0
	converged := normF < tol
	for !converged && it < maxIt {
		it++

		j := Jacobian(ybus, v, pvpq, pq)
		dx, err := SolveVec(j, mat.NewVecDense(n, f))
		if err != nil {
			return v, false, it, normF, err
		}

		for k, b := range pvpq {
			va[b] -= dx.AtVec(k)
		}
		for k, b := range pq {
			vm[b] -= dx.AtVec(na + k)
		}
		v = FromPolar(vm, va)
		vm, va = Polar(v)

		f = reduceMismatch(Mismatch(ybus, v, sbus), pvpq, pq)
		normF = NormInf(f)
		if onIter != nil {
			onIter(it, normF)
		}
		converged = normF < tol
	}

	return v, converged, it, normF, nil
}

// reduceMismatch restricts a complex mismatch vector to the solved equations:
// real parts at pvpq buses, imaginary parts at pq buses.
func reduceMismatch(mis []complex128, pvpq, pq []int) []float64 {
	f := make([]float64, 0, len(pvpq)+len(pq))
	for _, b := range pvpq {
		f = append(f, real(mis[b]))
	}
	for _, b := range pq {
		f = append(f, imag(mis[b]))
	}
	return f
}

// SolveVec solves ax = b by dense LU factorization. An ill-conditioned but
// nonsingular system is solved anyway; only exact singularity is an error.
// Newton steps near a saddle-node point routinely trip gonum's condition
// warning while the computed step is still usable.
func SolveVec(a *mat.Dense, b *mat.VecDense) (*mat.VecDense, error) {
	n, _ := a.Dims()
	x := mat.NewVecDense(n, nil)
	var lu mat.LU
	lu.Factorize(a)
	if err := lu.SolveVecTo(x, false, b); err != nil {
		var cond mat.Condition
		if !errors.As(err, &cond) {
			return nil, err
		}
	}
	return x, nil
}

// NormInf returns the infinity norm of a real vector.
func NormInf(x []float64) float64 {
	m := 0.0
	for _, v := range x {
		if a := math.Abs(v); a > m {
			m = a
		}
	}
	return m
}
