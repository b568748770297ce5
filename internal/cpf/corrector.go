package cpf

import (
	"gonum.org/v1/gonum/mat"

	"github.com/pmeridian/gridtrace/internal/network"
	"github.com/pmeridian/gridtrace/internal/powerflow"
)

// correct refines a predicted trial point back onto the solution manifold with
// a full Newton iteration on the augmented system (power mismatch equations
// plus the parameterization equation). It returns the corrected voltage,
// whether the iteration converged within maxIt, the iteration count, the
// corrected lambda and the final mismatch norm.
//
// If the trial point already satisfies the augmented equations the corrector
// reports convergence in zero iterations.
func correct(ybus *network.CMatrix, sbus []complex128, v0 []complex128, sets network.IndexSets, lam0 float64, sxfr []complex128, vprv []complex128, lamprv float64, z []float64, step float64, mode Parameterization, tol float64, maxIt int, obs Observer) ([]complex128, bool, int, float64, float64, error) {
	v := make([]complex128, len(v0))
	copy(v, v0)
	vm, va := powerflow.Polar(v)
	lam := lam0

	pvpq := sets.PVPQ()
	pq := sets.PQ
	na := len(pvpq)
	n := na + len(pq)

	f := augmentedMismatch(ybus, v, sbus, sxfr, lam, mode, step, z, vprv, lamprv, sets)
	normF := powerflow.NormInf(f)
	converged := normF < tol

	it := 0
	for !converged && it < maxIt {
		it++

		j := powerflow.Jacobian(ybus, v, pvpq, pq)
		dpdv, dpdlam := pGradient(mode, z, v, lam, vprv, lamprv, sets)
		aug := buildAugmented(j, sxfr, pvpq, pq, dpdv, dpdlam)

		dx, err := powerflow.SolveVec(aug, mat.NewVecDense(n+1, f))
		if err != nil {
			return v, false, it, lam, normF, err
		}

		// Newton update: x <- x - J\F
		for k, b := range pvpq {
			va[b] -= dx.AtVec(k)
		}
		for k, b := range pq {
			vm[b] -= dx.AtVec(na + k)
		}
		v = powerflow.FromPolar(vm, va)
		// re-derive polar form in case a negative magnitude wrapped the angle
		vm, va = powerflow.Polar(v)
		lam -= dx.AtVec(n)

		f = augmentedMismatch(ybus, v, sbus, sxfr, lam, mode, step, z, vprv, lamprv, sets)
		normF = powerflow.NormInf(f)
		if obs != nil {
			obs.OnIteration(it, normF)
		}
		converged = normF < tol
	}

	return v, converged, it, lam, normF, nil
}
