package cpf

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/pmeridian/gridtrace/internal/network"
	"github.com/pmeridian/gridtrace/internal/powerflow"
)

// predict computes the normalized tangent direction at the current solution
// and extrapolates a trial point one step along it. The returned tangent znew
// has unit Euclidean norm and is laid out as (Va all buses, Vm all buses,
// lambda); entries outside the solved subset stay zero.
//
// A singular augmented Jacobian surfaces as the linear-solve error.
func predict(v []complex128, lam float64, ybus *network.CMatrix, sxfr []complex128, sets network.IndexSets, step float64, z []float64, vprv []complex128, lamprv float64, mode Parameterization) (v0 []complex128, lam0 float64, znew []float64, err error) {
	nb := len(v)
	pvpq := sets.PVPQ()
	pq := sets.PQ
	na := len(pvpq)
	n := na + len(pq)

	j := powerflow.Jacobian(ybus, v, pvpq, pq)
	dpdv, dpdlam := pGradient(mode, z, v, lam, vprv, lamprv, sets)
	aug := buildAugmented(j, sxfr, pvpq, pq, dpdv, dpdlam)

	// solve against the unit vector isolating the lambda direction
	rhs := mat.NewVecDense(n+1, nil)
	rhs.SetVec(n, 1)
	tangent, err := powerflow.SolveVec(aug, rhs)
	if err != nil {
		return nil, 0, nil, err
	}

	znew = make([]float64, 2*nb+1)
	for k, b := range pvpq {
		znew[b] = tangent.AtVec(k)
	}
	for k, b := range pq {
		znew[nb+b] = tangent.AtVec(na + k)
	}
	znew[2*nb] = tangent.AtVec(n)

	norm := 0.0
	for _, x := range znew {
		norm += x * x
	}
	norm = math.Sqrt(norm)
	for i := range znew {
		znew[i] /= norm
	}

	vm, va := powerflow.Polar(v)
	for _, b := range pvpq {
		va[b] += step * znew[b]
	}
	for _, b := range pq {
		vm[b] += step * znew[nb+b]
	}
	lam0 = lam + step*znew[2*nb]
	v0 = powerflow.FromPolar(vm, va)
	return v0, lam0, znew, nil
}
