package cpf

import (
	"gonum.org/v1/gonum/mat"

	"github.com/pmeridian/gridtrace/internal/network"
	"github.com/pmeridian/gridtrace/internal/powerflow"
)

// buildAugmented stacks the reduced power-flow Jacobian, the lambda transfer
// column -[Re sxfr[pvpq]; Im sxfr[pq]] and the parameterization gradient row
// into the (n+1)x(n+1) matrix shared by predictor and corrector:
//
//	[   J    dF/dlam ]
//	[ dP/dV  dP/dlam ]
func buildAugmented(j *mat.Dense, sxfr []complex128, pvpq, pq []int, dpdv []float64, dpdlam float64) *mat.Dense {
	na := len(pvpq)
	n := na + len(pq)
	aug := mat.NewDense(n+1, n+1, nil)
	for r := 0; r < n; r++ {
		for c := 0; c < n; c++ {
			aug.Set(r, c, j.At(r, c))
		}
	}
	for k, b := range pvpq {
		aug.Set(k, n, -real(sxfr[b]))
	}
	for k, b := range pq {
		aug.Set(na+k, n, -imag(sxfr[b]))
	}
	for c := 0; c < n; c++ {
		aug.Set(n, c, dpdv[c])
	}
	aug.Set(n, n, dpdlam)
	return aug
}

// augmentedMismatch evaluates F(x, lambda): the bus power mismatch including
// the lambda-scaled transfer, restricted to real parts at pvpq buses and
// imaginary parts at pq buses, augmented with the parameterization residual.
func augmentedMismatch(ybus *network.CMatrix, v, sbus, sxfr []complex128, lam float64, mode Parameterization, step float64, z []float64, vprv []complex128, lamprv float64, sets network.IndexSets) []float64 {
	mis := powerflow.Mismatch(ybus, v, sbus)
	for i := range mis {
		mis[i] -= complex(lam, 0) * sxfr[i]
	}

	pvpq := sets.PVPQ()
	f := make([]float64, 0, len(pvpq)+len(sets.PQ)+1)
	for _, b := range pvpq {
		f = append(f, real(mis[b]))
	}
	for _, b := range sets.PQ {
		f = append(f, imag(mis[b]))
	}
	return append(f, pValue(mode, step, z, v, lam, vprv, lamprv, sets))
}
