package powerflow

import (
	"math/cmplx"

	"gonum.org/v1/gonum/mat"

	"github.com/pmeridian/gridtrace/internal/network"
)

// DSbusDV computes the partial derivatives of the complex bus power injections
// with respect to voltage magnitude and voltage angle, for all buses:
//
//	dS/dVm = diag(V) * conj(Ybus * diag(Vnorm)) + conj(diag(Ibus)) * diag(Vnorm)
//	dS/dVa = j * diag(V) * conj(diag(Ibus) - Ybus * diag(V))
//
// where Vnorm = V / |V|. A zero-magnitude voltage entry is a caller error.
func DSbusDV(ybus *network.CMatrix, v []complex128) (dSdVm, dSdVa *mat.CDense) {
	nb := len(v)
	ibus := ybus.MulVec(v)

	vnorm := make([]complex128, nb)
	for i := range v {
		vnorm[i] = v[i] / complex(cmplx.Abs(v[i]), 0)
	}

	dSdVm = mat.NewCDense(nb, nb, nil)
	dSdVa = mat.NewCDense(nb, nb, nil)
	for i := 0; i < nb; i++ {
		ybus.Row(i, func(j int, y complex128) {
			dSdVm.Set(i, j, dSdVm.At(i, j)+v[i]*cmplx.Conj(y*vnorm[j]))
			dSdVa.Set(i, j, dSdVa.At(i, j)-1i*v[i]*cmplx.Conj(y*v[j]))
		})
		dSdVm.Set(i, i, dSdVm.At(i, i)+cmplx.Conj(ibus[i])*vnorm[i])
		dSdVa.Set(i, i, dSdVa.At(i, i)+1i*v[i]*cmplx.Conj(ibus[i]))
	}
	return dSdVm, dSdVa
}

// Jacobian assembles the real reduced Newton matrix for the power mismatch
// equations: angle unknowns at pvpq buses, magnitude unknowns at pq buses.
//
//	J = [ Re dS/dVa[pvpq,pvpq]  Re dS/dVm[pvpq,pq] ]
//	    [ Im dS/dVa[pq,pvpq]    Im dS/dVm[pq,pq]   ]
func Jacobian(ybus *network.CMatrix, v []complex128, pvpq, pq []int) *mat.Dense {
	dSdVm, dSdVa := DSbusDV(ybus, v)

	na := len(pvpq)
	n := na + len(pq)
	j := mat.NewDense(n, n, nil)
	for r, bi := range pvpq {
		for c, bj := range pvpq {
			j.Set(r, c, real(dSdVa.At(bi, bj)))
		}
		for c, bj := range pq {
			j.Set(r, na+c, real(dSdVm.At(bi, bj)))
		}
	}
	for r, bi := range pq {
		for c, bj := range pvpq {
			j.Set(na+r, c, imag(dSdVa.At(bi, bj)))
		}
		for c, bj := range pq {
			j.Set(na+r, na+c, imag(dSdVm.At(bi, bj)))
		}
	}
	return j
}

// Mismatch evaluates the complex bus power mismatch V ∘ conj(Ybus·V) − Sbus.
func Mismatch(ybus *network.CMatrix, v, sbus []complex128) []complex128 {
	ibus := ybus.MulVec(v)
	mis := make([]complex128, len(v))
	for i := range v {
		mis[i] = v[i]*cmplx.Conj(ibus[i]) - sbus[i]
	}
	return mis
}

// Polar splits a complex voltage vector into magnitude and angle vectors.
func Polar(v []complex128) (vm, va []float64) {
	vm = make([]float64, len(v))
	va = make([]float64, len(v))
	for i, c := range v {
		vm[i] = cmplx.Abs(c)
		va[i] = cmplx.Phase(c)
	}
	return vm, va
}

// FromPolar reconstitutes a complex voltage vector from magnitudes and angles.
func FromPolar(vm, va []float64) []complex128 {
	v := make([]complex128, len(vm))
	for i := range vm {
		v[i] = cmplx.Rect(vm[i], va[i])
	}
	return v
}
