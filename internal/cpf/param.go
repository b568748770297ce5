package cpf

import (
	"strings"

	"github.com/pmeridian/gridtrace/internal/network"
	"github.com/pmeridian/gridtrace/internal/powerflow"
)

// Parameterization selects the scalar constraint added to the Newton system to
// keep it well-posed near the nose point.
type Parameterization int

const (
	// Natural constrains the change in lambda itself.
	Natural Parameterization = iota + 1
	// ArcLength constrains the squared distance travelled in state space.
	ArcLength
	// PseudoArcLength constrains progress along the previous tangent direction.
	PseudoArcLength
)

func (p Parameterization) String() string {
	switch p {
	case Natural:
		return "natural"
	case ArcLength:
		return "arc"
	case PseudoArcLength:
		return "pseudo"
	default:
		return "unknown"
	}
}

func ParseParameterization(s string) (Parameterization, error) {
	switch strings.ToLower(s) {
	case "natural":
		return Natural, nil
	case "arc", "arclength", "arc-length":
		return ArcLength, nil
	case "pseudo", "pseudo-arc", "pseudo-arc-length":
		return PseudoArcLength, nil
	default:
		return 0, ErrBadParameterization
	}
}

// pValue evaluates the parameterization function P(x, lambda) at the current
// point. The tangent z is laid out as (Va of all buses, Vm of all buses,
// lambda); only the pvpq, nb+pq and 2*nb slots are ever nonzero.
func pValue(mode Parameterization, step float64, z []float64, v []complex128, lam float64, vprv []complex128, lamprv float64, sets network.IndexSets) float64 {
	switch mode {
	case Natural:
		if lam >= lamprv {
			return lam - lamprv - step
		}
		return lamprv - lam - step

	case ArcLength:
		vm, va := powerflow.Polar(v)
		vmprv, vaprv := powerflow.Polar(vprv)
		sum := 0.0
		for _, b := range sets.PVPQ() {
			d := va[b] - vaprv[b]
			sum += d * d
		}
		for _, b := range sets.PQ {
			d := vm[b] - vmprv[b]
			sum += d * d
		}
		d := lam - lamprv
		sum += d * d
		return sum - step*step

	default: // PseudoArcLength
		nb := len(v)
		vm, va := powerflow.Polar(v)
		vmprv, vaprv := powerflow.Polar(vprv)
		p := 0.0
		for _, b := range sets.PVPQ() {
			p += z[b] * (va[b] - vaprv[b])
		}
		for _, b := range sets.PQ {
			p += z[nb+b] * (vm[b] - vmprv[b])
		}
		p += z[2*nb] * (lam - lamprv)
		return p - step
	}
}

// pGradient evaluates the gradient of the parameterization function. dpdv is
// laid out like the reduced state: angles at pvpq buses, then magnitudes at pq
// buses. On the first arc-length step (lam == lamprv) the lambda derivative
// falls back to 1 to avoid a singular augmented Jacobian.
func pGradient(mode Parameterization, z []float64, v []complex128, lam float64, vprv []complex128, lamprv float64, sets network.IndexSets) (dpdv []float64, dpdlam float64) {
	pvpq := sets.PVPQ()
	n := len(pvpq) + len(sets.PQ)
	dpdv = make([]float64, n)

	switch mode {
	case Natural:
		if lam >= lamprv {
			dpdlam = 1
		} else {
			dpdlam = -1
		}

	case ArcLength:
		vm, va := powerflow.Polar(v)
		vmprv, vaprv := powerflow.Polar(vprv)
		for k, b := range pvpq {
			dpdv[k] = 2 * (va[b] - vaprv[b])
		}
		for k, b := range sets.PQ {
			dpdv[len(pvpq)+k] = 2 * (vm[b] - vmprv[b])
		}
		if lam == lamprv {
			dpdlam = 1
		} else {
			dpdlam = 2 * (lam - lamprv)
		}

	default: // PseudoArcLength
		nb := len(v)
		for k, b := range pvpq {
			dpdv[k] = z[b]
		}
		for k, b := range sets.PQ {
			dpdv[len(pvpq)+k] = z[nb+b]
		}
		dpdlam = z[2*nb]
	}
	return dpdv, dpdlam
}
