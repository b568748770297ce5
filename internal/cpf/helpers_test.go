package cpf

import (
	"testing"

	"github.com/pmeridian/gridtrace/internal/network"
	"github.com/pmeridian/gridtrace/internal/powerflow"
)

// two-bus radial feeder: reference bus 0, PQ load at bus 1 over a lossless
// line with reactance 0.1 p.u. For a zero base and target load 2+1j the
// voltage quartic loses its real root at lam* ~ 1.545, the nose point.
func twoBusSystem(t *testing.T, baseP, baseQ, targetP, targetQ float64) (*network.CMatrix, []complex128, []complex128, []complex128, network.IndexSets) {
	t.Helper()

	y := complex(0, -10) // 1/(j*0.1)
	ybus := network.NewCMatrixFromDense([][]complex128{
		{y, -y},
		{-y, y},
	})
	sbase := []complex128{0, -complex(baseP, baseQ)}
	starget := []complex128{0, -complex(targetP, targetQ)}
	sets := network.IndexSets{Ref: []int{0}, PQ: []int{1}}

	vbase, converged, _, _, err := powerflow.NewtonPF(ybus, sbase, []complex128{1, 1}, sets, 1e-10, 20, nil)
	if err != nil || !converged {
		t.Fatalf("base case did not solve: converged=%v err=%v", converged, err)
	}
	return ybus, sbase, starget, vbase, sets
}

// stepRecorder captures accepted continuation steps.
type stepRecorder struct {
	lambdas []float64
	sizes   []float64
	iters   []int
	reason  string
}

func (r *stepRecorder) OnIteration(it int, normF float64) {}

func (r *stepRecorder) OnStep(step int, lam, stepSize float64, iters int) {
	r.lambdas = append(r.lambdas, lam)
	r.sizes = append(r.sizes, stepSize)
	r.iters = append(r.iters, iters)
}

func (r *stepRecorder) OnDone(reason string, steps int) { r.reason = reason }
