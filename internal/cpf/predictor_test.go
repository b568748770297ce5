package cpf

import (
	"math"
	"testing"
)

func tangentNorm(z []float64) float64 {
	s := 0.0
	for _, x := range z {
		s += x * x
	}
	return math.Sqrt(s)
}

func TestPredictorTangentNormalized(t *testing.T) {
	ybus, sbase, starget, vbase, sets := twoBusSystem(t, 0, 0, 2, 1)
	sxfr := make([]complex128, len(sbase))
	for i := range sxfr {
		sxfr[i] = starget[i] - sbase[i]
	}

	nb := len(vbase)
	z := make([]float64, 2*nb+1)
	z[2*nb] = 1

	v, lam := vbase, 0.0
	vprv, lamprv := vbase, 0.0
	for step := 0; step < 5; step++ {
		v0, lam0, znew, err := predict(v, lam, ybus, sxfr, sets, 0.1, z, vprv, lamprv, PseudoArcLength)
		if err != nil {
			t.Fatalf("predictor failed at step %d: %v", step, err)
		}
		if n := tangentNorm(znew); math.Abs(n-1) > 1e-12 {
			t.Errorf("step %d: expected unit tangent, got norm %g", step, n)
		}
		z = znew
		vprv, lamprv = v, lam

		// walk the trial point forward without correcting; the tangent must
		// stay well defined along the upper branch
		v, lam = v0, lam0
	}
}

func TestPredictorFirstStepIncreasesLambda(t *testing.T) {
	ybus, sbase, starget, vbase, sets := twoBusSystem(t, 0, 0, 2, 1)
	sxfr := make([]complex128, len(sbase))
	for i := range sxfr {
		sxfr[i] = starget[i] - sbase[i]
	}

	nb := len(vbase)
	z := make([]float64, 2*nb+1)
	z[2*nb] = 1

	_, lam0, znew, err := predict(vbase, 0, ybus, sxfr, sets, 0.1, z, vbase, 0, Natural)
	if err != nil {
		t.Fatalf("predictor failed: %v", err)
	}
	if znew[2*nb] <= 0 {
		t.Errorf("expected positive lambda tangent component, got %g", znew[2*nb])
	}
	if lam0 <= 0 {
		t.Errorf("expected trial lambda above zero, got %g", lam0)
	}
}

func TestPredictorKeepsRefEntriesZero(t *testing.T) {
	ybus, sbase, starget, vbase, sets := twoBusSystem(t, 0, 0, 2, 1)
	sxfr := make([]complex128, len(sbase))
	for i := range sxfr {
		sxfr[i] = starget[i] - sbase[i]
	}

	nb := len(vbase)
	z := make([]float64, 2*nb+1)
	z[2*nb] = 1

	_, _, znew, err := predict(vbase, 0, ybus, sxfr, sets, 0.1, z, vbase, 0, Natural)
	if err != nil {
		t.Fatalf("predictor failed: %v", err)
	}
	// the reference bus angle and the ref/pv magnitudes are not unknowns
	if znew[0] != 0 {
		t.Errorf("expected zero tangent at the reference angle, got %g", znew[0])
	}
	if znew[nb] != 0 {
		t.Errorf("expected zero tangent at the reference magnitude, got %g", znew[nb])
	}
}
