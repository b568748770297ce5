package cpf

import (
	"math"

	"github.com/pmeridian/gridtrace/internal/network"
	"github.com/pmeridian/gridtrace/internal/powerflow"
)

// lambda values closer to a stop target than this count as having reached it
const stopTol = 1e-8

// Tracer runs the outer predictor-corrector continuation loop over a fixed
// network. The admittance matrix, injection vectors and bus sets are
// referenced, not copied, and must not change during a run. Independent
// Tracers are safe to run concurrently; a single Tracer is not.
type Tracer struct {
	ybus    *network.CMatrix
	sbase   []complex128
	starget []complex128
	vbase   []complex128
	sets    network.IndexSets
	obs     observers
}

// New builds a Tracer from the base-case network model and an
// already-converged base-case voltage solution.
func New(ybus *network.CMatrix, sbase, starget, vbase []complex128, sets network.IndexSets) *Tracer {
	return &Tracer{
		ybus:    ybus,
		sbase:   sbase,
		starget: starget,
		vbase:   vbase,
		sets:    sets,
	}
}

func (t *Tracer) AddObserver(o Observer) { t.obs = append(t.obs, o) }

// Run traces the continuation curve from lambda = 0 until the stopping rule
// fires or the corrector fails. The partial trajectory is always returned;
// Success reports whether the run ended by its stopping rule rather than by a
// corrector or linear-solve failure.
func (t *Tracer) Run(opts Options) (*Result, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}

	nb := len(t.sbase)
	sxfr := make([]complex128, nb)
	for i := range sxfr {
		sxfr[i] = t.starget[i] - t.sbase[i]
	}

	v := make([]complex128, nb)
	copy(v, t.vbase)
	vPrev := make([]complex128, nb)
	copy(vPrev, t.vbase)
	lam, lamPrev := 0.0, 0.0

	step := opts.Step
	mode := opts.Parameterization
	adapt := opts.AdaptStep

	// start the tangent as the unit vector in the lambda direction
	z := make([]float64, 2*nb+1)
	z[2*nb] = 1

	res := &Result{Success: true}
	pvpq := t.sets.PVPQ()
	pq := t.sets.PQ

	for {
		res.Steps++

		v0, lam0, znew, err := predict(v, lam, t.ybus, sxfr, t.sets, step, z, vPrev, lamPrev, mode)
		if err != nil {
			res.Success = false
			res.Reason = "predictor linear solve failed"
			t.obs.OnDone(res.Reason, res.Steps)
			return res, err
		}
		z = znew

		copy(vPrev, v)
		lamPrev = lam

		var converged bool
		var iters int
		v, converged, iters, lam, res.NormF, err = correct(t.ybus, t.sbase, v0, t.sets, lam0, sxfr, vPrev, lamPrev, z, step, mode, opts.Tol, opts.MaxIt, t.obs)
		if err != nil {
			res.Success = false
			res.Reason = "corrector linear solve failed"
			t.obs.OnDone(res.Reason, res.Steps)
			return res, err
		}
		if !converged {
			res.Success = false
			res.Reason = "corrector did not converge"
			t.obs.OnDone(res.Reason, res.Steps)
			return res, nil
		}

		res.Voltages = append(res.Voltages, append([]complex128(nil), v...))
		res.Lambdas = append(res.Lambdas, lam)
		t.obs.OnStep(res.Steps, lam, step, iters)

		done := false
		switch opts.StopAt.Mode {
		case StopFull:
			if math.Abs(lam) < stopTol {
				res.Reason = "traced full continuation curve"
				done = true
			} else if lam < lamPrev && lam-step < 0 {
				// next step would overshoot past zero: land on it exactly
				step = lam
				mode = Natural
				adapt = false
			}
		case StopNose:
			if lam < lamPrev {
				res.Reason = "reached steady-state loading limit"
				done = true
			}
		case StopLambda:
			target := opts.StopAt.Lambda
			if lam < lamPrev {
				res.Reason = "reached steady-state loading limit before target"
				done = true
			} else if math.Abs(target-lam) < stopTol {
				res.Reason = "reached target lambda"
				done = true
			} else if lam+step > target {
				// next step would overshoot the target: land on it exactly
				step = target - lam
				mode = Natural
				adapt = false
			}
		}
		if done {
			t.obs.OnDone(res.Reason, res.Steps)
			return res, nil
		}

		if adapt {
			step = adaptStep(step, v, v0, lam, lam0, pvpq, pq, opts)
		}
	}
}

// adaptStep grows or shrinks the step by the ratio of the target prediction
// error to the observed one, clamped to [StepMin, StepMax]. The error is the
// infinity norm of corrected minus predicted over (Va at pq buses, Vm at pvpq
// buses, lambda).
func adaptStep(step float64, v, v0 []complex128, lam, lam0 float64, pvpq, pq []int, opts Options) float64 {
	vm, va := powerflow.Polar(v)
	vm0, va0 := powerflow.Polar(v0)

	cpfErr := math.Abs(lam - lam0)
	for _, b := range pq {
		if d := math.Abs(va[b] - va0[b]); d > cpfErr {
			cpfErr = d
		}
	}
	for _, b := range pvpq {
		if d := math.Abs(vm[b] - vm0[b]); d > cpfErr {
			cpfErr = d
		}
	}

	if cpfErr == 0 {
		return opts.StepMax
	}
	step *= opts.ErrorTol / cpfErr
	if step > opts.StepMax {
		step = opts.StepMax
	}
	if step < opts.StepMin {
		step = opts.StepMin
	}
	return step
}
