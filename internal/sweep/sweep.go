// Package sweep runs batches of continuation traces over a range of load
// scale factors, one concurrent trace per factor, to build a loading-margin
// profile for a case.
package sweep

import (
	"context"
	"fmt"
	"sync"

	"github.com/pmeridian/gridtrace/internal/cpf"
	"github.com/pmeridian/gridtrace/internal/network"
	"github.com/pmeridian/gridtrace/internal/powerflow"
)

// Point is the outcome of one trace in a sweep.
type Point struct {
	Scale     float64
	MaxLambda float64
	Steps     int
	Success   bool
	Reason    string
}

// Sweep traces the same base case toward targets at different load scale
// factors. The base power flow is solved once; each scale factor then gets an
// independent tracer sharing the read-only network model.
type Sweep struct {
	ybus  *network.CMatrix
	sbase []complex128
	vbase []complex128
	sets  network.IndexSets
	cs    *network.Case
}

// New prepares a sweep over cs. The base case power flow is solved here; a
// non-convergent base case is an error.
func New(cs *network.Case, tol float64, maxIt int) (*Sweep, error) {
	ybus := network.BuildYbus(cs)
	sets, err := network.BusIndexSets(cs)
	if err != nil {
		return nil, err
	}
	sbase := network.BuildSbus(cs)
	v0 := network.InitialVoltage(cs)

	vbase, converged, _, _, err := powerflow.NewtonPF(ybus, sbase, v0, sets, tol, maxIt, nil)
	if err != nil {
		return nil, err
	}
	if !converged {
		return nil, fmt.Errorf("%w: base case", powerflow.ErrNotConverged)
	}

	return &Sweep{ybus: ybus, sbase: sbase, vbase: vbase, sets: sets, cs: cs}, nil
}

// Run traces one continuation curve per scale factor and returns the points
// in the same order. The first trace error cancels nothing; all traces run to
// completion and the first error is returned.
func (s *Sweep) Run(ctx context.Context, scales []float64, opts cpf.Options) ([]Point, error) {
	points := make([]Point, len(scales))
	errs := make([]error, len(scales))

	var wg sync.WaitGroup
	for i, scale := range scales {
		wg.Add(1)
		go func(idx int, k float64) {
			defer wg.Done()

			if err := ctx.Err(); err != nil {
				errs[idx] = err
				return
			}

			starget := network.BuildSbus(s.cs.Scale(k))
			tracer := cpf.New(s.ybus, s.sbase, starget, s.vbase, s.sets)
			res, err := tracer.Run(opts)
			if err != nil {
				errs[idx] = err
				return
			}
			points[idx] = Point{
				Scale:     k,
				MaxLambda: res.MaxLambda(),
				Steps:     res.Steps,
				Success:   res.Success,
				Reason:    res.Reason,
			}
		}(i, scale)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return points, nil
}

// Linspace returns n evenly spaced scale factors from lo to hi inclusive.
func Linspace(lo, hi float64, n int) []float64 {
	if n <= 1 {
		return []float64{lo}
	}
	out := make([]float64, n)
	step := (hi - lo) / float64(n-1)
	for i := range out {
		out[i] = lo + float64(i)*step
	}
	return out
}
