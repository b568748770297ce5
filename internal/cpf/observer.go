package cpf

import (
	"fmt"
	"io"
)

// Observer receives progress events from a continuation run. The numeric core
// never prints; all reporting goes through observers.
type Observer interface {
	// OnIteration fires after each corrector Newton iteration.
	OnIteration(it int, normF float64)
	// OnStep fires after each accepted continuation step.
	OnStep(step int, lam, stepSize float64, iters int)
	// OnDone fires once when the run terminates.
	OnDone(reason string, steps int)
}

// observers fans events out to a list.
type observers []Observer

func (os observers) OnIteration(it int, normF float64) {
	for _, o := range os {
		o.OnIteration(it, normF)
	}
}

func (os observers) OnStep(step int, lam, stepSize float64, iters int) {
	for _, o := range os {
		o.OnStep(step, lam, stepSize, iters)
	}
}

func (os observers) OnDone(reason string, steps int) {
	for _, o := range os {
		o.OnDone(reason, steps)
	}
}

// VerboseObserver writes progress to w according to a verbosity level:
// 0 silent, 1 a line per accepted step and a summary, >=2 per-iteration detail.
type VerboseObserver struct {
	w     io.Writer
	level int
}

func NewVerboseObserver(w io.Writer, level int) *VerboseObserver {
	return &VerboseObserver{w: w, level: level}
}

func (o *VerboseObserver) OnIteration(it int, normF float64) {
	if o.level >= 2 {
		fmt.Fprintf(o.w, "  it %3d  normF %10.3e\n", it, normF)
	}
}

func (o *VerboseObserver) OnStep(step int, lam, stepSize float64, iters int) {
	if o.level >= 1 {
		fmt.Fprintf(o.w, "step %3d: lambda = %.6f  step = %.4g  (%d corrector iterations)\n", step, lam, stepSize, iters)
	}
}

func (o *VerboseObserver) OnDone(reason string, steps int) {
	if o.level >= 1 {
		fmt.Fprintf(o.w, "%s in %d continuation steps\n", reason, steps)
	}
}
