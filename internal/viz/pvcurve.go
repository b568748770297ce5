package viz

import (
	"fmt"
	"math/cmplx"

	"github.com/guptarohit/asciigraph"

	"github.com/pmeridian/gridtrace/internal/cpf"
)

// PVCurve renders the nose curve of one bus: voltage magnitude over the
// accepted continuation steps.
func PVCurve(result *cpf.Result, bus, width, height int) string {
	if len(result.Voltages) == 0 {
		return "(empty trajectory)"
	}
	vm := make([]float64, len(result.Voltages))
	for i, v := range result.Voltages {
		vm[i] = cmplx.Abs(v[bus])
	}
	return asciigraph.Plot(vm,
		asciigraph.Width(width),
		asciigraph.Height(height),
		asciigraph.Caption(fmt.Sprintf("bus %d |V| per continuation step", bus)))
}

// LambdaCurve renders the loading parameter over the accepted steps; the peak
// is the nose point.
func LambdaCurve(result *cpf.Result, width, height int) string {
	if len(result.Lambdas) == 0 {
		return "(empty trajectory)"
	}
	return asciigraph.Plot(result.Lambdas,
		asciigraph.Width(width),
		asciigraph.Height(height),
		asciigraph.Caption("lambda per continuation step"))
}
