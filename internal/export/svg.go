// Package export renders trace results to standalone files.
package export

import (
	"fmt"
	"math/cmplx"
	"os"
	"strings"

	"github.com/pmeridian/gridtrace/internal/cpf"
)

// PVCurveSVG renders the lambda-voltage curve of one bus as a standalone SVG
// document.
func PVCurveSVG(result *cpf.Result, bus, width, height int, strokeColor string) string {
	if len(result.Lambdas) < 2 {
		return ""
	}

	xs := result.Lambdas
	ys := make([]float64, len(result.Voltages))
	for i, v := range result.Voltages {
		ys[i] = cmplx.Abs(v[bus])
	}

	minX, maxX := xs[0], xs[0]
	minY, maxY := ys[0], ys[0]
	for i := range xs {
		if xs[i] < minX {
			minX = xs[i]
		}
		if xs[i] > maxX {
			maxX = xs[i]
		}
		if ys[i] < minY {
			minY = ys[i]
		}
		if ys[i] > maxY {
			maxY = ys[i]
		}
	}

	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minX -= rangeX * 0.1
	maxX += rangeX * 0.1
	minY -= rangeY * 0.1
	maxY += rangeY * 0.1
	rangeX = maxX - minX
	rangeY = maxY - minY

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<path fill="none" stroke="%s" stroke-width="1.5" d="M`,
		width, height, width, height, strokeColor))

	for i := range xs {
		x := (xs[i] - minX) / rangeX * float64(width)
		y := float64(height) - (ys[i]-minY)/rangeY*float64(height)

		if i == 0 {
			sb.WriteString(fmt.Sprintf("%.1f,%.1f", x, y))
		} else {
			sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", x, y))
		}
	}

	sb.WriteString(`"/>
</svg>`)
	return sb.String()
}

// WritePVCurveSVG writes the bus PV curve to path.
func WritePVCurveSVG(path string, result *cpf.Result, bus int) error {
	svg := PVCurveSVG(result, bus, 800, 500, "#00ff00")
	if svg == "" {
		return fmt.Errorf("trajectory too short to plot")
	}
	return os.WriteFile(path, []byte(svg), 0644)
}
