package export

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pmeridian/gridtrace/internal/cpf"
)

func sampleResult() *cpf.Result {
	return &cpf.Result{
		Lambdas: []float64{0.1, 0.2, 0.3},
		Voltages: [][]complex128{
			{1, 0.98},
			{1, 0.95},
			{1, 0.91},
		},
		Success: true,
		Steps:   3,
	}
}

func TestPVCurveSVG(t *testing.T) {
	svg := PVCurveSVG(sampleResult(), 1, 800, 500, "#00ff00")
	if !strings.HasPrefix(svg, `<?xml`) {
		t.Error("missing XML header")
	}
	if !strings.Contains(svg, `<path`) {
		t.Error("missing curve path")
	}
	if !strings.Contains(svg, "</svg>") {
		t.Error("unterminated document")
	}
	// one M plus one L per remaining point
	if got := strings.Count(svg, " L"); got != 2 {
		t.Errorf("expected 2 line segments, got %d", got)
	}
}

func TestPVCurveSVGTooShort(t *testing.T) {
	r := &cpf.Result{Lambdas: []float64{0.1}, Voltages: [][]complex128{{1, 1}}}
	if svg := PVCurveSVG(r, 0, 800, 500, "#00ff00"); svg != "" {
		t.Error("expected empty output for a single-point trajectory")
	}
}

func TestWritePVCurveSVG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "curve.svg")
	if err := WritePVCurveSVG(path, sampleResult(), 1); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back failed: %v", err)
	}
	if !strings.Contains(string(data), "<svg") {
		t.Error("file does not look like SVG")
	}
}
