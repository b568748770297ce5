package store

import (
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/pmeridian/gridtrace/internal/cpf"
)

func sampleResult() *cpf.Result {
	return &cpf.Result{
		Lambdas: []float64{0.2, 0.4},
		Voltages: [][]complex128{
			{1, 0.97},
			{1, 0.93},
		},
		Success: true,
		Steps:   2,
		Reason:  "reached target lambda",
	}
}

func TestArchiveSaveLoad(t *testing.T) {
	a := NewArchive(t.TempDir())
	if err := a.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	opts := cpf.DefaultOptions()
	runID, err := a.Save("feeder9", opts, sampleResult())
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if runID == "" {
		t.Fatal("expected non-empty run id")
	}

	meta, err := a.Load(runID)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if meta.Case != "feeder9" {
		t.Errorf("expected case feeder9, got %q", meta.Case)
	}
	if !meta.Success {
		t.Error("expected success flag to survive")
	}
	if meta.MaxLambda != 0.4 {
		t.Errorf("expected max lambda 0.4, got %g", meta.MaxLambda)
	}

	lambdas, vm, err := a.LoadCurve(runID)
	if err != nil {
		t.Fatalf("load curve failed: %v", err)
	}
	if len(lambdas) != 2 || len(vm) != 2 {
		t.Fatalf("expected 2 curve rows, got %d lambdas, %d vm rows", len(lambdas), len(vm))
	}
	if math.Abs(lambdas[1]-0.4) > 1e-12 {
		t.Errorf("expected lambda 0.4, got %g", lambdas[1])
	}
	if math.Abs(vm[1][1]-0.93) > 1e-12 {
		t.Errorf("expected vm 0.93, got %g", vm[1][1])
	}
}

func TestArchiveList(t *testing.T) {
	a := NewArchive(t.TempDir())
	if err := a.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	runs, err := a.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("expected 0 runs, got %d", len(runs))
	}

	if _, err := a.Save("feeder9", cpf.DefaultOptions(), sampleResult()); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	runs, err = a.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 1 {
		t.Errorf("expected 1 run, got %d", len(runs))
	}
}

func TestArchiveFileStructure(t *testing.T) {
	dir := t.TempDir()
	a := NewArchive(dir)
	if err := a.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	runID, err := a.Save("feeder9", cpf.DefaultOptions(), sampleResult())
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	runDir := filepath.Join(dir, runID)
	if _, err := os.Stat(filepath.Join(runDir, "metadata.json")); os.IsNotExist(err) {
		t.Error("metadata.json not created")
	}
	if _, err := os.Stat(filepath.Join(runDir, "curve.csv")); os.IsNotExist(err) {
		t.Error("curve.csv not created")
	}
}

func TestExportJSONShape(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trace.json")
	if err := ExportJSON(path, "feeder9", cpf.DefaultOptions(), sampleResult()); err != nil {
		t.Fatalf("export failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back failed: %v", err)
	}
	var got ExportData
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if got.Case != "feeder9" || got.Steps != 2 || !got.Success {
		t.Errorf("unexpected export header: %+v", got)
	}
	if len(got.Vm) != 2 || len(got.Vm[0]) != 2 {
		t.Errorf("unexpected vm shape: %v", got.Vm)
	}
	if math.Abs(got.Vm[0][1]-0.97) > 1e-12 {
		t.Errorf("expected vm 0.97, got %g", got.Vm[0][1])
	}
}
