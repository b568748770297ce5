package viz

import (
	"bytes"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/pmeridian/gridtrace/internal/cpf"
)

func TestRunLiveJoinsTraceGoroutine(t *testing.T) {
	m := NewLiveModel("feeder2")
	obs := m.Observer()

	want := &cpf.Result{
		Lambdas: []float64{0.1, 0.2},
		Success: true,
		Steps:   2,
		Reason:  "reached steady-state loading limit",
	}
	run := func() (*cpf.Result, error) {
		obs.OnStep(1, 0.1, 0.1, 3)
		obs.OnStep(2, 0.2, 0.1, 3)
		obs.OnDone(want.Reason, want.Steps)
		return want, nil
	}

	got, err := RunLive(m, run, tea.WithInput(&bytes.Buffer{}), tea.WithoutRenderer())
	if err != nil {
		t.Fatalf("live run failed: %v", err)
	}
	// the result assignment happens in the trace goroutine after OnDone quits
	// the view, so a non-nil result here means the goroutine was joined
	if got != want {
		t.Fatalf("expected the traced result back, got %v", got)
	}
	if !m.done || m.reason != want.Reason {
		t.Errorf("view did not record completion: done=%v reason=%q", m.done, m.reason)
	}
}

func TestRunLiveSurfacesTraceError(t *testing.T) {
	m := NewLiveModel("feeder2")
	obs := m.Observer()

	wantErr := errors.New("corrector linear solve failed")
	run := func() (*cpf.Result, error) {
		obs.OnDone("corrector linear solve failed", 1)
		return nil, wantErr
	}

	got, err := RunLive(m, run, tea.WithInput(&bytes.Buffer{}), tea.WithoutRenderer())
	if !errors.Is(err, wantErr) {
		t.Fatalf("expected the trace error back, got %v", err)
	}
	if got != nil {
		t.Errorf("expected nil result on failure, got %v", got)
	}
}
