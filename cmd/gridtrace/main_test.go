package main

import (
	"bytes"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pmeridian/gridtrace/internal/cpf"
	"github.com/pmeridian/gridtrace/internal/network"
)

func writeFeederCase(t *testing.T) string {
	t.Helper()
	c := &network.Case{
		Name:    "feeder2",
		BaseMVA: 100,
		Buses: []network.Bus{
			{Type: network.RefBus, Vm: 1, Va: 0},
			{Type: network.PQBus, Pd: 20, Qd: 10, Vm: 1},
		},
		Gens: []network.Gen{
			{Bus: 0, Vg: 1, Status: true},
		},
		Branches: []network.Branch{
			{From: 0, To: 1, X: 0.1, Status: true},
		},
	}
	path := filepath.Join(t.TempDir(), "feeder2.yaml")
	if err := network.SaveCase(path, c); err != nil {
		t.Fatalf("write case failed: %v", err)
	}
	return path
}

func TestTraceRejectsInvalidOptions(t *testing.T) {
	casePath := writeFeederCase(t)

	root := newRootCmd()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs([]string{"trace", casePath, "--step=-1"})

	err := root.Execute()
	if err == nil {
		t.Fatal("expected an error for a negative step")
	}
	if !errors.Is(err, cpf.ErrBadOptions) {
		t.Errorf("expected ErrBadOptions, got %v", err)
	}
	if !strings.Contains(err.Error(), "step must be positive") {
		t.Errorf("unexpected error text: %v", err)
	}
}
