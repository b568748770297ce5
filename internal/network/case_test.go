package network

import (
	"errors"
	"path/filepath"
	"testing"
)

func validCase() *Case {
	return &Case{
		Name:    "two-bus",
		BaseMVA: 100,
		Buses: []Bus{
			{Type: RefBus, Vm: 1},
			{Type: PQBus, Pd: 50, Qd: 20, Vm: 1},
		},
		Gens: []Gen{
			{Bus: 0, Pg: 50, Vg: 1, Status: true},
		},
		Branches: []Branch{
			{From: 0, To: 1, R: 0.01, X: 0.1, Status: true},
		},
	}
}

func TestCaseRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "case.yaml")
	orig := validCase()

	if err := SaveCase(path, orig); err != nil {
		t.Fatalf("save: %v", err)
	}
	loaded, err := LoadCase(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if loaded.Name != orig.Name {
		t.Errorf("expected name %q, got %q", orig.Name, loaded.Name)
	}
	if len(loaded.Buses) != 2 || len(loaded.Branches) != 1 || len(loaded.Gens) != 1 {
		t.Errorf("unexpected shape after round trip: %+v", loaded)
	}
	if loaded.Buses[1].Pd != 50 {
		t.Errorf("expected Pd 50, got %g", loaded.Buses[1].Pd)
	}
	if loaded.Branches[0].X != 0.1 {
		t.Errorf("expected X 0.1, got %g", loaded.Branches[0].X)
	}
}

func TestCaseValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Case)
		want   error
	}{
		{"no buses", func(c *Case) { c.Buses = nil }, ErrNoBuses},
		{"no ref", func(c *Case) { c.Buses[0].Type = PQBus }, ErrNoRef},
		{"two refs", func(c *Case) { c.Buses[1].Type = RefBus }, ErrMultipleRef},
		{"bad type", func(c *Case) { c.Buses[1].Type = "slack" }, ErrBadBusType},
		{"gen off grid", func(c *Case) { c.Gens[0].Bus = 7 }, ErrBadGenBus},
		{"branch off grid", func(c *Case) { c.Branches[0].To = -1 }, ErrBadBranch},
		{"zero impedance", func(c *Case) { c.Branches[0].R = 0; c.Branches[0].X = 0 }, ErrZeroImpedance},
	}
	for _, tt := range tests {
		c := validCase()
		tt.mutate(c)
		if err := c.Validate(); !errors.Is(err, tt.want) {
			t.Errorf("%s: expected %v, got %v", tt.name, tt.want, err)
		}
	}
	if err := validCase().Validate(); err != nil {
		t.Errorf("valid case rejected: %v", err)
	}
}

func TestCaseScale(t *testing.T) {
	c := validCase()
	scaled := c.Scale(2)

	if scaled.Buses[1].Pd != 100 || scaled.Buses[1].Qd != 40 {
		t.Errorf("expected doubled load, got Pd=%g Qd=%g", scaled.Buses[1].Pd, scaled.Buses[1].Qd)
	}
	if scaled.Gens[0].Pg != 100 {
		t.Errorf("expected doubled generation, got %g", scaled.Gens[0].Pg)
	}
	if c.Buses[1].Pd != 50 {
		t.Errorf("original case mutated: Pd=%g", c.Buses[1].Pd)
	}
}
