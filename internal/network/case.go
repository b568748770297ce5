package network

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Bus is one network node as it appears in a case file. Pd/Qd are load in MW/MVAr,
// Gs/Bs a fixed shunt in MW/MVAr at V=1, Vm/Va the initial magnitude (p.u.) and
// angle (degrees).
type Bus struct {
	Type BusType `yaml:"type"`
	Pd   float64 `yaml:"pd"`
	Qd   float64 `yaml:"qd"`
	Gs   float64 `yaml:"gs,omitempty"`
	Bs   float64 `yaml:"bs,omitempty"`
	Vm   float64 `yaml:"vm"`
	Va   float64 `yaml:"va"`
}

// Gen is a generator: bus index, scheduled output in MW/MVAr, voltage setpoint.
type Gen struct {
	Bus    int     `yaml:"bus"`
	Pg     float64 `yaml:"pg"`
	Qg     float64 `yaml:"qg"`
	Vg     float64 `yaml:"vg"`
	Status bool    `yaml:"status"`
}

// Branch is a transmission line or transformer in the standard Π model.
// R, X, B are in p.u. on the system base; Tap is the off-nominal turns ratio
// (0 means 1) and Shift the phase shift in degrees.
type Branch struct {
	From   int     `yaml:"from"`
	To     int     `yaml:"to"`
	R      float64 `yaml:"r"`
	X      float64 `yaml:"x"`
	B      float64 `yaml:"b,omitempty"`
	Tap    float64 `yaml:"tap,omitempty"`
	Shift  float64 `yaml:"shift,omitempty"`
	Status bool    `yaml:"status"`
}

// Case is a complete network description, the unit loaded from and saved to
// YAML case files.
type Case struct {
	Name     string   `yaml:"name"`
	BaseMVA  float64  `yaml:"base_mva"`
	Buses    []Bus    `yaml:"buses"`
	Gens     []Gen    `yaml:"gens"`
	Branches []Branch `yaml:"branches"`
}

func LoadCase(path string) (*Case, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	c := &Case{BaseMVA: 100}
	if err := yaml.Unmarshal(data, c); err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func SaveCase(path string, c *Case) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Case) Validate() error {
	nb := len(c.Buses)
	if nb == 0 {
		return ErrNoBuses
	}
	refs := 0
	for i, b := range c.Buses {
		switch b.Type {
		case RefBus:
			refs++
		case PVBus, PQBus:
		default:
			return fmt.Errorf("bus %d: %w", i, ErrBadBusType)
		}
	}
	if refs == 0 {
		return ErrNoRef
	}
	if refs > 1 {
		return ErrMultipleRef
	}
	for i, g := range c.Gens {
		if g.Bus < 0 || g.Bus >= nb {
			return fmt.Errorf("gen %d: %w", i, ErrBadGenBus)
		}
	}
	for i, br := range c.Branches {
		if br.From < 0 || br.From >= nb || br.To < 0 || br.To >= nb {
			return fmt.Errorf("branch %d: %w", i, ErrBadBranch)
		}
		if br.Status && br.R == 0 && br.X == 0 {
			return fmt.Errorf("branch %d: %w", i, ErrZeroImpedance)
		}
	}
	return nil
}

// Scale returns a copy of the case with all loads and in-service generator
// outputs multiplied by k. Used to synthesize a target case from a base case.
func (c *Case) Scale(k float64) *Case {
	out := *c
	out.Buses = make([]Bus, len(c.Buses))
	copy(out.Buses, c.Buses)
	out.Gens = make([]Gen, len(c.Gens))
	copy(out.Gens, c.Gens)
	for i := range out.Buses {
		out.Buses[i].Pd *= k
		out.Buses[i].Qd *= k
	}
	for i := range out.Gens {
		if out.Gens[i].Status {
			out.Gens[i].Pg *= k
		}
	}
	return &out
}
