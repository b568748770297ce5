package network

import (
	"math"
	"math/cmplx"
)

const deg = math.Pi / 180

// BuildYbus assembles the bus admittance matrix from the case branch and shunt
// data using the standard Π branch model with off-nominal taps and phase shifts.
func BuildYbus(c *Case) *CMatrix {
	nb := len(c.Buses)
	b := NewCBuilder(nb)

	for _, br := range c.Branches {
		if !br.Status {
			continue
		}
		ys := 1 / complex(br.R, br.X)
		bc := complex(0, br.B/2)
		tap := br.Tap
		if tap == 0 {
			tap = 1
		}
		t := cmplx.Rect(tap, br.Shift*deg)

		yff := (ys + bc) / (t * cmplx.Conj(t))
		yft := -ys / cmplx.Conj(t)
		ytf := -ys / t
		ytt := ys + bc

		b.Add(br.From, br.From, yff)
		b.Add(br.From, br.To, yft)
		b.Add(br.To, br.From, ytf)
		b.Add(br.To, br.To, ytt)
	}

	for i, bus := range c.Buses {
		if bus.Gs != 0 || bus.Bs != 0 {
			b.Add(i, i, complex(bus.Gs, bus.Bs)/complex(c.BaseMVA, 0))
		}
	}

	return b.Build()
}

// BuildSbus computes the complex bus injection vector (generation minus load)
// in per unit on the system base.
func BuildSbus(c *Case) []complex128 {
	sbus := make([]complex128, len(c.Buses))
	for i, bus := range c.Buses {
		sbus[i] -= complex(bus.Pd, bus.Qd)
	}
	for _, g := range c.Gens {
		if g.Status {
			sbus[g.Bus] += complex(g.Pg, g.Qg)
		}
	}
	for i := range sbus {
		sbus[i] /= complex(c.BaseMVA, 0)
	}
	return sbus
}

// BusIndexSets classifies the buses of a case into the reference, PV and PQ sets.
func BusIndexSets(c *Case) (IndexSets, error) {
	var sets IndexSets
	if err := c.Validate(); err != nil {
		return sets, err
	}
	for i, b := range c.Buses {
		switch b.Type {
		case RefBus:
			sets.Ref = append(sets.Ref, i)
		case PVBus:
			sets.PV = append(sets.PV, i)
		case PQBus:
			sets.PQ = append(sets.PQ, i)
		}
	}
	return sets, nil
}

// InitialVoltage builds the starting complex voltage vector from the case bus
// data, with generator voltage setpoints applied at voltage-controlled buses.
func InitialVoltage(c *Case) []complex128 {
	v := make([]complex128, len(c.Buses))
	for i, b := range c.Buses {
		vm := b.Vm
		if vm == 0 {
			vm = 1
		}
		v[i] = cmplx.Rect(vm, b.Va*deg)
	}
	for _, g := range c.Gens {
		if !g.Status || g.Vg == 0 {
			continue
		}
		if c.Buses[g.Bus].Type == PQBus {
			continue
		}
		// keep the angle, impose the setpoint magnitude
		v[g.Bus] = v[g.Bus] * complex(g.Vg/cmplx.Abs(v[g.Bus]), 0)
	}
	return v
}
