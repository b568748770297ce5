package network

import (
	"math"
	"math/cmplx"
	"testing"
)

func TestCBuilderAccumulates(t *testing.T) {
	b := NewCBuilder(2)
	b.Add(0, 0, 1+2i)
	b.Add(0, 0, 3-1i)
	b.Add(1, 0, -2i)
	m := b.Build()

	if got := m.At(0, 0); got != 4+1i {
		t.Errorf("expected accumulated entry 4+1i, got %v", got)
	}
	if got := m.At(1, 0); got != -2i {
		t.Errorf("expected -2i, got %v", got)
	}
	if got := m.At(0, 1); got != 0 {
		t.Errorf("expected structural zero, got %v", got)
	}
	if m.NNZ() != 2 {
		t.Errorf("expected 2 stored entries, got %d", m.NNZ())
	}
}

func TestCMatrixMulVec(t *testing.T) {
	m := NewCMatrixFromDense([][]complex128{
		{1 + 1i, 0, 2},
		{0, -3i, 0},
		{1, 0, 1 - 1i},
	})
	x := []complex128{1, 1i, -1}
	y := m.MulVec(x)

	want := []complex128{
		(1 + 1i) - 2,
		-3i * 1i,
		1 - (1 - 1i),
	}
	for i := range want {
		if cmplx.Abs(y[i]-want[i]) > 1e-15 {
			t.Errorf("y[%d]: expected %v, got %v", i, want[i], y[i])
		}
	}
}

func TestCMatrixRowVisitsAllEntries(t *testing.T) {
	m := NewCMatrixFromDense([][]complex128{
		{1, 2, 0},
		{0, 0, 0},
		{0, 5i, 6},
	})
	var sum complex128
	for i := 0; i < m.Dim(); i++ {
		m.Row(i, func(j int, v complex128) { sum += v })
	}
	if math.Abs(real(sum)-9) > 1e-15 || math.Abs(imag(sum)-5) > 1e-15 {
		t.Errorf("expected entry sum 9+5i, got %v", sum)
	}
}
