package network

import "sort"

// CMatrix is a square complex sparse matrix in compressed sparse row form.
// It is immutable once built; construction goes through CBuilder.
type CMatrix struct {
	n      int
	rowPtr []int
	colInd []int
	values []complex128
}

type centry struct {
	col int
	val complex128
}

// CBuilder accumulates entries for a CMatrix. Adding to the same
// position twice sums the values, which is what admittance stamping needs.
type CBuilder struct {
	n    int
	rows []map[int]complex128
}

func NewCBuilder(n int) *CBuilder {
	rows := make([]map[int]complex128, n)
	for i := range rows {
		rows[i] = make(map[int]complex128)
	}
	return &CBuilder{n: n, rows: rows}
}

func (b *CBuilder) Add(i, j int, v complex128) {
	b.rows[i][j] += v
}

func (b *CBuilder) Build() *CMatrix {
	m := &CMatrix{
		n:      b.n,
		rowPtr: make([]int, b.n+1),
	}
	for i, row := range b.rows {
		entries := make([]centry, 0, len(row))
		for j, v := range row {
			if v != 0 {
				entries = append(entries, centry{col: j, val: v})
			}
		}
		sort.Slice(entries, func(a, c int) bool { return entries[a].col < entries[c].col })
		for _, e := range entries {
			m.colInd = append(m.colInd, e.col)
			m.values = append(m.values, e.val)
		}
		m.rowPtr[i+1] = len(m.colInd)
	}
	return m
}

// NewCMatrixFromDense builds a CMatrix from a dense row-major [][]complex128.
func NewCMatrixFromDense(a [][]complex128) *CMatrix {
	b := NewCBuilder(len(a))
	for i, row := range a {
		for j, v := range row {
			if v != 0 {
				b.Add(i, j, v)
			}
		}
	}
	return b.Build()
}

func (m *CMatrix) Dim() int { return m.n }

// NNZ returns the number of stored entries.
func (m *CMatrix) NNZ() int { return len(m.values) }

func (m *CMatrix) At(i, j int) complex128 {
	for k := m.rowPtr[i]; k < m.rowPtr[i+1]; k++ {
		if m.colInd[k] == j {
			return m.values[k]
		}
	}
	return 0
}

// MulVec computes y = M*x.
func (m *CMatrix) MulVec(x []complex128) []complex128 {
	y := make([]complex128, m.n)
	for i := 0; i < m.n; i++ {
		var s complex128
		for k := m.rowPtr[i]; k < m.rowPtr[i+1]; k++ {
			s += m.values[k] * x[m.colInd[k]]
		}
		y[i] = s
	}
	return y
}

// Row calls fn for every stored entry (j, v) of row i.
func (m *CMatrix) Row(i int, fn func(j int, v complex128)) {
	for k := m.rowPtr[i]; k < m.rowPtr[i+1]; k++ {
		fn(m.colInd[k], m.values[k])
	}
}
