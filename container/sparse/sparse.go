/*
Package sparse implements a sparse integer matrix, ported from
github.com/npillmayer/gorgo/lr/sparse, for large, mostly-empty matrices
over small integer domains. No other package of this module imports it:
the LR(1) tables (lr1, parser) and pushdown.Times use their own maps and
lists.

This implementation uses the COO algorithm (a.k.a. triplet encoding):

	https://medium.com/@jmaxg3/101-ways-to-store-a-sparse-matrix-c7f2bf15a229

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.
*/
package sparse

import "fmt"

// IntMatrix is a sparse matrix of int32 values. Construct with
//
//	m := NewIntMatrix(10, 10, -1) // last argument is the null value
//
// Values cannot be deleted, but may be overwritten with the null value.
// Space for overwritten values is not reclaimed.
type IntMatrix struct {
	values  []triplet
	rowcnt  int
	colcnt  int
	nullval int32
}

type triplet struct {
	row, col int
	value    int32
}

// NewIntMatrix creates an m x n matrix. nullValue denotes an empty entry;
// use DefaultNullValue absent other requirements.
func NewIntMatrix(m, n int, nullValue int32) *IntMatrix {
	return &IntMatrix{values: []triplet{}, rowcnt: m, colcnt: n, nullval: nullValue}
}

// DefaultNullValue is the conventional empty-entry value (min int32).
const DefaultNullValue = -2147483648

func (m *IntMatrix) M() int { return m.rowcnt }
func (m *IntMatrix) N() int { return m.colcnt }

// NullValue returns this matrix's null value.
func (m *IntMatrix) NullValue() int32 { return m.nullval }

// ValueCount returns the number of populated entries.
func (m *IntMatrix) ValueCount() int { return len(m.values) }

func (m *IntMatrix) find(i, j int) int {
	lo, hi := 0, len(m.values)
	for lo < hi {
		mid := (lo + hi) / 2
		t := m.values[mid]
		if t.row < i || (t.row == i && t.col < j) {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	return lo
}

// Value returns the value at (i,j), or NullValue if unset.
func (m *IntMatrix) Value(i, j int) int32 {
	at := m.find(i, j)
	if at < len(m.values) && m.values[at].row == i && m.values[at].col == j {
		return m.values[at].value
	}
	return m.nullval
}

// Set stores a value at (i,j), overwriting any previous value.
func (m *IntMatrix) Set(i, j int, value int32) *IntMatrix {
	at := m.find(i, j)
	if at < len(m.values) && m.values[at].row == i && m.values[at].col == j {
		m.values[at].value = value
		return m
	}
	m.values = append(m.values, triplet{})
	copy(m.values[at+1:], m.values[at:])
	m.values[at] = triplet{row: i, col: j, value: value}
	return m
}

func (m *IntMatrix) String() string {
	return fmt.Sprintf("sparse.IntMatrix[%dx%d, %d values]", m.rowcnt, m.colcnt, len(m.values))
}
