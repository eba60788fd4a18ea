/*
Package sparse implements a simple type for sparse integer matrices.
It is used for LR(0) parsing tables, where most cells are empty.
Every entry in the matrix is either a single int32 or a pair (int32,int32).
The second value of a pair is used to keep a competing entry, e.g. the losing
side of a parsing conflict.

This implementation uses the COO algorithm (a.k.a. triplet-encoding), with
triplets kept sorted in row-major order.

   https://medium.com/@jmaxg3/101-ways-to-store-a-sparse-matrix-c7f2bf15a229


License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package sparse

import (
	"fmt"
	"sort"
)

// IntMatrix is a type for a sparse matrix of integer values. Construct with
//
//     M := NewIntMatrix(10, 10, -1)  // last parameter is M's null-value
//
// Now
//
//     M.Set(2, 3, 4711)              // set a value
//     v := M.Value(2, 3)             // returns 4711
//     M.Add(2, 3, 123)               // add a second value
//     cnt := M.ValueCount()          // still returns 1 (one position set)
//     v = M.Value(9, 9)              // returns -1, i.e. the null-value
//
// Values cannot be deleted, but may be overwritten with the null-value.
// Indices outside of the matrix' dimensions are ignored by Set and Add and
// yield the null-value on read.
type IntMatrix struct {
	values  []triplet
	rowcnt  int
	colcnt  int
	nullval int32
}

type triplet struct {
	row, col int
	value    intPair
}

// NewIntMatrix creates a new matrix for int, size m x n. The 3rd argument is
// a null-value, indicating empty entries (use DefaultNullValue if you haven't
// any specific requirements).
func NewIntMatrix(m, n int, nullValue int32) *IntMatrix {
	return &IntMatrix{
		values:  []triplet{},
		rowcnt:  m,
		colcnt:  n,
		nullval: nullValue,
	}
}

// DefaultNullValue is the default empty-value for matrices (min int32).
const DefaultNullValue = -2147483648

// M returns the row count.
func (m *IntMatrix) M() int {
	return m.rowcnt
}

// N returns the column count.
func (m *IntMatrix) N() int {
	return m.colcnt
}

// NullValue returns this matrix' null value
func (m *IntMatrix) NullValue() int32 {
	return m.nullval
}

// ValueCount returns the number of positions set in the matrix.
func (m *IntMatrix) ValueCount() int {
	return len(m.values)
}

// Value returns the primary value at position (i,j), or NullValue
func (m *IntMatrix) Value(i, j int) int32 {
	a, _ := m.Values(i, j)
	return a
}

// Values returns the pair of values at position (i,j), or (NullValue, NullValue)
func (m *IntMatrix) Values(i, j int) (int32, int32) {
	if k, found := m.find(i, j); found {
		return m.values[k].value.a, m.values[k].value.b
	}
	return m.nullval, m.nullval
}

// Set the primary value at position (i,j). A secondary value is cleared.
func (m *IntMatrix) Set(i, j int, value int32) *IntMatrix {
	return m.SetPair(i, j, value, m.nullval)
}

// SetPair sets both values at position (i,j).
func (m *IntMatrix) SetPair(i, j int, a, b int32) *IntMatrix {
	if !m.inside(i, j) {
		return m
	}
	k, found := m.find(i, j)
	if found {
		m.values[k].value = intPair{a, b}
		return m
	}
	m.insertAt(k, triplet{row: i, col: j, value: intPair{a, b}})
	return m
}

// Add a value at position (i,j). If the position is empty, value becomes the
// primary value. Otherwise it becomes the secondary value, overwriting any
// previous secondary value.
func (m *IntMatrix) Add(i, j int, value int32) *IntMatrix {
	if !m.inside(i, j) {
		return m
	}
	k, found := m.find(i, j)
	if !found {
		m.insertAt(k, triplet{row: i, col: j, value: intPair{value, m.nullval}})
		return m
	}
	v := m.values[k].value
	if v.a == m.nullval {
		v.a = value
	} else {
		v.b = value
	}
	m.values[k].value = v
	return m
}

// Each calls f for every position set, in row-major order.
func (m *IntMatrix) Each(f func(i, j int, a, b int32)) {
	for _, t := range m.values {
		f(t.row, t.col, t.value.a, t.value.b)
	}
}

func (m *IntMatrix) String() string {
	return fmt.Sprintf("IntMatrix(%d x %d, %d values)", m.rowcnt, m.colcnt, len(m.values))
}

func (m *IntMatrix) inside(i, j int) bool {
	return i >= 0 && i < m.rowcnt && j >= 0 && j < m.colcnt
}

// find returns the index of the triplet at (i,j), or the index where it
// would have to be inserted.
func (m *IntMatrix) find(i, j int) (int, bool) {
	k := sort.Search(len(m.values), func(n int) bool {
		return !m.values[n].storedLeftOf(i, j)
	})
	return k, k < len(m.values) && m.values[k].storedAt(i, j)
}

func (m *IntMatrix) insertAt(k int, t triplet) {
	// has to work for k being the right edge of values or not
	m.values = append(m.values, t)
	copy(m.values[k+1:], m.values[k:])
	m.values[k] = t
}

func (t *triplet) storedLeftOf(i, j int) bool {
	return t.row < i || t.row == i && t.col < j
}

func (t *triplet) storedAt(i, j int) bool {
	return t.row == i && t.col == j
}

// we will store 2 int32 in one position
type intPair struct {
	a int32
	b int32
}

func (pr intPair) String() string {
	return fmt.Sprintf("[%d,%d]", pr.a, pr.b)
}
