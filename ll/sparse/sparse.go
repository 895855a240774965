/*
Package sparse stores LL(1) parsing tables.

An LL(1) table has a row for every non-terminal and a column for every
terminal, but most cells are empty: a non-terminal usually can be expanded
for a handful of lookahead terminals only. IntMatrix therefore keeps just the
occupied cells, as a list of (row, column, value) entries in row-major order
(coordinate format). A cell holds the serial number of the rule to expand,
plus room for one more serial, which is where a table builder records an LL(1)
conflict. All cells of a non-terminal's row are adjacent in the list, which
makes walking a row cheap.

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

// IntMatrix is a sparse table of rule serials, indexed by (non-terminal, terminal).
//
//     M := NewIntMatrix(nonterms, terms, DefaultNullValue)
//     M.Set(N, a, 3)      // expand N with rule #3 on lookahead a
//     M.Add(N, a, 5)      // rule #5 claims the same cell: a conflict
//     r1, r2 := M.Values(N, a)
//
// There is no removal of cells. Overwriting a cell with the null value blanks
// it, and EachInRow will not report it any more.
type IntMatrix struct {
	cells   []cell // sorted by (row, col)
	rowcnt  int
	colcnt  int
	nullval int32
}

type cell struct {
	row, col int
	a, b     int32 // rule serial; conflicting serial or null
}

func (c cell) before(i, j int) bool {
	return c.row < i || c.row == i && c.col < j
}

func (c cell) at(i, j int) bool {
	return c.row == i && c.col == j
}

// NewIntMatrix creates an empty table with m rows and n columns. Empty cells
// read as nullValue, which must not be a valid rule serial.
func NewIntMatrix(m, n int, nullValue int32) *IntMatrix {
	return &IntMatrix{
		rowcnt:  m,
		colcnt:  n,
		nullval: nullValue,
	}
}

// DefaultNullValue marks empty cells if no other null value is needed (min int32).
const DefaultNullValue = -2147483648

// M is the number of rows.
func (m *IntMatrix) M() int {
	return m.rowcnt
}

// N is the number of columns.
func (m *IntMatrix) N() int {
	return m.colcnt
}

// NullValue is the value of empty cells.
func (m *IntMatrix) NullValue() int32 {
	return m.nullval
}

// ValueCount is the number of occupied cells, blanked ones included.
func (m *IntMatrix) ValueCount() int {
	return len(m.cells)
}

// search finds the position of cell (i,j), or where it would have to be inserted.
func (m *IntMatrix) search(i, j int) int {
	return sort.Search(len(m.cells), func(k int) bool {
		return !m.cells[k].before(i, j)
	})
}

// Value returns the first rule serial of cell (i,j).
func (m *IntMatrix) Value(i, j int) int32 {
	a, _ := m.Values(i, j)
	return a
}

// Values returns both entries of cell (i,j). The second one is the null value
// unless a conflicting serial has been added.
func (m *IntMatrix) Values(i, j int) (int32, int32) {
	if k := m.search(i, j); k < len(m.cells) && m.cells[k].at(i, j) {
		return m.cells[k].a, m.cells[k].b
	}
	return m.nullval, m.nullval
}

// Set puts value into cell (i,j), dropping whatever was there.
func (m *IntMatrix) Set(i, j int, value int32) *IntMatrix {
	k := m.locate(i, j)
	m.cells[k].a, m.cells[k].b = value, m.nullval
	return m
}

// Add puts value into the first free entry of cell (i,j). If both entries are
// taken, the second one is replaced.
func (m *IntMatrix) Add(i, j int, value int32) *IntMatrix {
	k := m.locate(i, j)
	if m.cells[k].a == m.nullval {
		m.cells[k].a = value
	} else {
		m.cells[k].b = value
	}
	return m
}

// locate returns the index of cell (i,j), inserting an empty one if needed.
func (m *IntMatrix) locate(i, j int) int {
	if i < 0 || j < 0 || i >= m.rowcnt || j >= m.colcnt {
		panic(fmt.Sprintf("sparse.IntMatrix: index (%d,%d) out of range %dx%d", i, j, m.rowcnt, m.colcnt))
	}
	k := m.search(i, j)
	if k < len(m.cells) && m.cells[k].at(i, j) {
		return k
	}
	m.cells = append(m.cells, cell{})
	copy(m.cells[k+1:], m.cells[k:])
	m.cells[k] = cell{row: i, col: j, a: m.nullval, b: m.nullval}
	return k
}

// EachInRow calls f for every non-empty cell of row i, left to right.
func (m *IntMatrix) EachInRow(i int, f func(j int, a, b int32)) {
	for k := m.search(i, 0); k < len(m.cells) && m.cells[k].row == i; k++ {
		c := m.cells[k]
		if c.a == m.nullval && c.b == m.nullval {
			continue
		}
		f(c.col, c.a, c.b)
	}
}

// RowLen counts the non-empty cells of row i.
func (m *IntMatrix) RowLen(i int) int {
	n := 0
	m.EachInRow(i, func(int, int32, int32) { n++ })
	return n
}
