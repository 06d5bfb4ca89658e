package table

import (
	"math/big"
	"slices"
)

// MaxSafeInteger is the largest integer n such that every integer in [0, n]
// converts to float64 exactly. Counts above it make a table wide.
const MaxSafeInteger = 1 << 53

// Table is a square count table over coordinates [-HalfWidth, HalfWidth].
//
// Rows and Cols hold the coordinate label of every row and column in
// ascending order. A freshly loaded table has all 2T+1 labels on both axes;
// a trimmed table keeps only the labels of surviving rows and columns.
//
// Cells are stored row-major, as uint64 when every value is float-safe and as
// *big.Int for every cell once any value exceeds [MaxSafeInteger].
type Table struct {
	HalfWidth int
	Rows      []int
	Cols      []int

	wide        bool
	narrowCells []uint64
	wideCells   []*big.Int
}

// Dims returns the number of rows and columns.
func (t *Table) Dims() (rows, cols int) {
	return len(t.Rows), len(t.Cols)
}

// Wide reports whether the table was loaded with values above [MaxSafeInteger].
func (t *Table) Wide() bool {
	return t.wide
}

// Value returns a copy of the count at row r, column c (zero-based indices).
func (t *Table) Value(r, c int) *big.Int {
	i := r*len(t.Cols) + c
	if t.wide {
		return new(big.Int).Set(t.wideCells[i])
	}
	return new(big.Int).SetUint64(t.narrowCells[i])
}

// NonZero returns the number of cells with a nonzero count.
func (t *Table) NonZero() int {
	n := 0
	for i := range t.cells() {
		if !t.zeroAt(i) {
			n++
		}
	}
	return n
}

// Max returns the largest count in the table, or zero for an empty table.
func (t *Table) Max() *big.Int {
	if t.wide {
		m := new(big.Int)
		for _, v := range t.wideCells {
			if v.Cmp(m) > 0 {
				m.Set(v)
			}
		}
		return m
	}
	var m uint64
	for _, v := range t.narrowCells {
		m = max(m, v)
	}
	return new(big.Int).SetUint64(m)
}

// Trim returns a table without the rows and columns whose counts are all zero.
// Surviving rows and columns keep their ascending coordinate order. Trim is
// idempotent and never modifies t.
//
// Dropping zero columns first and zero rows second gives the same result as
// dropping both at once, because a removed column contributes only zeros to
// every row.
func (t *Table) Trim() *Table {
	rows, cols := t.Dims()
	keepRow := make([]bool, rows)
	keepCol := make([]bool, cols)
	for r := range rows {
		for c := range cols {
			if !t.zeroAt(r*cols + c) {
				keepRow[r] = true
				keepCol[c] = true
			}
		}
	}

	out := &Table{HalfWidth: t.HalfWidth, wide: t.wide}
	var rowIdx, colIdx []int
	for r, keep := range keepRow {
		if keep {
			rowIdx = append(rowIdx, r)
			out.Rows = append(out.Rows, t.Rows[r])
		}
	}
	for c, keep := range keepCol {
		if keep {
			colIdx = append(colIdx, c)
			out.Cols = append(out.Cols, t.Cols[c])
		}
	}

	n := len(rowIdx) * len(colIdx)
	if t.wide {
		out.wideCells = make([]*big.Int, 0, n)
	} else {
		out.narrowCells = make([]uint64, 0, n)
	}
	for _, r := range rowIdx {
		for _, c := range colIdx {
			i := r*cols + c
			if t.wide {
				out.wideCells = append(out.wideCells, t.wideCells[i])
			} else {
				out.narrowCells = append(out.narrowCells, t.narrowCells[i])
			}
		}
	}
	return out
}

// Equal reports whether two tables have the same labels and counts.
func (t *Table) Equal(o *Table) bool {
	if t.HalfWidth != o.HalfWidth || !slices.Equal(t.Rows, o.Rows) || !slices.Equal(t.Cols, o.Cols) {
		return false
	}
	for i := range t.cells() {
		if t.valueAt(i).Cmp(o.valueAt(i)) != 0 {
			return false
		}
	}
	return true
}

func (t *Table) cells() int {
	return len(t.Rows) * len(t.Cols)
}

func (t *Table) zeroAt(i int) bool {
	if t.wide {
		return t.wideCells[i].Sign() == 0
	}
	return t.narrowCells[i] == 0
}

func (t *Table) valueAt(i int) *big.Int {
	if t.wide {
		return t.wideCells[i]
	}
	return new(big.Int).SetUint64(t.narrowCells[i])
}

// coordinates returns the labels -t..t in ascending order.
func coordinates(t int) []int {
	out := make([]int, 2*t+1)
	for i := range out {
		out[i] = i - t
	}
	return out
}
