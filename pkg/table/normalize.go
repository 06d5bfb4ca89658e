package table

import (
	"fmt"
	"math"
	"math/big"
	"slices"
	"strings"

	"gonum.org/v1/gonum/floats"

	errs "github.com/apopov/latfig/pkg/errors"
)

// RescaleThreshold is the bit width above which values are rescaled.
// A table whose raw maximum is at least 2^RescaleThreshold is divided by
// floor(max / 2^RescaleThreshold).
const RescaleThreshold = 30

// Mode selects the value transform applied before plotting.
type Mode int

const (
	// ModeLinear plots raw counts.
	ModeLinear Mode = iota
	// ModeLog plots ln(count + 1).
	ModeLog
)

// Modes lists every mode in the order a batch renders them.
var Modes = []Mode{ModeLog, ModeLinear}

// String returns the filename suffix of the mode: "raw" or "log".
func (m Mode) String() string {
	if m == ModeLog {
		return "log"
	}
	return "raw"
}

// ParseMode parses a mode name. It accepts "log", "raw" and "linear".
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "log":
		return ModeLog, nil
	case "raw", "linear":
		return ModeLinear, nil
	}
	return 0, errs.New(errs.ErrCodeInvalidConfig, "invalid mode %q (must be one of: log, raw, linear)", s)
}

// Stats records nonzero cell counts at each normalization step.
// They are diagnostics for checking the transform, not inputs to it.
type Stats struct {
	Wide               bool    // values went through the big-integer path
	RawNonZero         int     // nonzero cells after trimming
	TransformedNonZero int     // nonzero cells after log and rescale
	FloatNonZero       int     // nonzero cells after narrowing to float64
	Scale              float64 // divisor applied, 0 when no rescale happened
	Max                string  // raw maximum in decimal
}

// Matrix is a trimmed, transformed table ready for colour mapping.
//
// Values and Mask are row-major with len(Rows)*len(Cols) entries. Mask is true
// where the raw count was exactly zero.
type Matrix struct {
	Rows   []int
	Cols   []int
	Values []float64
	Mask   []bool
	Mode   Mode
	Stats  Stats
}

// Dims returns the number of rows and columns.
func (m *Matrix) Dims() (rows, cols int) {
	return len(m.Rows), len(m.Cols)
}

// Empty reports whether trimming left no cells.
func (m *Matrix) Empty() bool {
	return len(m.Values) == 0
}

// At returns the value at row r, column c.
func (m *Matrix) At(r, c int) float64 {
	return m.Values[r*len(m.Cols)+c]
}

// Masked reports whether the cell at row r, column c had a zero count.
func (m *Matrix) Masked(r, c int) bool {
	return m.Mask[r*len(m.Cols)+c]
}

// Range returns the smallest and largest unmasked values.
// ok is false when every cell is masked.
func (m *Matrix) Range() (lo, hi float64, ok bool) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for i, v := range m.Values {
		if m.Mask[i] {
			continue
		}
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
		ok = true
	}
	return lo, hi, ok
}

// Normalize trims t and applies mode and the power-of-two rescale.
//
// The rescale divisor is derived from the raw maximum even in ModeLog: the
// decision to rescale is about count magnitude, not about the transformed
// values. An all-zero table yields an empty Matrix and no error.
func Normalize(t *Table, mode Mode) (*Matrix, error) {
	trimmed := t.Trim()
	n := trimmed.cells()

	m := &Matrix{
		Rows:   slices.Clone(trimmed.Rows),
		Cols:   slices.Clone(trimmed.Cols),
		Values: make([]float64, n),
		Mask:   make([]bool, n),
		Mode:   mode,
	}
	m.Stats.Wide = trimmed.wide

	for i := range n {
		m.Mask[i] = trimmed.zeroAt(i)
		if !m.Mask[i] {
			m.Stats.RawNonZero++
		}
	}
	if n == 0 {
		m.Stats.Max = "0"
		return m, nil
	}

	peak := trimmed.Max()
	m.Stats.Max = peak.String()
	scale, err := rescaleDivisor(peak)
	if err != nil {
		return nil, err
	}
	m.Stats.Scale = scale

	for i := range n {
		v, nonzero, err := trimmed.transform(i, mode, scale)
		if err != nil {
			r, c := i/len(m.Cols), i%len(m.Cols)
			return nil, fmt.Errorf("cell (%d, %d): %w", m.Rows[r], m.Cols[c], err)
		}
		if nonzero {
			m.Stats.TransformedNonZero++
		}
		m.Values[i] = v
	}
	m.Stats.FloatNonZero = floats.Count(func(v float64) bool { return v != 0 }, m.Values)
	return m, nil
}

// rescaleDivisor returns floor(peak / 2^RescaleThreshold) as a float64.
func rescaleDivisor(peak *big.Int) (float64, error) {
	q := new(big.Int).Rsh(peak, RescaleThreshold)
	f, _ := new(big.Float).SetInt(q).Float64()
	if math.IsInf(f, 0) {
		return 0, errs.New(errs.ErrCodeMalformedInput, "maximum count %d bits wide exceeds float64 range", peak.BitLen())
	}
	return f, nil
}

// transform computes the plotted value of cell i. nonzero reports whether
// the exact (pre-narrowing) result is nonzero.
func (t *Table) transform(i int, mode Mode, scale float64) (v float64, nonzero bool, err error) {
	switch {
	case mode == ModeLog && t.wide:
		v = logOnePlusBig(t.wideCells[i])
	case mode == ModeLog:
		v = math.Log1p(float64(t.narrowCells[i]))
	case t.wide:
		return quotient(t.wideCells[i], scale)
	default:
		v = float64(t.narrowCells[i])
	}
	if scale > 0 {
		v /= scale
	}
	return v, v != 0, nil
}

// quotient divides a wide count by scale in arbitrary precision and narrows
// the result with an overflow check.
func quotient(x *big.Int, scale float64) (float64, bool, error) {
	q := new(big.Float).SetInt(x)
	if scale > 0 {
		q.Quo(q, new(big.Float).SetFloat64(scale))
	}
	f, _ := q.Float64()
	if math.IsInf(f, 0) {
		return 0, false, errs.New(errs.ErrCodeMalformedInput, "count %d bits wide does not fit float64 after rescale", x.BitLen())
	}
	return f, q.Sign() != 0, nil
}

var bigOne = big.NewInt(1)

// logOnePlusBig returns ln(x+1) without converting x to float64 first.
// x+1 = mant × 2^exp with mant in [0.5, 1), so ln(x+1) = ln(mant) + exp·ln 2.
func logOnePlusBig(x *big.Int) float64 {
	y := new(big.Int).Add(x, bigOne)
	mant := new(big.Float)
	exp := new(big.Float).SetInt(y).MantExp(mant)
	m, _ := mant.Float64()
	return math.Log(m) + float64(exp)*math.Ln2
}
