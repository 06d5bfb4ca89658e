// Package table loads lattice count tables and normalizes them for plotting.
//
// # Overview
//
// A count table is a square grid of non-negative integers indexed by
// coordinates in [-T, T] on both axes, where T is the half-width declared on
// the first line of the file. Counts come from exhaustive path enumeration and
// routinely exceed 2^53, the largest integer a float64 holds exactly, so the
// package keeps such tables in arbitrary precision until the very last step.
//
// # File Format
//
//	2
//	0 0 0 0 0
//	0 0 1 0 0
//	0 3 9007199254740993 3 0
//	0 0 1 0 0
//	0 0 0 0 0
//
// Line 1 is T; the next 2T+1 lines hold 2T+1 whitespace-separated integers.
// The first data line is the row with coordinate -T, the first column of each
// line is the column with coordinate -T.
//
// # Normalization
//
// [Normalize] turns a [Table] into a [Matrix] ready for a heatmap:
//
//  1. Rows and columns that are entirely zero are dropped ([Table.Trim]).
//  2. In [ModeLog] every value v becomes ln(v+1).
//  3. If the raw maximum is at least 2^30, every value is divided by
//     floor(max / 2^30) so the colour scale stays in a plottable range.
//  4. Values are narrowed to float64 with an overflow check.
//
// Cells whose raw count is zero are flagged in [Matrix.Mask] so renderers can
// leave them blank.
//
// Wide tables (any value above 2^53) route every cell through math/big for
// the log and the division, so precision is only lost at the final narrowing.
package table
