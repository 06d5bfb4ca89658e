package render

import (
	"math"
	"strconv"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	errs "github.com/apopov/latfig/pkg/errors"
	"github.com/apopov/latfig/pkg/table"
)

// DefaultTickStep is the spacing, in rows and columns, of heatmap ticks.
const DefaultTickStep = 100

// paletteSize is the number of discrete colours sampled for a heatmap.
const paletteSize = 256

// HeatmapOptions configures [Heatmap].
type HeatmapOptions struct {
	Width, Height vg.Length // figure size
	DPI           int       // raster resolution
	TickStep      int       // label every TickStep-th row and column
	ColorBar      bool      // draw a colour bar unless every cell has the same value
	Title         string
}

// ColorMapFor returns the colour map used for mode: the cubehelix map in
// ModeLog and the warm flare map in ModeLinear.
func ColorMapFor(mode table.Mode) *Gradient {
	if mode == table.ModeLog {
		return Cubehelix(LogPalette)
	}
	return Flare()
}

// Heatmap builds a heatmap figure of m. Masked cells are left blank, the
// smallest row coordinate is at the bottom, and cells are square.
//
// An empty matrix yields an ErrCodeEmptyResult error; callers are expected to
// skip that figure rather than abort.
func Heatmap(m *table.Matrix, opts HeatmapOptions) (*Figure, error) {
	if m.Empty() {
		return nil, errs.New(errs.ErrCodeEmptyResult, "matrix has no nonzero cells")
	}
	lo, hi, ok := m.Range()
	if !ok {
		return nil, errs.New(errs.ErrCodeEmptyResult, "every cell is masked")
	}
	degenerate := hi <= lo
	if degenerate {
		// A single distinct value still gets a colour: the low end.
		hi = lo + 1
	}
	step := opts.TickStep
	if step <= 0 {
		step = DefaultTickStep
	}

	cm := ColorMapFor(m.Mode)
	cm.SetMin(lo)
	cm.SetMax(hi)

	hm := plotter.NewHeatMap(matrixGrid{m}, cm.Palette(paletteSize))
	hm.Min, hm.Max = lo, hi

	p := plot.New()
	p.Title.Text = opts.Title
	p.Add(hm)
	p.X.Tick.Marker = indexTicks(m.Cols, step)
	p.Y.Tick.Marker = indexTicks(m.Rows, step)
	rows, cols := m.Dims()
	p.X.Min, p.X.Max = -0.5, float64(cols)-0.5
	p.Y.Min, p.Y.Max = -0.5, float64(rows)-0.5

	f := &Figure{
		Width:  opts.Width,
		Height: opts.Height,
		DPI:    opts.DPI,
		main:   p,
		series: 1,
		cols:   cols,
		rows:   rows,
	}
	if opts.ColorBar && !degenerate {
		f.bar = colorBar(cm)
	}
	return f, nil
}

func colorBar(cm palette.ColorMap) *plot.Plot {
	p := plot.New()
	p.Add(&plotter.ColorBar{ColorMap: cm, Vertical: true})
	p.HideX()
	return p
}

// indexTicks labels every step-th grid position with its coordinate,
// starting at the first row or column.
func indexTicks(labels []int, step int) plot.ConstantTicks {
	var ticks plot.ConstantTicks
	for i := 0; i < len(labels); i += step {
		ticks = append(ticks, plot.Tick{Value: float64(i), Label: strconv.Itoa(labels[i])})
	}
	return ticks
}

// matrixGrid exposes a table.Matrix as a plotter.GridXYZ on integer grid
// positions. Masked cells are NaN, which the heatmap leaves unpainted.
type matrixGrid struct {
	m *table.Matrix
}

func (g matrixGrid) Dims() (c, r int) {
	rows, cols := g.m.Dims()
	return cols, rows
}

func (g matrixGrid) Z(c, r int) float64 {
	if g.m.Masked(r, c) {
		return math.NaN()
	}
	return g.m.At(r, c)
}

func (g matrixGrid) X(c int) float64 { return float64(c) }
func (g matrixGrid) Y(r int) float64 { return float64(r) }
