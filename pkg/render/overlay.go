package render

import (
	"image/color"
	"strconv"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/apopov/latfig/pkg/trajectory"
)

// OverlayOptions configures [Overlay].
type OverlayOptions struct {
	Width, Height vg.Length
	DPI           int
	Count         int              // number of requested trajectories, used for jitter
	Start, End    trajectory.Point // reference markers
	TickStep      int              // tick spacing in lattice units
	LineWidth     vg.Length
	MarkerSize    vg.Length // marker diameter
	Title         string
}

// Overlay defaults.
const (
	DefaultOverlayTickStep = 10
	DefaultLineWidth       = 0.8 // points
	DefaultMarkerSize      = 5   // points
)

var markerColor = color.Black

// Overlay draws every trajectory as a thin polyline, shifted by its index
// jitter, then a filled circle at Start and a cross at End. With no
// trajectories the figure still holds both markers.
func Overlay(trajs []trajectory.Trajectory, opts OverlayOptions) (*Figure, error) {
	lw := opts.LineWidth
	if lw <= 0 {
		lw = vg.Points(DefaultLineWidth)
	}
	ms := opts.MarkerSize
	if ms <= 0 {
		ms = vg.Points(DefaultMarkerSize)
	}
	step := opts.TickStep
	if step <= 0 {
		step = DefaultOverlayTickStep
	}

	p := plot.New()
	p.Title.Text = opts.Title

	series := 0
	for _, tr := range trajs {
		if len(tr.Points) == 0 {
			continue
		}
		xs, ys := tr.Shifted(trajectory.Jitter(tr.Index, opts.Count))
		pts := make(plotter.XYs, len(xs))
		for i := range xs {
			pts[i].X, pts[i].Y = xs[i], ys[i]
		}
		line, err := plotter.NewLine(pts)
		if err != nil {
			return nil, err
		}
		line.LineStyle.Width = lw
		line.LineStyle.Color = plotutil.Color(tr.Index)
		p.Add(line)
		series++
	}

	start, err := marker(opts.Start, draw.CircleGlyph{}, ms)
	if err != nil {
		return nil, err
	}
	end, err := marker(opts.End, draw.CrossGlyph{}, ms)
	if err != nil {
		return nil, err
	}
	p.Add(start, end)

	p.X.Tick.Marker = rangeTicks(opts.Start.X, opts.End.X, step)
	p.Y.Tick.Marker = rangeTicks(opts.Start.Y, opts.End.Y, step)

	return &Figure{
		Width:  opts.Width,
		Height: opts.Height,
		DPI:    opts.DPI,
		main:   p,
		series: series,
	}, nil
}

func marker(at trajectory.Point, shape draw.GlyphDrawer, size vg.Length) (*plotter.Scatter, error) {
	s, err := plotter.NewScatter(plotter.XYs{{X: float64(at.X), Y: float64(at.Y)}})
	if err != nil {
		return nil, err
	}
	s.GlyphStyle.Shape = shape
	s.GlyphStyle.Color = markerColor
	s.GlyphStyle.Radius = size / 2
	return s, nil
}

// rangeTicks places a tick every step units from the smaller of from and to
// up to the larger, inclusive when the span is a multiple of step.
func rangeTicks(from, to, step int) plot.ConstantTicks {
	if to < from {
		from, to = to, from
	}
	var ticks plot.ConstantTicks
	for v := from; v <= to; v += step {
		ticks = append(ticks, plot.Tick{Value: float64(v), Label: strconv.Itoa(v)})
	}
	return ticks
}
