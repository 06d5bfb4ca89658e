package pipeline

import (
	"context"
	"os"

	"gonum.org/v1/plot/vg"

	"github.com/apopov/latfig/pkg/observability"
	"github.com/apopov/latfig/pkg/render"
)

// HeatmapOptions derives the heatmap figure settings from o.
func HeatmapOptions(o *Options) render.HeatmapOptions {
	w := vg.Length(o.PicWidth) * vg.Inch
	return render.HeatmapOptions{
		Width:    w,
		Height:   w * vg.Length(o.HeatmapAspect),
		DPI:      o.DPI,
		TickStep: o.TickStep,
		ColorBar: !o.NoColorBar,
	}
}

// OverlayOptions derives the trajectory figure settings from o. The figure
// is twice as wide as it is tall.
func OverlayOptions(o *Options) render.OverlayOptions {
	w := vg.Length(o.PicWidth) * vg.Inch
	t := &o.Trajectories
	return render.OverlayOptions{
		Width:    2 * w,
		Height:   w,
		DPI:      o.DPI,
		Count:    t.Count,
		Start:    t.StartPoint(),
		End:      t.EndPoint(),
		TickStep: t.TickStep,
	}
}

// saveFigure writes fig to <dir>/<base>.<format> for every format and
// returns the paths written so far. The first failure stops it.
func saveFigure(ctx context.Context, fig *render.Figure, dir, base string, formats []string) ([]string, error) {
	var paths []string
	for _, format := range formats {
		path := render.OutputPath(dir, base, format)
		if err := fig.Save(path); err != nil {
			return paths, err
		}
		paths = append(paths, path)
		if info, err := os.Stat(path); err == nil {
			observability.Output().OnFileWritten(ctx, path, info.Size())
		}
	}
	return paths, nil
}
