// Package render draws count heatmaps and trajectory overlays.
//
// # Overview
//
// Rendering is built on gonum.org/v1/plot. Each call returns a [Figure], an
// explicit drawing context that the caller saves in one or more formats and
// then releases:
//
//	fig, err := render.Heatmap(m, render.HeatmapOptions{
//	    Width:    3 * vg.Inch,
//	    Height:   2.55 * vg.Inch,
//	    ColorBar: true,
//	})
//	if err != nil {
//	    return err
//	}
//	defer fig.Close()
//	err = fig.Save("figs/wall_log.png")
//
// # Heatmaps
//
// [Heatmap] paints a normalized [table.Matrix] on integer grid positions.
// Masked (zero-count) cells are not painted. Log matrices use a cubehelix
// map with one full hue rotation ([LogPalette]); linear matrices use a fixed
// warm map ([Flare]). Rows run bottom to top in ascending coordinate order,
// every 100th row and column carries a tick labelled with its coordinate,
// and the plot area is cropped so cells are square.
//
// # Trajectories
//
// [Overlay] draws each trajectory as a thin line shifted by
// [trajectory.Jitter], then a filled circle at the start and a cross at the
// end, both in black.
//
// # Formats
//
// [Figure.Save] picks the backend from the file extension: png, jpg and tiff
// through vgimg at the figure DPI; svg, pdf and eps through the vector
// backends; tex through vgtex, which produces a PGF picture for LaTeX
// documents. The tex and eps backends cannot embed raster images, so heatmap
// colour bars are omitted there.
//
// [table.Matrix]: github.com/apopov/latfig/pkg/table.Matrix
// [trajectory.Jitter]: github.com/apopov/latfig/pkg/trajectory.Jitter
package render
