// Package pkg provides the libraries behind latfig, which turns the output
// of the lattice path computations into figures.
//
// # Overview
//
// Two kinds of input are drawn:
//
//   - count tables: a square grid of exact non-negative integers, one per
//     dataset, drawn as heatmaps in log and linear scale
//   - trajectories: sequences of lattice points, all drawn over each other
//     in a single overlay figure
//
// The packages are layered bottom-up:
//
//  1. [errors] - coded errors shared by every package
//  2. [table] - parse count tables and normalize them for plotting
//  3. [trajectory] - parse trajectory files and jitter overlapping paths
//  4. [render] - heatmap and overlay figures, saved as png, svg, pdf, eps,
//     tex, jpg or tiff
//  5. [pipeline] - the batch driver, its options and the TOML config file
//  6. [cache], [manifest] - incremental runs and the JSON run record
//  7. [observability], [buildinfo] - hooks and version stamping
//
// # Data Flow
//
//	data/<dataset> ──► table.Load ──► table.Normalize ──► render.Heatmap ──► figs/<dataset>_<log|raw>.<ext>
//	data/traj<i>   ──► trajectory.LoadAll ──────────────► render.Overlay ──► figs/trajectories.<ext>
//
// # Quick Start
//
// Render one table in log scale:
//
//	t, err := table.Load("data/paths_dp")
//	if err != nil {
//	    return err
//	}
//	m, err := table.Normalize(t, table.ModeLog)
//	if err != nil {
//	    return err
//	}
//	fig, err := render.Heatmap(m, render.HeatmapOptions{Width: 3 * vg.Inch, Height: 2.55 * vg.Inch})
//	if err != nil {
//	    return err // EMPTY_RESULT when every cell is zero
//	}
//	defer fig.Close()
//	return fig.Save("figs/paths_dp_log.png")
//
// Or run the whole batch the way the CLI does:
//
//	res, err := pipeline.NewRunner(logger).Run(ctx, pipeline.Options{})
//
// # Error Handling
//
// Every error carries a code from [errors]. Missing inputs are skipped,
// malformed ones fail their own item, and only a failure to write output or
// an invalid configuration stops a batch (see [errors.Fatal]).
//
// [errors]: https://pkg.go.dev/github.com/apopov/latfig/pkg/errors
// [errors.Fatal]: https://pkg.go.dev/github.com/apopov/latfig/pkg/errors#Fatal
// [table]: https://pkg.go.dev/github.com/apopov/latfig/pkg/table
// [trajectory]: https://pkg.go.dev/github.com/apopov/latfig/pkg/trajectory
// [render]: https://pkg.go.dev/github.com/apopov/latfig/pkg/render
// [pipeline]: https://pkg.go.dev/github.com/apopov/latfig/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/apopov/latfig/pkg/cache
// [manifest]: https://pkg.go.dev/github.com/apopov/latfig/pkg/manifest
// [observability]: https://pkg.go.dev/github.com/apopov/latfig/pkg/observability
// [buildinfo]: https://pkg.go.dev/github.com/apopov/latfig/pkg/buildinfo
package pkg
