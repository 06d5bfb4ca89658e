package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	errs "github.com/apopov/latfig/pkg/errors"
	"github.com/apopov/latfig/pkg/manifest"
	"github.com/apopov/latfig/pkg/pipeline"
)

func (c *CLI) batchCommand() *cobra.Command {
	var (
		flags    optionFlags
		traj     trajectoryFlags
		datasets string
		modes    string
		noTraj   bool
		manifest string
	)

	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Render every configured table and the trajectory overlay",
		Long: `Render a heatmap of each dataset in <data>/ in every mode, then overlay the
trajectory files <data>/traj0, traj1, ... into one figure.

Missing tables are skipped, malformed ones are reported and the run goes on.
Only a failure to write output stops the batch.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := flags.options(cmd)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("datasets") {
				opts.Datasets = splitList(datasets)
			}
			if cmd.Flags().Changed("mode") {
				opts.Modes = parseModes(modes)
			}
			if noTraj {
				opts.Trajectories.Disabled = true
			}
			if err := traj.apply(cmd, &opts.Trajectories); err != nil {
				return err
			}
			return c.runBatch(cmd.Context(), opts, manifest)
		},
	}

	flags.register(cmd.Flags(), true, true)
	traj.register(cmd.Flags())
	cmd.Flags().StringVar(&datasets, "datasets", strings.Join(pipeline.DefaultDatasets, ","), "dataset names to render (comma-separated)")
	cmd.Flags().StringVarP(&modes, "mode", "m", "both", "scale: log, linear or both")
	cmd.Flags().BoolVar(&noTraj, "no-trajectories", false, "skip the trajectory overlay")
	cmd.Flags().StringVar(&manifest, "manifest", "", "write a JSON manifest of the run to this file")

	return cmd
}

func (c *CLI) runBatch(ctx context.Context, opts pipeline.Options, manifestPath string) error {
	logger := loggerFromContext(ctx)
	prog := newProgress(logger)

	res, err := c.newRunner().Run(ctx, opts)
	if res != nil {
		printBatchSummary(res, c.Tally.Snapshot())
	}
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Wrote %d files", c.Tally.Snapshot().FilesWritten))

	if manifestPath != "" {
		if err := manifest.Export(manifest.FromResult(res), manifestPath); err != nil {
			return err
		}
		logger.Info("wrote manifest", "path", manifestPath)
	}

	if n := res.Count(pipeline.StatusFailed); n > 0 {
		return errs.New(errs.ErrCodeMalformedInput, "%d of %d items failed", n, len(res.Items))
	}
	return nil
}

// splitList splits a comma-separated list, dropping blanks.
func splitList(s string) []string {
	var out []string
	for _, v := range strings.Split(s, ",") {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// parseModes expands "both" to log and linear; anything else is a list
// left for the pipeline to validate.
func parseModes(s string) []string {
	if strings.EqualFold(strings.TrimSpace(s), "both") {
		return append([]string(nil), pipeline.DefaultModes...)
	}
	return splitList(s)
}
