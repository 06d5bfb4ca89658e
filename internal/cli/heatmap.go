package cli

import (
	"context"

	"github.com/spf13/cobra"

	errs "github.com/apopov/latfig/pkg/errors"
	"github.com/apopov/latfig/pkg/pipeline"
)

func (c *CLI) heatmapCommand() *cobra.Command {
	var (
		flags optionFlags
		modes string
	)

	cmd := &cobra.Command{
		Use:   "heatmap FILE",
		Short: "Render a single count table",
		Long: `Render the count table in FILE as heatmaps named <name>_log and <name>_raw,
where <name> is the file name without its extension.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := flags.options(cmd)
			if err != nil {
				return err
			}
			opts.Modes = parseModes(modes)
			return c.runHeatmap(cmd.Context(), args[0], opts)
		},
	}

	flags.register(cmd.Flags(), false, true)
	cmd.Flags().StringVarP(&modes, "mode", "m", "both", "scale: log, linear or both")

	return cmd
}

func (c *CLI) runHeatmap(ctx context.Context, path string, opts pipeline.Options) error {
	prog := newProgress(loggerFromContext(ctx))

	items, err := c.newRunner().Heatmap(ctx, path, opts)
	if err != nil {
		return err
	}
	// A file named on the command line must exist and parse.
	if len(items) == 1 && items[0].Mode == "" && items[0].Err != nil {
		return items[0].Err
	}

	printItems(items)
	written := 0
	for _, it := range items {
		written += len(it.Outputs)
		if it.Status == pipeline.StatusFailed {
			return it.Err
		}
	}
	if written == 0 {
		return errs.New(errs.ErrCodeEmptyResult, "%s has no nonzero cells", path)
	}
	prog.done("Rendered " + path)
	return nil
}
