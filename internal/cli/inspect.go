package cli

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/apopov/latfig/pkg/table"
)

func (c *CLI) inspectCommand() *cobra.Command {
	var modes string

	cmd := &cobra.Command{
		Use:   "inspect FILE",
		Short: "Print the normalization statistics of a count table",
		Long: `Load and normalize the count table in FILE without rendering it, and print
its size, maximum, rescale divisor and nonzero counts at each step.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInspect(cmd.Context(), args[0], parseModes(modes))
		},
	}

	cmd.Flags().StringVarP(&modes, "mode", "m", "both", "scale: log, linear or both")

	return cmd
}

// inspection is one normalized view of a table.
type inspection struct {
	mode   table.Mode
	matrix *table.Matrix
}

func runInspect(ctx context.Context, path string, modeNames []string) error {
	parsed := make([]table.Mode, 0, len(modeNames))
	for _, name := range modeNames {
		m, err := table.ParseMode(name)
		if err != nil {
			return err
		}
		parsed = append(parsed, m)
	}

	spin := newSpinner(ctx, os.Stderr, "Reading "+path)
	spin.Start()
	t, err := table.Load(path)
	if err != nil {
		spin.Stop()
		return err
	}

	views := make([]inspection, 0, len(parsed))
	for _, mode := range parsed {
		m, err := table.Normalize(t, mode)
		if err != nil {
			spin.Stop()
			return err
		}
		views = append(views, inspection{mode: mode, matrix: m})
	}
	spin.Stop()

	printInspection(path, t, views)
	return nil
}
