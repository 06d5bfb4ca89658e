package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/apopov/latfig/pkg/pipeline"
)

func (c *CLI) trajectoriesCommand() *cobra.Command {
	var (
		flags optionFlags
		traj  trajectoryFlags
	)

	cmd := &cobra.Command{
		Use:   "trajectories",
		Short: "Overlay the trajectory files into one figure",
		Long: `Draw <data>/<prefix>0 .. <prefix><count-1> as jittered polylines with a
circle at the start point and a cross at the end point. Missing files are
left out; the figure is written even when none exist.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := flags.options(cmd)
			if err != nil {
				return err
			}
			if err := traj.apply(cmd, &opts.Trajectories); err != nil {
				return err
			}
			return c.runTrajectories(cmd.Context(), opts)
		},
	}

	flags.register(cmd.Flags(), true, false)
	traj.register(cmd.Flags())

	return cmd
}

func (c *CLI) runTrajectories(ctx context.Context, opts pipeline.Options) error {
	prog := newProgress(loggerFromContext(ctx))

	res, err := c.newRunner().Overlay(ctx, opts)
	if err != nil {
		return err
	}
	printTrajectories(res)
	prog.done(fmt.Sprintf("Drew %d trajectories", len(res.Loaded)))
	return nil
}
