package cli

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/apopov/latfig/pkg/buildinfo"
	errs "github.com/apopov/latfig/pkg/errors"
	"github.com/apopov/latfig/pkg/observability"
	"github.com/apopov/latfig/pkg/pipeline"
	"github.com/apopov/latfig/pkg/trajectory"
)

const appName = "latfig"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// Tally totals files and timings for the closing summary.
	Tally *observability.Tally
}

// New creates a CLI logging to w at level.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Tally:  &observability.Tally{},
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
// It owns --verbose and wires the CLI's tally into the observability hooks.
func (c *CLI) RootCommand() *cobra.Command {
	var verbose bool

	root := &cobra.Command{
		Use:   appName,
		Short: "latfig draws the lattice path figures",
		Long: `latfig turns the count tables and sample trajectories produced by the
lattice path computations into figures: one heatmap per table in log and
linear scale, and one overlay of all trajectories.`,
		Version:       buildinfo.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if verbose {
				c.SetLogLevel(LogDebug)
			}
			observability.SetPipelineHooks(c.Tally)
			observability.SetOutputHooks(c.Tally)
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			cmd.SetContext(withLogger(ctx, c.Logger))
		},
	}

	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	root.SetVersionTemplate(buildinfo.Template())

	root.AddCommand(c.batchCommand())
	root.AddCommand(c.heatmapCommand())
	root.AddCommand(c.trajectoriesCommand())
	root.AddCommand(c.inspectCommand())
	root.AddCommand(c.completionCommand())

	return root
}

func (c *CLI) newRunner() *pipeline.Runner {
	return pipeline.NewRunner(c.Logger)
}

// parseFormats splits a comma-separated format list, dropping blanks.
func parseFormats(s string) []string {
	var out []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.ToLower(strings.TrimSpace(f)); f != "" {
			out = append(out, f)
		}
	}
	return out
}

// parsePoint parses "x,y" into a point.
func parsePoint(s string) (trajectory.Point, error) {
	xs, ys, ok := strings.Cut(s, ",")
	if !ok {
		return trajectory.Point{}, errs.New(errs.ErrCodeInvalidConfig, "point %q must be x,y", s)
	}
	x, err := strconv.Atoi(strings.TrimSpace(xs))
	if err != nil {
		return trajectory.Point{}, errs.New(errs.ErrCodeInvalidConfig, "point %q: x is not an integer", s)
	}
	y, err := strconv.Atoi(strings.TrimSpace(ys))
	if err != nil {
		return trajectory.Point{}, errs.New(errs.ErrCodeInvalidConfig, "point %q: y is not an integer", s)
	}
	return trajectory.Point{X: x, Y: y}, nil
}

func formatPoint(p trajectory.Point) string {
	return fmt.Sprintf("%d,%d", p.X, p.Y)
}
