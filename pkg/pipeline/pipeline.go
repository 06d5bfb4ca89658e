// Package pipeline runs the figure batch: every configured count table is
// loaded, normalized in each mode and rendered as a heatmap, then the
// trajectory files are overlaid into one figure.
//
// The CLI builds an [Options], usually from a TOML file plus flags, and hands
// it to a [Runner]:
//
//	runner := pipeline.NewRunner(logger)
//	result, err := runner.Run(ctx, pipeline.Options{DataDir: "data", OutDir: "figs"})
//	if err != nil {
//	    // output could not be written; nothing else aborts a run
//	}
//	for _, item := range result.Items {
//	    fmt.Println(item.Name(), item.Status)
//	}
//
// Missing inputs are skipped, malformed inputs fail only their own item, and
// empty tables are skipped with a diagnostic. Only a failure to write output
// stops the run.
package pipeline

import (
	errs "github.com/apopov/latfig/pkg/errors"
	"github.com/apopov/latfig/pkg/render"
	"github.com/apopov/latfig/pkg/table"
	"github.com/apopov/latfig/pkg/trajectory"
)

// Defaults shared by the config file and the CLI.
const (
	DefaultDataDir       = "data"
	DefaultOutDir        = "figs"
	DefaultPicWidth      = 3.0  // inches
	DefaultHeatmapAspect = 0.85 // heatmap height / width
	DefaultDPI           = render.DefaultDPI
	DefaultTickStep      = render.DefaultTickStep

	DefaultTrajectoryCount    = 5
	DefaultTrajectoryTickStep = render.DefaultOverlayTickStep
	DefaultTrajectoryName     = "trajectories"
)

// DefaultDatasets are the tables produced by the lattice path computations.
var DefaultDatasets = []string{"paths_dp", "visits_dp", "wall", "sm_wall", "wall_gap", "sm_wall_gap"}

// DefaultModes renders the log figure before the linear one.
var DefaultModes = []string{"log", "linear"}

// DefaultFormats is used for heatmaps when none are configured.
var DefaultFormats = []string{render.FormatPNG}

// DefaultTrajectoryFormats are a PGF source for the paper and a preview.
var DefaultTrajectoryFormats = []string{render.FormatTeX, render.FormatPNG}

// Reference points of the trajectory figure.
var (
	DefaultStart = []int{0, 0}
	DefaultEnd   = []int{40, 20}
)

// Options configures a batch run. Zero fields take the defaults above.
type Options struct {
	DataDir  string   `toml:"data_dir"`
	OutDir   string   `toml:"out_dir"`
	Datasets []string `toml:"datasets"`
	Modes    []string `toml:"modes"`
	Formats  []string `toml:"formats"`

	PicWidth      float64 `toml:"pic_width"`      // inches
	HeatmapAspect float64 `toml:"heatmap_aspect"` // height as a fraction of width
	DPI           int     `toml:"dpi"`
	TickStep      int     `toml:"tick_step"`
	NoColorBar    bool    `toml:"no_color_bar"`

	// Incremental skips figures whose inputs and settings are unchanged
	// since they were last written.
	Incremental bool `toml:"incremental"`

	Trajectories TrajectoryOptions `toml:"trajectories"`

	validated bool
}

// TrajectoryOptions configures the overlay figure.
type TrajectoryOptions struct {
	Disabled bool     `toml:"disabled"`
	Count    int      `toml:"count"`
	Prefix   string   `toml:"prefix"`
	Start    []int    `toml:"start"` // x, y
	End      []int    `toml:"end"`   // x, y
	TickStep int      `toml:"tick_step"`
	Formats  []string `toml:"formats"`
	Name     string   `toml:"name"` // output base name
}

// ValidateAndSetDefaults fills zero fields and checks the rest. It is
// idempotent. Errors carry one of the INVALID_* codes.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	o.SetDefaults()

	if err := errs.ValidatePath(o.DataDir); err != nil {
		return err
	}
	if err := errs.ValidatePath(o.OutDir); err != nil {
		return err
	}
	for _, name := range o.Datasets {
		if err := errs.ValidateDatasetName(name); err != nil {
			return err
		}
	}
	if _, err := o.ParsedModes(); err != nil {
		return err
	}
	if err := render.ValidateFormats(o.Formats); err != nil {
		return err
	}
	switch {
	case o.PicWidth < 0:
		return errs.New(errs.ErrCodeInvalidConfig, "pic_width must be positive, got %g", o.PicWidth)
	case o.HeatmapAspect < 0:
		return errs.New(errs.ErrCodeInvalidConfig, "heatmap_aspect must be positive, got %g", o.HeatmapAspect)
	case o.DPI < 0:
		return errs.New(errs.ErrCodeInvalidConfig, "dpi must be positive, got %d", o.DPI)
	case o.TickStep < 0:
		return errs.New(errs.ErrCodeInvalidConfig, "tick_step must be positive, got %d", o.TickStep)
	}
	if err := o.Trajectories.validate(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// SetDefaults fills every zero field with its default.
func (o *Options) SetDefaults() {
	if o.DataDir == "" {
		o.DataDir = DefaultDataDir
	}
	if o.OutDir == "" {
		o.OutDir = DefaultOutDir
	}
	if len(o.Datasets) == 0 {
		o.Datasets = append([]string(nil), DefaultDatasets...)
	}
	if len(o.Modes) == 0 {
		o.Modes = append([]string(nil), DefaultModes...)
	}
	if len(o.Formats) == 0 {
		o.Formats = append([]string(nil), DefaultFormats...)
	}
	if o.PicWidth == 0 {
		o.PicWidth = DefaultPicWidth
	}
	if o.HeatmapAspect == 0 {
		o.HeatmapAspect = DefaultHeatmapAspect
	}
	if o.DPI == 0 {
		o.DPI = DefaultDPI
	}
	if o.TickStep == 0 {
		o.TickStep = DefaultTickStep
	}
	o.Trajectories.setDefaults()
}

// ParsedModes returns the configured modes in order, dropping repeats.
func (o *Options) ParsedModes() ([]table.Mode, error) {
	var modes []table.Mode
	seen := map[table.Mode]bool{}
	for _, s := range o.Modes {
		m, err := table.ParseMode(s)
		if err != nil {
			return nil, err
		}
		if !seen[m] {
			seen[m] = true
			modes = append(modes, m)
		}
	}
	return modes, nil
}

func (t *TrajectoryOptions) setDefaults() {
	if t.Count == 0 {
		t.Count = DefaultTrajectoryCount
	}
	if t.Prefix == "" {
		t.Prefix = trajectory.DefaultPrefix
	}
	if t.Start == nil {
		t.Start = append([]int(nil), DefaultStart...)
	}
	if t.End == nil {
		t.End = append([]int(nil), DefaultEnd...)
	}
	if t.TickStep == 0 {
		t.TickStep = DefaultTrajectoryTickStep
	}
	if len(t.Formats) == 0 {
		t.Formats = append([]string(nil), DefaultTrajectoryFormats...)
	}
	if t.Name == "" {
		t.Name = DefaultTrajectoryName
	}
}

func (t *TrajectoryOptions) validate() error {
	if t.Count < 0 {
		return errs.New(errs.ErrCodeInvalidConfig, "trajectories.count must not be negative, got %d", t.Count)
	}
	if len(t.Start) != 2 {
		return errs.New(errs.ErrCodeInvalidConfig, "trajectories.start must be [x, y], got %v", t.Start)
	}
	if len(t.End) != 2 {
		return errs.New(errs.ErrCodeInvalidConfig, "trajectories.end must be [x, y], got %v", t.End)
	}
	if t.TickStep < 0 {
		return errs.New(errs.ErrCodeInvalidConfig, "trajectories.tick_step must be positive, got %d", t.TickStep)
	}
	if err := errs.ValidateDatasetName(t.Name); err != nil {
		return err
	}
	if err := errs.ValidateDatasetName(t.Prefix); err != nil {
		return err
	}
	return render.ValidateFormats(t.Formats)
}

// StartPoint returns Start as a point. Call after ValidateAndSetDefaults.
func (t *TrajectoryOptions) StartPoint() trajectory.Point {
	return trajectory.Point{X: t.Start[0], Y: t.Start[1]}
}

// EndPoint returns End as a point. Call after ValidateAndSetDefaults.
func (t *TrajectoryOptions) EndPoint() trajectory.Point {
	return trajectory.Point{X: t.End[0], Y: t.End[1]}
}
