package cli

import (
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/apopov/latfig/pkg/pipeline"
)

// optionFlags binds the flags shared by the rendering commands. Only flags
// the user actually set override the config file.
type optionFlags struct {
	config   string
	dataDir  string
	outDir   string
	formats  string
	dpi      int
	width    float64
	aspect   float64
	tickStep int
	noBar    bool

	incremental bool
}

// register adds the flags to fs. Heatmap-only flags are skipped unless
// heatmaps is set, and --data unless data is set.
func (f *optionFlags) register(fs *pflag.FlagSet, data, heatmaps bool) {
	fs.StringVarP(&f.config, "config", "c", "", "TOML config file (default: "+pipeline.DefaultConfigFile+" if present)")
	if data {
		fs.StringVarP(&f.dataDir, "data", "d", pipeline.DefaultDataDir, "directory holding the input files")
	}
	fs.StringVarP(&f.outDir, "out", "o", pipeline.DefaultOutDir, "output directory, created if missing")
	fs.IntVar(&f.dpi, "dpi", pipeline.DefaultDPI, "raster resolution")
	fs.Float64Var(&f.width, "width", pipeline.DefaultPicWidth, "picture width in inches")
	fs.BoolVar(&f.incremental, "incremental", false, "skip figures whose inputs and settings are unchanged")
	if !heatmaps {
		return
	}
	fs.StringVarP(&f.formats, "format", "f", "png", "heatmap format(s): png, svg, pdf, eps, tex, jpg, tiff (comma-separated)")
	fs.Float64Var(&f.aspect, "aspect", pipeline.DefaultHeatmapAspect, "heatmap height as a fraction of its width")
	fs.IntVar(&f.tickStep, "tick-step", pipeline.DefaultTickStep, "label every n-th heatmap row and column")
	fs.BoolVar(&f.noBar, "no-colorbar", false, "omit the heatmap colour bar")
}

// options loads the config file, then applies every flag that was set.
func (f *optionFlags) options(cmd *cobra.Command) (pipeline.Options, error) {
	var (
		opts pipeline.Options
		err  error
	)
	if f.config != "" {
		opts, err = pipeline.LoadConfig(f.config)
	} else {
		opts, err = pipeline.LoadDefaultConfig()
	}
	if err != nil {
		return opts, err
	}

	fs := cmd.Flags()
	if fs.Changed("data") {
		opts.DataDir = f.dataDir
	}
	if fs.Changed("out") {
		opts.OutDir = f.outDir
	}
	if fs.Changed("format") {
		opts.Formats = parseFormats(f.formats)
	}
	if fs.Changed("dpi") {
		opts.DPI = f.dpi
	}
	if fs.Changed("width") {
		opts.PicWidth = f.width
	}
	if fs.Changed("incremental") {
		opts.Incremental = f.incremental
	}
	if fs.Changed("aspect") {
		opts.HeatmapAspect = f.aspect
	}
	if fs.Changed("tick-step") {
		opts.TickStep = f.tickStep
	}
	if fs.Changed("no-colorbar") {
		opts.NoColorBar = f.noBar
	}
	return opts, nil
}

// trajectoryFlags binds the overlay flags.
type trajectoryFlags struct {
	count    int
	prefix   string
	start    string
	end      string
	tickStep int
	formats  string
	name     string
}

func (f *trajectoryFlags) register(fs *pflag.FlagSet) {
	fs.IntVar(&f.count, "count", pipeline.DefaultTrajectoryCount, "number of trajectory files to look for")
	fs.StringVar(&f.prefix, "prefix", "traj", "trajectory file prefix; files are <prefix>0, <prefix>1, ...")
	fs.StringVar(&f.start, "start", "0,0", "start marker as x,y")
	fs.StringVar(&f.end, "end", "40,20", "end marker as x,y")
	fs.IntVar(&f.tickStep, "traj-tick-step", pipeline.DefaultTrajectoryTickStep, "tick spacing of the trajectory figure")
	fs.StringVar(&f.formats, "traj-format", "tex,png", "trajectory figure format(s) (comma-separated)")
	fs.StringVar(&f.name, "traj-name", pipeline.DefaultTrajectoryName, "base name of the trajectory figure")
}

func (f *trajectoryFlags) apply(cmd *cobra.Command, t *pipeline.TrajectoryOptions) error {
	fs := cmd.Flags()
	if fs.Changed("count") {
		t.Count = f.count
	}
	if fs.Changed("prefix") {
		t.Prefix = f.prefix
	}
	if fs.Changed("start") {
		p, err := parsePoint(f.start)
		if err != nil {
			return err
		}
		t.Start = []int{p.X, p.Y}
	}
	if fs.Changed("end") {
		p, err := parsePoint(f.end)
		if err != nil {
			return err
		}
		t.End = []int{p.X, p.Y}
	}
	if fs.Changed("traj-tick-step") {
		t.TickStep = f.tickStep
	}
	if fs.Changed("traj-format") {
		t.Formats = parseFormats(f.formats)
	}
	if fs.Changed("traj-name") {
		t.Name = f.name
	}
	return nil
}
