package pipeline

import (
	"math"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"gonum.org/v1/plot/vg"

	errs "github.com/apopov/latfig/pkg/errors"
	"github.com/apopov/latfig/pkg/table"
)

func TestOptionsDefaults(t *testing.T) {
	var opts Options
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("zero options should validate: %v", err)
	}

	if opts.DataDir != "data" || opts.OutDir != "figs" {
		t.Errorf("dirs = %q, %q", opts.DataDir, opts.OutDir)
	}
	wantDatasets := []string{"paths_dp", "visits_dp", "wall", "sm_wall", "wall_gap", "sm_wall_gap"}
	if !reflect.DeepEqual(opts.Datasets, wantDatasets) {
		t.Errorf("Datasets = %v, want %v", opts.Datasets, wantDatasets)
	}
	if !reflect.DeepEqual(opts.Modes, []string{"log", "linear"}) {
		t.Errorf("Modes = %v", opts.Modes)
	}
	if !reflect.DeepEqual(opts.Formats, []string{"png"}) {
		t.Errorf("Formats = %v", opts.Formats)
	}
	if opts.PicWidth != 3.0 || opts.HeatmapAspect != 0.85 {
		t.Errorf("size = %g x %g", opts.PicWidth, opts.HeatmapAspect)
	}
	if opts.DPI != 300 || opts.TickStep != 100 {
		t.Errorf("DPI = %d, TickStep = %d", opts.DPI, opts.TickStep)
	}

	tr := opts.Trajectories
	if tr.Count != 5 || tr.Prefix != "traj" || tr.TickStep != 10 || tr.Name != "trajectories" {
		t.Errorf("Trajectories = %+v", tr)
	}
	if p := tr.StartPoint(); p.X != 0 || p.Y != 0 {
		t.Errorf("Start = %v", p)
	}
	if p := tr.EndPoint(); p.X != 40 || p.Y != 20 {
		t.Errorf("End = %v", p)
	}
	if !reflect.DeepEqual(tr.Formats, []string{"tex", "png"}) {
		t.Errorf("trajectory Formats = %v", tr.Formats)
	}
}

func TestDefaultsNotShared(t *testing.T) {
	var a, b Options
	a.SetDefaults()
	b.SetDefaults()
	a.Datasets[0] = "changed"
	a.Trajectories.End[0] = 99
	if b.Datasets[0] != "paths_dp" || DefaultDatasets[0] != "paths_dp" {
		t.Error("SetDefaults must copy the default datasets")
	}
	if DefaultEnd[0] != 40 {
		t.Error("SetDefaults must copy the default end point")
	}
}

func TestOptionsValidateAndSetDefaultsIdempotent(t *testing.T) {
	opts := Options{Formats: []string{"svg"}}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("first validation failed: %v", err)
	}
	datasets := opts.Datasets
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("second validation failed: %v", err)
	}
	if !reflect.DeepEqual(opts.Datasets, datasets) || opts.Formats[0] != "svg" {
		t.Error("second call changed options")
	}
}

func TestOptionsValidation(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		code errs.Code
	}{
		{"bad format", Options{Formats: []string{"gif"}}, errs.ErrCodeInvalidFormat},
		{"bad mode", Options{Modes: []string{"sqrt"}}, errs.ErrCodeInvalidConfig},
		{"dataset traversal", Options{Datasets: []string{"../etc"}}, errs.ErrCodeInvalidName},
		{"negative dpi", Options{DPI: -1}, errs.ErrCodeInvalidConfig},
		{"negative width", Options{PicWidth: -3}, errs.ErrCodeInvalidConfig},
		{"short start", Options{Trajectories: TrajectoryOptions{Start: []int{1}}}, errs.ErrCodeInvalidConfig},
		{"bad trajectory format", Options{Trajectories: TrajectoryOptions{Formats: []string{"bmp"}}}, errs.ErrCodeInvalidFormat},
		{"negative count", Options{Trajectories: TrajectoryOptions{Count: -2}}, errs.ErrCodeInvalidConfig},
		{"bad out dir", Options{OutDir: "figs\x00"}, errs.ErrCodeInvalidPath},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.ValidateAndSetDefaults()
			if !errs.Is(err, tt.code) {
				t.Errorf("error = %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestParsedModes(t *testing.T) {
	opts := Options{Modes: []string{"linear", "raw", "log"}}
	modes, err := opts.ParsedModes()
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(modes, []table.Mode{table.ModeLinear, table.ModeLog}) {
		t.Errorf("ParsedModes() = %v", modes)
	}
}

func TestFigureSizes(t *testing.T) {
	var opts Options
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatal(err)
	}

	inches := func(l vg.Length) float64 { return float64(l / vg.Inch) }

	hm := HeatmapOptions(&opts)
	if w, h := inches(hm.Width), inches(hm.Height); w != 3 || math.Abs(h-2.55) > 1e-9 {
		t.Errorf("heatmap size = %v x %v", w, h)
	}
	if !hm.ColorBar {
		t.Error("colour bar should be on by default")
	}

	ov := OverlayOptions(&opts)
	if w, h := inches(ov.Width), inches(ov.Height); w != 6 || h != 3 {
		t.Errorf("overlay size = %v x %v", w, h)
	}
	if ov.Count != 5 || ov.End.X != 40 || ov.End.Y != 20 {
		t.Errorf("overlay = %+v", ov)
	}
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "latfig.toml")
	writeFile(t, path, `
data_dir = "tables"
datasets = ["wall", "sm_wall"]
formats = ["png", "pdf"]
dpi = 150

[trajectories]
count = 3
end = [30, 10]
formats = ["svg"]
`)

	opts, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatal(err)
	}
	if opts.DataDir != "tables" || opts.OutDir != "figs" {
		t.Errorf("dirs = %q, %q", opts.DataDir, opts.OutDir)
	}
	if !reflect.DeepEqual(opts.Datasets, []string{"wall", "sm_wall"}) {
		t.Errorf("Datasets = %v", opts.Datasets)
	}
	if !reflect.DeepEqual(opts.Formats, []string{"png", "pdf"}) || opts.DPI != 150 {
		t.Errorf("Formats = %v, DPI = %d", opts.Formats, opts.DPI)
	}
	tr := opts.Trajectories
	if tr.Count != 3 || tr.EndPoint().X != 30 || tr.EndPoint().Y != 10 || tr.StartPoint().X != 0 {
		t.Errorf("Trajectories = %+v", tr)
	}
	if !reflect.DeepEqual(tr.Formats, []string{"svg"}) {
		t.Errorf("trajectory Formats = %v", tr.Formats)
	}
}

func TestLoadConfigErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadConfig(filepath.Join(dir, "nope.toml"))
	if !errs.Is(err, errs.ErrCodeMissingInput) {
		t.Errorf("missing file: error = %v", err)
	}

	bad := filepath.Join(dir, "bad.toml")
	writeFile(t, bad, "dpi = \"high\"\n")
	if _, err := LoadConfig(bad); !errs.Is(err, errs.ErrCodeInvalidConfig) {
		t.Errorf("bad type: error = %v", err)
	}

	typo := filepath.Join(dir, "typo.toml")
	writeFile(t, typo, "data_dri = \"x\"\n")
	if _, err := LoadConfig(typo); !errs.Is(err, errs.ErrCodeInvalidConfig) {
		t.Errorf("unknown key: error = %v", err)
	}
}

func TestLoadDefaultConfigMissing(t *testing.T) {
	t.Chdir(t.TempDir())
	opts, err := LoadDefaultConfig()
	if err != nil {
		t.Fatalf("LoadDefaultConfig() error = %v", err)
	}
	if opts.DataDir != "" {
		t.Errorf("expected zero options, got %+v", opts)
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}
