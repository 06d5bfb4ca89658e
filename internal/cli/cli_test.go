package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"github.com/apopov/latfig/pkg/buildinfo"
	errs "github.com/apopov/latfig/pkg/errors"
	"github.com/apopov/latfig/pkg/manifest"
	"github.com/apopov/latfig/pkg/observability"
	"github.com/apopov/latfig/pkg/pipeline"
	"github.com/apopov/latfig/pkg/trajectory"
)

const centerTable = "1\n0 0 0\n0 4 0\n0 0 0\n"

func TestParseFormats(t *testing.T) {
	tests := []struct {
		input string
		want  []string
	}{
		{"", nil},
		{"png", []string{"png"}},
		{"png, SVG ,pdf", []string{"png", "svg", "pdf"}},
		{"tex,,png", []string{"tex", "png"}},
	}
	for _, tt := range tests {
		if got := parseFormats(tt.input); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("parseFormats(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestParsePoint(t *testing.T) {
	tests := []struct {
		input   string
		want    trajectory.Point
		wantErr bool
	}{
		{"0,0", trajectory.Point{}, false},
		{"40, 20", trajectory.Point{X: 40, Y: 20}, false},
		{"-3,7", trajectory.Point{X: -3, Y: 7}, false},
		{"40", trajectory.Point{}, true},
		{"a,1", trajectory.Point{}, true},
		{"1,b", trajectory.Point{}, true},
	}
	for _, tt := range tests {
		got, err := parsePoint(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("parsePoint(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			continue
		}
		if err != nil {
			if !errs.Is(err, errs.ErrCodeInvalidConfig) {
				t.Errorf("parsePoint(%q) code = %s", tt.input, errs.GetCode(err))
			}
			continue
		}
		if got != tt.want {
			t.Errorf("parsePoint(%q) = %v, want %v", tt.input, got, tt.want)
		}
		if formatPoint(got) != strings.ReplaceAll(tt.input, " ", "") {
			t.Errorf("formatPoint(%v) = %q", got, formatPoint(got))
		}
	}
}

func TestParseModes(t *testing.T) {
	if got := parseModes("both"); !reflect.DeepEqual(got, []string{"log", "linear"}) {
		t.Errorf("parseModes(both) = %v", got)
	}
	if got := parseModes("linear"); !reflect.DeepEqual(got, []string{"linear"}) {
		t.Errorf("parseModes(linear) = %v", got)
	}
	if got := splitList(" wall, ,sm_wall "); !reflect.DeepEqual(got, []string{"wall", "sm_wall"}) {
		t.Errorf("splitList() = %v", got)
	}
}

func TestFormatBytes(t *testing.T) {
	tests := map[int64]string{
		0:       "0 B",
		1023:    "1023 B",
		1024:    "1.0 KiB",
		1536:    "1.5 KiB",
		5 << 20: "5.0 MiB",
	}
	for n, want := range tests {
		if got := formatBytes(n); got != want {
			t.Errorf("formatBytes(%d) = %q, want %q", n, got, want)
		}
	}
}

// captureStdout returns what fn prints to os.Stdout.
func captureStdout(t *testing.T, fn func()) string {
	t.Helper()
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatal(err)
	}
	orig := os.Stdout
	os.Stdout = w
	defer func() { os.Stdout = orig }()

	fn()
	w.Close()
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(r); err != nil {
		t.Fatal(err)
	}
	return buf.String()
}

func TestPrintTrajectoriesStatus(t *testing.T) {
	failure := errs.New(errs.ErrCodeOutputWrite, "write trajectories.png")
	tests := []struct {
		status pipeline.Status
		err    error
		icon   string
		text   string
	}{
		{pipeline.StatusRendered, nil, iconSuccess, "1 of 2 drawn"},
		{pipeline.StatusCached, nil, iconSuccess, "(up to date)"},
		{pipeline.StatusSkipped, errs.New(errs.ErrCodeEmptyResult, "nothing to draw"), iconWarning, "nothing to draw"},
		{pipeline.StatusFailed, failure, iconError, "write trajectories.png"},
	}
	for _, tt := range tests {
		tr := &pipeline.TrajectoryResult{Status: tt.status, Loaded: []int{0}, Missing: []int{1}, Err: tt.err}
		out := captureStdout(t, func() { printTrajectories(tr) })
		first, _, _ := strings.Cut(out, "\n")
		if !strings.Contains(first, tt.icon) || !strings.Contains(first, tt.text) {
			t.Errorf("%s: got %q, want icon %q and %q", tt.status, first, tt.icon, tt.text)
		}
	}
}

// execute runs the root command with args in a fresh working directory.
func execute(t *testing.T, dir string, args ...string) (*CLI, error) {
	t.Helper()
	t.Chdir(dir)
	defer observability.Reset()

	var logs bytes.Buffer
	c := New(&logs, LogInfo)
	root := c.RootCommand()
	root.SetArgs(args)
	root.SetOut(&bytes.Buffer{})
	return c, root.ExecuteContext(context.Background())
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

func TestBatchCommand(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "data", "paths_dp"), centerTable)
	writeFile(t, filepath.Join(dir, "data", "traj1"), "0 0\n0 1\n")

	c, err := execute(t, dir, "batch", "--width", "2", "--dpi", "40", "--traj-format", "png")
	if err != nil {
		t.Fatalf("batch error = %v", err)
	}
	for _, name := range []string{"paths_dp_log.png", "paths_dp_raw.png", "trajectories.png"} {
		if _, err := os.Stat(filepath.Join(dir, "figs", name)); err != nil {
			t.Errorf("expected figs/%s: %v", name, err)
		}
	}
	if snap := c.Tally.Snapshot(); snap.FilesWritten != 3 {
		t.Errorf("tally files = %d, want 3", snap.FilesWritten)
	}
}

func TestBatchIncrementalWithManifest(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "data", "wall"), centerTable)
	args := []string{"batch", "--datasets", "wall", "--mode", "log", "--no-trajectories",
		"--width", "2", "--dpi", "40", "--incremental", "--manifest", "figs/manifest.json"}

	c, err := execute(t, dir, args...)
	if err != nil {
		t.Fatalf("first batch error = %v", err)
	}
	if n := c.Tally.Snapshot().FilesWritten; n != 1 {
		t.Errorf("first batch wrote %d files, want 1", n)
	}

	c, err = execute(t, dir, args...)
	if err != nil {
		t.Fatalf("second batch error = %v", err)
	}
	if n := c.Tally.Snapshot().FilesWritten; n != 0 {
		t.Errorf("second batch wrote %d files, want 0", n)
	}

	m, err := manifest.Import(filepath.Join(dir, "figs", "manifest.json"))
	if err != nil {
		t.Fatal(err)
	}
	if len(m.Figures) != 1 || m.Figures[0].Name != "wall_log" || m.Figures[0].Status != "cached" {
		t.Errorf("manifest figures = %+v", m.Figures)
	}
	if m.Trajectories != nil {
		t.Error("manifest should omit disabled trajectories")
	}
}

func TestBatchReportsMalformed(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "data", "wall"), "2\n0 0\n")
	writeFile(t, filepath.Join(dir, "data", "paths_dp"), centerTable)

	_, err := execute(t, dir, "batch", "--width", "2", "--dpi", "40", "--no-trajectories", "--mode", "linear")
	if !errs.Is(err, errs.ErrCodeMalformedInput) {
		t.Fatalf("error = %v, want MALFORMED_INPUT", err)
	}
	// The malformed table must not stop the others.
	if _, err := os.Stat(filepath.Join(dir, "figs", "paths_dp_raw.png")); err != nil {
		t.Error(err)
	}
	if _, err := os.Stat(filepath.Join(dir, "figs", "paths_dp_log.png")); !os.IsNotExist(err) {
		t.Error("--mode linear should not render the log figure")
	}
}

func TestBatchConfigFileAndFlagOverride(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "tables", "wall"), centerTable)
	writeFile(t, filepath.Join(dir, "latfig.toml"), `
data_dir = "tables"
out_dir = "from-config"
datasets = ["wall"]
modes = ["log"]
pic_width = 2.0
dpi = 40

[trajectories]
disabled = true
`)

	if _, err := execute(t, dir, "batch", "--out", "from-flag", "--format", "svg"); err != nil {
		t.Fatalf("batch error = %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "from-flag", "wall_log.svg")); err != nil {
		t.Error(err)
	}
	if _, err := os.Stat(filepath.Join(dir, "from-config")); !os.IsNotExist(err) {
		t.Error("--out should override out_dir")
	}
}

func TestBatchBadConfig(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "bad.toml"), "formats = [\"gif\"]\n")

	_, err := execute(t, dir, "batch", "--config", "bad.toml")
	if !errs.Is(err, errs.ErrCodeInvalidFormat) {
		t.Errorf("error = %v, want INVALID_FORMAT", err)
	}
}

func TestHeatmapCommand(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "center.txt"), centerTable)

	_, err := execute(t, dir, "heatmap", "center.txt", "--mode", "log", "--out", "out", "--width", "2", "--dpi", "40")
	if err != nil {
		t.Fatalf("heatmap error = %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "out", "center_log.png")); err != nil {
		t.Error(err)
	}

	_, err = execute(t, dir, "heatmap", "missing.txt")
	if !errs.Is(err, errs.ErrCodeMissingInput) {
		t.Errorf("missing file: error = %v", err)
	}

	writeFile(t, filepath.Join(dir, "zeros"), "0\n0\n")
	_, err = execute(t, dir, "heatmap", "zeros", "--out", "out")
	if !errs.Is(err, errs.ErrCodeEmptyResult) {
		t.Errorf("all-zero table: error = %v", err)
	}
}

func TestTrajectoriesCommand(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "walks", "w0"), "0 0\n3 0\n3 3\n")

	_, err := execute(t, dir, "trajectories",
		"--data", "walks", "--prefix", "w", "--count", "2",
		"--end", "3,3", "--traj-tick-step", "1", "--traj-format", "svg",
		"--traj-name", "walks", "--width", "2")
	if err != nil {
		t.Fatalf("trajectories error = %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "figs", "walks.svg")); err != nil {
		t.Error(err)
	}

	_, err = execute(t, dir, "trajectories", "--end", "3")
	if !errs.Is(err, errs.ErrCodeInvalidConfig) {
		t.Errorf("bad --end: error = %v", err)
	}
}

func TestInspectCommand(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "center"), centerTable)

	if _, err := execute(t, dir, "inspect", "center"); err != nil {
		t.Errorf("inspect error = %v", err)
	}
	if _, err := execute(t, dir, "inspect", "center", "--mode", "sqrt"); !errs.Is(err, errs.ErrCodeInvalidConfig) {
		t.Errorf("bad mode: error = %v", err)
	}
	if _, err := execute(t, dir, "inspect", "nothing"); !errs.Is(err, errs.ErrCodeMissingInput) {
		t.Errorf("missing file: error = %v", err)
	}
}

func TestRootCommand(t *testing.T) {
	c := New(&bytes.Buffer{}, LogInfo)
	root := c.RootCommand()

	if root.Version != buildinfo.Version {
		t.Errorf("Version = %q, want %q", root.Version, buildinfo.Version)
	}
	want := []string{"batch", "completion", "heatmap", "inspect", "trajectories"}
	var got []string
	for _, cmd := range root.Commands() {
		got = append(got, cmd.Name())
	}
	for _, name := range want {
		found := false
		for _, g := range got {
			found = found || g == name
		}
		if !found {
			t.Errorf("missing subcommand %q in %v", name, got)
		}
	}
	if root.PersistentFlags().Lookup("verbose") == nil {
		t.Error("root should own --verbose")
	}
}

func TestVerboseEnablesDebug(t *testing.T) {
	var logs bytes.Buffer
	c := New(&logs, LogInfo)
	root := c.RootCommand()
	root.AddCommand(&cobra.Command{
		Use: "debugcheck",
		RunE: func(cmd *cobra.Command, args []string) error {
			loggerFromContext(cmd.Context()).Debug("debugcheck debug")
			return nil
		},
	})
	root.SetArgs([]string{"debugcheck", "-v"})
	defer observability.Reset()
	if err := root.ExecuteContext(context.Background()); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(logs.String(), "debugcheck debug") {
		t.Error("-v should enable debug logging through the context logger")
	}
}

func TestCompletionCommand(t *testing.T) {
	c := New(&bytes.Buffer{}, LogInfo)
	root := c.RootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"completion", "bash"})
	if err := root.ExecuteContext(context.Background()); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "latfig") {
		t.Error("bash completion should mention the program name")
	}
}
