package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	"github.com/charmbracelet/log"

	"github.com/apopov/latfig/pkg/cache"
	errs "github.com/apopov/latfig/pkg/errors"
	"github.com/apopov/latfig/pkg/observability"
	"github.com/apopov/latfig/pkg/render"
	"github.com/apopov/latfig/pkg/table"
	"github.com/apopov/latfig/pkg/trajectory"
)

// Runner executes batch runs. One Runner may serve several runs.
type Runner struct {
	Logger *log.Logger

	// Cache is consulted when Options.Incremental is set. Nil means a
	// FileCache under <OutDir>/.latfig-cache.
	Cache cache.Cache
}

// NewRunner creates a runner. A nil logger uses log.Default().
func NewRunner(logger *log.Logger) *Runner {
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Logger: logger}
}

// Run renders every configured dataset in every mode, then the trajectory
// overlay. It returns an error only when output cannot be written or ctx is
// cancelled; the partial Result is returned alongside.
func (r *Runner) Run(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	start := time.Now()
	if err := ensureDir(opts.OutDir); err != nil {
		return nil, err
	}

	res := &Result{}
	for _, name := range opts.Datasets {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		items, err := r.Dataset(ctx, filepath.Join(opts.DataDir, name), name, &opts)
		res.Items = append(res.Items, items...)
		if err != nil {
			return res, err
		}
	}

	if !opts.Trajectories.Disabled {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		tr, err := r.Trajectories(ctx, &opts)
		res.Trajectories = tr
		if err != nil {
			return res, err
		}
	}

	res.Duration = time.Since(start)
	r.Logger.Info("batch finished",
		"rendered", res.Count(StatusRendered),
		"cached", res.Count(StatusCached),
		"skipped", res.Count(StatusSkipped),
		"failed", res.Count(StatusFailed),
		"duration", res.Duration.Round(time.Millisecond))
	return res, nil
}

// Dataset loads the table at path and renders it under name in every mode
// of opts. A missing or malformed table yields one skipped or failed item
// and no error. opts must already be validated, and opts.OutDir must exist.
func (r *Runner) Dataset(ctx context.Context, path, name string, opts *Options) ([]ItemResult, error) {
	logger := r.Logger.With("dataset", name)
	hooks := observability.Pipeline()

	hooks.OnLoadStart(ctx, name)
	start := time.Now()
	t, err := table.Load(path)
	if err != nil {
		hooks.OnLoadComplete(ctx, name, 0, 0, time.Since(start), err)
		if errs.Is(err, errs.ErrCodeMissingInput) {
			logger.Debug("no table, skipping", "path", path)
			return []ItemResult{{Dataset: name, Status: StatusSkipped, Err: err}}, nil
		}
		logger.Error("cannot read table", "code", errs.GetCode(err), "err", errs.UserMessage(err))
		return []ItemResult{{Dataset: name, Status: StatusFailed, Err: err}}, nil
	}
	rows, cols := t.Dims()
	hooks.OnLoadComplete(ctx, name, rows, cols, time.Since(start), nil)
	logger.Debug("loaded table", "half_width", t.HalfWidth, "wide", t.Wide(), "nonzero", t.NonZero())

	c, err := r.cacheFor(opts)
	if err != nil {
		return nil, err
	}
	inputHash := r.hashInputs(c, logger, path)

	modes, err := opts.ParsedModes()
	if err != nil {
		return nil, err
	}
	items := make([]ItemResult, 0, len(modes))
	for _, mode := range modes {
		if err := ctx.Err(); err != nil {
			return items, err
		}
		item, err := r.heatmap(ctx, t, name, mode, opts, c, inputHash, logger)
		items = append(items, item)
		if err != nil {
			return items, err
		}
	}
	return items, nil
}

func (r *Runner) heatmap(ctx context.Context, t *table.Table, name string, mode table.Mode, opts *Options, c cache.Cache, inputHash string, logger *log.Logger) (ItemResult, error) {
	hooks := observability.Pipeline()
	item := ItemResult{Dataset: name, Mode: mode.String()}
	logger = logger.With("mode", item.Mode)

	m, err := table.Normalize(t, mode)
	if err != nil {
		hooks.OnNormalizeComplete(ctx, name, item.Mode, 0, err)
		logger.Error("cannot normalize table", "code", errs.GetCode(err), "err", errs.UserMessage(err))
		item.Status, item.Err = StatusFailed, err
		return item, nil
	}
	hooks.OnNormalizeComplete(ctx, name, item.Mode, m.Stats.FloatNonZero, nil)
	item.Stats = &m.Stats
	item.Rows, item.Cols = m.Dims()
	logger.Debug("normalized",
		"rows", item.Rows,
		"cols", item.Cols,
		"max", m.Stats.Max,
		"scale", m.Stats.Scale,
		"raw_nonzero", m.Stats.RawNonZero,
		"transformed_nonzero", m.Stats.TransformedNonZero,
		"float_nonzero", m.Stats.FloatNonZero)

	hopts := HeatmapOptions(opts)
	key, cached := lookup(ctx, c, "heatmap", inputHash, item.Mode, hopts, opts.Formats, opts.OutDir)
	if cached != nil {
		item.Status, item.Outputs = StatusCached, cached
		logger.Info("heatmap up to date", "files", item.Outputs)
		return item, nil
	}

	fig, err := render.Heatmap(m, hopts)
	if errs.Is(err, errs.ErrCodeEmptyResult) {
		logger.Warn("nothing to draw, skipping", "reason", errs.UserMessage(err))
		item.Status, item.Err = StatusSkipped, err
		return item, nil
	}
	if err != nil {
		logger.Error("cannot build heatmap", "code", errs.GetCode(err), "err", errs.UserMessage(err))
		item.Status, item.Err = StatusFailed, err
		return item, nil
	}
	defer fig.Close()

	base := item.Name()
	hooks.OnRenderStart(ctx, base, opts.Formats)
	start := time.Now()
	item.Outputs, err = saveFigure(ctx, fig, opts.OutDir, base, opts.Formats)
	hooks.OnRenderComplete(ctx, base, opts.Formats, time.Since(start), err)
	if err != nil {
		forget(ctx, c, key, logger)
		item.Status, item.Err = StatusFailed, err
		if errs.Fatal(err) {
			return item, err
		}
		logger.Error("cannot save heatmap", "code", errs.GetCode(err), "err", errs.UserMessage(err))
		return item, nil
	}
	item.Status = StatusRendered
	remember(ctx, c, key, item.Outputs, logger)
	logger.Info("wrote heatmap", "files", item.Outputs)
	return item, nil
}

// Trajectories overlays <DataDir>/<Prefix><i> for i in [0, Count) into one
// figure. Missing and malformed files are left out; the figure is written
// even when none load. opts must already be validated, and opts.OutDir must
// exist.
func (r *Runner) Trajectories(ctx context.Context, opts *Options) (*TrajectoryResult, error) {
	t := &opts.Trajectories
	logger := r.Logger.With("figure", t.Name)
	hooks := observability.Pipeline()

	set := trajectory.LoadAll(opts.DataDir, t.Prefix, t.Count)
	res := &TrajectoryResult{Missing: set.Missing, Failed: set.Failed}
	for _, tr := range set.Trajectories {
		res.Loaded = append(res.Loaded, tr.Index)
	}
	for i, err := range set.Failed {
		logger.Error("cannot read trajectory", "index", i, "err", errs.UserMessage(err))
	}
	if len(set.Missing) > 0 {
		logger.Debug("trajectories missing", "indices", set.Missing)
	}

	c, err := r.cacheFor(opts)
	if err != nil {
		return res, err
	}
	inputHash := r.hashInputs(c, logger, trajectory.Paths(opts.DataDir, t.Prefix, t.Count)...)
	oopts := OverlayOptions(opts)
	key, cached := lookup(ctx, c, "overlay", inputHash, oopts, t.Formats, opts.OutDir, t.Name)
	if cached != nil {
		res.Status, res.Outputs = StatusCached, cached
		logger.Info("trajectories up to date", "files", res.Outputs)
		return res, nil
	}

	fig, err := render.Overlay(set.Trajectories, oopts)
	if err != nil {
		err = errs.Wrap(errs.ErrCodeInternal, err, "build %s", t.Name)
		res.Status, res.Err = StatusFailed, err
		logger.Error("cannot build trajectories", "code", errs.GetCode(err), "err", errs.UserMessage(err))
		return res, nil
	}
	defer fig.Close()

	hooks.OnRenderStart(ctx, t.Name, t.Formats)
	start := time.Now()
	res.Outputs, err = saveFigure(ctx, fig, opts.OutDir, t.Name, t.Formats)
	hooks.OnRenderComplete(ctx, t.Name, t.Formats, time.Since(start), err)
	if err != nil {
		forget(ctx, c, key, logger)
		res.Status, res.Err = StatusFailed, err
		if errs.Fatal(err) {
			return res, err
		}
		logger.Error("cannot save trajectories", "code", errs.GetCode(err), "err", errs.UserMessage(err))
		return res, nil
	}
	res.Status = StatusRendered
	remember(ctx, c, key, res.Outputs, logger)
	logger.Info("wrote trajectories", "drawn", fig.Series(), "loaded", len(res.Loaded), "requested", t.Count, "files", res.Outputs)
	return res, nil
}

// cacheFor returns the cache for a run with opts.
func (r *Runner) cacheFor(opts *Options) (cache.Cache, error) {
	if !opts.Incremental {
		return cache.NewNullCache(), nil
	}
	if r.Cache != nil {
		return r.Cache, nil
	}
	fc, err := cache.NewFileCache(filepath.Join(opts.OutDir, cache.DirName))
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeOutputWrite, err, "create cache directory")
	}
	return fc, nil
}

// hashInputs hashes paths for use in a cache key. It returns "" when
// caching is off or the inputs cannot be read, which disables the lookup.
func (r *Runner) hashInputs(c cache.Cache, logger *log.Logger, paths ...string) string {
	if _, off := c.(*cache.NullCache); off {
		return ""
	}
	h, err := cache.HashFiles(paths...)
	if err != nil {
		logger.Warn("cannot hash inputs, rendering anyway", "err", err)
		return ""
	}
	return h
}

// lookup returns the cache key of a figure and, on a hit, the files it
// wrote last time. An empty key means the figure is not cached.
func lookup(ctx context.Context, c cache.Cache, kind, inputHash string, settings ...any) (string, []string) {
	if inputHash == "" {
		return "", nil
	}
	key, err := cache.Key(kind, inputHash, settings...)
	if err != nil {
		return "", nil
	}
	e, hit, err := c.Lookup(ctx, key)
	if err != nil || !hit {
		return key, nil
	}
	return key, e.Outputs
}

// remember records outputs under key. Failures are logged and dropped.
func remember(ctx context.Context, c cache.Cache, key string, outputs []string, logger *log.Logger) {
	if key == "" {
		return
	}
	if err := c.Store(ctx, &cache.Entry{Key: key, Outputs: outputs}); err != nil {
		logger.Warn("cannot update cache", "err", err)
	}
}

// forget drops key after a figure failed to save, so outputs it left half
// written are never reported as up to date.
func forget(ctx context.Context, c cache.Cache, key string, logger *log.Logger) {
	if key == "" {
		return
	}
	if err := c.Forget(ctx, key); err != nil {
		logger.Warn("cannot update cache", "err", err)
	}
}

func ensureDir(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errs.Wrap(errs.ErrCodeOutputWrite, err, "create output directory %s", dir)
	}
	return nil
}

// Heatmap renders the single table at path into opts.OutDir, naming the
// outputs after the file's base name without its extension (see OutputBase).
func (r *Runner) Heatmap(ctx context.Context, path string, opts Options) ([]ItemResult, error) {
	if err := errs.ValidatePath(path); err != nil {
		return nil, err
	}
	opts.Datasets = []string{OutputBase(path)}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	if err := ensureDir(opts.OutDir); err != nil {
		return nil, err
	}
	return r.Dataset(ctx, path, opts.Datasets[0], &opts)
}

// Overlay renders only the trajectory figure.
func (r *Runner) Overlay(ctx context.Context, opts Options) (*TrajectoryResult, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	if err := ensureDir(opts.OutDir); err != nil {
		return nil, err
	}
	return r.Trajectories(ctx, &opts)
}

// OutputBase derives a dataset name from the file at path. The extension is
// dropped unless it is the whole name, leading dots are trimmed, runs of dots
// collapse to one and control characters become underscores, so every file
// name yields a valid dataset name. An empty result becomes "table".
func OutputBase(path string) string {
	base := filepath.Base(path)
	if ext := filepath.Ext(base); ext != base {
		base = strings.TrimSuffix(base, ext)
	}
	base = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) || r == '/' || r == '\\' {
			return '_'
		}
		return r
	}, base)
	for strings.Contains(base, "..") {
		base = strings.ReplaceAll(base, "..", ".")
	}
	base = strings.TrimLeft(base, ".")
	if len(base) > errs.MaxDatasetNameLength {
		base = base[:errs.MaxDatasetNameLength]
	}
	if base == "" {
		return "table"
	}
	return base
}
