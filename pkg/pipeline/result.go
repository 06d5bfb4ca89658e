package pipeline

import (
	"time"

	"github.com/apopov/latfig/pkg/table"
)

// Status is the outcome of one batch item.
type Status string

const (
	StatusRendered Status = "rendered"
	StatusCached   Status = "cached"  // outputs already up to date
	StatusSkipped  Status = "skipped" // missing input or nothing to draw
	StatusFailed   Status = "failed"  // malformed input
)

// ItemResult is the outcome of one dataset in one mode. A dataset whose
// file is missing or malformed gets a single item with an empty Mode.
type ItemResult struct {
	Dataset string
	Mode    string
	Status  Status
	Outputs []string     // written files, in format order
	Err     error        // reason for a skip or failure
	Stats   *table.Stats // set once normalization ran
	Rows    int          // trimmed size
	Cols    int
}

// Name is the output base name, "<dataset>_<raw|log>", or the dataset
// alone when no mode was reached.
func (it ItemResult) Name() string {
	if it.Mode == "" {
		return it.Dataset
	}
	return it.Dataset + "_" + it.Mode
}

// TrajectoryResult is the outcome of the overlay figure.
type TrajectoryResult struct {
	Status  Status
	Loaded  []int         // indices drawn
	Missing []int         // indices with no file
	Failed  map[int]error // indices whose file could not be parsed
	Outputs []string
	Err     error // reason the figure itself failed
}

// Result is everything a Run did.
type Result struct {
	Items        []ItemResult
	Trajectories *TrajectoryResult // nil when disabled
	Duration     time.Duration
}

// Count returns the number of dataset items with status s.
func (r *Result) Count(s Status) int {
	n := 0
	for _, it := range r.Items {
		if it.Status == s {
			n++
		}
	}
	return n
}

// Outputs returns every file written, heatmaps first.
func (r *Result) Outputs() []string {
	var out []string
	for _, it := range r.Items {
		out = append(out, it.Outputs...)
	}
	if r.Trajectories != nil {
		out = append(out, r.Trajectories.Outputs...)
	}
	return out
}
