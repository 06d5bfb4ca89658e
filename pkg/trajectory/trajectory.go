// Package trajectory loads lattice walks and prepares them for overlay plots.
//
// A trajectory file holds one point per line as two whitespace-separated
// integers, x then y. Lines starting with '#' and blank lines are ignored;
// extra columns are ignored. Files are named <prefix><index> inside a data
// directory, e.g. data/traj0 … data/traj4.
//
// Several trajectories often share cells, so each one is drawn shifted by a
// small index-dependent [Jitter] that keeps coincident paths apart. The shift
// is applied to a copy and never changes the loaded points.
package trajectory

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	errs "github.com/apopov/latfig/pkg/errors"
)

// JitterStep is the offset between neighbouring trajectory indices.
const JitterStep = 0.1

// DefaultPrefix is the filename prefix of trajectory files.
const DefaultPrefix = "traj"

// Point is one lattice position.
type Point struct {
	X, Y int
}

// Trajectory is an ordered walk loaded from file Index.
type Trajectory struct {
	Index  int
	Points []Point
}

// Jitter returns the offset applied to trajectory i out of count:
// JitterStep * (i - count/2), where count/2 is integer division.
// For count = 5 the offsets are -0.2, -0.1, 0, 0.1, 0.2.
func Jitter(i, count int) float64 {
	return JitterStep * float64(i-count/2)
}

// Shifted returns the points of tr moved by d on both axes.
func (tr Trajectory) Shifted(d float64) (xs, ys []float64) {
	xs = make([]float64, len(tr.Points))
	ys = make([]float64, len(tr.Points))
	for i, p := range tr.Points {
		xs[i] = float64(p.X) + d
		ys[i] = float64(p.Y) + d
	}
	return xs, ys
}

// Read parses points from r.
func Read(r io.Reader) ([]Point, error) {
	var pts []Point
	sc := bufio.NewScanner(r)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 2 {
			return nil, errs.New(errs.ErrCodeMalformedInput, "line %d: expected x and y, found %d values", lineNo, len(fields))
		}
		x, err := strconv.Atoi(fields[0])
		if err != nil {
			return nil, errs.New(errs.ErrCodeMalformedInput, "line %d: x %q is not an integer", lineNo, fields[0])
		}
		y, err := strconv.Atoi(fields[1])
		if err != nil {
			return nil, errs.New(errs.ErrCodeMalformedInput, "line %d: y %q is not an integer", lineNo, fields[1])
		}
		pts = append(pts, Point{X: x, Y: y})
	}
	if err := sc.Err(); err != nil {
		return nil, errs.Wrap(errs.ErrCodeMalformedInput, err, "line %d", lineNo+1)
	}
	return pts, nil
}

// Load reads the trajectory file at path.
// A missing file yields an ErrCodeMissingInput error.
func Load(path string) ([]Point, error) {
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, errs.Wrap(errs.ErrCodeMissingInput, err, "trajectory %s not found", path)
	}
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeMalformedInput, err, "open %s", path)
	}
	defer f.Close()

	pts, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return pts, nil
}

// Set is the outcome of loading trajectories 0..count-1.
type Set struct {
	Count        int
	Trajectories []Trajectory
	Missing      []int         // indices whose file does not exist
	Failed       map[int]error // indices whose file could not be parsed
}

// LoadAll attempts to load <dir>/<prefix><i> for every i in [0, count).
// Missing and malformed files are recorded and skipped; LoadAll itself never
// fails, since a figure with fewer paths is still a valid figure.
func LoadAll(dir, prefix string, count int) *Set {
	s := &Set{Count: count, Failed: map[int]error{}}
	for i, path := range Paths(dir, prefix, count) {
		pts, err := Load(path)
		switch {
		case errs.Is(err, errs.ErrCodeMissingInput):
			s.Missing = append(s.Missing, i)
		case err != nil:
			s.Failed[i] = err
		default:
			s.Trajectories = append(s.Trajectories, Trajectory{Index: i, Points: pts})
		}
	}
	return s
}

// Paths returns <dir>/<prefix><i> for every i in [0, count). An empty
// prefix means DefaultPrefix.
func Paths(dir, prefix string, count int) []string {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	paths := make([]string, 0, max(count, 0))
	for i := range count {
		paths = append(paths, filepath.Join(dir, prefix+strconv.Itoa(i)))
	}
	return paths
}
