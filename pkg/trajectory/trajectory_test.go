package trajectory

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	errs "github.com/apopov/latfig/pkg/errors"
)

func TestJitter(t *testing.T) {
	tests := []struct {
		i, count int
		want     float64
	}{
		{0, 5, -0.2},
		{1, 5, -0.1},
		{2, 5, 0},
		{3, 5, 0.1},
		{4, 5, 0.2},
		{0, 4, -0.2},
		{2, 4, 0},
		{0, 1, 0},
	}
	for _, tt := range tests {
		assert.InDelta(t, tt.want, Jitter(tt.i, tt.count), 1e-12, "Jitter(%d, %d)", tt.i, tt.count)
	}
}

func TestShiftedDoesNotModify(t *testing.T) {
	tr := Trajectory{Index: 0, Points: []Point{{0, 0}, {1, 0}, {1, 1}}}
	xs, ys := tr.Shifted(-0.2)

	assert.InDeltaSlice(t, []float64{-0.2, 0.8, 0.8}, xs, 1e-12)
	assert.InDeltaSlice(t, []float64{-0.2, -0.2, 0.8}, ys, 1e-12)
	assert.Equal(t, []Point{{0, 0}, {1, 0}, {1, 1}}, tr.Points)
}

func TestRead(t *testing.T) {
	src := "# walk\n0 0\n1 0\n\n 2 1 extra\n-1 3\n"
	pts, err := Read(strings.NewReader(src))
	require.NoError(t, err)
	assert.Equal(t, []Point{{0, 0}, {1, 0}, {2, 1}, {-1, 3}}, pts)
}

func TestReadMalformed(t *testing.T) {
	for _, src := range []string{"0\n", "a 1\n", "1 b\n", "1.5 2\n"} {
		_, err := Read(strings.NewReader(src))
		require.Error(t, err, src)
		assert.True(t, errs.Is(err, errs.ErrCodeMalformedInput), src)
	}
}

func TestReadEmpty(t *testing.T) {
	pts, err := Read(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, pts)
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestLoadAllSkipsMissing(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "traj0", "0 0\n1 0\n")
	writeFile(t, dir, "traj2", "0 0\n0 1\n")

	s := LoadAll(dir, "", 5)
	require.Len(t, s.Trajectories, 2)
	assert.Equal(t, 0, s.Trajectories[0].Index)
	assert.Equal(t, 2, s.Trajectories[1].Index)
	assert.Equal(t, []int{1, 3, 4}, s.Missing)
	assert.Empty(t, s.Failed)
	assert.Equal(t, 5, s.Count)
}

func TestLoadAllRecordsFailures(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "walk0", "0 0\n")
	writeFile(t, dir, "walk1", "not a point\n")

	s := LoadAll(dir, "walk", 2)
	require.Len(t, s.Trajectories, 1)
	require.Contains(t, s.Failed, 1)
	assert.True(t, errs.Is(s.Failed[1], errs.ErrCodeMalformedInput))
	assert.Empty(t, s.Missing)
}

func TestLoadAllNothingPresent(t *testing.T) {
	s := LoadAll(t.TempDir(), "traj", 3)
	assert.Empty(t, s.Trajectories)
	assert.Equal(t, []int{0, 1, 2}, s.Missing)
}

func TestPaths(t *testing.T) {
	assert.Equal(t,
		[]string{filepath.Join("data", "traj0"), filepath.Join("data", "traj1")},
		Paths("data", "", 2))
	assert.Equal(t, []string{filepath.Join("d", "walk0")}, Paths("d", "walk", 1))
	assert.Empty(t, Paths("d", "walk", 0))
}
