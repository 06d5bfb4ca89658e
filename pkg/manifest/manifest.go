package manifest

import (
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/apopov/latfig/pkg/buildinfo"
	errs "github.com/apopov/latfig/pkg/errors"
	"github.com/apopov/latfig/pkg/pipeline"
)

// Manifest is the JSON form of a pipeline.Result.
type Manifest struct {
	Version      string    `json:"version"`
	Generated    time.Time `json:"generated"`
	Duration     string    `json:"duration,omitempty"`
	Figures      []Figure  `json:"figures"`
	Trajectories *Overlay  `json:"trajectories,omitempty"`
}

// Figure is one heatmap item.
type Figure struct {
	Name    string   `json:"name"`
	Dataset string   `json:"dataset"`
	Mode    string   `json:"mode,omitempty"`
	Status  string   `json:"status"`
	Outputs []string `json:"outputs,omitempty"`
	Error   string   `json:"error,omitempty"`
	Rows    int      `json:"rows,omitempty"`
	Cols    int      `json:"cols,omitempty"`
	Stats   *Stats   `json:"stats,omitempty"`
}

// Stats mirrors table.Stats.
type Stats struct {
	Wide               bool    `json:"wide"`
	Max                string  `json:"max"`
	Scale              float64 `json:"scale"`
	RawNonZero         int     `json:"raw_nonzero"`
	TransformedNonZero int     `json:"transformed_nonzero"`
	FloatNonZero       int     `json:"float_nonzero"`
}

// Overlay is the trajectory figure.
type Overlay struct {
	Status  string            `json:"status"`
	Loaded  []int             `json:"loaded"`
	Missing []int             `json:"missing,omitempty"`
	Failed  map[string]string `json:"failed,omitempty"` // index -> error
	Outputs []string          `json:"outputs,omitempty"`
	Error   string            `json:"error,omitempty"`
}

// FromResult converts res, stamping it with the build version and now.
func FromResult(res *pipeline.Result) *Manifest {
	m := &Manifest{
		Version:   buildinfo.Version,
		Generated: time.Now().UTC().Truncate(time.Second),
		Figures:   make([]Figure, 0, len(res.Items)),
	}
	if res.Duration > 0 {
		m.Duration = res.Duration.Round(time.Millisecond).String()
	}

	for _, it := range res.Items {
		f := Figure{
			Name:    it.Name(),
			Dataset: it.Dataset,
			Mode:    it.Mode,
			Status:  string(it.Status),
			Outputs: it.Outputs,
			Rows:    it.Rows,
			Cols:    it.Cols,
		}
		if it.Err != nil {
			f.Error = errs.UserMessage(it.Err)
		}
		if s := it.Stats; s != nil {
			f.Stats = &Stats{
				Wide:               s.Wide,
				Max:                s.Max,
				Scale:              s.Scale,
				RawNonZero:         s.RawNonZero,
				TransformedNonZero: s.TransformedNonZero,
				FloatNonZero:       s.FloatNonZero,
			}
		}
		m.Figures = append(m.Figures, f)
	}

	if tr := res.Trajectories; tr != nil {
		o := &Overlay{
			Status:  string(tr.Status),
			Loaded:  append([]int{}, tr.Loaded...),
			Missing: tr.Missing,
			Outputs: tr.Outputs,
		}
		if tr.Err != nil {
			o.Error = errs.UserMessage(tr.Err)
		}
		if len(tr.Failed) > 0 {
			o.Failed = make(map[string]string, len(tr.Failed))
			for i, err := range tr.Failed {
				o.Failed[strconv.Itoa(i)] = errs.UserMessage(err)
			}
		}
		m.Trajectories = o
	}
	return m
}

// Outputs returns every file the manifest lists, sorted.
func (m *Manifest) Outputs() []string {
	var out []string
	for _, f := range m.Figures {
		out = append(out, f.Outputs...)
	}
	if m.Trajectories != nil {
		out = append(out, m.Trajectories.Outputs...)
	}
	sort.Strings(out)
	return out
}

// Write encodes m as indented JSON to w.
func Write(m *Manifest, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(m); err != nil {
		return errs.Wrap(errs.ErrCodeOutputWrite, err, "encode manifest")
	}
	return nil
}

// Export writes m to path, creating its directory if needed.
func Export(m *Manifest, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errs.Wrap(errs.ErrCodeOutputWrite, err, "create %s", filepath.Dir(path))
	}
	f, err := os.Create(path)
	if err != nil {
		return errs.Wrap(errs.ErrCodeOutputWrite, err, "create %s", path)
	}
	if err := Write(m, f); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return errs.Wrap(errs.ErrCodeOutputWrite, err, "close %s", path)
	}
	return nil
}

// Read decodes a manifest from r.
func Read(r io.Reader) (*Manifest, error) {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	var m Manifest
	if err := dec.Decode(&m); err != nil {
		return nil, errs.Wrap(errs.ErrCodeMalformedInput, err, "decode manifest")
	}
	return &m, nil
}

// Import reads the manifest at path.
func Import(path string) (*Manifest, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, errs.Wrap(errs.ErrCodeMissingInput, err, "manifest %s not found", path)
	}
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeMalformedInput, err, "open %s", path)
	}
	defer f.Close()
	return Read(f)
}
