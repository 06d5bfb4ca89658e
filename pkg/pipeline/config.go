package pipeline

import (
	"errors"
	"os"
	"strings"

	"github.com/BurntSushi/toml"

	errs "github.com/apopov/latfig/pkg/errors"
)

// DefaultConfigFile is read by the CLI when present and no --config is given.
const DefaultConfigFile = "latfig.toml"

// LoadConfig reads Options from a TOML file. Keys mirror the toml tags on
// [Options]; unknown keys are rejected so typos do not silently fall back to
// defaults. Defaults are not applied here.
//
//	data_dir = "data"
//	datasets = ["paths_dp", "wall"]
//	formats  = ["png", "pdf"]
//
//	[trajectories]
//	count = 5
//	end   = [40, 20]
func LoadConfig(path string) (Options, error) {
	var opts Options
	if err := errs.ValidatePath(path); err != nil {
		return opts, err
	}
	md, err := toml.DecodeFile(path, &opts)
	if errors.Is(err, os.ErrNotExist) {
		return opts, errs.Wrap(errs.ErrCodeMissingInput, err, "config %s not found", path)
	}
	if err != nil {
		return opts, errs.Wrap(errs.ErrCodeInvalidConfig, err, "parse %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return opts, errs.New(errs.ErrCodeInvalidConfig, "%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	return opts, nil
}

// LoadDefaultConfig reads DefaultConfigFile from the working directory. A
// missing file is not an error and yields zero Options.
func LoadDefaultConfig() (Options, error) {
	opts, err := LoadConfig(DefaultConfigFile)
	if errs.Is(err, errs.ErrCodeMissingInput) {
		return Options{}, nil
	}
	return opts, err
}
