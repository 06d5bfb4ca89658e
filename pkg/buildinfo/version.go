// Package buildinfo holds version information stamped in at link time:
//
//	go build -ldflags "-X github.com/apopov/latfig/pkg/buildinfo.Version=v0.3.0 \
//	    -X github.com/apopov/latfig/pkg/buildinfo.Commit=$(git rev-parse --short HEAD) \
//	    -X github.com/apopov/latfig/pkg/buildinfo.Date=$(date -u +%Y-%m-%d)"
package buildinfo

import "fmt"

var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// String returns the build information as three labelled lines.
func String() string {
	return fmt.Sprintf("version: %s\ncommit: %s\nbuilt: %s", Version, Commit, Date)
}

// Template is the cobra version template.
func Template() string {
	return fmt.Sprintf("{{.Name}} %s (commit %s, built %s)\n", Version, Commit, Date)
}
