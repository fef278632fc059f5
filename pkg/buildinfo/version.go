// Package buildinfo provides build-time version information.
//
// Variables are set via ldflags during build:
//
//	go build -ldflags "-X github.com/matzehuels/branchtime/pkg/buildinfo.Version=v1.0.0 \
//	    -X github.com/matzehuels/branchtime/pkg/buildinfo.Commit=$(git rev-parse HEAD)"
//
// The metrics and tracing adapters report these values so that dashboards
// can tell engine versions apart.
package buildinfo

import "fmt"

var (
	// Version is the semantic version (e.g., "v1.2.3").
	Version = "dev"

	// Commit is the git commit SHA.
	Commit = "none"
)

// String returns the formatted build information.
func String() string {
	return fmt.Sprintf("branchtime %s (%s)", Version, Commit)
}
