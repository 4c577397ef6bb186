// Package buildinfo provides build-time version information.
//
// Variables are set via ldflags during build:
//
//	go build -ldflags "-X github.com/matzehuels/funnel/pkg/buildinfo.Version=v1.0.0 \
//	    -X github.com/matzehuels/funnel/pkg/buildinfo.Commit=$(git rev-parse HEAD) \
//	    -X github.com/matzehuels/funnel/pkg/buildinfo.Date=$(date -u +%Y-%m-%dT%H:%M:%SZ)"
//
// Binaries installed with "go install" carry no ldflags; their module
// version is read from the embedded build info instead.
package buildinfo

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

var (
	// Version is the semantic version (e.g., "v1.2.3").
	Version = "dev"

	// Commit is the git commit SHA.
	Commit = "none"

	// Date is the build timestamp.
	Date = "unknown"
)

// version returns Version, falling back to the main module version.
func version() string {
	if Version != "dev" {
		return Version
	}
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
		return info.Main.Version
	}
	return Version
}

func shortCommit() string {
	if len(Commit) > 7 {
		return Commit[:7]
	}
	return Commit
}

// String returns the multi-line build information printed by "funnel version".
func String() string {
	return fmt.Sprintf("funnel %s\ncommit: %s\nbuilt: %s\ngo: %s", version(), Commit, Date, runtime.Version())
}

// Template returns the version template string for cobra.
func Template() string {
	return fmt.Sprintf("{{.Name}} version %s\ncommit: %s\nbuilt: %s\n", version(), Commit, Date)
}

// Short returns a one-line description, e.g. "funnel v1.2.0 (abc1234)".
func Short() string {
	return fmt.Sprintf("funnel %s (%s)", version(), shortCommit())
}
