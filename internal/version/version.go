// Package version reports the build's version, set via -ldflags or read
// from the module build info.
package version

import (
	"fmt"
	"runtime/debug"
)

// Set at build time:
//
//	-ldflags "-X bennypowers.dev/tldedent/internal/version.Version=v0.1.0 ..."
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildTime = "unknown"
)

// readBuildInfo is swapped in tests
var readBuildInfo = debug.ReadBuildInfo

// GetVersion returns the ldflags version, else the module version from the
// build info, else "dev"
func GetVersion() string {
	if Version != "dev" {
		return Version
	}
	if info, ok := readBuildInfo(); ok {
		if v := info.Main.Version; v != "" && v != "(devel)" {
			return v
		}
	}
	return "dev"
}

// GetFullVersion returns the version with commit and build time when known
func GetFullVersion() string {
	v := GetVersion()
	if GitCommit != "unknown" {
		commit := GitCommit
		if len(commit) > 7 {
			commit = commit[:7]
		}
		v = fmt.Sprintf("%s (commit: %s)", v, commit)
	}
	if BuildTime != "unknown" {
		v = fmt.Sprintf("%s built %s", v, BuildTime)
	}
	return v
}
