// Package version exposes the build version of taskdeck. The variables are
// set at link time:
//
//	go build -ldflags "-X github.com/rshade/taskdeck/pkg/version.version=v1.2.0"
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

//nolint:gochecknoglobals // Set by -ldflags.
var (
	version   = "dev"
	gitCommit = ""
	buildDate = ""
)

// GetVersion returns the release version, falling back to the module
// version recorded by the Go toolchain.
func GetVersion() string {
	if version != "dev" {
		return version
	}
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
		return info.Main.Version
	}
	return version
}

// GetGitCommit returns the commit the binary was built from, if known.
func GetGitCommit() string {
	if gitCommit != "" {
		return gitCommit
	}
	if info, ok := debug.ReadBuildInfo(); ok {
		for _, s := range info.Settings {
			if s.Key == "vcs.revision" {
				return s.Value
			}
		}
	}
	return "unknown"
}

// GetBuildDate returns the build timestamp, if known.
func GetBuildDate() string {
	if buildDate == "" {
		return "unknown"
	}
	return buildDate
}

// String returns a one-line description of the build.
func String() string {
	return fmt.Sprintf("taskdeck %s (commit %s, built %s, %s %s/%s)",
		GetVersion(), GetGitCommit(), GetBuildDate(), runtime.Version(), runtime.GOOS, runtime.GOARCH)
}
