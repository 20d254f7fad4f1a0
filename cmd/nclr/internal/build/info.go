// Package build carries version metadata injected at link time via
// -ldflags.
package build

import (
	"fmt"
	"runtime"
)

// Info describes the binary that is running.
type Info struct {
	Version   string
	Commit    string
	BuildDate string
	GoVersion string
	Platform  string
}

var info *Info

// SetBuildInfo initializes the global build info from values the main
// package receives as its version/commit/date string literals.
func SetBuildInfo(version, commit, date string) {
	info = &Info{
		Version:   version,
		Commit:    commit,
		BuildDate: date,
		GoVersion: runtime.Version(),
		Platform:  fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH),
	}
}

// Get returns the current build info, a default "unknown" Info if
// SetBuildInfo was never called.
func Get() Info {
	if info == nil {
		return Info{
			Version:   "unknown",
			Commit:    "unknown",
			BuildDate: "unknown",
			GoVersion: runtime.Version(),
			Platform:  fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH),
		}
	}
	return *info
}

// String renders a one-line human-readable summary.
func (i Info) String() string {
	return fmt.Sprintf("nclr version %s (commit: %s, built: %s, %s, %s)",
		i.Version, i.Commit, i.BuildDate, i.GoVersion, i.Platform)
}
