// Package version reports the hookify build version.
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

// Version is set via ldflags for release builds.
var Version string

// Get returns [Version], or the VCS revision the binary was built from.
func Get() string {
	if Version != "" {
		return Version
	}

	info, ok := debug.ReadBuildInfo()
	if !ok {
		return "unknown"
	}

	return revision(info)
}

// String returns the version with the Go toolchain and platform.
func String() string {
	return fmt.Sprintf("%s (%s %s/%s)", Get(), runtime.Version(), runtime.GOOS, runtime.GOARCH)
}

func revision(info *debug.BuildInfo) string {
	var (
		rev      string
		modified bool
	)

	for _, s := range info.Settings {
		switch s.Key {
		case "vcs.revision":
			rev = s.Value
			if len(rev) > 7 {
				rev = rev[:7]
			}

		case "vcs.modified":
			modified = s.Value == "true"
		}
	}

	switch {
	case rev == "" && info.Main.Version != "":
		return info.Main.Version
	case rev == "":
		return "unknown"
	case modified:
		return rev + "-dirty"
	}

	return rev
}
