// Package misc holds program identity details filled at link time.
package misc

import (
	"runtime/debug"
)

// Set with -ldflags "-X rpkg/misc.version=... -X rpkg/misc.githash=...".
var (
	version = "dev"
	githash = ""
)

const appName = "rpkg"

func GetAppName() string {
	return appName
}

func GetVersion() string {
	return version
}

// GetGitHash returns commit hash program was built from. When not set at
// link time falls back to VCS information recorded by the go tool.
func GetGitHash() string {
	if len(githash) > 0 {
		return githash
	}
	if bi, ok := debug.ReadBuildInfo(); ok {
		for _, s := range bi.Settings {
			if s.Key == "vcs.revision" {
				return s.Value
			}
		}
	}
	return "unknown"
}
