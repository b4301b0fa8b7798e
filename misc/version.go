// Package misc provides build information helpers.
package misc

import (
	"runtime/debug"

	"svgtint/svg"
)

const appName = "svgtint"

// GetAppName returns the program name used for logger naming and temp files.
func GetAppName() string {
	return appName
}

// GetVersion returns the library version constant.
func GetVersion() string {
	return svg.Version
}

// GetGitHash returns the VCS revision recorded in build info, if any.
func GetGitHash() string {
	if bi, ok := debug.ReadBuildInfo(); ok {
		for _, s := range bi.Settings {
			if s.Key == "vcs.revision" {
				return s.Value
			}
		}
	}
	return "unknown"
}
