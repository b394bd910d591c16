// Package build provides version and build information for gotestnotify.
// It has no dependencies on other internal packages.
package build

import (
	"fmt"
	"runtime"
)

var (
	// Version information - set via ldflags during build
	Version   = "dev"
	Commit    = "unknown"
	BuildDate = "unknown"
)

// IsDevBuild returns true if running a development build (not a release)
func IsDevBuild() bool {
	return Version == "dev"
}

// Platform returns GOOS/GOARCH of the running binary
func Platform() string {
	return fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH)
}

// ShortCommit truncates a commit hash to 8 characters
func ShortCommit(commit string) string {
	if len(commit) > 8 {
		return commit[:8]
	}
	return commit
}
