// Package buildinfo holds version and build metadata stamped at compile
// time via ldflags, for the daemon's startup log line and status surfaces.
package buildinfo

import (
	"fmt"
	"runtime"
	"time"
)

// These variables are set at build time via -ldflags.
var (
	Version   = "dev"
	GitCommit = "unknown"
	GitBranch = "unknown"
	BuildTime = "unknown"
)

// startTime records when the process started.
var startTime = time.Now()

// Uptime returns the duration since process start.
func Uptime() time.Duration {
	return time.Since(startTime).Truncate(time.Second)
}

// String returns a one-line summary of version, commit, branch, build time
// and Go version.
func String() string {
	return fmt.Sprintf("schlazicontrol %s (%s@%s) built %s, %s",
		Version, GitCommit, GitBranch, BuildTime, runtime.Version())
}
