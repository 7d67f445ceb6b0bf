// Package version is set at link time to describe the build.
package version

import (
	"fmt"
	"runtime"
	"time"
)

// These are overwritten through -ldflags "-X ..." by the release build.
var (
	SemVer    = ""
	GitSHA    = ""
	BuildTime = ""
)

// Short returns the semantic version, or "devel" for local builds.
func Short() string {
	if SemVer == "" {
		return "devel"
	}
	return SemVer
}

// Version returns a newline-terminated string describing the build.
func Version() string {
	if GitSHA == "" {
		return fmt.Sprintf("%s (%s)\n", Short(), runtime.Version())
	}
	built := BuildTime
	if t, err := time.Parse(time.RFC3339, BuildTime); err == nil {
		built = t.In(time.UTC).Format(time.Stamp + " 2006 UTC")
	}
	return fmt.Sprintf(`    Version:        %s
    Build time:     %s
    Git hash:       %s
    Go version:     %s
`, Short(), built, GitSHA, runtime.Version())
}
