package buildinfo

import (
	"fmt"
	"runtime"
)

// Build-time variables (set via ldflags).
var (
	// Version is the semantic version. Empty means the configured
	// app.version is used instead.
	Version = ""

	// Commit is the git commit hash.
	Commit = "unknown"

	// BuildTime is the build timestamp.
	BuildTime = "unknown"
)

// Info contains build and runtime information.
type Info struct {
	Version      string `json:"version"`
	Commit       string `json:"commit"`
	BuildTime    string `json:"build_time"`
	GoVersion    string `json:"go_version"`
	Platform     string `json:"platform"`
	Architecture string `json:"architecture"`
}

// Get returns the build information.
func Get() Info {
	return Info{
		Version:      Version,
		Commit:       Commit,
		BuildTime:    BuildTime,
		GoVersion:    runtime.Version(),
		Platform:     runtime.GOOS,
		Architecture: runtime.GOARCH,
	}
}

// VersionOr returns the injected version, or fallback when none was set.
func VersionOr(fallback string) string {
	if Version == "" {
		return fallback
	}
	return Version
}

// String returns a one-line description of the build.
func (i Info) String() string {
	v := i.Version
	if v == "" {
		v = "dev"
	}
	return fmt.Sprintf("%s (%s) built at %s with %s for %s/%s",
		v, i.Commit, i.BuildTime, i.GoVersion, i.Platform, i.Architecture)
}
