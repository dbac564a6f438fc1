package buildinfo

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGet(t *testing.T) {
	info := Get()

	assert.Equal(t, runtime.Version(), info.GoVersion)
	assert.Equal(t, runtime.GOOS, info.Platform)
	assert.Equal(t, runtime.GOARCH, info.Architecture)
	assert.NotEmpty(t, info.Commit)
	assert.NotEmpty(t, info.BuildTime)
}

func TestVersionOr(t *testing.T) {
	prev := Version
	t.Cleanup(func() { Version = prev })

	Version = ""
	assert.Equal(t, "1.0.0", VersionOr("1.0.0"))

	Version = "2.3.4"
	assert.Equal(t, "2.3.4", VersionOr("1.0.0"))
}

func TestInfo_String(t *testing.T) {
	info := Info{
		Commit:       "abc123",
		BuildTime:    "2026-01-02T03:04:05Z",
		GoVersion:    "go1.24.4",
		Platform:     "linux",
		Architecture: "amd64",
	}
	assert.Equal(t, "dev (abc123) built at 2026-01-02T03:04:05Z with go1.24.4 for linux/amd64", info.String())

	info.Version = "1.0.0"
	assert.Contains(t, info.String(), "1.0.0 (abc123)")
}
