// Package buildinfo provides build information for healthy-server.
//
// Version, Commit and BuildTime are injected at build time via ldflags:
//
//	go build -ldflags "-X github.com/darleilopes/healthy-go/internal/infra/buildinfo.Version=1.2.0"
//
// The Go version, platform and architecture come from the runtime.
package buildinfo
