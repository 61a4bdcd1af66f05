// Package buildinfo provides build information for kvwire-cli.
//
// This package exposes build-time information injected via ldflags:
//
//   - Version: Semantic version (e.g., "v1.0.0")
//   - Commit: Git commit hash
//   - BuildTime: Build timestamp
//
// When a value is not injected it falls back to what the Go toolchain
// embedded in the binary (module version, vcs.revision, vcs.time).
//
// Usage:
//
//	go build -ldflags "-X github.com/yndnr/kvwire-go/internal/infra/buildinfo.Version=v1.0.0"
package buildinfo
