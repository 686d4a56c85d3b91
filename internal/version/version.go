// Package version exposes the build version, overridden at link time with
// -ldflags "-X .../internal/version.Version=...".
package version

var Version = "dev"
