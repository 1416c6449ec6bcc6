// Package version is the single source of truth for build version info.
// Release builds override these via -ldflags; the values here are the
// fallback for plain `go build`.
package version

var (
	Version   = "v1.2.0-dev"
	BuildTime = "2026-08-29"
)
