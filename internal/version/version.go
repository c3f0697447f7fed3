// Package version exposes build metadata for the /system/version endpoint.
package version

// Set at build time via -ldflags.
var (
	Version = "dev"
	Commit  = "none"
)
