// Package version exposes the build version of the relmate binary.
package version

// Version is set at build time via -ldflags.
var Version = "0.1.0"

// GetVersion returns the current build version.
func GetVersion() string {
	return Version
}
