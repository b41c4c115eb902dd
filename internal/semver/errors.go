package semver

import "errors"

var (
	// ErrInvalidVersion is returned when a version string does not
	// conform to the semantic version grammar.
	ErrInvalidVersion = errors.New("invalid version format")

	// ErrMalformedPrerelease is returned when a prerelease segment does
	// not decompose into exactly <ident>.<iteration>.
	ErrMalformedPrerelease = errors.New("malformed prerelease")

	// ErrMalformedBuild is returned when build metadata violates the
	// build-metadata grammar.
	ErrMalformedBuild = errors.New("malformed build metadata")

	// ErrVersionOverflow is returned when an increment would exceed the
	// maximum representable component value.
	ErrVersionOverflow = errors.New("version component overflow")

	// ErrPrereleaseNotAdvancing is returned when a prerelease transition
	// target does not sort strictly after the current prerelease.
	ErrPrereleaseNotAdvancing = errors.New("new prerelease must sort after the current prerelease")
)
