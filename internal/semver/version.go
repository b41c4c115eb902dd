// Package semver implements the semantic-version value type and the
// transition engine that advances versions between release and
// prerelease states. Parsing, validation, and precedence comparison
// are delegated to github.com/Masterminds/semver so that user-visible
// ordering matches the library's semantics exactly.
package semver

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	mmsemver "github.com/Masterminds/semver/v3"
)

// Version is an immutable semantic version. All transformation methods
// return a new value and leave the receiver untouched.
type Version struct {
	major  uint64
	minor  uint64
	patch  uint64
	pre    Prerelease
	hasPre bool
	build  string
}

// Parse parses a MAJOR.MINOR.PATCH[-PRERELEASE][+BUILD] string. A
// prerelease segment, when present, must have the exact
// <ident>.<iteration> shape.
func Parse(s string) (Version, error) {
	sv, err := mmsemver.StrictNewVersion(strings.TrimSpace(s))
	if err != nil {
		return Version{}, fmt.Errorf("%w: %q: %v", ErrInvalidVersion, s, err)
	}

	v := Version{
		major: sv.Major(),
		minor: sv.Minor(),
		patch: sv.Patch(),
		build: sv.Metadata(),
	}
	if raw := sv.Prerelease(); raw != "" {
		pre, err := ParsePrerelease(raw)
		if err != nil {
			return Version{}, err
		}
		v.pre = pre
		v.hasPre = true
	}
	return v, nil
}

// MustParse parses s and panics on failure. Intended for tests and
// constants.
func MustParse(s string) Version {
	v, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return v
}

// Major returns the major component.
func (v Version) Major() uint64 { return v.major }

// Minor returns the minor component.
func (v Version) Minor() uint64 { return v.minor }

// Patch returns the patch component.
func (v Version) Patch() uint64 { return v.patch }

// Prerelease returns the structured prerelease component, if any.
func (v Version) Prerelease() (Prerelease, bool) {
	return v.pre, v.hasPre
}

// Build returns the build metadata, if any.
func (v Version) Build() (string, bool) {
	return v.build, v.build != ""
}

// IsPrerelease reports whether the version carries a prerelease
// component.
func (v Version) IsPrerelease() bool { return v.hasPre }

// String renders the canonical form. The result round-trips through
// Parse.
func (v Version) String() string {
	var sb strings.Builder
	sb.Grow(16)
	sb.WriteString(strconv.FormatUint(v.major, 10))
	sb.WriteByte('.')
	sb.WriteString(strconv.FormatUint(v.minor, 10))
	sb.WriteByte('.')
	sb.WriteString(strconv.FormatUint(v.patch, 10))
	if v.hasPre {
		sb.WriteByte('-')
		sb.WriteString(v.pre.String())
	}
	if v.build != "" {
		sb.WriteByte('+')
		sb.WriteString(v.build)
	}
	return sb.String()
}

// Compare compares two versions by semver precedence. Build metadata is
// ignored, and a prerelease ranks below its release version.
func (v Version) Compare(other Version) int {
	return v.lib().Compare(other.lib())
}

// BumpLevel increments the requested component and resets the lower
// ones. The prerelease and build components are cleared; callers that
// need them re-apply afterwards. Incrementing past the maximum
// representable value fails instead of wrapping.
func (v Version) BumpLevel(level Level) (Version, error) {
	switch level {
	case LevelMajor:
		if v.major == math.MaxUint64 {
			return Version{}, fmt.Errorf("major component: %w", ErrVersionOverflow)
		}
		return Version{major: v.major + 1}, nil
	case LevelMinor:
		if v.minor == math.MaxUint64 {
			return Version{}, fmt.Errorf("minor component: %w", ErrVersionOverflow)
		}
		return Version{major: v.major, minor: v.minor + 1}, nil
	case LevelPatch:
		if v.patch == math.MaxUint64 {
			return Version{}, fmt.Errorf("patch component: %w", ErrVersionOverflow)
		}
		return Version{major: v.major, minor: v.minor, patch: v.patch + 1}, nil
	default:
		return Version{}, fmt.Errorf("unknown release level %d", level)
	}
}

// WithPrerelease returns a copy with the prerelease replaced.
func (v Version) WithPrerelease(p Prerelease) Version {
	v.pre = p
	v.hasPre = true
	return v
}

// ClearPrerelease returns a copy without a prerelease component.
func (v Version) ClearPrerelease() Version {
	v.pre = Prerelease{}
	v.hasPre = false
	return v
}

// WithBuild returns a copy with the build metadata replaced. An empty
// string clears it. Non-empty metadata is validated against the
// library's build-metadata grammar.
func (v Version) WithBuild(build string) (Version, error) {
	if build != "" {
		scratch := mmsemver.New(0, 0, 0, "", "")
		if _, err := scratch.SetMetadata(build); err != nil {
			return Version{}, fmt.Errorf("%w: %q: %v", ErrMalformedBuild, build, err)
		}
	}
	v.build = build
	return v, nil
}

// lib converts to the underlying library representation for comparison.
func (v Version) lib() *mmsemver.Version {
	pre := ""
	if v.hasPre {
		pre = v.pre.String()
	}
	return mmsemver.New(v.major, v.minor, v.patch, pre, v.build)
}

// Level selects which version component a bump increments.
type Level int

const (
	LevelPatch Level = iota
	LevelMinor
	LevelMajor
)

// ParseLevel converts a CLI argument into a Level.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(s) {
	case "patch":
		return LevelPatch, nil
	case "minor":
		return LevelMinor, nil
	case "major":
		return LevelMajor, nil
	default:
		return 0, fmt.Errorf("invalid release level %q: expected patch, minor, or major", s)
	}
}

// String returns the lowercase level name.
func (l Level) String() string {
	switch l {
	case LevelPatch:
		return "patch"
	case LevelMinor:
		return "minor"
	case LevelMajor:
		return "major"
	default:
		return "unknown"
	}
}
