package semver

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	mmsemver "github.com/Masterminds/semver/v3"
)

// Prerelease is the structured prerelease component of a version: a
// human identifier (alpha, beta, rc, ...) paired with a monotonically
// increasing iteration counter.
type Prerelease struct {
	Ident     string
	Iteration uint64
}

// ParsePrerelease parses a prerelease segment of the form
// "<ident>.<iteration>". Any other shape, including a bare identifier
// or extra dot-separated components, is rejected.
func ParsePrerelease(s string) (Prerelease, error) {
	parts := strings.Split(s, ".")
	if len(parts) != 2 {
		return Prerelease{}, fmt.Errorf("%w: %q must have exactly two dot-separated components", ErrMalformedPrerelease, s)
	}
	if parts[0] == "" {
		return Prerelease{}, fmt.Errorf("%w: %q has an empty identifier", ErrMalformedPrerelease, s)
	}
	iter, err := strconv.ParseUint(parts[1], 10, 64)
	if err != nil {
		return Prerelease{}, fmt.Errorf("%w: counter in %q must be numeric", ErrMalformedPrerelease, s)
	}
	return Prerelease{Ident: parts[0], Iteration: iter}, nil
}

// String renders the canonical "<ident>.<iteration>" form.
func (p Prerelease) String() string {
	return p.Ident + "." + strconv.FormatUint(p.Iteration, 10)
}

// Increment returns a new Prerelease with the same identifier and the
// next iteration.
func (p Prerelease) Increment() (Prerelease, error) {
	if p.Iteration == math.MaxUint64 {
		return Prerelease{}, fmt.Errorf("prerelease iteration: %w", ErrVersionOverflow)
	}
	return Prerelease{Ident: p.Ident, Iteration: p.Iteration + 1}, nil
}

// Compare compares two prereleases by semver precedence of their
// serialized forms. The comparison is delegated to the underlying
// version library so that numeric and alphanumeric identifiers rank
// exactly as they do in full version comparisons.
func (p Prerelease) Compare(other Prerelease) int {
	a := mmsemver.New(0, 0, 0, p.String(), "")
	b := mmsemver.New(0, 0, 0, other.String(), "")
	return a.Compare(b)
}

// validate rejects identifiers the prerelease grammar does not allow
// (anything outside dot-separated ASCII alphanumerics and hyphens).
func (p Prerelease) validate() error {
	scratch := mmsemver.New(0, 0, 0, "", "")
	if _, err := scratch.SetPrerelease(p.String()); err != nil {
		return fmt.Errorf("%w: %q: %v", ErrMalformedPrerelease, p.String(), err)
	}
	return nil
}
