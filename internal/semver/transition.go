package semver

// Transition is a request to move a version to its next value. Each of
// the five kinds carries only the parameters its semantics need; the
// build string always replaces existing metadata ("" clears it).
type Transition struct {
	kind  Kind
	level Level
	ident string
	build string
}

// StartPrerelease bumps the given level and opens a fresh prerelease
// line with iteration 1. Legal only from a release version.
func StartPrerelease(level Level, ident, build string) Transition {
	return Transition{kind: KindStartPrerelease, level: level, ident: ident, build: build}
}

// IncrementPrerelease advances the current prerelease counter by one.
// Legal only from a prerelease version.
func IncrementPrerelease(build string) Transition {
	return Transition{kind: KindIncrementPrerelease, build: build}
}

// TransitionPrerelease moves to a new prerelease identifier at
// iteration 1, provided it sorts strictly after the current one. Legal
// only from a prerelease version.
func TransitionPrerelease(ident, build string) Transition {
	return Transition{kind: KindTransitionPrerelease, ident: ident, build: build}
}

// FinalizeRelease drops the prerelease component. Legal only from a
// prerelease version.
func FinalizeRelease(build string) Transition {
	return Transition{kind: KindFinalizeRelease, build: build}
}

// BumpRelease bumps the given level on a release version.
func BumpRelease(level Level, build string) Transition {
	return Transition{kind: KindBumpRelease, level: level, build: build}
}

// Kind returns the transition kind.
func (t Transition) Kind() Kind { return t.kind }

// Apply computes the next version for the transition. The current
// version is classified, the request is checked against the legality
// grammar, and only then is the pure transformation applied. Apply
// never mutates the receiver or any external state; a failed call
// returns the zero Version and a typed error.
func (v Version) Apply(t Transition) (Version, error) {
	if err := validateTransition(v.State(), t.kind); err != nil {
		return Version{}, err
	}

	switch t.kind {
	case KindStartPrerelease:
		return v.startPrerelease(t.level, t.ident, t.build)
	case KindIncrementPrerelease:
		return v.incrementPrerelease(t.build)
	case KindTransitionPrerelease:
		return v.transitionPrerelease(t.ident, t.build)
	case KindFinalizeRelease:
		return v.finalizeRelease(t.build)
	case KindBumpRelease:
		return v.bumpRelease(t.level, t.build)
	default:
		// Unreachable: validateTransition covers the full kind set.
		return Version{}, validateTransition(v.State(), t.kind)
	}
}

func (v Version) startPrerelease(level Level, ident, build string) (Version, error) {
	pre := Prerelease{Ident: ident, Iteration: 1}
	if err := pre.validate(); err != nil {
		return Version{}, err
	}
	next, err := v.BumpLevel(level)
	if err != nil {
		return Version{}, err
	}
	return next.WithPrerelease(pre).WithBuild(build)
}

func (v Version) incrementPrerelease(build string) (Version, error) {
	pre, err := v.pre.Increment()
	if err != nil {
		return Version{}, err
	}
	return v.WithPrerelease(pre).WithBuild(build)
}

func (v Version) transitionPrerelease(ident, build string) (Version, error) {
	next := Prerelease{Ident: ident, Iteration: 1}
	if err := next.validate(); err != nil {
		return Version{}, err
	}
	if next.Compare(v.pre) <= 0 {
		return Version{}, ErrPrereleaseNotAdvancing
	}
	return v.WithPrerelease(next).WithBuild(build)
}

func (v Version) finalizeRelease(build string) (Version, error) {
	return v.ClearPrerelease().WithBuild(build)
}

func (v Version) bumpRelease(level Level, build string) (Version, error) {
	next, err := v.BumpLevel(level)
	if err != nil {
		return Version{}, err
	}
	return next.WithBuild(build)
}
