package semver

import "fmt"

// State classifies a version for transition purposes. It is always
// derived from the version itself, never stored.
type State int

const (
	// StateRelease is a version without a prerelease component.
	StateRelease State = iota
	// StatePrerelease is a version with a prerelease component.
	StatePrerelease
)

// String returns a human-readable state name.
func (s State) String() string {
	switch s {
	case StateRelease:
		return "release"
	case StatePrerelease:
		return "prerelease"
	default:
		return "unknown"
	}
}

// State returns the transition state of the version.
func (v Version) State() State {
	if v.hasPre {
		return StatePrerelease
	}
	return StateRelease
}

// Kind identifies one of the five transition kinds.
type Kind int

const (
	KindStartPrerelease Kind = iota
	KindIncrementPrerelease
	KindTransitionPrerelease
	KindFinalizeRelease
	KindBumpRelease
)

// Kinds lists every transition kind, in declaration order.
var Kinds = []Kind{
	KindStartPrerelease,
	KindIncrementPrerelease,
	KindTransitionPrerelease,
	KindFinalizeRelease,
	KindBumpRelease,
}

// String returns a human-readable kind name.
func (k Kind) String() string {
	switch k {
	case KindStartPrerelease:
		return "start prerelease"
	case KindIncrementPrerelease:
		return "increment prerelease"
	case KindTransitionPrerelease:
		return "transition prerelease"
	case KindFinalizeRelease:
		return "finalize release"
	case KindBumpRelease:
		return "bump release"
	default:
		return "unknown"
	}
}

// TransitionError reports a transition requested from the wrong state.
type TransitionError struct {
	From State
	Kind Kind
	msg  string
}

func (e *TransitionError) Error() string { return e.msg }

// cell addresses one entry of the (state, kind) legality grammar.
type cell struct {
	from State
	kind Kind
}

// legalCells enumerates the allowed combinations of the 2x5 grammar.
var legalCells = map[cell]bool{
	{StateRelease, KindStartPrerelease}:         true,
	{StateRelease, KindBumpRelease}:             true,
	{StatePrerelease, KindIncrementPrerelease}:  true,
	{StatePrerelease, KindTransitionPrerelease}: true,
	{StatePrerelease, KindFinalizeRelease}:      true,
}

// illegalCells maps every forbidden combination to its error. Together
// with legalCells this covers the full 2x5 matrix.
var illegalCells = map[cell]*TransitionError{
	{StatePrerelease, KindStartPrerelease}: {
		From: StatePrerelease, Kind: KindStartPrerelease,
		msg: "a prerelease can only be started from a release version (e.g. 1.2.3)",
	},
	{StateRelease, KindIncrementPrerelease}: {
		From: StateRelease, Kind: KindIncrementPrerelease,
		msg: "a prerelease can only be incremented from an existing prerelease version",
	},
	{StateRelease, KindTransitionPrerelease}: {
		From: StateRelease, Kind: KindTransitionPrerelease,
		msg: "only a prerelease version can transition to another prerelease",
	},
	{StateRelease, KindFinalizeRelease}: {
		From: StateRelease, Kind: KindFinalizeRelease,
		msg: "a release can only be finalized from a prerelease version",
	},
	{StatePrerelease, KindBumpRelease}: {
		From: StatePrerelease, Kind: KindBumpRelease,
		msg: "cannot bump the version line of a prerelease version",
	},
}

// validateTransition checks the legality grammar. A combination found
// in neither table indicates a broken internal contract.
func validateTransition(from State, k Kind) error {
	key := cell{from: from, kind: k}
	if legalCells[key] {
		return nil
	}
	if err, ok := illegalCells[key]; ok {
		return err
	}
	return fmt.Errorf("internal invariant violated: unhandled transition %q from %s state", k, from)
}
