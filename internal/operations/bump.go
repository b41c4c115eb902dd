// Package operations implements the two-phase batch bump: first every
// transition is computed in memory, then — and only if the whole batch
// succeeded — the manifests are rewritten. A dependent is therefore
// never written with a version from a partially-completed batch.
package operations

import (
	"context"
	"fmt"

	"github.com/indaco/relmate/internal/core"
	"github.com/indaco/relmate/internal/manifest"
	"github.com/indaco/relmate/internal/semver"
	"github.com/indaco/relmate/internal/workspace"
)

// Change is one package's planned version transition.
type Change struct {
	Package *workspace.Package
	From    semver.Version
	To      semver.Version
}

// DepUpdate is one planned propagation: a dependent package whose
// manifest records a path dependency on a changed package.
type DepUpdate struct {
	ManifestPath string
	Dependent    string
	Dependency   string
	Table        string
	To           semver.Version
}

// Plan is the computed outcome of a batch bump. It holds no handles to
// external state; applying it is a separate, explicit step.
type Plan struct {
	Changes    []Change
	DepUpdates []DepUpdate
}

// Compute runs the pure phase: it applies the transition to every
// selected package and, when propagation is enabled, collects the
// dependency updates implied by the changed versions. Any failure
// aborts the whole batch before a single write happens.
func Compute(ws *workspace.Workspace, selected []*workspace.Package, t semver.Transition, propagate bool) (*Plan, error) {
	if len(selected) == 0 {
		return nil, workspace.ErrNoPackages
	}

	plan := &Plan{}
	changed := make(map[string]semver.Version, len(selected))

	for _, pkg := range selected {
		current, err := semver.Parse(pkg.Version)
		if err != nil {
			return nil, fmt.Errorf("package %s: %w", pkg.Name, err)
		}
		next, err := current.Apply(t)
		if err != nil {
			return nil, fmt.Errorf("package %s: %w", pkg.Name, err)
		}
		plan.Changes = append(plan.Changes, Change{Package: pkg, From: current, To: next})
		changed[pkg.Name] = next
	}

	if propagate {
		for _, pkg := range ws.Packages {
			for _, dep := range pkg.Dependencies {
				if !dep.IsPathDependency() {
					continue
				}
				to, ok := changed[dep.Name]
				if !ok {
					continue
				}
				if dep.Version == "" {
					// Entry has no version key; adding one would change
					// how the dependency resolves.
					continue
				}
				plan.DepUpdates = append(plan.DepUpdates, DepUpdate{
					ManifestPath: pkg.ManifestPath,
					Dependent:    pkg.Name,
					Dependency:   dep.Name,
					Table:        dep.Table,
					To:           to,
				})
			}
		}
	}

	return plan, nil
}

// SingleTarget returns the common target version of all changes, or
// false when the batch moves packages to different versions.
func (p *Plan) SingleTarget() (semver.Version, bool) {
	if len(p.Changes) == 0 {
		return semver.Version{}, false
	}
	target := p.Changes[0].To
	for _, c := range p.Changes[1:] {
		if c.To != target {
			return semver.Version{}, false
		}
	}
	return target, true
}

// Apply runs the write phase: package versions first, dependency
// updates second, extra files last. Extra files are only written when
// the batch has a single target version.
func (p *Plan) Apply(ctx context.Context, fs core.FileSystem, extras []manifest.ExtraFile) error {
	w := manifest.NewWriter(fs)

	for _, c := range p.Changes {
		if err := w.WriteVersion(ctx, c.Package.ManifestPath, c.To.String()); err != nil {
			return fmt.Errorf("package %s: %w", c.Package.Name, err)
		}
	}

	for _, u := range p.DepUpdates {
		if _, err := w.WriteDependencyVersion(ctx, u.ManifestPath, u.Dependency, u.To.String()); err != nil {
			return fmt.Errorf("dependency %s of %s: %w", u.Dependency, u.Dependent, err)
		}
	}

	if len(extras) > 0 {
		target, ok := p.SingleTarget()
		if !ok {
			return fmt.Errorf("extra files need a single target version, but the batch produced several")
		}
		for _, ef := range extras {
			if err := w.WriteExtra(ctx, ef, target.String()); err != nil {
				return err
			}
		}
	}

	return nil
}
