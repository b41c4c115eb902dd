// Package workspace discovers the packages of a multi-package
// repository from its root manifest and implements the selection rules
// shared by all commands.
package workspace

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/indaco/relmate/internal/core"
	"github.com/pelletier/go-toml/v2"
)

// ManifestName is the manifest file expected in the workspace root and
// in every member directory.
const ManifestName = "Cargo.toml"

var (
	// ErrConflictingSelection is returned when --workspace and
	// --package are combined.
	ErrConflictingSelection = errors.New("cannot combine --workspace with --package")

	// ErrPackageNotFound is returned when an explicitly named package
	// is not a workspace member.
	ErrPackageNotFound = errors.New("package not found")

	// ErrNoPackages is returned when a selection resolves to nothing.
	ErrNoPackages = errors.New("no packages found")

	// ErrVersionMismatch is returned when a single consistent version
	// is demanded but the selected packages disagree.
	ErrVersionMismatch = errors.New("selected packages have different versions")
)

// Dependency is one entry of a package's dependency tables. Path is
// non-empty only for in-repository (path-based) dependencies.
type Dependency struct {
	Name    string
	Version string
	Path    string
	Table   string
}

// IsPathDependency reports whether the dependency points into the
// repository rather than a registry.
func (d Dependency) IsPathDependency() bool { return d.Path != "" }

// Package is one workspace member.
type Package struct {
	Name         string
	Version      string
	ManifestPath string
	Dir          string
	Dependencies []Dependency
}

// Workspace is the loaded package set of a repository.
type Workspace struct {
	Root        string
	Packages    []*Package
	RootPackage *Package

	byName map[string]*Package
}

// manifestDoc mirrors the manifest tables the loader cares about.
// Unknown tables are ignored.
type manifestDoc struct {
	Workspace *struct {
		Members []string `toml:"members"`
	} `toml:"workspace"`
	Package *struct {
		Name    string `toml:"name"`
		Version string `toml:"version"`
	} `toml:"package"`
	Dependencies      map[string]any `toml:"dependencies"`
	DevDependencies   map[string]any `toml:"dev-dependencies"`
	BuildDependencies map[string]any `toml:"build-dependencies"`
}

// Load reads the root manifest in rootDir and resolves all workspace
// members. The root package, when present, is part of the result.
func Load(ctx context.Context, fs core.FileSystem, rootDir string) (*Workspace, error) {
	rootManifest := filepath.Join(rootDir, ManifestName)
	doc, err := readManifest(ctx, fs, rootManifest)
	if err != nil {
		return nil, err
	}

	ws := &Workspace{Root: rootDir, byName: make(map[string]*Package)}

	if doc.Package != nil {
		pkg, err := buildPackage(doc, rootManifest, rootDir)
		if err != nil {
			return nil, err
		}
		ws.RootPackage = pkg
		if err := ws.add(pkg); err != nil {
			return nil, err
		}
	}

	if doc.Workspace != nil {
		memberManifests, err := expandMembers(ctx, fs, rootDir, doc.Workspace.Members)
		if err != nil {
			return nil, err
		}
		for _, manifestPath := range memberManifests {
			if manifestPath == filepath.ToSlash(rootManifest) {
				continue
			}
			memberDoc, err := readManifest(ctx, fs, manifestPath)
			if err != nil {
				return nil, err
			}
			if memberDoc.Package == nil {
				return nil, fmt.Errorf("manifest %q has no [package] table", manifestPath)
			}
			pkg, err := buildPackage(memberDoc, manifestPath, filepath.Dir(manifestPath))
			if err != nil {
				return nil, err
			}
			if err := ws.add(pkg); err != nil {
				return nil, err
			}
		}
	}

	if len(ws.Packages) == 0 {
		return nil, fmt.Errorf("%w: %q declares neither a package nor workspace members", ErrNoPackages, rootManifest)
	}
	return ws, nil
}

func (ws *Workspace) add(pkg *Package) error {
	if _, exists := ws.byName[pkg.Name]; exists {
		return fmt.Errorf("duplicate package name %q in workspace", pkg.Name)
	}
	ws.byName[pkg.Name] = pkg
	ws.Packages = append(ws.Packages, pkg)
	return nil
}

// PackageByName looks up a member by name.
func (ws *Workspace) PackageByName(name string) (*Package, bool) {
	pkg, ok := ws.byName[name]
	return pkg, ok
}

// Select resolves the package scope for a command invocation:
//   - all=true with names is ambiguous and rejected;
//   - all=true selects every member;
//   - explicit names each resolve to a member or fail;
//   - neither selects the root package when one exists, otherwise
//     every member.
func (ws *Workspace) Select(all bool, names []string) ([]*Package, error) {
	switch {
	case all && len(names) > 0:
		return nil, ErrConflictingSelection

	case all:
		return ws.Packages, nil

	case len(names) > 0:
		out := make([]*Package, 0, len(names))
		for _, name := range names {
			pkg, ok := ws.byName[name]
			if !ok {
				return nil, fmt.Errorf("%w: %q", ErrPackageNotFound, name)
			}
			out = append(out, pkg)
		}
		return out, nil

	default:
		if ws.RootPackage != nil {
			return []*Package{ws.RootPackage}, nil
		}
		return ws.Packages, nil
	}
}

// SingleVersion asserts that all selected packages share one version
// and returns it.
func SingleVersion(pkgs []*Package) (string, error) {
	if len(pkgs) == 0 {
		return "", ErrNoPackages
	}
	version := pkgs[0].Version
	for _, pkg := range pkgs[1:] {
		if pkg.Version != version {
			return "", fmt.Errorf("%w: %s has %s, %s has %s",
				ErrVersionMismatch, pkgs[0].Name, version, pkg.Name, pkg.Version)
		}
	}
	return version, nil
}

func readManifest(ctx context.Context, fs core.FileSystem, path string) (*manifestDoc, error) {
	data, err := fs.ReadFile(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest %q: %w", path, err)
	}
	var doc manifestDoc
	if err := toml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse manifest %q: %w", path, err)
	}
	return &doc, nil
}

func buildPackage(doc *manifestDoc, manifestPath, dir string) (*Package, error) {
	if doc.Package.Name == "" {
		return nil, fmt.Errorf("manifest %q is missing package.name", manifestPath)
	}
	if doc.Package.Version == "" {
		return nil, fmt.Errorf("manifest %q is missing package.version", manifestPath)
	}

	pkg := &Package{
		Name:         doc.Package.Name,
		Version:      doc.Package.Version,
		ManifestPath: filepath.ToSlash(manifestPath),
		Dir:          filepath.ToSlash(dir),
	}
	pkg.Dependencies = append(pkg.Dependencies, parseDependencyTable(doc.Dependencies, "dependencies")...)
	pkg.Dependencies = append(pkg.Dependencies, parseDependencyTable(doc.DevDependencies, "dev-dependencies")...)
	pkg.Dependencies = append(pkg.Dependencies, parseDependencyTable(doc.BuildDependencies, "build-dependencies")...)
	return pkg, nil
}

// parseDependencyTable interprets one dependency table. Entries are
// either a bare version string or a table with optional path and
// version keys.
func parseDependencyTable(table map[string]any, name string) []Dependency {
	if len(table) == 0 {
		return nil
	}
	deps := make([]Dependency, 0, len(table))
	for depName, raw := range table {
		dep := Dependency{Name: depName, Table: name}
		switch val := raw.(type) {
		case string:
			dep.Version = val
		case map[string]any:
			if v, ok := val["version"].(string); ok {
				dep.Version = v
			}
			if p, ok := val["path"].(string); ok {
				dep.Path = p
			}
		}
		deps = append(deps, dep)
	}
	sort.Slice(deps, func(i, j int) bool { return deps[i].Name < deps[j].Name })
	return deps
}

// expandMembers resolves member glob patterns to manifest paths,
// deduplicated and sorted.
func expandMembers(ctx context.Context, fs core.FileSystem, rootDir string, members []string) ([]string, error) {
	seen := make(map[string]bool)
	var out []string
	for _, member := range members {
		pattern := filepath.ToSlash(filepath.Join(rootDir, member, ManifestName))
		matches, err := fs.Glob(ctx, pattern)
		if err != nil {
			return nil, fmt.Errorf("failed to expand workspace member %q: %w", member, err)
		}
		if len(matches) == 0 && !strings.ContainsAny(member, "*?[") {
			return nil, fmt.Errorf("workspace member %q has no manifest at %q", member, pattern)
		}
		for _, m := range matches {
			m = filepath.ToSlash(m)
			if !seen[m] {
				seen[m] = true
				out = append(out, m)
			}
		}
	}
	sort.Strings(out)
	return out, nil
}
