// Package manifest rewrites version information in manifest files.
// Edits are surgical: only the targeted line changes, every other byte
// of the document (comments, ordering, whitespace) is preserved.
package manifest

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/indaco/relmate/internal/core"
	"github.com/pelletier/go-toml/v2"
)

var (
	// ErrVersionFieldNotFound is returned when a manifest has no
	// version line in the expected table.
	ErrVersionFieldNotFound = errors.New("version field not found")

	// ErrDependencyNotFound is returned when a manifest declares no
	// path-based dependency entry with the requested name.
	ErrDependencyNotFound = errors.New("path dependency not found")
)

// tableHeaderRe matches a TOML table header line such as
// "[package]" or "[dependencies.alpha] # comment".
var tableHeaderRe = regexp.MustCompile(`^\s*\[\s*([^\]]+?)\s*\]\s*(?:#.*)?$`)

// versionLineRe captures the surroundings of a version assignment so
// the replacement keeps spacing and trailing comments intact.
var versionLineRe = regexp.MustCompile(`^(\s*version\s*=\s*)(?:"[^"]*"|'[^']*')(.*)$`)

// pathLineRe matches a path assignment inside a dependency section.
var pathLineRe = regexp.MustCompile(`^\s*path\s*=`)

// Writer performs in-place version edits on manifests.
type Writer struct {
	fs core.FileSystem
}

// NewWriter creates a Writer over the given filesystem.
func NewWriter(fs core.FileSystem) *Writer {
	return &Writer{fs: fs}
}

// WriteVersion replaces the version value in the [package] table,
// leaving the rest of the document untouched.
func (w *Writer) WriteVersion(ctx context.Context, path, version string) error {
	data, err := w.fs.ReadFile(ctx, path)
	if err != nil {
		return fmt.Errorf("failed to read manifest %q: %w", path, err)
	}
	if err := checkTOML(data, path); err != nil {
		return err
	}

	lines := splitLines(string(data))
	table := ""
	replaced := false
	for i, line := range lines {
		if m := tableHeaderRe.FindStringSubmatch(line); m != nil {
			table = m[1]
			continue
		}
		if table != "package" || replaced {
			continue
		}
		if m := versionLineRe.FindStringSubmatch(line); m != nil {
			lines[i] = m[1] + `"` + version + `"` + m[2]
			replaced = true
		}
	}
	if !replaced {
		return fmt.Errorf("%w: no [package] version in %q", ErrVersionFieldNotFound, path)
	}

	return w.fs.WriteFile(ctx, path, []byte(strings.Join(lines, "\n")), core.PermOwnerRW)
}

// WriteDependencyVersion replaces the version sub-field of the named
// path-based dependency. Registry dependencies are never touched. The
// returned bool is false when the entry exists but carries no version
// key; such entries are left alone.
func (w *Writer) WriteDependencyVersion(ctx context.Context, path, dep, version string) (bool, error) {
	data, err := w.fs.ReadFile(ctx, path)
	if err != nil {
		return false, fmt.Errorf("failed to read manifest %q: %w", path, err)
	}
	if err := checkTOML(data, path); err != nil {
		return false, err
	}

	lines := splitLines(string(data))

	updated, found := rewriteInlineDependency(lines, dep, version)
	if !found {
		updated, found = rewriteDependencySection(lines, dep, version)
	}
	if !found {
		return false, fmt.Errorf("%w: %q in %q", ErrDependencyNotFound, dep, path)
	}
	if !updated {
		return false, nil
	}

	if err := w.fs.WriteFile(ctx, path, []byte(strings.Join(lines, "\n")), core.PermOwnerRW); err != nil {
		return false, err
	}
	return true, nil
}

// dependencyTables are the tables whose entries may reference sibling
// packages.
var dependencyTables = map[string]bool{
	"dependencies":       true,
	"dev-dependencies":   true,
	"build-dependencies": true,
}

// rewriteInlineDependency handles the `dep = { path = "...", version =
// "..." }` form inside a dependency table. It reports (updated, found):
// found means a path-based inline entry exists, updated means its
// version value was rewritten.
func rewriteInlineDependency(lines []string, dep, version string) (updated, found bool) {
	entryRe := regexp.MustCompile(`^\s*(?:` + regexp.QuoteMeta(dep) + `|"` + regexp.QuoteMeta(dep) + `")\s*=\s*\{(.*)\}\s*(?:#.*)?$`)
	pathKeyRe := regexp.MustCompile(`(?:^|[,{\s])path\s*=`)
	versionValueRe := regexp.MustCompile(`(version\s*=\s*)(?:"[^"]*"|'[^']*')`)

	table := ""
	for i, line := range lines {
		if m := tableHeaderRe.FindStringSubmatch(line); m != nil {
			table = m[1]
			continue
		}
		if !dependencyTables[table] {
			continue
		}
		m := entryRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		if !pathKeyRe.MatchString(m[1]) {
			continue // registry dependency, leave untouched
		}
		found = true
		if !versionValueRe.MatchString(line) {
			return false, true
		}
		lines[i] = versionValueRe.ReplaceAllString(line, `${1}"`+version+`"`)
		return true, true
	}
	return false, false
}

// rewriteDependencySection handles the `[dependencies.dep]` table form.
func rewriteDependencySection(lines []string, dep, version string) (updated, found bool) {
	start, end := -1, len(lines)
	table := ""
	for i, line := range lines {
		m := tableHeaderRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		table = m[1]
		if start >= 0 {
			end = i
			break
		}
		if isDependencySectionFor(table, dep) {
			start = i
		}
	}
	if start < 0 {
		return false, false
	}

	section := lines[start+1 : end]
	hasPath := false
	versionAt := -1
	for i, line := range section {
		if pathLineRe.MatchString(line) {
			hasPath = true
		}
		if versionLineRe.MatchString(line) && versionAt < 0 {
			versionAt = start + 1 + i
		}
	}
	if !hasPath {
		return false, false
	}
	if versionAt < 0 {
		return false, true
	}
	m := versionLineRe.FindStringSubmatch(lines[versionAt])
	lines[versionAt] = m[1] + `"` + version + `"` + m[2]
	return true, true
}

// isDependencySectionFor matches headers like "dependencies.alpha" or
// `dev-dependencies."alpha"`.
func isDependencySectionFor(table, dep string) bool {
	for parent := range dependencyTables {
		if table == parent+"."+dep || table == parent+`."`+dep+`"` {
			return true
		}
	}
	return false
}

// checkTOML rejects edits on files that do not parse, so a surgical
// rewrite can never corrupt a manifest further.
func checkTOML(data []byte, path string) error {
	var doc map[string]any
	if err := toml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("failed to parse manifest %q: %w", path, err)
	}
	return nil
}

func splitLines(s string) []string {
	return strings.Split(s, "\n")
}

// keyLineRe builds a matcher for a quoted string assignment to key,
// capturing the text before and after the value.
func keyLineRe(key string) *regexp.Regexp {
	return regexp.MustCompile(`^(\s*` + regexp.QuoteMeta(key) + `\s*=\s*)(?:"[^"]*"|'[^']*')(.*)$`)
}
