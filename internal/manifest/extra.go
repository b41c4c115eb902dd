package manifest

import (
	"context"
	"fmt"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/indaco/relmate/internal/core"
	"github.com/tidwall/sjson"
)

// Format identifies how an extra file stores its version.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
	FormatRaw  Format = "raw"
)

// IsValid reports whether the format is known.
func (f Format) IsValid() bool {
	switch f {
	case FormatJSON, FormatYAML, FormatTOML, FormatRaw:
		return true
	default:
		return false
	}
}

// DetectFormat guesses the format of a file from its name. Unknown
// extensions fall back to raw.
func DetectFormat(filename string) Format {
	lower := strings.ToLower(filename)
	switch {
	case strings.HasSuffix(lower, ".json"):
		return FormatJSON
	case strings.HasSuffix(lower, ".yaml"), strings.HasSuffix(lower, ".yml"):
		return FormatYAML
	case strings.HasSuffix(lower, ".toml"):
		return FormatTOML
	default:
		return FormatRaw
	}
}

// ExtraFile describes an additional file that receives the new version
// alongside the manifests (a package.json, a Helm chart, a VERSION
// file).
type ExtraFile struct {
	Path   string
	Format Format
	// Field is the dot-notation path of the version field for
	// structured formats; defaults to "version".
	Field string
}

// WriteExtra writes version into the extra file according to its
// format. JSON edits preserve document structure and key order.
func (w *Writer) WriteExtra(ctx context.Context, ef ExtraFile, version string) error {
	format := ef.Format
	if format == "" {
		format = DetectFormat(ef.Path)
	}
	if !format.IsValid() {
		return fmt.Errorf("invalid format %q for %q", ef.Format, ef.Path)
	}
	field := ef.Field
	if field == "" {
		field = "version"
	}

	switch format {
	case FormatJSON:
		return w.writeExtraJSON(ctx, ef.Path, field, version)
	case FormatYAML:
		return w.writeExtraYAML(ctx, ef.Path, field, version)
	case FormatTOML:
		return w.writeExtraTOML(ctx, ef.Path, field, version)
	default:
		return w.writeExtraRaw(ctx, ef.Path, version)
	}
}

func (w *Writer) writeExtraJSON(ctx context.Context, path, field, version string) error {
	data, err := w.fs.ReadFile(ctx, path)
	if err != nil {
		return fmt.Errorf("failed to read file %q: %w", path, err)
	}

	updated, err := sjson.SetBytes(data, field, version)
	if err != nil {
		return fmt.Errorf("failed to set %q in %q: %w", field, path, err)
	}
	if len(updated) > 0 && updated[len(updated)-1] != '\n' {
		updated = append(updated, '\n')
	}
	return w.fs.WriteFile(ctx, path, updated, core.PermOwnerRW)
}

func (w *Writer) writeExtraYAML(ctx context.Context, path, field, version string) error {
	data, err := w.fs.ReadFile(ctx, path)
	if err != nil {
		return fmt.Errorf("failed to read file %q: %w", path, err)
	}

	var obj map[string]any
	if err := yaml.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("failed to parse YAML in %q: %w", path, err)
	}
	if obj == nil {
		obj = make(map[string]any)
	}
	if err := setNested(obj, field, version); err != nil {
		return fmt.Errorf("in file %q: %w", path, err)
	}

	updated, err := yaml.Marshal(obj)
	if err != nil {
		return fmt.Errorf("failed to marshal YAML for %q: %w", path, err)
	}
	return w.fs.WriteFile(ctx, path, updated, core.PermOwnerRW)
}

// writeExtraTOML rewrites the version assignment in place, resolving
// the dotted field path against table headers the same way
// WriteVersion does for the [package] table.
func (w *Writer) writeExtraTOML(ctx context.Context, path, field, version string) error {
	data, err := w.fs.ReadFile(ctx, path)
	if err != nil {
		return fmt.Errorf("failed to read file %q: %w", path, err)
	}
	if err := checkTOML(data, path); err != nil {
		return err
	}

	table, key := "", field
	if i := strings.LastIndex(field, "."); i >= 0 {
		table, key = field[:i], field[i+1:]
	}
	keyRe := keyLineRe(key)

	lines := splitLines(string(data))
	current := ""
	replaced := false
	for i, line := range lines {
		if m := tableHeaderRe.FindStringSubmatch(line); m != nil {
			current = m[1]
			continue
		}
		if current != table || replaced {
			continue
		}
		if m := keyRe.FindStringSubmatch(line); m != nil {
			lines[i] = m[1] + `"` + version + `"` + m[2]
			replaced = true
		}
	}
	if !replaced {
		return fmt.Errorf("%w: %q in %q", ErrVersionFieldNotFound, field, path)
	}
	return w.fs.WriteFile(ctx, path, []byte(strings.Join(lines, "\n")), core.PermOwnerRW)
}

func (w *Writer) writeExtraRaw(ctx context.Context, path, version string) error {
	content := version
	if !strings.HasSuffix(content, "\n") {
		content += "\n"
	}
	return w.fs.WriteFile(ctx, path, []byte(content), core.PermOwnerRW)
}

// setNested sets a value in a nested map using dot notation, creating
// intermediate maps as needed.
func setNested(obj map[string]any, field string, value any) error {
	if field == "" {
		return fmt.Errorf("field path cannot be empty")
	}
	parts := strings.Split(field, ".")
	current := obj
	for i := 0; i < len(parts)-1; i++ {
		next, exists := current[parts[i]]
		if !exists {
			child := make(map[string]any)
			current[parts[i]] = child
			current = child
			continue
		}
		child, ok := next.(map[string]any)
		if !ok {
			return fmt.Errorf("field %q is not an object", strings.Join(parts[:i+1], "."))
		}
		current = child
	}
	current[parts[len(parts)-1]] = value
	return nil
}
