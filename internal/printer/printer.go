// Package printer centralizes styled console output.
package printer

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
)

var (
	faintStyle   = lipgloss.NewStyle().Faint(true)
	boldStyle    = lipgloss.NewStyle().Bold(true)
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	infoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
)

var noColor bool

// SetNoColor disables all styling, leaving plain text.
func SetNoColor(v bool) { noColor = v }

func render(style lipgloss.Style, text string) string {
	if noColor {
		return text
	}
	return style.Render(text)
}

// Faint returns text with faint styling.
func Faint(text string) string { return render(faintStyle, text) }

// Bold returns text with bold styling.
func Bold(text string) string { return render(boldStyle, text) }

// Success returns text with green styling.
func Success(text string) string { return render(successStyle, text) }

// Error returns text with red styling.
func Error(text string) string { return render(errorStyle, text) }

// Warning returns text with yellow styling.
func Warning(text string) string { return render(warningStyle, text) }

// Info returns text with cyan styling.
func Info(text string) string { return render(infoStyle, text) }

// PrintSuccess prints text with green styling and a newline.
func PrintSuccess(text string) { fmt.Println(Success(text)) }

// PrintError prints text with red styling and a newline.
func PrintError(text string) { fmt.Println(Error(text)) }

// PrintWarning prints text with yellow styling and a newline.
func PrintWarning(text string) { fmt.Println(Warning(text)) }

// PrintInfo prints text with cyan styling and a newline.
func PrintInfo(text string) { fmt.Println(Info(text)) }

// Reporter emits the per-package lines of a bump run. In dry-run mode
// it produces the same lines, phrased as predictions, and the caller
// performs no writes.
type Reporter struct {
	out    io.Writer
	dryRun bool
}

// NewReporter creates a Reporter writing to out.
func NewReporter(out io.Writer, dryRun bool) *Reporter {
	return &Reporter{out: out, dryRun: dryRun}
}

// Change reports one package transition.
func (r *Reporter) Change(pkg, from, to string) {
	if r.dryRun {
		fmt.Fprintf(r.out, "%s would bump %s from %s to %s\n", Faint("[dry-run]"), Bold(pkg), from, Success(to))
		return
	}
	fmt.Fprintf(r.out, "%s bumped %s from %s to %s\n", Success("✓"), Bold(pkg), from, Success(to))
}

// DependencyUpdate reports one propagated dependency rewrite.
func (r *Reporter) DependencyUpdate(dependent, dependency, to string) {
	if r.dryRun {
		fmt.Fprintf(r.out, "%s would update %s dependency %s to %s\n", Faint("[dry-run]"), Bold(dependent), dependency, to)
		return
	}
	fmt.Fprintf(r.out, "  %s updated %s dependency %s to %s\n", Success("✓"), Bold(dependent), dependency, to)
}

// ExtraFileUpdate reports one extra-file rewrite.
func (r *Reporter) ExtraFileUpdate(path, to string) {
	if r.dryRun {
		fmt.Fprintf(r.out, "%s would write %s to %s\n", Faint("[dry-run]"), to, Faint(path))
		return
	}
	fmt.Fprintf(r.out, "  %s wrote %s to %s\n", Success("✓"), to, Faint(path))
}
