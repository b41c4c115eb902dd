// Package tui implements the interactive surface of relmate: a single
// confirmation prompt shown before a multi-package write.
package tui

import (
	"os"

	"github.com/charmbracelet/huh"
	"golang.org/x/term"
)

// ciEnvVars are set by common CI systems. The presence of any of them
// means no human is watching, so the prompt is skipped.
var ciEnvVars = []string{
	"CI",
	"CONTINUOUS_INTEGRATION",
	"GITHUB_ACTIONS",
	"GITLAB_CI",
	"CIRCLECI",
	"TRAVIS",
	"JENKINS_HOME",
	"BUILDKITE",
	"BITBUCKET_BUILD_NUMBER",
	"DRONE",
	"SEMAPHORE",
	"APPVEYOR",
	"CODEBUILD_BUILD_ID",
	"TF_BUILD",
}

// IsInteractive reports whether the confirmation prompt can be shown:
// stdout must be a terminal and no CI environment variable may be set.
// Bump commands fall back to proceeding without a prompt when this
// returns false, so piped and scripted runs never hang.
func IsInteractive() bool {
	if !term.IsTerminal(int(os.Stdout.Fd())) { //nolint:gosec // G115: fd is a small value, no overflow risk
		return false
	}
	for _, env := range ciEnvVars {
		if os.Getenv(env) != "" {
			return false
		}
	}
	return true
}

// ConfirmFn allows tests to stub the confirmation prompt.
var ConfirmFn = Confirm

// Confirm asks the user a yes/no question and returns the answer.
// Callers should check IsInteractive first; in non-interactive
// environments the prompt cannot render.
func Confirm(title string) (bool, error) {
	var ok bool
	err := huh.NewConfirm().
		Title(title).
		Affirmative("Yes").
		Negative("No").
		Value(&ok).
		Run()
	if err != nil {
		return false, err
	}
	return ok, nil
}
