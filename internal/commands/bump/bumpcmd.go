// Package bump implements the "bump" command group: release-line
// bumps, prerelease starts and increments, and finalization.
package bump

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/indaco/relmate/internal/cliflags"
	"github.com/indaco/relmate/internal/clix"
	"github.com/indaco/relmate/internal/config"
	"github.com/indaco/relmate/internal/manifest"
	"github.com/indaco/relmate/internal/operations"
	"github.com/indaco/relmate/internal/printer"
	"github.com/indaco/relmate/internal/semver"
	"github.com/indaco/relmate/internal/tui"
	"github.com/urfave/cli/v3"
)

// Run returns the "bump" command group.
func Run(cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "bump",
		Usage: "Move package versions forward",
		Commands: []*cli.Command{
			versionCommand(cfg),
			prereleaseCommand(cfg),
			releaseCommand(cfg),
		},
	}
}

func commandFlags() []cli.Flag {
	return append(cliflags.SelectionFlags(), cliflags.RunFlags()...)
}

// versionCommand bumps a release line, optionally starting a new
// prerelease series on the bumped line.
func versionCommand(cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:      "version",
		Usage:     "Bump the major, minor, or patch line",
		UsageText: "relmate bump version [options] <patch|minor|major> [PRERELEASE]",
		Flags:     commandFlags(),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			args := cmd.Args()
			if args.Len() < 1 || args.Len() > 2 {
				return fmt.Errorf("expected a level (patch, minor, major) and an optional prerelease identifier")
			}
			level, err := semver.ParseLevel(args.Get(0))
			if err != nil {
				return err
			}

			var t semver.Transition
			if ident := args.Get(1); ident != "" {
				t = semver.StartPrerelease(level, ident, cmd.String("meta"))
			} else {
				t = semver.BumpRelease(level, cmd.String("meta"))
			}
			return execute(ctx, cmd, cfg, t)
		},
	}
}

// prereleaseCommand advances a prerelease series: without an argument
// it increments the counter, with one it moves to a later identifier.
func prereleaseCommand(cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:      "prerelease",
		Usage:     "Advance the current prerelease series",
		UsageText: "relmate bump prerelease [options] [PRERELEASE]",
		Flags:     commandFlags(),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			args := cmd.Args()
			if args.Len() > 1 {
				return fmt.Errorf("expected at most one prerelease identifier")
			}

			var t semver.Transition
			if ident := args.Get(0); ident != "" {
				t = semver.TransitionPrerelease(ident, cmd.String("meta"))
			} else {
				t = semver.IncrementPrerelease(cmd.String("meta"))
			}
			return execute(ctx, cmd, cfg, t)
		},
	}
}

// releaseCommand finalizes a prerelease into its release version.
func releaseCommand(cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:      "release",
		Usage:     "Finalize the current prerelease",
		UsageText: "relmate bump release [options]",
		Flags:     commandFlags(),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.Args().Len() > 0 {
				return fmt.Errorf("release takes no arguments")
			}
			return execute(ctx, cmd, cfg, semver.FinalizeRelease(cmd.String("meta")))
		},
	}
}

// execute runs the shared bump pipeline: resolve the selection, compute
// the whole batch, report it, confirm when needed, then write.
func execute(ctx context.Context, cmd *cli.Command, cfg *config.Config, t semver.Transition) error {
	execCtx, err := clix.GetExecutionContext(ctx, cmd, cfg)
	if err != nil {
		return err
	}

	plan, err := operations.Compute(execCtx.Workspace, execCtx.Selected, t, execCtx.Propagate)
	if err != nil {
		return err
	}

	extras, err := extraFiles(execCtx)
	if err != nil {
		return err
	}

	rep := printer.NewReporter(cmd.Root().Writer, execCtx.DryRun)
	if execCtx.DryRun {
		report(rep, plan, extras)
		return nil
	}

	if len(plan.Changes) > 1 && !execCtx.AssumeYes && tui.IsInteractive() {
		ok, err := tui.ConfirmFn(fmt.Sprintf("Bump %d packages?", len(plan.Changes)))
		if err != nil {
			return err
		}
		if !ok {
			printer.PrintWarning("Aborted.")
			return nil
		}
	}

	if err := plan.Apply(ctx, execCtx.FS, extras); err != nil {
		return err
	}
	report(rep, plan, extras)
	return nil
}

// report prints one line per planned change. It runs after the write
// phase on a live run, so the past-tense lines only describe writes
// that actually landed; the dry-run path uses the same lines phrased
// as predictions.
func report(rep *printer.Reporter, plan *operations.Plan, extras []manifest.ExtraFile) {
	for _, c := range plan.Changes {
		rep.Change(c.Package.Name, c.From.String(), c.To.String())
	}
	for _, u := range plan.DepUpdates {
		rep.DependencyUpdate(u.Dependent, u.Dependency, u.To.String())
	}
	if target, ok := plan.SingleTarget(); ok {
		for _, ef := range extras {
			rep.ExtraFileUpdate(ef.Path, target.String())
		}
	}
}

// extraFiles resolves the configured extra files against the workspace
// root and validates their formats.
func extraFiles(execCtx *clix.ExecutionContext) ([]manifest.ExtraFile, error) {
	var out []manifest.ExtraFile
	for _, ef := range execCtx.Config.ExtraFiles {
		path := filepath.Join(execCtx.Root, ef.Path)

		format := manifest.Format(ef.Format)
		if format == "" {
			format = manifest.DetectFormat(ef.Path)
		}
		if !format.IsValid() {
			return nil, fmt.Errorf("extra file %s: unsupported format %q", ef.Path, ef.Format)
		}

		out = append(out, manifest.ExtraFile{Path: path, Format: format, Field: ef.Field})
	}
	return out, nil
}
