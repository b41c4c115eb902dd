// Package current implements the "current" command, reporting the
// versions recorded in the selected manifests.
package current

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/indaco/relmate/internal/cliflags"
	"github.com/indaco/relmate/internal/clix"
	"github.com/indaco/relmate/internal/config"
	"github.com/indaco/relmate/internal/semver"
	"github.com/indaco/relmate/internal/workspace"
	"github.com/urfave/cli/v3"
)

// record is the machine-readable shape of one version, decomposed so
// consumers never have to re-parse the version string.
type record struct {
	Version      string  `json:"version"`
	Major        uint64  `json:"major"`
	Minor        uint64  `json:"minor"`
	Patch        uint64  `json:"patch"`
	Pre          *string `json:"pre,omitempty"`
	Iteration    *uint64 `json:"iteration,omitempty"`
	Build        *string `json:"build,omitempty"`
	IsPrerelease bool    `json:"is_prerelease"`
}

type packageRecord struct {
	Package string `json:"package"`
	record
}

// Run returns the "current" command.
func Run(cfg *config.Config) *cli.Command {
	flags := append(cliflags.SelectionFlags(),
		&cli.StringFlag{
			Name:    "format",
			Aliases: []string{"f"},
			Usage:   "Output format: text or json",
			Value:   "text",
		},
		&cli.BoolFlag{
			Name:  "force-single-version",
			Usage: "Fail unless every selected package shares one version, then report it once",
		},
	)

	return &cli.Command{
		Name:      "current",
		Usage:     "Show the current version of the selected packages",
		UsageText: "relmate current [-f text|json] [--force-single-version] [options]",
		Flags:     flags,
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return runCurrentCmd(ctx, cmd, cfg)
		},
	}
}

func runCurrentCmd(ctx context.Context, cmd *cli.Command, cfg *config.Config) error {
	execCtx, err := clix.GetExecutionContext(ctx, cmd, cfg)
	if err != nil {
		return err
	}

	single := cmd.Bool("force-single-version")
	out := cmd.Root().Writer

	switch format := cmd.String("format"); format {
	case "text":
		if single {
			v, err := workspace.SingleVersion(execCtx.Selected)
			if err != nil {
				return err
			}
			fmt.Fprintln(out, v)
			return nil
		}
		for _, pkg := range execCtx.Selected {
			fmt.Fprintf(out, "%s %s\n", pkg.Name, pkg.Version)
		}
		return nil

	case "json":
		var payload any
		if single {
			raw, err := workspace.SingleVersion(execCtx.Selected)
			if err != nil {
				return err
			}
			rec, err := buildRecord(raw)
			if err != nil {
				return err
			}
			payload = rec
		} else {
			records := make([]packageRecord, 0, len(execCtx.Selected))
			for _, pkg := range execCtx.Selected {
				rec, err := buildRecord(pkg.Version)
				if err != nil {
					return fmt.Errorf("package %s: %w", pkg.Name, err)
				}
				records = append(records, packageRecord{Package: pkg.Name, record: rec})
			}
			payload = map[string]any{"packages": records}
		}

		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(payload)

	default:
		return fmt.Errorf("unsupported format %q (expected text or json)", format)
	}
}

func buildRecord(raw string) (record, error) {
	v, err := semver.Parse(raw)
	if err != nil {
		return record{}, err
	}

	rec := record{
		Version:      v.String(),
		Major:        v.Major(),
		Minor:        v.Minor(),
		Patch:        v.Patch(),
		IsPrerelease: v.IsPrerelease(),
	}
	if pre, ok := v.Prerelease(); ok {
		ident := pre.Ident
		iter := pre.Iteration
		rec.Pre = &ident
		rec.Iteration = &iter
	}
	if build, ok := v.Build(); ok {
		rec.Build = &build
	}
	return rec, nil
}
