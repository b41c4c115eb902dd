// Package cli wires the root command together.
package cli

import (
	"context"
	"fmt"

	"github.com/indaco/relmate/internal/commands/bump"
	"github.com/indaco/relmate/internal/commands/current"
	"github.com/indaco/relmate/internal/config"
	"github.com/indaco/relmate/internal/printer"
	"github.com/indaco/relmate/internal/version"
	urfavecli "github.com/urfave/cli/v3"
)

var noColorFlag bool

// New builds and returns the root CLI command, configuring all
// subcommands and flags for the relmate cli.
func New(cfg *config.Config) *urfavecli.Command {
	return &urfavecli.Command{
		Name:                  "relmate",
		Version:               fmt.Sprintf("v%s", version.GetVersion()),
		Usage:                 "Workspace-aware version bumping for multi-package repositories",
		EnableShellCompletion: true,
		Flags: []urfavecli.Flag{
			&urfavecli.BoolFlag{
				Name:        "no-color",
				Usage:       "Disable colored output",
				Destination: &noColorFlag,
			},
		},
		Before: func(ctx context.Context, cmd *urfavecli.Command) (context.Context, error) {
			printer.SetNoColor(noColorFlag)
			return ctx, nil
		},
		Commands: []*urfavecli.Command{
			bump.Run(cfg),
			current.Run(cfg),
		},
	}
}
