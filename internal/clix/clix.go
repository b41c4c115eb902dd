// Package clix holds execution helpers shared by the CLI commands.
package clix

import (
	"context"

	"github.com/indaco/relmate/internal/config"
	"github.com/indaco/relmate/internal/core"
	"github.com/indaco/relmate/internal/workspace"
	"github.com/urfave/cli/v3"
)

// NewFileSystem builds the filesystem commands operate on. Tests
// override it to run against an in-memory filesystem.
var NewFileSystem = func() core.FileSystem { return core.NewOSFileSystem() }

// ExecutionContext is everything a command needs after flags and
// configuration have been resolved.
type ExecutionContext struct {
	FS        core.FileSystem
	Root      string
	Workspace *workspace.Workspace
	Selected  []*workspace.Package
	Config    *config.Config
	DryRun    bool
	Propagate bool
	AssumeYes bool
}

// GetExecutionContext loads the workspace and resolves the package
// selection from the command's flags. The --root flag wins over the
// configured root.
func GetExecutionContext(ctx context.Context, cmd *cli.Command, cfg *config.Config) (*ExecutionContext, error) {
	fs := NewFileSystem()

	root := cmd.String("root")
	if root == "" {
		root = cfg.Root
	}

	ws, err := workspace.Load(ctx, fs, root)
	if err != nil {
		return nil, err
	}

	selected, err := ws.Select(cmd.Bool("workspace"), cmd.StringSlice("package"))
	if err != nil {
		return nil, err
	}

	return &ExecutionContext{
		FS:        fs,
		Root:      root,
		Workspace: ws,
		Selected:  selected,
		Config:    cfg,
		DryRun:    cmd.Bool("dry-run"),
		Propagate: cfg.ShouldPropagate() && !cmd.Bool("no-propagate"),
		AssumeYes: cmd.Bool("yes"),
	}, nil
}
