// Package cliflags defines flag sets shared by several commands.
package cliflags

import "github.com/urfave/cli/v3"

// SelectionFlags returns the flags that pick which workspace packages a
// command operates on.
func SelectionFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "root",
			Aliases: []string{"r"},
			Usage:   "Workspace root directory holding the top-level Cargo.toml",
		},
		&cli.BoolFlag{
			Name:    "workspace",
			Aliases: []string{"w"},
			Usage:   "Operate on every package in the workspace",
		},
		&cli.StringSliceFlag{
			Name:    "package",
			Aliases: []string{"p"},
			Usage:   "Operate on the named package (repeatable)",
		},
	}
}

// RunFlags returns the flags controlling how a bump run executes.
func RunFlags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:    "dry-run",
			Aliases: []string{"n"},
			Usage:   "Report the planned changes without writing any file",
		},
		&cli.BoolFlag{
			Name:  "no-propagate",
			Usage: "Do not rewrite path-dependency versions in dependent packages",
		},
		&cli.BoolFlag{
			Name:    "yes",
			Aliases: []string{"y"},
			Usage:   "Skip the confirmation prompt for multi-package runs",
		},
		&cli.StringFlag{
			Name:    "meta",
			Aliases: []string{"m"},
			Usage:   "Build metadata to attach to the resulting version",
		},
	}
}
