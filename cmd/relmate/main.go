package main

import (
	"context"
	"os"

	"github.com/indaco/relmate/internal/cli"
	"github.com/indaco/relmate/internal/config"
	"github.com/indaco/relmate/internal/printer"
)

func runCLI(args []string) error {
	cfg, err := config.LoadFn()
	if err != nil {
		return err
	}
	return cli.New(cfg).Run(context.Background(), args)
}

func main() {
	if err := runCLI(os.Args); err != nil {
		printer.PrintError(err.Error())
		os.Exit(1)
	}
}
