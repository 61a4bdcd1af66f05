// Package main provides the entry point for kvwire-cli.
package main

import (
	"errors"
	"os"

	"github.com/yndnr/kvwire-go/internal/cli/command"
)

func main() {
	app := command.App()

	if err := app.Run(os.Args); err != nil {
		if !errors.Is(err, command.ErrReported) {
			command.PrintError("%v", err)
		}
		os.Exit(1)
	}
}
