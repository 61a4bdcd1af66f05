package command

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/kvwire-go/internal/cli/config"
	"github.com/yndnr/kvwire-go/internal/cli/output"
)

// ConfigCommand returns the config subcommand group.
func ConfigCommand() *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "CLI configuration management",
		Subcommands: []*cli.Command{
			{
				Name:   "show",
				Usage:  "Show the effective configuration (file, environment and flags)",
				Action: configShow,
			},
			{
				Name:   "path",
				Usage:  "Print the config file path",
				Action: configPath,
			},
			{
				Name:  "init",
				Usage: "Write a config file from the defaults, environment and flags",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:    "force",
						Aliases: []string{"f"},
						Usage:   "Overwrite an existing file",
					},
				},
				Action: configInit,
			},
			{
				Name:   "validate",
				Usage:  "Validate the CLI configuration",
				Action: configValidate,
			},
		},
	}
}

func configSource(c *cli.Context) *config.Source {
	return config.NewSource(c.String("config"), Overrides(c))
}

func configShow(c *cli.Context) error {
	cfg, err := configSource(c).Load()
	if err != nil {
		return err
	}

	format := output.FormatYAML
	if c.IsSet("output") {
		if format, err = output.ParseFormat(c.String("output")); err != nil {
			return err
		}
	}
	if format == output.FormatText || format == output.FormatTable {
		format = output.FormatYAML
	}
	return output.NewFormatter(format).Format(c.App.Writer, cfg)
}

func configPath(c *cli.Context) error {
	_, err := fmt.Fprintln(c.App.Writer, configSource(c).Path())
	return err
}

func configInit(c *cli.Context) error {
	src := configSource(c)
	path := src.Path()

	if _, err := os.Stat(path); err == nil && !c.Bool("force") {
		return fmt.Errorf("config file %s exists, use --force to overwrite", path)
	} else if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}

	// The file being replaced is not read.
	cfg, err := config.NewSource(os.DevNull, Overrides(c)).Load()
	if err != nil {
		return err
	}
	if err := config.Save(cfg, path); err != nil {
		return err
	}
	_, err = fmt.Fprintf(c.App.Writer, "wrote %s\n", path)
	return err
}

func configValidate(c *cli.Context) error {
	src := configSource(c)
	if _, err := src.Load(); err != nil {
		return fmt.Errorf("%s: %w", src.Path(), err)
	}
	_, err := fmt.Fprintf(c.App.Writer, "configuration is valid: %s\n", src.Path())
	return err
}
