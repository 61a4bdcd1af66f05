package command

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/kvwire-go/internal/cli/repl"
	"github.com/yndnr/kvwire-go/internal/infra/confloader"
	"github.com/yndnr/kvwire-go/internal/infra/shutdown"
	"github.com/yndnr/kvwire-go/pkg/command"
)

// ReplCommand returns the repl command.
func ReplCommand() *cli.Command {
	return &cli.Command{
		Name:    "repl",
		Aliases: []string{"shell"},
		Usage:   "Start interactive mode",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "no-watch",
				Usage: "Do not reload the config file when it changes",
			},
		},
		Action: replAction,
	}
}

func replAction(c *cli.Context) error {
	rt, err := runtimeFrom(c)
	if err != nil {
		return err
	}

	cfg := rt.Config()
	hist := repl.NewHistory(cfg.History.File, cfg.History.Size)
	if err := hist.Load(); err != nil {
		rt.Logger.Warn("failed to load history", "file", cfg.History.File, "error", err)
	}

	if !c.Bool("no-watch") {
		w, err := rt.watchConfig()
		if err != nil {
			rt.Logger.Debug("config file not watched", "path", rt.Source.Path(), "error", err)
		} else {
			defer w.Stop()
		}
	}

	r := repl.New(rt.replExec,
		repl.WithIO(c.App.Reader, c.App.Writer),
		repl.WithHistory(hist),
		repl.WithCommand("connect", "connect [address]"),
		repl.WithCommand("disconnect", "disconnect"),
	)
	runErr := r.Run(c.Context)

	if err := hist.Save(); err != nil {
		rt.Logger.Warn("failed to save history", "file", cfg.History.File, "error", err)
	}
	return runErr
}

// replExec runs one REPL line. Interrupting a running command cancels it
// without leaving the REPL.
func (rt *Runtime) replExec(ctx context.Context, args []string) error {
	ctx, stop := shutdown.WithSignals(ctx)
	defer stop()

	switch strings.ToLower(args[0]) {
	case "connect":
		if len(args) > 2 {
			return fmt.Errorf("%w: connect takes at most one address", command.ErrSyntax)
		}
		server := rt.Config().Server
		if len(args) == 2 {
			server = args[1]
		}
		if err := rt.Conn.Connect(rt.commandContext(ctx), server); err != nil {
			return err
		}
		_, err := fmt.Fprintf(rt.Out, "connected to %s\n", rt.Conn.Server())
		return err

	case "disconnect":
		return rt.Conn.Disconnect()
	}

	err := rt.Execute(ctx, args)
	if errors.Is(err, ErrReported) {
		return nil
	}
	return err
}

// watchConfig reloads the runtime when the config file changes.
func (rt *Runtime) watchConfig() (*confloader.Watcher, error) {
	w, err := confloader.NewWatcher(confloader.WithWatcherLogger(rt.Logger))
	if err != nil {
		return nil, err
	}
	if err := w.Watch(rt.Source.Path()); err != nil {
		_ = w.Stop()
		return nil, err
	}

	w.OnChange(func(path string) {
		if err := rt.Reload(); err != nil {
			rt.Logger.Warn("config reload failed", "path", path, "error", err)
			return
		}
		rt.Logger.Info("config reloaded", "path", path)
	})
	w.StartAsync()
	return w, nil
}
