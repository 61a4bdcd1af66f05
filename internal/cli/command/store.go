package command

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/kvwire-go/internal/cli/output"
	"github.com/yndnr/kvwire-go/internal/infra/shutdown"
	"github.com/yndnr/kvwire-go/internal/telemetry/logger"
	"github.com/yndnr/kvwire-go/pkg/client"
	"github.com/yndnr/kvwire-go/pkg/command"
	"github.com/yndnr/kvwire-go/pkg/resp"
)

// ErrReported is returned when the store rejected a command and the error
// reply has already been printed. main exits non-zero without printing
// it again.
var ErrReported = errors.New("command: error reply printed")

// SetCommand returns the set command.
func SetCommand() *cli.Command {
	return storeCommand(command.NameSet, "Store a value", "Options are tokens, as on the wire: set k v NX EX 60")
}

// GetCommand returns the get command.
func GetCommand() *cli.Command {
	return storeCommand(command.NameGet, "Read a value", "")
}

// DelCommand returns the del command.
func DelCommand() *cli.Command {
	return storeCommand(command.NameDel, "Remove keys and print how many existed", "")
}

// FlushDBCommand returns the flushdb command.
func FlushDBCommand() *cli.Command {
	return storeCommand(command.NameFlushDB, "Remove every key", "")
}

func storeCommand(name, usage, description string) *cli.Command {
	_, argsUsage, _ := strings.Cut(command.Synopsis(name), " ")
	return &cli.Command{
		Name:        strings.ToLower(name),
		Usage:       usage,
		UsageText:   "kvwire-cli [global options] " + command.Synopsis(name),
		Description: description,
		ArgsUsage:   argsUsage,
		Action: func(c *cli.Context) error {
			rt, err := runtimeFrom(c)
			if err != nil {
				return err
			}
			ctx, stop := shutdown.WithSignals(c.Context)
			defer stop()
			return rt.Execute(ctx, append([]string{name}, c.Args().Slice()...))
		},
	}
}

// Execute runs one store command given as tokens and prints the result.
// An error reply is printed and reported as ErrReported.
func (rt *Runtime) Execute(ctx context.Context, args []string) error {
	cmd, err := command.Parse(args)
	if err != nil {
		return err
	}
	ctx = rt.commandContext(ctx)
	c, err := rt.Conn.Client(ctx)
	if err != nil {
		return err
	}

	res, err := run(ctx, c, cmd)
	if err != nil {
		logger.L(ctx).Debug("command failed", "command", cmd.Name(), "error", err)
		return err
	}
	if err := rt.Print(res); err != nil {
		return err
	}
	if res.Error != "" {
		return ErrReported
	}
	return nil
}

// run sends cmd and shapes the reply into a Result. Error replies become
// Result.Error; transport, parse and shape errors are returned.
func run(ctx context.Context, c *client.Client, cmd command.Command) (output.Result, error) {
	res := output.Result{Command: cmd.Name()}

	v, err := c.Do(ctx, cmd)
	if err != nil {
		var se *resp.ServerError
		if errors.As(err, &se) {
			res.Error = se.Message
			return res, nil
		}
		return res, err
	}

	switch cmd := cmd.(type) {
	case *command.Set:
		r, err := cmd.Shape(v)
		if err != nil {
			return res, err
		}
		switch r.Outcome {
		case command.SetCompleted:
			res.Status = "OK"
		case command.SetAborted:
			res.Status = r.Outcome.String()
			res.Nil = true
		case command.SetPrevious:
			if r.Previous == nil {
				res.Nil = true
			} else {
				res.Value = output.DataValue(*r.Previous)
			}
		}

	case *command.Get:
		d, found, err := cmd.Shape(v)
		if err != nil {
			return res, err
		}
		if found {
			res.Value = output.DataValue(d)
		} else {
			res.Nil = true
		}

	case *command.Del:
		n, err := cmd.Shape(v)
		if err != nil {
			return res, err
		}
		res.Count = &n

	case *command.FlushDB:
		if err := cmd.Shape(v); err != nil {
			return res, err
		}
		res.Status = "OK"

	default:
		return res, fmt.Errorf("command: no result shape for %s", cmd.Name())
	}
	return res, nil
}
