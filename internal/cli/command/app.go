package command

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/kvwire-go/internal/infra/buildinfo"
)

// App creates the CLI application.
func App() *cli.App {
	return &cli.App{
		Name:    "kvwire-cli",
		Usage:   "Key-value store client speaking RESP3",
		Version: buildinfo.String(),
		Flags:   globalFlags(),
		Commands: []*cli.Command{
			SetCommand(),
			GetCommand(),
			DelCommand(),
			FlushDBCommand(),
			EncodeCommand(),
			DecodeCommand(),
			ReplCommand(),
			ConfigCommand(),
		},
		After: after,
	}
}

// globalFlags returns the global CLI flags. Their defaults live in
// config.Default; a flag only overrides the config file and environment
// when it is set.
func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "CLI config file (default ~/.kvwire/cli.yaml)",
		},
		&cli.StringFlag{
			Name:    "server",
			Aliases: []string{"s"},
			Usage:   "Store address: host:port, tcp://host:port or unix:///path",
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "Output format: text, table, json, yaml",
		},
		&cli.DurationFlag{
			Name:  "dial-timeout",
			Usage: "Connect timeout (0 disables)",
		},
		&cli.DurationFlag{
			Name:  "read-timeout",
			Usage: "Reply timeout (0 disables)",
		},
		&cli.DurationFlag{
			Name:  "write-timeout",
			Usage: "Request timeout (0 disables)",
		},
		&cli.Float64Flag{
			Name:  "rate",
			Usage: "Maximum commands per second (0 disables)",
		},
		&cli.IntFlag{
			Name:  "burst",
			Usage: "Commands allowed above the rate",
		},
		&cli.StringFlag{
			Name:  "log-level",
			Usage: "Log level: debug, info, warn, error",
		},
		&cli.StringFlag{
			Name:  "log-format",
			Usage: "Log format: text, json",
		},
		&cli.BoolFlag{
			Name:    "traffic",
			Aliases: []string{"V"},
			Usage:   "Log every request and reply on stderr",
		},
		&cli.StringFlag{
			Name:  "metrics-address",
			Usage: "Serve Prometheus metrics on this address (e.g., 127.0.0.1:9121)",
		},
		&cli.BoolFlag{
			Name:  "tls",
			Usage: "Connect with TLS",
		},
		&cli.StringFlag{
			Name:  "tls-ca",
			Usage: "CA certificate file for the store certificate",
		},
		&cli.StringFlag{
			Name:  "tls-cert",
			Usage: "Client certificate file",
		},
		&cli.StringFlag{
			Name:  "tls-key",
			Usage: "Client key file",
		},
		&cli.StringFlag{
			Name:  "tls-server-name",
			Usage: "Server name to verify (defaults to the host)",
		},
		&cli.BoolFlag{
			Name:  "tls-insecure",
			Usage: "Skip certificate verification",
		},
	}
}

// overrideKeys maps flag names to config keys.
var overrideKeys = map[string]string{
	"server":          "server",
	"output":          "output",
	"dial-timeout":    "timeout.dial",
	"read-timeout":    "timeout.read",
	"write-timeout":   "timeout.write",
	"rate":            "ratelimit.rate",
	"burst":           "ratelimit.burst",
	"log-level":       "log.level",
	"log-format":      "log.format",
	"traffic":         "log.traffic",
	"metrics-address": "metrics.address",
	"tls":             "tls.enabled",
	"tls-ca":          "tls.ca_file",
	"tls-cert":        "tls.cert_file",
	"tls-key":         "tls.key_file",
	"tls-server-name": "tls.server_name",
	"tls-insecure":    "tls.insecure",
}

// Overrides returns the config values given as flags, keyed by config key.
// Durations are passed as text so they decode like file values.
func Overrides(c *cli.Context) map[string]any {
	out := make(map[string]any)
	for flag, key := range overrideKeys {
		if !c.IsSet(flag) {
			continue
		}
		switch flag {
		case "dial-timeout", "read-timeout", "write-timeout":
			out[key] = c.Duration(flag).String()
		case "rate":
			out[key] = c.Float64(flag)
		case "burst":
			out[key] = c.Int(flag)
		case "traffic", "tls", "tls-insecure":
			out[key] = c.Bool(flag)
		default:
			out[key] = c.String(flag)
		}
	}
	return out
}

func after(c *cli.Context) error {
	rt, ok := c.App.Metadata[runtimeKey].(*Runtime)
	if !ok {
		return nil
	}
	return rt.Close()
}

// PrintError prints an error message to stderr.
func PrintError(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "error: "+format+"\n", args...)
}
