package command

import (
	"context"
	"fmt"
	"io"
	"net"
	"sync"

	"github.com/oklog/ulid/v2"
	"github.com/urfave/cli/v2"

	"github.com/yndnr/kvwire-go/internal/cli/config"
	"github.com/yndnr/kvwire-go/internal/cli/connection"
	"github.com/yndnr/kvwire-go/internal/cli/output"
	"github.com/yndnr/kvwire-go/internal/infra/shutdown"
	"github.com/yndnr/kvwire-go/internal/telemetry/logger"
	"github.com/yndnr/kvwire-go/internal/telemetry/metric"
	"github.com/yndnr/kvwire-go/pkg/client"
)

const runtimeKey = "runtime"

// Runtime is the state shared by the commands of one invocation. It is
// created on first use so that commands without a store (encode, decode,
// config init) work with a broken config file.
type Runtime struct {
	Source  *config.Source
	Logger  logger.Logger
	Conn    *connection.Manager
	Metrics *metric.Registry
	Out     io.Writer

	mu        sync.RWMutex
	cfg       *config.CLIConfig
	formatter output.Formatter

	shutdown *shutdown.Handler
}

// runtimeFrom returns the invocation Runtime, creating it on first call.
func runtimeFrom(c *cli.Context) (*Runtime, error) {
	if rt, ok := c.App.Metadata[runtimeKey].(*Runtime); ok {
		return rt, nil
	}
	rt, err := newRuntime(c)
	if err != nil {
		return nil, err
	}
	c.App.Metadata[runtimeKey] = rt
	return rt, nil
}

func newRuntime(c *cli.Context) (*Runtime, error) {
	src := config.NewSource(c.String("config"), Overrides(c))
	cfg, err := src.Load()
	if err != nil {
		return nil, err
	}

	l, err := logger.New(logger.Config{
		Level:  logLevel(cfg),
		Format: cfg.Log.Format,
		Output: c.App.ErrWriter,
	})
	if err != nil {
		return nil, err
	}
	logger.SetDefault(l)

	rt := &Runtime{
		Source:   src,
		Logger:   l,
		Out:      c.App.Writer,
		cfg:      cfg,
		shutdown: shutdown.NewHandler(0),
	}
	if rt.formatter, err = formatterFor(cfg.Output); err != nil {
		return nil, err
	}

	rt.Conn = connection.NewManager(cfg.Server, rt.dial)

	if cfg.Metrics.Address != "" {
		if err := rt.serveMetrics(cfg.Metrics.Address, cfg.Server); err != nil {
			return nil, err
		}
	}
	rt.shutdown.OnShutdown(func(context.Context) error {
		return rt.Conn.Close()
	})

	return rt, nil
}

// logLevel returns the configured level, lowered to debug when traffic
// logging is on.
func logLevel(cfg *config.CLIConfig) string {
	if cfg.Log.Traffic {
		return "debug"
	}
	return cfg.Log.Level
}

func formatterFor(name string) (output.Formatter, error) {
	format, err := output.ParseFormat(name)
	if err != nil {
		return nil, err
	}
	return output.NewFormatter(format), nil
}

// Config returns the current configuration.
func (rt *Runtime) Config() *config.CLIConfig {
	rt.mu.RLock()
	defer rt.mu.RUnlock()
	return rt.cfg
}

// Formatter returns the formatter for the configured output format.
func (rt *Runtime) Formatter() output.Formatter {
	rt.mu.RLock()
	defer rt.mu.RUnlock()
	return rt.formatter
}

// Reload re-reads the configuration. The log level and output format
// apply at once; timeouts, TLS and the server apply to the next
// connection.
func (rt *Runtime) Reload() error {
	cfg, err := rt.Source.Load()
	if err != nil {
		return err
	}
	formatter, err := formatterFor(cfg.Output)
	if err != nil {
		return err
	}
	if err := logger.SetLevel(logLevel(cfg)); err != nil {
		return err
	}

	rt.mu.Lock()
	prev := rt.cfg
	rt.cfg = cfg
	rt.formatter = formatter
	rt.mu.Unlock()

	if cfg.Server != prev.Server {
		rt.Logger.Info("server changed, run connect to switch",
			"server", logger.RedactAddress(cfg.Server),
		)
	}
	return nil
}

// dial opens a client configured from the current configuration.
func (rt *Runtime) dial(ctx context.Context, server string) (*client.Client, error) {
	cfg := rt.Config()
	opts, err := cfg.ClientOptions()
	if err != nil {
		return nil, err
	}
	if cfg.Log.Traffic {
		opts = append(opts, client.WithObserver(logger.NewTrafficObserver(rt.Logger, cfg.Log.MaxPayload)))
	}
	if rt.Metrics != nil {
		opts = append(opts, client.WithObserver(rt.Metrics))
	}
	return client.Dial(ctx, server, opts...)
}

// serveMetrics exposes /metrics on address until Close.
func (rt *Runtime) serveMetrics(address, server string) error {
	ln, err := net.Listen("tcp", address)
	if err != nil {
		return fmt.Errorf("metrics: %w", err)
	}

	rt.Metrics = metric.NewRegistry()
	if err := rt.Metrics.Register(metric.NewConnectionCollector(server, rt.Conn.IsConnected)); err != nil {
		_ = ln.Close()
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- rt.Metrics.Serve(ctx, ln)
	}()
	rt.Logger.Info("serving metrics", "address", ln.Addr().String())

	rt.shutdown.OnShutdown(func(ctx context.Context) error {
		cancel()
		select {
		case err := <-done:
			return err
		case <-ctx.Done():
			return ctx.Err()
		}
	})
	return nil
}

// commandContext tags ctx with the runtime logger and a fresh request ID.
// The ID appears on dial and traffic log lines of the command.
func (rt *Runtime) commandContext(ctx context.Context) context.Context {
	ctx = logger.WithLogger(ctx, rt.Logger)
	return logger.WithRequestID(ctx, ulid.Make().String())
}

// Print writes data with the configured formatter.
func (rt *Runtime) Print(data any) error {
	return rt.Formatter().Format(rt.Out, data)
}

// Close runs the shutdown hooks: the connection is closed and the metrics
// server stopped.
func (rt *Runtime) Close() error {
	return rt.shutdown.Shutdown()
}
