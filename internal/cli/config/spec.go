package config

import (
	"errors"
	"fmt"

	"github.com/yndnr/kvwire-go/internal/infra/tlsroots"
	"github.com/yndnr/kvwire-go/internal/telemetry/logger"
	"github.com/yndnr/kvwire-go/pkg/client"
)

// Output formats.
const (
	OutputText  = "text"
	OutputJSON  = "json"
	OutputYAML  = "yaml"
	OutputTable = "table"
)

// ErrInvalid is wrapped by every validation error.
var ErrInvalid = errors.New("config: invalid")

// CLIConfig is the configuration for kvwire-cli.
type CLIConfig struct {
	// Server is the store address: host:port, tcp://host:port or
	// unix:///path.
	Server string `koanf:"server" yaml:"server" json:"server"`

	// Output is the default output format.
	Output string `koanf:"output" yaml:"output" json:"output"`

	Timeout   TimeoutConfig   `koanf:"timeout" yaml:"timeout" json:"timeout"`
	RateLimit RateLimitConfig `koanf:"ratelimit" yaml:"ratelimit" json:"ratelimit"`
	TLS       tlsroots.Config `koanf:"tls" yaml:"tls" json:"tls"`
	Log       LogConfig       `koanf:"log" yaml:"log" json:"log"`
	Metrics   MetricsConfig   `koanf:"metrics" yaml:"metrics" json:"metrics"`
	History   HistoryConfig   `koanf:"history" yaml:"history" json:"history"`
}

// TimeoutConfig bounds each phase of a command. Zero disables a bound.
type TimeoutConfig struct {
	Dial  Duration `koanf:"dial" yaml:"dial" json:"dial"`
	Read  Duration `koanf:"read" yaml:"read" json:"read"`
	Write Duration `koanf:"write" yaml:"write" json:"write"`
}

// RateLimitConfig throttles commands. A zero rate disables throttling.
type RateLimitConfig struct {
	Rate  float64 `koanf:"rate" yaml:"rate" json:"rate"`
	Burst int     `koanf:"burst" yaml:"burst" json:"burst"`
}

// LogConfig configures diagnostics on stderr.
type LogConfig struct {
	Level  string `koanf:"level" yaml:"level" json:"level"`
	Format string `koanf:"format" yaml:"format" json:"format"`
	// Traffic logs every request and reply at debug level.
	Traffic    bool `koanf:"traffic" yaml:"traffic" json:"traffic"`
	MaxPayload int  `koanf:"max_payload" yaml:"max_payload" json:"max_payload"`
}

// MetricsConfig enables the Prometheus endpoint when Address is set.
type MetricsConfig struct {
	Address string `koanf:"address" yaml:"address,omitempty" json:"address,omitempty"`
}

// HistoryConfig configures the REPL history.
type HistoryConfig struct {
	File string `koanf:"file" yaml:"file" json:"file"`
	Size int    `koanf:"size" yaml:"size" json:"size"`
}

// Default returns the default CLI configuration.
func Default() *CLIConfig {
	return &CLIConfig{
		Server: "localhost:6379",
		Output: OutputText,
		Timeout: TimeoutConfig{
			Dial:  Duration(client.DefaultDialTimeout),
			Read:  Duration(client.DefaultReadTimeout),
			Write: Duration(client.DefaultWriteTimeout),
		},
		RateLimit: RateLimitConfig{Burst: 1},
		Log: LogConfig{
			Level:      "warn",
			Format:     "text",
			MaxPayload: logger.DefaultMaxPayload,
		},
		History: HistoryConfig{
			File: DefaultHistoryPath(),
			Size: 1000,
		},
	}
}

// Validate checks the configuration for values no command can use.
func (c *CLIConfig) Validate() error {
	var errs []error

	if c.Server == "" {
		errs = append(errs, errors.New("server must not be empty"))
	}
	switch c.Output {
	case OutputText, OutputJSON, OutputYAML, OutputTable:
	default:
		errs = append(errs, fmt.Errorf("output %q: want text, json, yaml or table", c.Output))
	}
	if c.Timeout.Dial < 0 || c.Timeout.Read < 0 || c.Timeout.Write < 0 {
		errs = append(errs, errors.New("timeouts must not be negative"))
	}
	if c.RateLimit.Rate < 0 || c.RateLimit.Burst < 0 {
		errs = append(errs, errors.New("ratelimit must not be negative"))
	}
	if _, err := logger.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, fmt.Errorf("log.level: %w", err))
	}
	if c.Log.Format != "text" && c.Log.Format != "json" {
		errs = append(errs, fmt.Errorf("log.format %q: want text or json", c.Log.Format))
	}
	if c.History.Size < 0 {
		errs = append(errs, errors.New("history.size must not be negative"))
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalid, errors.Join(errs...))
	}
	return nil
}

// ClientOptions translates the configuration into client options.
func (c *CLIConfig) ClientOptions() ([]client.Option, error) {
	opts := []client.Option{
		client.WithDialTimeout(c.Timeout.Dial.Std()),
		client.WithReadTimeout(c.Timeout.Read.Std()),
		client.WithWriteTimeout(c.Timeout.Write.Std()),
		client.WithRateLimit(c.RateLimit.Rate, c.RateLimit.Burst),
	}

	tlsCfg, err := c.TLS.ClientConfig()
	if err != nil {
		return nil, err
	}
	if tlsCfg != nil {
		opts = append(opts, client.WithTLS(tlsCfg))
	}
	return opts, nil
}
