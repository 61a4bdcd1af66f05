// Package command provides CLI command definitions for kvwire-cli.
//
// This package defines all CLI commands using urfave/cli/v2:
//
//   - app.go: root command, global flags and flag overrides
//   - runtime.go: per-invocation state (config, logger, connection, metrics)
//   - store.go: set, get, del and flushdb
//   - codec.go: encode and decode of wire bytes without a store
//   - repl.go: interactive mode
//   - config.go: configuration subcommand group
//
// Store commands follow one path: tokens are parsed by package command
// from pkg, sent through the session connection, shaped into an
// output.Result and printed with the selected formatter.
package command
