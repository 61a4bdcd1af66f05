// Package logger provides structured logging for kvwire.
//
// It wraps the standard library log/slog:
//
//   - logger.go: Logger interface, configuration and the global default
//   - context.go: context propagation of loggers and request IDs
//   - redact.go: masking of sensitive attributes
//   - traffic.go: wire traffic logging as a client.Observer
//
// Traffic is logged at debug level, one record per request and per reply,
// so it only shows up when the level is lowered.
package logger
