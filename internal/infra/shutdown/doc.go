// Package shutdown provides graceful shutdown for kvwire-cli.
//
// This package handles process termination signals:
//
//   - Signal handling (SIGINT, SIGTERM)
//   - Timeout-bounded cleanup hooks, run in reverse registration order
//   - Signal-aware contexts for one-shot commands
//
// Usage:
//
//	ctx, cancel := shutdown.WithSignals(context.Background())
//	defer cancel()
//	reply, err := c.Do(ctx, cmd) // Ctrl-C cancels the round trip
package shutdown
