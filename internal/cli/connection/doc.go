// Package connection holds the store connection of a kvwire-cli session.
//
// A Manager dials lazily on first use and keeps the client until it is
// replaced by Connect or closed by Disconnect. A broken connection is
// reported, not repaired: the REPL "connect" built-in dials again.
package connection
