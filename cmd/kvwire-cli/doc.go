// Package main provides the entry point for kvwire-cli.
//
// The CLI talks to a RESP3 key-value store:
//
//   - Store commands (set, get, del, flushdb)
//   - Wire inspection without a store (encode, decode)
//   - Interactive mode with history and completion (repl)
//   - Configuration management (config show, init, validate)
//
// Usage:
//
//	kvwire-cli [global options] command [arguments]
//	kvwire-cli --server localhost:6379 set greeting hello EX 60
//	kvwire-cli -o json get greeting
//	kvwire-cli decode '*2\r\n:1\r\n#t\r\n'
package main
