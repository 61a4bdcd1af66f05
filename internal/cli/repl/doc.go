// Package repl provides interactive mode for kvwire-cli.
//
//   - repl.go: main loop, built-ins (help, history, exit) and dispatch
//   - tokenize.go: splitting lines into arguments with quoting
//   - completer.go: suggestions for commands and options ("set k v ?")
//   - history.go: command history persistence
package repl
