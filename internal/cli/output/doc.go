// Package output renders kvwire-cli results.
//
//   - formatter.go: Formatter interface and factory
//   - result.go: Result and Node, the printable forms of replies
//   - text.go: human-readable output in the style of interactive clients
//   - table.go: tabular output for lists and key/value data
//   - json.go, yaml.go: machine-readable output for scripting
package output
