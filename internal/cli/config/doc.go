// Package config provides kvwire-cli configuration.
//
//   - spec.go: CLIConfig struct (~/.kvwire/cli.yaml) and validation
//   - loader.go: layered loading through confloader, saving as YAML
//
// Every key can be set in the file, through a KVWIRE_ environment
// variable (KVWIRE_TIMEOUT_READ=10s) or with a command-line flag.
package config
