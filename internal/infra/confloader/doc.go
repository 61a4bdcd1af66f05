// Package confloader provides configuration loading mechanism.
//
// This package implements a layered configuration loader on top of koanf.
// Sources are merged in order, later ones overriding earlier ones:
//
//  1. Default values held by the target struct
//  2. Configuration file (YAML)
//  3. Environment variables (KVWIRE_ prefix by default)
//  4. Overrides, usually command-line flags
//
// A Watcher reports changes to the configuration file so callers can
// Reload.
package confloader
