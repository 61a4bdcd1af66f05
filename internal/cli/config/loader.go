package config

import (
	"fmt"
	"os"
	"path/filepath"

	"go.yaml.in/yaml/v3"

	"github.com/yndnr/kvwire-go/internal/infra/confloader"
)

// DefaultConfigPath returns the default CLI config file path.
func DefaultConfigPath() string {
	return filepath.Join(homeDir(), ".kvwire", "cli.yaml")
}

// DefaultHistoryPath returns the default REPL history file path.
func DefaultHistoryPath() string {
	return filepath.Join(homeDir(), ".kvwire", "history")
}

func homeDir() string {
	dir, err := os.UserHomeDir()
	if err != nil {
		return os.TempDir()
	}
	return dir
}

// Source loads the CLI configuration from the config file, the KVWIRE_
// environment and flag overrides. Load may be called again after the file
// changes.
type Source struct {
	loader *confloader.Loader
	path   string
}

// NewSource creates a Source. A missing file at path is not an error.
// overrides holds flag values keyed by config key ("timeout.read").
func NewSource(path string, overrides map[string]any) *Source {
	if path == "" {
		path = DefaultConfigPath()
	}
	return &Source{
		loader: confloader.NewLoader(
			confloader.WithOptionalConfigFile(path),
			confloader.WithOverrides(overrides),
		),
		path: path,
	}
}

// Path returns the config file path.
func (s *Source) Path() string {
	return s.path
}

// Load returns a validated configuration.
func (s *Source) Load() (*CLIConfig, error) {
	cfg := Default()

	var err error
	if s.loader.IsLoaded() {
		err = s.loader.Reload(cfg)
	} else {
		err = s.loader.Load(cfg)
	}
	if err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Load loads the CLI configuration from path and the environment.
func Load(path string) (*CLIConfig, error) {
	return NewSource(path, nil).Load()
}

// Save writes cfg to path as YAML, readable only by the owner.
func Save(cfg *CLIConfig, path string) error {
	if path == "" {
		path = DefaultConfigPath()
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("config: marshal: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("config: create dir: %w", err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return fmt.Errorf("config: write: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("config: write: %w", err)
	}
	return nil
}
