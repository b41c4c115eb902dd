// Package config loads the optional .relmate.yaml project
// configuration.
package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-yaml"
)

// ConfigFile is the configuration file looked up in the working
// directory.
const ConfigFile = ".relmate.yaml"

// EnvRoot overrides the workspace root directory when set.
const EnvRoot = "RELMATE_ROOT"

// ExtraFileConfig declares an additional file that receives the new
// version next to the manifests.
type ExtraFileConfig struct {
	Path   string `yaml:"path"`
	Format string `yaml:"format,omitempty"`
	Field  string `yaml:"field,omitempty"`
}

// Config is the project configuration. The zero value is usable; Load
// fills in defaults.
type Config struct {
	// Version is the configuration schema version.
	Version int `yaml:"version,omitempty"`

	// Root is the workspace root directory holding the top-level
	// manifest.
	Root string `yaml:"root,omitempty"`

	// Propagate controls whether path-dependency versions in dependent
	// packages are rewritten after a bump. Defaults to true.
	Propagate *bool `yaml:"propagate,omitempty"`

	// ExtraFiles lists additional files to update with the new version.
	ExtraFiles []ExtraFileConfig `yaml:"extra_files,omitempty"`
}

// ShouldPropagate resolves the propagate toggle with its default.
func (c *Config) ShouldPropagate() bool {
	return c.Propagate == nil || *c.Propagate
}

// LoadFn allows tests to stub configuration loading.
var LoadFn = Load

// Load reads ConfigFile from the working directory. A missing file
// yields the defaults; a malformed or unknown-field file is an error.
func Load() (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(ConfigFile)
	switch {
	case os.IsNotExist(err):
		// No project config; defaults apply.
	case err != nil:
		return nil, fmt.Errorf("failed to read %s: %w", ConfigFile, err)
	default:
		if len(bytes.TrimSpace(data)) > 0 {
			decoder := yaml.NewDecoder(bytes.NewReader(data), yaml.Strict())
			if err := decoder.Decode(cfg); err != nil {
				return nil, fmt.Errorf("failed to parse %s: %w", ConfigFile, err)
			}
		}
	}

	if envRoot := os.Getenv(EnvRoot); envRoot != "" {
		clean := filepath.Clean(envRoot)
		if strings.Contains(clean, "..") {
			return nil, fmt.Errorf("invalid %s: path traversal not allowed, use an absolute path", EnvRoot)
		}
		cfg.Root = clean
	}

	if cfg.Version == 0 {
		cfg.Version = 1
	}
	if cfg.Version != 1 {
		return nil, fmt.Errorf("unsupported config version %d", cfg.Version)
	}
	if cfg.Root == "" {
		cfg.Root = "."
	}
	return cfg, nil
}
