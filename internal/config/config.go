// Package config loads the per-project azula.yaml manifest: source
// layout, default backend selection, and optimization defaults.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ManifestName is the filename azc looks for in the current working
// directory when no explicit --config path is given. Ancestor
// directories are not searched.
const ManifestName = "azula.yaml"

// Backend names recognized in the `backend:` field.
const (
	BackendNull = "null"
	BackendGRPC = "grpc"
)

// Config is the resolved azula.yaml manifest.
type Config struct {
	// Name is the project name. The driver does not read it; a lowered
	// module is always named after its source file path.
	Name string `yaml:"name"`

	// Entry names the project's main source file. The driver does not
	// read it; `run`/`build` without a path argument exit with an error.
	Entry string `yaml:"entry"`

	// Backend selects which backend.Backend implementation the driver
	// dispatches to; see internal/backend.
	Backend string `yaml:"backend"`

	// BackendAddr is the dial target for the grpc backend; ignored by
	// the null backend.
	BackendAddr string `yaml:"backend_addr"`

	// OptLevel is the default optimization level passed to the backend,
	// overridden by --release on the command line.
	OptLevel int `yaml:"opt_level"`
}

// Default returns the manifest used when no azula.yaml is present.
func Default() *Config {
	return &Config{Backend: BackendNull, OptLevel: 0}
}

// Load reads and parses path, filling in defaults for any field the
// manifest leaves unset.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parsing %s: %w", path, err)
	}
	if cfg.Backend == "" {
		cfg.Backend = BackendNull
	}
	return cfg, nil
}

// LoadOrDefault loads path if it exists, returning Default() otherwise.
func LoadOrDefault(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return Default(), nil
	}
	return Load(path)
}
