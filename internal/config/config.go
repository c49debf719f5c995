// Package config handles the optional kouken.yaml file.
package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/nconklindev/kouken/internal/types"
)

// FileName is the config file looked up in the working directory.
const FileName = "kouken.yaml"

// Config represents the contents of a kouken.yaml file.
type Config struct {
	Input            string   `yaml:"input,omitempty"`
	Output           string   `yaml:"output,omitempty"`
	Variant          string   `yaml:"variant,omitempty"`
	Title            string   `yaml:"title,omitempty"`
	ExportFileName   string   `yaml:"export_file_name,omitempty"`
	PreferredColumns []string `yaml:"preferred_columns,omitempty"`
	DateColumn       string   `yaml:"date_column,omitempty"`
}

// Load reads the config file at path. A missing file yields a zero Config
// and no error.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // user-provided config path
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &cfg, nil
}

// Validate checks field values that can be checked without touching files.
func (c *Config) Validate() error {
	if c.Variant != "" && !types.Variant(c.Variant).Valid() {
		return fmt.Errorf("variant %q must be one of %v", c.Variant, types.Variants)
	}
	return nil
}

// Write marshals the config to YAML and writes it to w.
func Write(w io.Writer, cfg *Config) error {
	enc := yaml.NewEncoder(w)
	defer enc.Close() //nolint:errcheck // best-effort close
	enc.SetIndent(2)
	return enc.Encode(cfg)
}
