// Package config loads the optional statewrap.yaml holding CLI defaults.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/aretw0/statewrap/pkg/adapters/process"
	"gopkg.in/yaml.v3"
)

// DefaultFile is looked up in the description directory when --config is not given.
const DefaultFile = "statewrap.yaml"

// Config holds defaults for the generate command. Flags override every field.
type Config struct {
	Format     string `yaml:"format" json:"format"`
	OutDir     string `yaml:"out" json:"out"`
	NameSuffix string `yaml:"suffix" json:"suffix"`
	Workers    int    `yaml:"workers" json:"workers"`
	Package    string `yaml:"package" json:"package"`
	Split      bool   `yaml:"split" json:"split"`
	Redis      Redis  `yaml:"redis" json:"redis"`
	// Hooks run over every written artifact, in order.
	Hooks []process.Hook `yaml:"hooks" json:"hooks"`
}

// Redis configures the shared compilation-unit cache.
type Redis struct {
	Addr     string `yaml:"addr" json:"addr"`
	Password string `yaml:"password" json:"password"`
	DB       int    `yaml:"db" json:"db"`
	Prefix   string `yaml:"prefix" json:"prefix"`
	TTL      string `yaml:"ttl" json:"ttl"`
}

// Default returns the built-in defaults.
func Default() Config {
	return Config{
		Format: "go",
		OutDir: ".",
	}
}

// Load reads path over the defaults (YAML, or JSON by extension).
// A missing file is only an error when explicit is set: the default location is optional.
func Load(path string, explicit bool) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) && !explicit {
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}

	if strings.EqualFold(filepath.Ext(path), ".json") {
		if err := json.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
		}
	} else {
		dec := yaml.NewDecoder(strings.NewReader(string(data)))
		dec.KnownFields(true)
		if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
			return cfg, fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
		}
	}

	if cfg.Workers < 0 {
		return cfg, fmt.Errorf("workers must not be negative, got %d", cfg.Workers)
	}
	return cfg, nil
}
