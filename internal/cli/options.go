package cli

import (
	"path/filepath"
	"time"

	"github.com/aretw0/statewrap/internal/config"
)

// Provider names accepted by --provider.
const (
	ProviderLoam = "loam"
	ProviderFile = "file"
)

// Options carries the persistent flags shared by every command.
type Options struct {
	Dir        string
	Provider   string
	Debug      bool
	LogFormat  string
	ConfigPath string
	CacheDir   string
	RedisAddr  string
}

// GenerateOptions configures the generate command. Zero values fall back to the config file.
type GenerateOptions struct {
	Names       []string
	Format      string
	OutDir      string
	Split       bool
	Package     string
	Suffix      string
	Workers     int
	Watch       bool
	MetricsFile string
}

// LoadConfig reads --config, or statewrap.yaml in the description directory when unset.
func (o Options) LoadConfig() (config.Config, error) {
	if o.ConfigPath != "" {
		return config.Load(o.ConfigPath, true)
	}
	return config.Load(filepath.Join(o.Dir, config.DefaultFile), false)
}

// merge overlays flags on cfg. Flags win whenever they were set.
func (g GenerateOptions) merge(cfg config.Config) GenerateOptions {
	if g.Format == "" {
		g.Format = cfg.Format
	}
	if g.OutDir == "" {
		g.OutDir = cfg.OutDir
	}
	if g.Package == "" {
		g.Package = cfg.Package
	}
	if g.Suffix == "" {
		g.Suffix = cfg.NameSuffix
	}
	if g.Workers == 0 {
		g.Workers = cfg.Workers
	}
	g.Split = g.Split || cfg.Split
	return g
}

func parseTTL(raw string) (time.Duration, error) {
	if raw == "" {
		return 0, nil
	}
	return time.ParseDuration(raw)
}
