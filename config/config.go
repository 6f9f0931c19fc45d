// Package config loads schedulerd's daemon configuration from an HCL file:
// parse generic HCL into an interface{} tree, then decode that tree into a
// typed struct with mitchellh/mapstructure rather than hand-rolling
// field-by-field HCL unmarshalling.
package config

import (
	"fmt"
	"os"

	"github.com/hashicorp/hcl"
	"github.com/mitchellh/mapstructure"
)

// Config is schedulerd's full daemon configuration.
type Config struct {
	// BindAddr is the HTTP listen address, e.g. "127.0.0.1:4646".
	BindAddr string `hcl:"bind_addr" mapstructure:"bind_addr"`

	// LogLevel is one of trace, debug, info, warn, error, matching
	// hashicorp/go-hclog's level names.
	LogLevel string `hcl:"log_level" mapstructure:"log_level"`

	// PeriodicAgingCron is an optional cron expression (hashicorp/cronexpr
	// syntax) triggering the §4.7 aging re-score sweep. Empty disables it;
	// the drain-on-completion path remains sufficient for correctness.
	PeriodicAgingCron string `hcl:"periodic_aging_cron" mapstructure:"periodic_aging_cron"`

	// DependencyCacheSize bounds the C2 Dependency Oracle's LRU cache.
	DependencyCacheSize int `hcl:"dependency_cache_size" mapstructure:"dependency_cache_size"`
}

// DefaultConfig returns the built-in defaults, applied before any file or
// flag overrides.
func DefaultConfig() *Config {
	return &Config{
		BindAddr:            "127.0.0.1:4646",
		LogLevel:            "info",
		DependencyCacheSize: 4096,
	}
}

// LoadFile parses the HCL file at path and merges it onto DefaultConfig.
func LoadFile(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}
	return Parse(string(b))
}

// Parse decodes raw HCL text into a Config via a two-step obj->map->struct
// path, so that richer validation and defaulting can happen after the
// generic HCL parse.
func Parse(raw string) (*Config, error) {
	var generic map[string]any
	if err := hcl.Decode(&generic, raw); err != nil {
		return nil, fmt.Errorf("config: parsing HCL: %w", err)
	}

	cfg := DefaultConfig()
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           cfg,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(generic); err != nil {
		return nil, fmt.Errorf("config: decoding into Config: %w", err)
	}
	return cfg, nil
}
