// Package config loads the balanza.yaml file that sits in a base
// directory of watched client folders.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// FileName is the config file name inside the base directory.
const FileName = "balanza.yaml"

// Config represents the top-level balanza.yaml configuration.
type Config struct {
	Watch  WatchConfig  `yaml:"watch"`
	Output OutputConfig `yaml:"output"`
	Retry  RetryConfig  `yaml:"retry"`
	Policy string       `yaml:"policy"` // interactive | reject | replace
}

// WatchConfig controls which subfolders become watch roots.
type WatchConfig struct {
	// ExcludedFolders are subfolder names (case-insensitive) that are
	// never treated as watch roots.
	ExcludedFolders []string `yaml:"excluded_folders"`
}

// OutputConfig names the per-folder output artifacts.
type OutputConfig struct {
	Dir      string `yaml:"dir"`      // per-folder output subdirectory
	Artifact string `yaml:"artifact"` // master-ledger file name
}

// RetryConfig tunes the source-file open retry loop.
type RetryConfig struct {
	Attempts     int `yaml:"attempts"`
	DelaySeconds int `yaml:"delay_seconds"`
}

// Delay returns the configured retry delay as a duration.
func (r RetryConfig) Delay() time.Duration {
	return time.Duration(r.DelaySeconds) * time.Second
}

// Load reads a balanza.yaml file from disk.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns the configuration used when no balanza.yaml exists:
// the layout the original export tooling expects.
func Default() *Config {
	return &Config{
		Watch: WatchConfig{
			ExcludedFolders: []string{"codigo"},
		},
		Output: OutputConfig{
			Dir:      "salida",
			Artifact: "procesado_final.xlsx",
		},
		Retry: RetryConfig{
			Attempts:     10,
			DelaySeconds: 1,
		},
		Policy: "interactive",
	}
}
