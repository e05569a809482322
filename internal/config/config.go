// Package config provides configuration loading and validation for the CLI.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
)

// Config represents the CLI configuration that can be loaded from a JSON file.
// All fields are optional; missing values use defaults or must be provided via
// CLI flags. Credentials never live here: they come from the environment.
type Config struct {
	// Output
	OutDir string `json:"out_dir,omitempty"` // Directory for per-jurisdiction and combined JSON artifacts

	// Browser
	Headless    bool `json:"headless,omitempty"`                      // Run Chrome headless
	WaitSeconds int  `json:"wait_seconds,omitempty" validate:"gte=0"` // UI wait budget per attempt

	// Extraction
	MaxParties int `json:"max_parties,omitempty" validate:"gte=0"` // Fixed Party1..N column count
	DayOffset  int `json:"day_offset,omitempty" validate:"gte=0"`  // Start date is today minus this many days

	// Iteration
	RescrapeIndices    []int    `json:"rescrape_indices,omitempty" validate:"dive,gte=0"` // Jurisdiction indices visited twice
	Counties           []string `json:"counties,omitempty"`                               // Optional allow-list of jurisdiction names
	HardTimeoutSeconds int      `json:"hard_timeout_seconds,omitempty" validate:"gte=0"`  // Wall-clock budget; 0 disables
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// Validate checks that the configuration has valid values.
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	return nil
}

// MergeWithDefaults returns a new Config with zero-valued fields filled from
// defaults. This is used to apply config file values as defaults for CLI flags.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	if result.OutDir == "" {
		result.OutDir = defaults.OutDir
	}
	if result.WaitSeconds == 0 {
		result.WaitSeconds = defaults.WaitSeconds
	}
	if result.MaxParties == 0 {
		result.MaxParties = defaults.MaxParties
	}
	if result.DayOffset == 0 {
		result.DayOffset = defaults.DayOffset
	}
	if result.RescrapeIndices == nil {
		result.RescrapeIndices = defaults.RescrapeIndices
	}
	if result.Counties == nil {
		result.Counties = defaults.Counties
	}
	if result.HardTimeoutSeconds == 0 {
		result.HardTimeoutSeconds = defaults.HardTimeoutSeconds
	}

	// Bool fields: cannot distinguish unset from false, so we don't merge
	// (CLI flags should always win for bools)

	return result
}
