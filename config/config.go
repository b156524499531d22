// Package config carries the configuration of a discovery run.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/welldone-cloud/aws-list-resources/internal/filter"
)

// AllRegions is the sentinel expanding to every region enabled for the
// account.
const AllRegions = "ALL"

// Config holds every value the orchestrator honors. It is built once in the
// CLI layer and threaded through construction; nothing reads it as global
// state.
type Config struct {
	Regions              []string `yaml:"regions"`
	IncludeResourceTypes []string `yaml:"include_resource_types"`
	ExcludeResourceTypes []string `yaml:"exclude_resource_types"`
	OnlyShowCounts       bool     `yaml:"only_show_counts"`
	Profile              string   `yaml:"profile"`
	RegionConcurrency    int      `yaml:"region_concurrency"`
	TypeConcurrency      int      `yaml:"type_concurrency"`
	TypeCachePath        string   `yaml:"type_cache"`
	ResultsDir           string   `yaml:"results_dir"`
}

// Load reads a config file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- path is intentional user input
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return &cfg, nil
}

// ApplyDefaults fills unset values. An empty include list is left alone;
// the type filter treats it as "include everything".
func (c *Config) ApplyDefaults() {
	if c.RegionConcurrency == 0 {
		c.RegionConcurrency = 8
	}
	if c.TypeConcurrency == 0 {
		c.TypeConcurrency = 12
	}
	if c.ResultsDir == "" {
		c.ResultsDir = "results"
	}
}

// Validate checks the preconditions that must hold before any worker
// starts. Everything it rejects is a fatal configuration error.
func (c *Config) Validate() error {
	if len(c.Regions) == 0 {
		return fmt.Errorf("at least one target region (or %q) is required", AllRegions)
	}
	if err := filter.Validate(c.IncludeResourceTypes); err != nil {
		return err
	}
	if err := filter.Validate(c.ExcludeResourceTypes); err != nil {
		return err
	}
	if c.RegionConcurrency < 1 {
		return fmt.Errorf("region concurrency must be positive, got %d", c.RegionConcurrency)
	}
	if c.TypeConcurrency < 1 {
		return fmt.Errorf("type concurrency must be positive, got %d", c.TypeConcurrency)
	}
	return nil
}
