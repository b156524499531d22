package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	cfg := &Config{Regions: []string{"eu-west-1"}}
	cfg.ApplyDefaults()
	return cfg
}

func TestApplyDefaults(t *testing.T) {
	cfg := &Config{Regions: []string{"eu-west-1"}}
	cfg.ApplyDefaults()

	assert.Empty(t, cfg.IncludeResourceTypes, "include default is owned by the type filter")
	assert.Empty(t, cfg.ExcludeResourceTypes)
	assert.Equal(t, 8, cfg.RegionConcurrency)
	assert.Equal(t, 12, cfg.TypeConcurrency)
	assert.Equal(t, "results", cfg.ResultsDir)
}

func TestValidate_OK(t *testing.T) {
	assert.NoError(t, validConfig().Validate())
}

func TestValidate_RequiresRegions(t *testing.T) {
	cfg := &Config{}
	cfg.ApplyDefaults()
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "region")
}

func TestValidate_RejectsMalformedPattern(t *testing.T) {
	cfg := validConfig()
	cfg.ExcludeResourceTypes = []string{"AWS::[EC2::*"}
	require.Error(t, cfg.Validate())
}

func TestValidate_RejectsNonPositiveConcurrency(t *testing.T) {
	cfg := validConfig()
	cfg.TypeConcurrency = -1
	require.Error(t, cfg.Validate())
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
regions: ["eu-west-1", "us-east-1"]
include_resource_types: ["AWS::EC2::*"]
exclude_resource_types: ["AWS::EC2::VPC"]
only_show_counts: true
profile: audit
type_concurrency: 4
`), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"eu-west-1", "us-east-1"}, cfg.Regions)
	assert.Equal(t, []string{"AWS::EC2::*"}, cfg.IncludeResourceTypes)
	assert.Equal(t, []string{"AWS::EC2::VPC"}, cfg.ExcludeResourceTypes)
	assert.True(t, cfg.OnlyShowCounts)
	assert.Equal(t, "audit", cfg.Profile)
	assert.Equal(t, 4, cfg.TypeConcurrency)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoad_MalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("regions: [unclosed"), 0o600))

	_, err := Load(path)
	assert.Error(t, err)
}
