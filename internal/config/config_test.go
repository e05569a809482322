package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeTempConfig(t, `{
		"out_dir": "artifacts",
		"headless": true,
		"wait_seconds": 15,
		"max_parties": 4,
		"rescrape_indices": [1, 2],
		"counties": ["Adams County"],
		"hard_timeout_seconds": 3300
	}`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "artifacts", cfg.OutDir)
	assert.True(t, cfg.Headless)
	assert.Equal(t, 15, cfg.WaitSeconds)
	assert.Equal(t, 4, cfg.MaxParties)
	assert.Equal(t, []int{1, 2}, cfg.RescrapeIndices)
	assert.Equal(t, []string{"Adams County"}, cfg.Counties)
	assert.Equal(t, 3300, cfg.HardTimeoutSeconds)
}

func TestLoadConfig_EmptyPath(t *testing.T) {
	_, err := LoadConfig("")
	assert.Error(t, err)
}

func TestLoadConfig_InvalidJSON(t *testing.T) {
	path := writeTempConfig(t, `{not json`)
	_, err := LoadConfig(path)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := Config{WaitSeconds: 10, MaxParties: 6}
	assert.NoError(t, cfg.Validate())

	bad := Config{WaitSeconds: -1}
	assert.Error(t, bad.Validate())

	badIndex := Config{RescrapeIndices: []int{-3}}
	assert.Error(t, badIndex.Validate())
}

func TestMergeWithDefaults(t *testing.T) {
	defaults := Config{
		OutDir:          "files",
		WaitSeconds:     12,
		MaxParties:      6,
		DayOffset:       6,
		RescrapeIndices: []int{1, 2},
	}

	cfg := Config{WaitSeconds: 20}
	merged := cfg.MergeWithDefaults(defaults)

	assert.Equal(t, "files", merged.OutDir)
	assert.Equal(t, 20, merged.WaitSeconds)
	assert.Equal(t, 6, merged.MaxParties)
	assert.Equal(t, 6, merged.DayOffset)
	assert.Equal(t, []int{1, 2}, merged.RescrapeIndices)
}

func TestMergeWithDefaults_ExplicitEmptyRescrapeListKept(t *testing.T) {
	cfg := Config{RescrapeIndices: []int{}}
	merged := cfg.MergeWithDefaults(Config{RescrapeIndices: []int{1, 2}})
	assert.Empty(t, merged.RescrapeIndices)
}
