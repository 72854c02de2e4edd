package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultsAreValid(t *testing.T) {
	cfg := New("test")
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "test", cfg.Name)
	assert.Equal(t, 1000, cfg.Performance.BatchSize)
	assert.Equal(t, 4, cfg.Performance.ShuffleChunkMultiplier)
	assert.Equal(t, "snappy", cfg.Snapshot.Algorithm)
	assert.Equal(t, "info", cfg.Observability.LogLevel)
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"zero batch size", func(c *Config) { c.Performance.BatchSize = 0 }, "batch_size"},
		{"negative multiplier", func(c *Config) { c.Performance.ShuffleChunkMultiplier = -1 }, "shuffle_chunk_multiplier"},
		{"zero window", func(c *Config) { c.Collectors.WindowCapacity = 0 }, "window_capacity"},
		{"zero reservoir", func(c *Config) { c.Collectors.ReservoirCapacity = 0 }, "reservoir_capacity"},
		{"bad algorithm", func(c *Config) { c.Snapshot.Algorithm = "brotli" }, "snapshot algorithm"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := New("test")
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadSaveRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "strata.yaml")

	cfg := New("roundtrip")
	cfg.Performance.BatchSize = 64
	cfg.Snapshot.Algorithm = "zstd"
	require.NoError(t, Save(path, cfg))

	var loaded Config
	require.NoError(t, Load(path, &loaded))
	assert.Equal(t, *cfg, loaded)
}

func TestLoadSubstitutesEnvVars(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "strata.yaml")

	require.NoError(t, os.WriteFile(path, []byte(
		"name: ${STRATA_TEST_NAME}\nperformance:\n  batch_size: 10\n"), 0o600))
	t.Setenv("STRATA_TEST_NAME", "from-env")

	var cfg Config
	require.NoError(t, Load(path, &cfg))
	assert.Equal(t, "from-env", cfg.Name)
	assert.Equal(t, 10, cfg.Performance.BatchSize)
}

func TestLoadMissingFile(t *testing.T) {
	var cfg Config
	err := Load("/nonexistent/strata.yaml", &cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoadBadYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("name: [unclosed"), 0o600))

	var cfg Config
	err := Load(path, &cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse YAML")
}
