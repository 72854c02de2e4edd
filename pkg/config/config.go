// Package config provides the configuration structures for Strata tools.
// Configuration is organized into logical sections:
//   - Performance: batch sizing and shuffle behavior
//   - Collectors: bounded collector capacities
//   - Snapshot: snapshot compression settings
//   - Observability: logging and metrics
package config

import (
	"fmt"
)

// Config is the configuration for dataset pipelines and tools.
type Config struct {
	// Name identifies the pipeline or tool instance
	Name string `yaml:"name" json:"name"`

	// Performance settings control batch sizing and shuffling
	Performance PerformanceConfig `yaml:"performance" json:"performance"`

	// Collectors settings control bounded collector capacities
	Collectors CollectorConfig `yaml:"collectors" json:"collectors"`

	// Snapshot settings control dataset snapshot encoding
	Snapshot SnapshotConfig `yaml:"snapshot" json:"snapshot"`

	// Observability settings for logging and metrics
	Observability ObservabilityConfig `yaml:"observability" json:"observability"`
}

// PerformanceConfig contains batch sizing and shuffle settings.
type PerformanceConfig struct {
	// BatchSize controls the number of top-level rows read per batch
	BatchSize int `yaml:"batch_size" json:"batch_size"`
	// ShuffleChunkMultiplier scales BatchSize into the sort-shuffle chunk
	// size (chunk = batch_size * shuffle_chunk_multiplier)
	ShuffleChunkMultiplier int `yaml:"shuffle_chunk_multiplier" json:"shuffle_chunk_multiplier"`
	// Seed seeds shuffle and sampling randomness; 0 means process-random
	Seed int64 `yaml:"seed" json:"seed"`
}

// CollectorConfig contains bounded collector capacities.
type CollectorConfig struct {
	// WindowCapacity is the sliding window row capacity
	WindowCapacity int `yaml:"window_capacity" json:"window_capacity"`
	// ReservoirCapacity is the reservoir sample size
	ReservoirCapacity int `yaml:"reservoir_capacity" json:"reservoir_capacity"`
}

// SnapshotConfig contains snapshot encoding settings.
type SnapshotConfig struct {
	// Algorithm selects payload compression (none, gzip, snappy, lz4,
	// zstd, s2, deflate)
	Algorithm string `yaml:"algorithm" json:"algorithm"`
	// Level selects the compression level (1 fastest .. 9 best)
	Level int `yaml:"level" json:"level"`
}

// ObservabilityConfig contains logging and metrics settings.
type ObservabilityConfig struct {
	// LogLevel sets the zap log level (debug, info, warn, error)
	LogLevel string `yaml:"log_level" json:"log_level"`
	// EnableMetrics toggles Prometheus metric recording
	EnableMetrics bool `yaml:"enable_metrics" json:"enable_metrics"`
}

// New returns a configuration with sensible defaults.
func New(name string) *Config {
	return &Config{
		Name: name,
		Performance: PerformanceConfig{
			BatchSize:              1000,
			ShuffleChunkMultiplier: 4,
		},
		Collectors: CollectorConfig{
			WindowCapacity:    1024,
			ReservoirCapacity: 1000,
		},
		Snapshot: SnapshotConfig{
			Algorithm: "snappy",
			Level:     5,
		},
		Observability: ObservabilityConfig{
			LogLevel:      "info",
			EnableMetrics: true,
		},
	}
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	if c.Performance.BatchSize <= 0 {
		return fmt.Errorf("batch_size must be positive, got %d", c.Performance.BatchSize)
	}
	if c.Performance.ShuffleChunkMultiplier <= 0 {
		return fmt.Errorf("shuffle_chunk_multiplier must be positive, got %d", c.Performance.ShuffleChunkMultiplier)
	}
	if c.Collectors.WindowCapacity <= 0 {
		return fmt.Errorf("window_capacity must be positive, got %d", c.Collectors.WindowCapacity)
	}
	if c.Collectors.ReservoirCapacity <= 0 {
		return fmt.Errorf("reservoir_capacity must be positive, got %d", c.Collectors.ReservoirCapacity)
	}
	switch c.Snapshot.Algorithm {
	case "", "none", "gzip", "snappy", "lz4", "zstd", "s2", "deflate":
	default:
		return fmt.Errorf("unknown snapshot algorithm %q", c.Snapshot.Algorithm)
	}
	return nil
}
