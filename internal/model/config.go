package model

import (
	"os"
	"path/filepath"
	"time"
)

// Config holds the full runtime configuration.
// Populated from defaults, then ~/.veridex/config.yaml, then VERIDEX_* env,
// then CLI flags (highest priority).
type Config struct {
	DBPath string       `yaml:"db_path" mapstructure:"db_path"`
	Ingest IngestConfig `yaml:"ingest" mapstructure:"ingest"`
	NER    NERConfig    `yaml:"ner" mapstructure:"ner"`
	Cache  CacheConfig  `yaml:"cache" mapstructure:"cache"`
	Rate   RateConfig   `yaml:"rate_limiting" mapstructure:"rate_limiting"`
	Output OutputConfig `yaml:"output" mapstructure:"output"`

	// ExtraStopPatterns are appended to the built-in stop-line table.
	// Built-in patterns can never be removed or overridden.
	ExtraStopPatterns []string `yaml:"extra_stop_patterns" mapstructure:"extra_stop_patterns"`
}

// IngestConfig controls document ingestion
type IngestConfig struct {
	MaxFileSizeMB int64 `yaml:"max_file_size_mb" mapstructure:"max_file_size_mb"`
}

// NERConfig controls the external entity-recognition capability.
// An empty Provider disables NER; extraction degrades to pattern-only.
type NERConfig struct {
	Provider      string  `yaml:"provider" mapstructure:"provider"` // "openai" or ""
	Model         string  `yaml:"model" mapstructure:"model"`
	APIKey        string  `yaml:"-" mapstructure:"-"` // env only, never written to disk
	BaseURL       string  `yaml:"base_url" mapstructure:"base_url"`
	TimeoutSec    int     `yaml:"timeout_sec" mapstructure:"timeout_sec"`
	MinTextLen    int     `yaml:"min_text_len" mapstructure:"min_text_len"`
	MinAlphaRatio float64 `yaml:"min_alpha_ratio" mapstructure:"min_alpha_ratio"`
}

// CacheConfig controls NER response caching
type CacheConfig struct {
	Enabled bool          `yaml:"enabled" mapstructure:"enabled"`
	Dir     string        `yaml:"dir" mapstructure:"dir"`
	TTL     time.Duration `yaml:"ttl" mapstructure:"ttl"`
}

// RateConfig throttles calls to the NER provider
type RateConfig struct {
	RequestsPerSecond float64 `yaml:"requests_per_second" mapstructure:"requests_per_second"`
	BurstSize         int     `yaml:"burst_size" mapstructure:"burst_size"`
}

// OutputConfig controls rendering
type OutputConfig struct {
	Verbose bool `yaml:"verbose" mapstructure:"verbose"`
}

// DefaultConfig returns sensible defaults
func DefaultConfig() *Config {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	base := filepath.Join(home, ".veridex")

	return &Config{
		DBPath: filepath.Join(base, "index", "veridex.db"),
		Ingest: IngestConfig{
			MaxFileSizeMB: 200,
		},
		NER: NERConfig{
			Provider:      "", // disabled by default
			Model:         "gpt-4o-mini",
			TimeoutSec:    30,
			MinTextLen:    200,
			MinAlphaRatio: 0.30,
		},
		Cache: CacheConfig{
			Enabled: true,
			Dir:     filepath.Join(base, "cache"),
			TTL:     720 * time.Hour,
		},
		Rate: RateConfig{
			RequestsPerSecond: 2.0,
			BurstSize:         5,
		},
		Output: OutputConfig{},
	}
}
