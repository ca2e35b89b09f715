// Package config defines service configuration and its loading.
//
// Values are layered: defaults from New, then an optional YAML file named by
// NUTRI_CONFIG, then NUTRI_* environment variables.
package config

import (
	"runtime"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects text or json log output.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// QueueSize bounds the in-memory screening queue.
	QueueSize int `koanf:"queue_size"`

	// WorkerCount sets the number of assessment workers.
	WorkerCount int `koanf:"worker_count"`

	// DedupeSize sets how many screening IDs are remembered for duplicate detection.
	DedupeSize int `koanf:"dedupe_size"`

	// BatchParallelism bounds concurrent assessments inside one batch.
	BatchParallelism int `koanf:"batch_parallelism"`

	// MaxBatchSize caps the subjects accepted by one batch request.
	MaxBatchSize int `koanf:"max_batch_size"`

	// MaxRecords caps the stored screening results; 0 means unbounded.
	MaxRecords int `koanf:"max_records"`

	// ReferenceTables optionally names a YAML file replacing the bundled curves.
	ReferenceTables string `koanf:"reference_tables"`

	// PregnancySecondaryThreshold reports MUAC 23.0-25.0 cm in pregnancy as
	// a separate Medium tier instead of Normal.
	PregnancySecondaryThreshold bool `koanf:"pregnancy_secondary_threshold_enabled"`

	// PregnancyMinAgeYears is the youngest age handled by the pregnancy rules.
	PregnancyMinAgeYears int `koanf:"pregnancy_min_age_years"`

	// RoundingPrecision is the number of decimals in presented z-scores and BMI.
	RoundingPrecision int `koanf:"rounding_precision"`

	// ZScoreStrategy maps indicator names to nearest or interpolate.
	ZScoreStrategy map[string]string `koanf:"z_score_strategy"`
}

// New returns a Config holding the defaults.
func New() *Config {
	return &Config{
		LogLevel:             "info",
		LogFormat:            "text",
		Addr:                 ":9080",
		QueueSize:            10_000,
		WorkerCount:          runtime.NumCPU() * 2,
		DedupeSize:           100_000,
		BatchParallelism:     runtime.NumCPU(),
		MaxBatchSize:         1_000,
		MaxRecords:           1_000_000,
		PregnancyMinAgeYears: 18,
		RoundingPrecision:    2,
		ZScoreStrategy: map[string]string{
			"weight_for_age":    "interpolate",
			"height_for_age":    "interpolate",
			"weight_for_height": "interpolate",
			"bmi_for_age":       "interpolate",
		},
	}
}
