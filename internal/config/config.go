// Package config loads application configuration from environment
// variables.
package config

import (
	"os"
	"strconv"

	"chorda/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Data     DataConfig
	Analysis AnalysisConfig
	Output   OutputConfig
	Server   ServerConfig
}

// DataConfig holds input dataset settings
type DataConfig struct {
	File string // xlsx or csv path
}

// AnalysisConfig holds the association and layout parameters. These map
// onto the explicit layout/bootstrap configuration structures; nothing is
// kept in global state.
type AnalysisConfig struct {
	Threshold  float64
	Scale      string // "linear" or "log"
	NodeGap    float64
	Confidence float64
	Resamples  int
	Seed       int64
}

// OutputConfig holds file output settings
type OutputConfig struct {
	Dir string
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port    string
	Enabled bool
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	cfg := &Config{
		Data: DataConfig{
			File: getEnv("CHORDA_DATA_FILE", ""),
		},
		Analysis: AnalysisConfig{
			Threshold:  getEnvFloat("CHORDA_THRESHOLD", 0.1),
			Scale:      getEnv("CHORDA_SCALE", "linear"),
			NodeGap:    getEnvFloat("CHORDA_NODE_GAP", 0),
			Confidence: getEnvFloat("CHORDA_CONFIDENCE", 0.95),
			Resamples:  getEnvInt("CHORDA_RESAMPLES", 1000),
			Seed:       int64(getEnvInt("CHORDA_SEED", 42)),
		},
		Output: OutputConfig{
			Dir: getEnv("CHORDA_OUTPUT_DIR", "out"),
		},
		Server: ServerConfig{
			Port:    getEnv("CHORDA_PORT", "8080"),
			Enabled: getEnvBool("CHORDA_SERVE", false),
		},
	}

	if cfg.Data.File == "" {
		return nil, errors.ConfigInvalid("CHORDA_DATA_FILE is required")
	}
	if cfg.Analysis.Scale != "linear" && cfg.Analysis.Scale != "log" {
		return nil, errors.ConfigInvalid("CHORDA_SCALE must be linear or log")
	}
	if cfg.Analysis.Threshold < 0 {
		return nil, errors.ConfigInvalid("CHORDA_THRESHOLD must be >= 0")
	}
	if cfg.Analysis.Confidence <= 0 || cfg.Analysis.Confidence >= 1 {
		return nil, errors.ConfigInvalid("CHORDA_CONFIDENCE must be in (0, 1)")
	}
	if cfg.Analysis.Resamples <= 0 {
		return nil, errors.ConfigInvalid("CHORDA_RESAMPLES must be > 0")
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}
