package config

import (
	"os"
	"strconv"

	"gorefract/domain/prescription"
	"gorefract/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Database  DatabaseConfig
	Models    ModelConfig
	Predictor PredictorConfig
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	URL string
}

// ModelConfig holds model artifact storage settings
type ModelConfig struct {
	Dir string
}

// PredictorConfig holds the blending weights and confidence thresholds
type PredictorConfig struct {
	SnellenWeight   float64
	DuochromeWeight float64
}

// Load builds the configuration from environment variables
func Load() (*Config, error) {
	config := &Config{
		Database: DatabaseConfig{
			URL: os.Getenv("DATABASE_URL"),
		},
		Models: ModelConfig{
			Dir: getEnvOrDefault("MODEL_DIR", "models/saved"),
		},
		Predictor: PredictorConfig{
			SnellenWeight:   getEnvFloatOrDefault("SNELLEN_WEIGHT", prescription.DefaultSnellenWeight),
			DuochromeWeight: getEnvFloatOrDefault("DUOCHROME_WEIGHT", prescription.DefaultDuochromeWeight),
		},
	}

	if err := validateConfig(config); err != nil {
		return nil, err
	}
	return config, nil
}

func validateConfig(config *Config) error {
	if config.Models.Dir == "" {
		return errors.ConfigInvalid("model directory is required")
	}
	if config.Predictor.SnellenWeight < 0 || config.Predictor.DuochromeWeight < 0 {
		return errors.ConfigInvalid("predictor weights must be non-negative")
	}
	if config.Predictor.SnellenWeight+config.Predictor.DuochromeWeight == 0 {
		return errors.ConfigInvalid("predictor weights must not both be zero")
	}
	return nil
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}
