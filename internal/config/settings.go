// Package config loads runtime settings from the environment and the screen
// calibration from YAML.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Environment variables read by LoadSettings.
const (
	EnvAssets         = "CARDVISION_ASSETS"
	EnvCalibration    = "CARDVISION_CALIBRATION"
	EnvSampleInterval = "CARDVISION_SAMPLE_INTERVAL"
	EnvHTTPAddr       = "CARDVISION_HTTP_ADDR"
	EnvLogLevel       = "CARDVISION_LOG_LEVEL"
	EnvMinScore       = "CARDVISION_MIN_SCORE"
	EnvSimulations    = "CARDVISION_SIMULATIONS"
	EnvDryRun         = "CARDVISION_DRY_RUN"
)

// Settings holds process configuration.
type Settings struct {
	// Assets is the template root directory.
	Assets string
	// Calibration is an optional YAML file merged over DefaultCalibration.
	Calibration string

	SampleInterval time.Duration
	HTTPAddr       string
	LogLevel       string

	// MinScore is the classifier acceptance floor, used only when HasMinScore.
	MinScore    float64
	HasMinScore bool

	Simulations int
	DryRun      bool
}

// LoadSettings reads .env files (all optional, default ".env") into the
// environment and builds Settings from it.
func LoadSettings(envFiles ...string) (*Settings, error) {
	if err := godotenv.Load(envFiles...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load env file: %w", err)
	}

	s := &Settings{
		Assets:         getEnvOrDefault(EnvAssets, "assets"),
		Calibration:    getEnvOrDefault(EnvCalibration, ""),
		SampleInterval: getEnvAsDurationOrDefault(EnvSampleInterval, 2*time.Second),
		HTTPAddr:       getEnvOrDefault(EnvHTTPAddr, ":8088"),
		LogLevel:       getEnvOrDefault(EnvLogLevel, "info"),
		Simulations:    getEnvAsIntOrDefault(EnvSimulations, 500),
		DryRun:         getEnvAsBoolOrDefault(EnvDryRun, true),
	}
	if v := os.Getenv(EnvMinScore); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", EnvMinScore, err)
		}
		s.MinScore, s.HasMinScore = f, true
	}

	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return s, nil
}

// Validate checks the settings are usable.
func (s *Settings) Validate() error {
	if s.Assets == "" {
		return fmt.Errorf("%s is required", EnvAssets)
	}
	if s.SampleInterval < 100*time.Millisecond || s.SampleInterval > time.Hour {
		return fmt.Errorf("%s must be between 100ms and 1h, got %s", EnvSampleInterval, s.SampleInterval)
	}
	if s.Simulations < 1 || s.Simulations > 100000 {
		return fmt.Errorf("%s must be between 1 and 100000, got %d", EnvSimulations, s.Simulations)
	}
	if s.HasMinScore && (s.MinScore < -1 || s.MinScore > 1) {
		return fmt.Errorf("%s must be within [-1, 1], got %v", EnvMinScore, s.MinScore)
	}
	switch strings.ToLower(s.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%s must be debug, info, warn or error, got %q", EnvLogLevel, s.LogLevel)
	}
	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsIntOrDefault(key string, defaultValue int) int {
	value, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsBoolOrDefault(key string, defaultValue bool) bool {
	value, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return value
}

// getEnvAsDurationOrDefault accepts Go durations ("1500ms") and plain
// seconds ("2", "0.5").
func getEnvAsDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	if secs, err := strconv.ParseFloat(v, 64); err == nil {
		return time.Duration(secs * float64(time.Second))
	}
	return defaultValue
}
