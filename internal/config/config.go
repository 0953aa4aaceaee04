package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/equilog/ride-telemetry-go/internal/gait"
	"github.com/equilog/ride-telemetry-go/internal/telemetry"
)

// Store backends
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
)

// Config holds the application configuration
type Config struct {
	StoreBackend string // "file" or "sqlite"
	StorePath    string // directory (file) or database file (sqlite)
	StoreKey     string // blob key for the session document
	WarmupMs     int64
	GaitProfile  string // optional YAML threshold profile path
	Source       telemetry.SourceConfig
}

// Load reads configuration from the environment, after loading a .env
// file when one is present. Unset variables keep their defaults.
func Load() *Config {
	godotenv.Load()

	cfg := &Config{
		StoreBackend: envString("RIDE_STORE_BACKEND", BackendFile),
		StorePath:    envString("RIDE_STORE_PATH", "./data/sessions"),
		StoreKey:     envString("RIDE_STORE_KEY", "training_sessions"),
		WarmupMs:     envInt64("RIDE_WARMUP_MS", 15000),
		GaitProfile:  os.Getenv("RIDE_GAIT_PROFILE"),
		Source: telemetry.SourceConfig{
			MaxAccuracyM:  envFloat("RIDE_MAX_ACCURACY_M", telemetry.DefaultSourceConfig.MaxAccuracyM),
			MinIntervalMs: envInt64("RIDE_MIN_INTERVAL_MS", telemetry.DefaultSourceConfig.MinIntervalMs),
			MaxJumpM:      envFloat("RIDE_MAX_JUMP_M", telemetry.DefaultSourceConfig.MaxJumpM),
			CadenceMs:     envInt64("RIDE_CADENCE_MS", telemetry.DefaultSourceConfig.CadenceMs),
		},
	}
	return cfg
}

// Thresholds resolves the gait profile: the YAML file when configured,
// otherwise the compiled-in defaults
func (c *Config) Thresholds() (gait.Thresholds, error) {
	if c.GaitProfile == "" {
		return gait.DefaultThresholds, nil
	}
	th, err := gait.LoadProfile(c.GaitProfile)
	if err != nil {
		return gait.DefaultThresholds, fmt.Errorf("failed to load gait profile %s: %w", c.GaitProfile, err)
	}
	return th, nil
}

func envString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return fallback
	}
	return n
}

func envFloat(key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fallback
	}
	return f
}
