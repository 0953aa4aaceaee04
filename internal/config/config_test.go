package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/equilog/ride-telemetry-go/internal/gait"
)

func clearRideEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"RIDE_STORE_BACKEND", "RIDE_STORE_PATH", "RIDE_STORE_KEY",
		"RIDE_WARMUP_MS", "RIDE_GAIT_PROFILE",
		"RIDE_MAX_ACCURACY_M", "RIDE_MIN_INTERVAL_MS",
		"RIDE_MAX_JUMP_M", "RIDE_CADENCE_MS",
	} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestLoadDefaults(t *testing.T) {
	clearRideEnv(t)

	cfg := Load()
	if cfg.StoreBackend != BackendFile {
		t.Fatalf("expected file backend default, got %s", cfg.StoreBackend)
	}
	if cfg.StorePath != "./data/sessions" {
		t.Fatalf("unexpected default store path %s", cfg.StorePath)
	}
	if cfg.StoreKey != "training_sessions" {
		t.Fatalf("unexpected default store key %s", cfg.StoreKey)
	}
	if cfg.WarmupMs != 15000 {
		t.Fatalf("unexpected default warm-up %d", cfg.WarmupMs)
	}
	if cfg.Source.MaxAccuracyM != 50 || cfg.Source.MinIntervalMs != 500 {
		t.Fatalf("unexpected default source config %+v", cfg.Source)
	}
}

func TestLoadOverrides(t *testing.T) {
	clearRideEnv(t)
	t.Setenv("RIDE_STORE_BACKEND", BackendSQLite)
	t.Setenv("RIDE_STORE_PATH", "/tmp/rides.db")
	t.Setenv("RIDE_WARMUP_MS", "30000")
	t.Setenv("RIDE_MAX_ACCURACY_M", "25.5")
	t.Setenv("RIDE_CADENCE_MS", "1000")

	cfg := Load()
	if cfg.StoreBackend != BackendSQLite || cfg.StorePath != "/tmp/rides.db" {
		t.Fatalf("store overrides not applied: %+v", cfg)
	}
	if cfg.WarmupMs != 30000 {
		t.Fatalf("expected warm-up 30000, got %d", cfg.WarmupMs)
	}
	if cfg.Source.MaxAccuracyM != 25.5 || cfg.Source.CadenceMs != 1000 {
		t.Fatalf("source overrides not applied: %+v", cfg.Source)
	}
}

func TestLoadMalformedNumberskeepDefaults(t *testing.T) {
	clearRideEnv(t)
	t.Setenv("RIDE_WARMUP_MS", "soon")
	t.Setenv("RIDE_MAX_JUMP_M", "far")

	cfg := Load()
	if cfg.WarmupMs != 15000 {
		t.Fatalf("malformed int must keep the default, got %d", cfg.WarmupMs)
	}
	if cfg.Source.MaxJumpM != 200 {
		t.Fatalf("malformed float must keep the default, got %v", cfg.Source.MaxJumpM)
	}
}

func TestThresholdsDefault(t *testing.T) {
	clearRideEnv(t)

	cfg := Load()
	th, err := cfg.Thresholds()
	if err != nil {
		t.Fatalf("thresholds: %v", err)
	}
	if th != gait.DefaultThresholds {
		t.Fatalf("expected compiled-in thresholds, got %+v", th)
	}
}

func TestThresholdsProfile(t *testing.T) {
	clearRideEnv(t)
	profile := filepath.Join(t.TempDir(), "gaits.yaml")
	if err := os.WriteFile(profile, []byte("bands:\n  trot: 2.2\n"), 0o644); err != nil {
		t.Fatalf("write profile: %v", err)
	}
	t.Setenv("RIDE_GAIT_PROFILE", profile)

	cfg := Load()
	th, err := cfg.Thresholds()
	if err != nil {
		t.Fatalf("thresholds: %v", err)
	}
	if th.Bands.Trot != 2.2 {
		t.Fatalf("profile override not applied: %+v", th.Bands)
	}
	if th.Bands.Walk != gait.DefaultThresholds.Bands.Walk {
		t.Fatalf("unset bands must keep defaults: %+v", th.Bands)
	}
}

func TestThresholdsMissingProfileFallsBack(t *testing.T) {
	clearRideEnv(t)
	t.Setenv("RIDE_GAIT_PROFILE", filepath.Join(t.TempDir(), "absent.yaml"))

	cfg := Load()
	th, err := cfg.Thresholds()
	if err == nil {
		t.Fatalf("expected an error for a missing profile")
	}
	if th != gait.DefaultThresholds {
		t.Fatalf("missing profile must fall back to defaults, got %+v", th)
	}
}
