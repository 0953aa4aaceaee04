package gait

import (
	"os"
	"path/filepath"
	"testing"
)

func writeProfile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "profile.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write profile: %v", err)
	}
	return path
}

func TestLoadProfileOverridesDefaults(t *testing.T) {
	path := writeProfile(t, `
hysteresis: 0.3
bands:
  walk: 0.4
  trot: 2.2
  canter: 4.8
  gallop: 8.0
noise:
  maxDurationSec: 2
  maxDistanceM: 4
`)
	th, err := LoadProfile(path)
	if err != nil {
		t.Fatalf("load profile: %v", err)
	}
	if th.HysteresisMPS != 0.3 || th.Bands.Trot != 2.2 || th.Noise.MaxDistanceM != 4 {
		t.Fatalf("profile not applied: %+v", th)
	}
}

func TestLoadProfileKeepsDefaultsForOmittedFields(t *testing.T) {
	path := writeProfile(t, "hysteresis: 0.25\n")
	th, err := LoadProfile(path)
	if err != nil {
		t.Fatalf("load profile: %v", err)
	}
	if th.HysteresisMPS != 0.25 {
		t.Fatalf("override lost: %+v", th)
	}
	if th.Bands != DefaultThresholds.Bands {
		t.Fatalf("omitted bands must keep defaults: %+v", th.Bands)
	}
}

func TestLoadProfileRejectsUnorderedBands(t *testing.T) {
	path := writeProfile(t, `
bands:
  walk: 3.0
  trot: 2.0
  canter: 4.5
  gallop: 7.5
`)
	if _, err := LoadProfile(path); err == nil {
		t.Fatalf("expected validation error for unordered bands")
	}
}

func TestLoadProfileMissingFile(t *testing.T) {
	if _, err := LoadProfile(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestDefaultThresholdsValid(t *testing.T) {
	if err := DefaultThresholds.Validate(); err != nil {
		t.Fatalf("defaults must validate: %v", err)
	}
}
