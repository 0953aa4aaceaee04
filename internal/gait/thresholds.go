package gait

import (
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/equilog/ride-telemetry-go/internal/models"
)

// BandThresholds holds the lower speed bound of each moving gait in m/s.
// Halt covers everything below the walk bound.
type BandThresholds struct {
	Walk   float64 `yaml:"walk"`
	Trot   float64 `yaml:"trot"`
	Canter float64 `yaml:"canter"`
	Gallop float64 `yaml:"gallop"`
}

// NoiseThresholds bounds the segments treated as classification noise.
// A segment is coalesced away only when it is below both bounds.
type NoiseThresholds struct {
	MaxDurationSec float64 `yaml:"maxDurationSec"`
	MaxDistanceM   float64 `yaml:"maxDistanceM"`
}

// Thresholds is a tunable gait classification profile
type Thresholds struct {
	HysteresisMPS float64         `yaml:"hysteresis"`
	Bands         BandThresholds  `yaml:"bands"`
	Noise         NoiseThresholds `yaml:"noise"`
}

// DefaultThresholds provides the default gait profile
var DefaultThresholds = Thresholds{
	HysteresisMPS: 0.2,
	Bands: BandThresholds{
		Walk:   0.30,
		Trot:   2.00,
		Canter: 4.50,
		Gallop: 7.50,
	},
	Noise: NoiseThresholds{
		MaxDurationSec: 3.0,
		MaxDistanceM:   5.0,
	},
}

// LoadProfile reads a threshold profile from a YAML file. Fields omitted
// from the file keep their default values.
func LoadProfile(path string) (Thresholds, error) {
	th := DefaultThresholds
	raw, err := os.ReadFile(path)
	if err != nil {
		return th, fmt.Errorf("failed to read gait profile: %w", err)
	}
	if err := yaml.Unmarshal(raw, &th); err != nil {
		return th, fmt.Errorf("failed to parse gait profile: %w", err)
	}
	if err := th.Validate(); err != nil {
		return th, err
	}
	return th, nil
}

// Validate checks that the band bounds ascend and the margins are sane
func (t Thresholds) Validate() error {
	if t.HysteresisMPS < 0 {
		return fmt.Errorf("invalid gait profile: negative hysteresis %v", t.HysteresisMPS)
	}
	b := t.Bands
	if !(0 < b.Walk && b.Walk < b.Trot && b.Trot < b.Canter && b.Canter < b.Gallop) {
		return fmt.Errorf("invalid gait profile: band bounds must ascend, got walk=%v trot=%v canter=%v gallop=%v",
			b.Walk, b.Trot, b.Canter, b.Gallop)
	}
	if t.Noise.MaxDurationSec < 0 || t.Noise.MaxDistanceM < 0 {
		return fmt.Errorf("invalid gait profile: negative noise thresholds")
	}
	return nil
}

// lowerBound returns the inclusive lower speed bound of a gait band
func (t Thresholds) lowerBound(g models.GaitLabel) float64 {
	switch g {
	case models.GaitWalk:
		return t.Bands.Walk
	case models.GaitTrot:
		return t.Bands.Trot
	case models.GaitCanter:
		return t.Bands.Canter
	case models.GaitGallop:
		return t.Bands.Gallop
	default:
		return 0
	}
}

// upperBound returns the exclusive upper speed bound of a gait band
func (t Thresholds) upperBound(g models.GaitLabel) float64 {
	switch g {
	case models.GaitHalt:
		return t.Bands.Walk
	case models.GaitWalk:
		return t.Bands.Trot
	case models.GaitTrot:
		return t.Bands.Canter
	case models.GaitCanter:
		return t.Bands.Gallop
	default:
		return math.Inf(1)
	}
}

// bandOf maps a speed to its base gait band, without hysteresis
func (t Thresholds) bandOf(speed float64) models.GaitLabel {
	switch {
	case speed >= t.Bands.Gallop:
		return models.GaitGallop
	case speed >= t.Bands.Canter:
		return models.GaitCanter
	case speed >= t.Bands.Trot:
		return models.GaitTrot
	case speed >= t.Bands.Walk:
		return models.GaitWalk
	default:
		return models.GaitHalt
	}
}

// rank orders gaits by speed band, halt slowest
func rank(g models.GaitLabel) int {
	switch g {
	case models.GaitHalt:
		return 0
	case models.GaitWalk:
		return 1
	case models.GaitTrot:
		return 2
	case models.GaitCanter:
		return 3
	case models.GaitGallop:
		return 4
	default:
		return -1
	}
}
