package telemetry

import (
	"math"

	"github.com/equilog/ride-telemetry-go/internal/locator"
	"github.com/equilog/ride-telemetry-go/internal/models"
	"github.com/equilog/ride-telemetry-go/internal/spatial"
)

// SourceConfig holds the admission thresholds for raw fixes
type SourceConfig struct {
	MaxAccuracyM  float64 // fixes with worse horizontal accuracy are dropped
	MinIntervalMs int64   // minimum spacing between admitted samples
	MaxJumpM      float64 // hops beyond this are treated as teleports
	CadenceMs     int64   // fixes inside one cadence window collapse to the latest
}

// DefaultSourceConfig provides the default admission thresholds
var DefaultSourceConfig = SourceConfig{
	MaxAccuracyM:  50.0,
	MinIntervalMs: 500,
	MaxJumpM:      200.0,
	CadenceMs:     500,
}

// DropStats counts fixes rejected by the source, by reason
type DropStats struct {
	Invalid      int // malformed fix (NaN, out-of-range coordinates)
	Collapsed    int // superseded inside a cadence window
	NonMonotonic int // timestamp did not advance
	LowAccuracy  int // accuracy above MaxAccuracyM
	TooFrequent  int // interval below MinIntervalMs
	Teleport     int // hop beyond MaxJumpM
}

// Dropped returns the total number of rejected fixes
func (d DropStats) Dropped() int {
	return d.Invalid + d.Collapsed + d.NonMonotonic + d.LowAccuracy + d.TooFrequent + d.Teleport
}

// SampleSource filters raw locator fixes into admitted samples. It collapses
// fixes arriving within one cadence window to the latest, then applies the
// admission rules against the last admitted sample. Offer and Flush must be
// called from a single goroutine.
type SampleSource struct {
	cfg SourceConfig

	candidate       *locator.Fix
	candidateWindow int64
	last            *models.GeoSample
	stats           DropStats
}

// NewSampleSource creates a source with the given thresholds. Zero-valued
// thresholds fall back to the defaults.
func NewSampleSource(cfg SourceConfig) *SampleSource {
	if cfg.MaxAccuracyM <= 0 {
		cfg.MaxAccuracyM = DefaultSourceConfig.MaxAccuracyM
	}
	if cfg.MinIntervalMs <= 0 {
		cfg.MinIntervalMs = DefaultSourceConfig.MinIntervalMs
	}
	if cfg.MaxJumpM <= 0 {
		cfg.MaxJumpM = DefaultSourceConfig.MaxJumpM
	}
	if cfg.CadenceMs <= 0 {
		cfg.CadenceMs = DefaultSourceConfig.CadenceMs
	}
	return &SampleSource{cfg: cfg}
}

// Offer feeds one raw fix through the filter. It returns the admitted
// sample flushed out of the previous cadence window, or nil.
func (s *SampleSource) Offer(f locator.Fix) *models.GeoSample {
	if !validFix(f) {
		s.stats.Invalid++
		return nil
	}

	window := f.Timestamp / s.cfg.CadenceMs
	if s.candidate != nil && window == s.candidateWindow {
		// same cadence window: the latest fix wins
		s.stats.Collapsed++
		s.candidate = &f
		return nil
	}

	admitted := s.flushCandidate()
	s.candidate = &f
	s.candidateWindow = window
	return admitted
}

// Flush admits the pending cadence candidate, if any. Called at session end
// so the final window is not lost.
func (s *SampleSource) Flush() *models.GeoSample {
	return s.flushCandidate()
}

// Stats returns the drop counters accumulated so far
func (s *SampleSource) Stats() DropStats {
	return s.stats
}

func (s *SampleSource) flushCandidate() *models.GeoSample {
	if s.candidate == nil {
		return nil
	}
	f := *s.candidate
	s.candidate = nil

	if s.last != nil {
		if f.Timestamp <= s.last.Timestamp {
			s.stats.NonMonotonic++
			return nil
		}
		if f.Timestamp-s.last.Timestamp < s.cfg.MinIntervalMs {
			s.stats.TooFrequent++
			return nil
		}
	}
	if f.Accuracy != nil && *f.Accuracy > s.cfg.MaxAccuracyM {
		s.stats.LowAccuracy++
		return nil
	}
	if s.last != nil {
		hop := spatial.HaversineDistance(s.last.Latitude, s.last.Longitude, f.Latitude, f.Longitude)
		if hop > s.cfg.MaxJumpM {
			s.stats.Teleport++
			return nil
		}
	}

	sample := models.GeoSample{
		Latitude:  f.Latitude,
		Longitude: f.Longitude,
		Timestamp: f.Timestamp,
		Accuracy:  f.Accuracy,
		Speed:     f.Speed,
	}
	s.last = &sample
	return &sample
}

func validFix(f locator.Fix) bool {
	if math.IsNaN(f.Latitude) || math.IsNaN(f.Longitude) {
		return false
	}
	if f.Latitude < -90 || f.Latitude > 90 || f.Longitude < -180 || f.Longitude > 180 {
		return false
	}
	if f.Timestamp < 0 {
		return false
	}
	return true
}
