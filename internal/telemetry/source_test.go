package telemetry

import (
	"math"
	"testing"

	"github.com/equilog/ride-telemetry-go/internal/locator"
	"github.com/equilog/ride-telemetry-go/internal/models"
	"github.com/equilog/ride-telemetry-go/internal/spatial"
)

func fixAt(lat, lon float64, ts int64) locator.Fix {
	return locator.Fix{Latitude: lat, Longitude: lon, Timestamp: ts}
}

// feed offers every fix and flushes, returning all admitted samples
func feed(s *SampleSource, fixes ...locator.Fix) []models.GeoSample {
	var out []models.GeoSample
	for _, f := range fixes {
		if smp := s.Offer(f); smp != nil {
			out = append(out, *smp)
		}
	}
	if smp := s.Flush(); smp != nil {
		out = append(out, *smp)
	}
	return out
}

func TestAdmitsCleanSequence(t *testing.T) {
	s := NewSampleSource(SourceConfig{})
	lat, lon := 59.33, 18.06
	var fixes []locator.Fix
	for i := 0; i < 5; i++ {
		fixes = append(fixes, fixAt(lat, lon, int64(i*1000)))
		lat, lon = spatial.DestinationPoint(lat, lon, 90, 1.4)
	}

	admitted := feed(s, fixes...)
	if len(admitted) != 5 {
		t.Fatalf("expected 5 admitted samples, got %d", len(admitted))
	}
	for i := 1; i < len(admitted); i++ {
		if admitted[i].Timestamp <= admitted[i-1].Timestamp {
			t.Fatalf("timestamps must strictly increase at %d", i)
		}
	}
	if d := s.Stats().Dropped(); d != 0 {
		t.Fatalf("expected no drops, got %+v", s.Stats())
	}
}

func TestDropsTeleport(t *testing.T) {
	s := NewSampleSource(SourceConfig{})
	lat, lon := 59.33, 18.06
	farLat, farLon := spatial.DestinationPoint(lat, lon, 45, 500)

	admitted := feed(s,
		fixAt(lat, lon, 0),
		fixAt(farLat, farLon, 1000),
	)
	if len(admitted) != 1 {
		t.Fatalf("expected 1 admitted sample, got %d", len(admitted))
	}
	if s.Stats().Teleport != 1 {
		t.Fatalf("expected teleport drop, got %+v", s.Stats())
	}
}

func TestDropsLowAccuracy(t *testing.T) {
	s := NewSampleSource(SourceConfig{})
	bad := 80.0
	f := fixAt(59.33, 18.06, 0)
	f.Accuracy = &bad

	if admitted := feed(s, f); len(admitted) != 0 {
		t.Fatalf("expected drop, got %d samples", len(admitted))
	}
	if s.Stats().LowAccuracy != 1 {
		t.Fatalf("expected low accuracy drop, got %+v", s.Stats())
	}
}

func TestDropsNonMonotonic(t *testing.T) {
	s := NewSampleSource(SourceConfig{})
	admitted := feed(s,
		fixAt(59.33, 18.06, 5000),
		fixAt(59.33, 18.06, 2000),
	)
	if len(admitted) != 1 {
		t.Fatalf("expected 1 admitted sample, got %d", len(admitted))
	}
	if s.Stats().NonMonotonic != 1 {
		t.Fatalf("expected non-monotonic drop, got %+v", s.Stats())
	}
}

func TestDropsTooFrequent(t *testing.T) {
	s := NewSampleSource(SourceConfig{CadenceMs: 100})
	// 300ms apart: distinct cadence windows but below the 500ms interval
	admitted := feed(s,
		fixAt(59.33, 18.06, 0),
		fixAt(59.33, 18.061, 300),
	)
	if len(admitted) != 1 {
		t.Fatalf("expected 1 admitted sample, got %d", len(admitted))
	}
	if s.Stats().TooFrequent != 1 {
		t.Fatalf("expected interval drop, got %+v", s.Stats())
	}
}

func TestCadenceWindowCollapsesToLatest(t *testing.T) {
	s := NewSampleSource(SourceConfig{})
	admitted := feed(s,
		fixAt(59.33, 18.06, 100),
		fixAt(59.34, 18.06, 400), // same 500ms window, supersedes
		fixAt(59.34, 18.061, 1200),
	)
	if len(admitted) != 2 {
		t.Fatalf("expected 2 admitted samples, got %d", len(admitted))
	}
	if admitted[0].Timestamp != 400 {
		t.Fatalf("expected the latest fix of the window, got ts=%d", admitted[0].Timestamp)
	}
	if s.Stats().Collapsed != 1 {
		t.Fatalf("expected collapse count 1, got %+v", s.Stats())
	}
}

func TestDropsInvalidFix(t *testing.T) {
	s := NewSampleSource(SourceConfig{})
	cases := []locator.Fix{
		fixAt(math.NaN(), 18.06, 0),
		fixAt(91.0, 18.06, 0),
		fixAt(59.33, 200.0, 0),
		fixAt(59.33, 18.06, -5),
	}
	for _, f := range cases {
		if smp := s.Offer(f); smp != nil {
			t.Fatalf("fix %+v should have been rejected", f)
		}
	}
	if s.Stats().Invalid != len(cases) {
		t.Fatalf("expected %d invalid drops, got %+v", len(cases), s.Stats())
	}
}
