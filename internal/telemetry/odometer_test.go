package telemetry

import (
	"math"
	"testing"

	"github.com/equilog/ride-telemetry-go/internal/models"
	"github.com/equilog/ride-telemetry-go/internal/spatial"
)

func sampleAt(lat, lon float64, ts int64, speed *float64) models.GeoSample {
	return models.GeoSample{Latitude: lat, Longitude: lon, Timestamp: ts, Speed: speed}
}

func TestOdometerDerivesSpeedFromHops(t *testing.T) {
	o := NewOdometer()
	lat, lon := 59.33, 18.06

	_, v := o.Observe(sampleAt(lat, lon, 0, nil))
	if v != 0 {
		t.Fatalf("first sample without reported speed must read 0, got %v", v)
	}

	lat2, lon2 := spatial.DestinationPoint(lat, lon, 90, 1.4)
	hop, v := o.Observe(sampleAt(lat2, lon2, 1000, nil))
	if math.Abs(hop-1.4) > 0.01 {
		t.Fatalf("expected 1.4m hop, got %v", hop)
	}
	if math.Abs(v-1.4) > 0.01 {
		t.Fatalf("expected derived speed 1.4, got %v", v)
	}
	if math.Abs(o.Distance()-1.4) > 0.01 {
		t.Fatalf("unexpected running distance %v", o.Distance())
	}
}

func TestOdometerPrefersReportedSpeed(t *testing.T) {
	o := NewOdometer()
	reported := 3.2
	o.Observe(sampleAt(59.33, 18.06, 0, nil))
	lat, lon := spatial.DestinationPoint(59.33, 18.06, 90, 1.0)
	_, v := o.Observe(sampleAt(lat, lon, 1000, &reported))
	if v != reported {
		t.Fatalf("expected reported speed %v, got %v", reported, v)
	}
	if o.MaxSpeed() != reported {
		t.Fatalf("expected max speed %v, got %v", reported, o.MaxSpeed())
	}
}

func TestOdometerIgnoresNegativeReportedSpeed(t *testing.T) {
	o := NewOdometer()
	bad := -1.0
	o.Observe(sampleAt(59.33, 18.06, 0, nil))
	lat, lon := spatial.DestinationPoint(59.33, 18.06, 90, 2.0)
	_, v := o.Observe(sampleAt(lat, lon, 1000, &bad))
	if math.Abs(v-2.0) > 0.01 {
		t.Fatalf("negative reported speed must fall back to derived, got %v", v)
	}
}

func TestOdometerCarriesSpeedForwardOnZeroInterval(t *testing.T) {
	// the accumulator rejects equal timestamps, but the odometer still
	// defends against a zero interval
	o := NewOdometer()
	reported := 2.5
	o.Observe(sampleAt(59.33, 18.06, 1000, &reported))
	_, v := o.Observe(sampleAt(59.33, 18.06, 1000, nil))
	if v != reported {
		t.Fatalf("expected carried-forward speed %v, got %v", reported, v)
	}
}

func TestOdometerAverageSpeed(t *testing.T) {
	o := NewOdometer()
	lat, lon := 59.33, 18.06
	ts := int64(0)
	for i := 0; i < 10; i++ {
		o.Observe(sampleAt(lat, lon, ts, nil))
		lat, lon = spatial.DestinationPoint(lat, lon, 90, 2.0)
		ts += 1000
	}
	avg := o.AverageSpeed(9.0)
	if math.Abs(avg-2.0) > 0.01 {
		t.Fatalf("expected average ~2.0, got %v", avg)
	}
	if o.AverageSpeed(0) != 0 {
		t.Fatalf("zero duration must yield zero average")
	}
}
