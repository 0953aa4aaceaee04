package spatial

import (
	"math"
	"testing"
)

func TestHaversineDistanceKnownPair(t *testing.T) {
	// Stockholm (59.3293, 18.0686) to Uppsala (59.8586, 17.6389) ~ 63-65 km
	d := HaversineDistance(59.3293, 18.0686, 59.8586, 17.6389)
	if d < 60000 || d > 68000 {
		t.Fatalf("unexpected distance: %v", d)
	}
}

func TestHaversineDistanceZero(t *testing.T) {
	if d := HaversineDistance(51.0, 4.0, 51.0, 4.0); d != 0 {
		t.Fatalf("expected zero distance, got %v", d)
	}
}

func TestDestinationPointRoundTrip(t *testing.T) {
	cases := []struct {
		bearing  float64
		distance float64
	}{
		{0, 100},
		{45, 1500},
		{90, 84},
		{270, 10},
	}
	for _, tc := range cases {
		lat, lon := DestinationPoint(59.3293, 18.0686, tc.bearing, tc.distance)
		d := HaversineDistance(59.3293, 18.0686, lat, lon)
		if math.Abs(d-tc.distance) > tc.distance*0.001+0.01 {
			t.Fatalf("bearing %v: expected %vm, got %vm", tc.bearing, tc.distance, d)
		}
	}
}

func TestBearingCardinal(t *testing.T) {
	lat, lon := DestinationPoint(10.0, 10.0, 90, 1000)
	b := Bearing(10.0, 10.0, lat, lon)
	if math.Abs(b-90) > 0.5 {
		t.Fatalf("expected bearing ~90, got %v", b)
	}
}
