package telemetry

import (
	"github.com/equilog/ride-telemetry-go/internal/models"
	"github.com/equilog/ride-telemetry-go/internal/spatial"
)

// Odometer incrementally derives distance and speed from the admitted
// sample stream. It carries the running session distance and max speed.
type Odometer struct {
	prev      *models.GeoSample
	prevSpeed float64
	distance  float64
	maxSpeed  float64
}

// NewOdometer creates a zeroed odometer
func NewOdometer() *Odometer {
	return &Odometer{}
}

// Observe consumes the next admitted sample and returns the hop distance
// from the previous sample in meters and the instantaneous speed in m/s.
// The reported fix speed is preferred when present and non-negative; the
// fallback is hop distance over hop duration, then the previous speed.
func (o *Odometer) Observe(s models.GeoSample) (hopDistance, speed float64) {
	if o.prev == nil {
		if s.Speed != nil && *s.Speed >= 0 {
			speed = *s.Speed
		}
		o.prev = &s
		o.prevSpeed = speed
		if speed > o.maxSpeed {
			o.maxSpeed = speed
		}
		return 0, speed
	}

	hopDistance = spatial.HaversineDistance(o.prev.Latitude, o.prev.Longitude, s.Latitude, s.Longitude)
	hopSeconds := float64(s.Timestamp-o.prev.Timestamp) / 1000.0

	switch {
	case s.Speed != nil && *s.Speed >= 0:
		speed = *s.Speed
	case hopSeconds > 0:
		speed = hopDistance / hopSeconds
	default:
		speed = o.prevSpeed
	}

	o.distance += hopDistance
	if speed > o.maxSpeed {
		o.maxSpeed = speed
	}
	o.prev = &s
	o.prevSpeed = speed
	return hopDistance, speed
}

// Distance returns the running session distance in meters
func (o *Odometer) Distance() float64 {
	return o.distance
}

// MaxSpeed returns the highest instantaneous speed seen so far
func (o *Odometer) MaxSpeed() float64 {
	return o.maxSpeed
}

// AverageSpeed returns distance over the given session duration in seconds
func (o *Odometer) AverageSpeed(durationSec float64) float64 {
	if durationSec <= 0 {
		return 0
	}
	return o.distance / durationSec
}
