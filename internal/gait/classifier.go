package gait

import "github.com/equilog/ride-telemetry-go/internal/models"

// Classifier maps instantaneous speed to a gait label. Hysteresis keeps the
// label from flapping near band boundaries: leaving the current band
// requires the speed to clear the boundary by the configured margin.
// Single-state machine, seeded with halt at session start.
type Classifier struct {
	th      Thresholds
	current models.GaitLabel
}

// NewClassifier creates a classifier in the halt state
func NewClassifier(th Thresholds) *Classifier {
	return &Classifier{th: th, current: models.GaitHalt}
}

// Current returns the label of the last classified sample
func (c *Classifier) Current() models.GaitLabel {
	return c.current
}

// Classify labels the given speed, applying hysteresis against the
// current state, and advances the state
func (c *Classifier) Classify(speed float64) models.GaitLabel {
	base := c.th.bandOf(speed)
	if base == c.current {
		return c.current
	}

	if rank(base) > rank(c.current) {
		// moving to a faster gait: clear the current upper bound by the margin
		if speed >= c.th.upperBound(c.current)+c.th.HysteresisMPS {
			c.current = base
		}
	} else {
		// moving to a slower gait: fall below the current lower bound by the margin
		if speed <= c.th.lowerBound(c.current)-c.th.HysteresisMPS {
			c.current = base
		}
	}
	return c.current
}
