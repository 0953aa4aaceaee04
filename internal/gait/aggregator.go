package gait

import "github.com/equilog/ride-telemetry-go/internal/models"

// Aggregate computes the gait report for a finished session from its final
// segment list. It is deterministic: the same segments always produce the
// same analysis. Runs strictly after the segmenter has closed the last
// segment.
func Aggregate(segments []models.GaitSegment) models.GaitAnalysis {
	durations := make(map[models.GaitLabel]float64, len(models.GaitOrder))
	percentages := make(map[models.GaitLabel]float64, len(models.GaitOrder))
	for _, g := range models.GaitOrder {
		durations[g] = 0
		percentages[g] = 0
	}

	total := 0.0
	for _, seg := range segments {
		durations[seg.Gait] += seg.Duration
		total += seg.Duration
	}

	if total > 0 {
		for g, d := range durations {
			percentages[g] = 100 * d / total
		}
	}

	transitions := 0
	if len(segments) > 0 {
		transitions = len(segments) - 1
	}

	return models.GaitAnalysis{
		TotalDuration:   total,
		GaitDurations:   durations,
		GaitPercentages: percentages,
		Segments:        segments,
		TransitionCount: transitions,
		PredominantGait: predominant(durations, total),
	}
}

// predominant picks the gait with the greatest accumulated duration. Ties
// break on the stable order walk, trot, canter, gallop, halt. A session
// with no measurable movement reports halt, the classifier's seeded state.
func predominant(durations map[models.GaitLabel]float64, total float64) models.GaitLabel {
	if total <= 0 {
		return models.GaitHalt
	}
	best := models.GaitOrder[0]
	bestDur := durations[best]
	for _, g := range models.GaitOrder[1:] {
		if durations[g] > bestDur {
			best = g
			bestDur = durations[g]
		}
	}
	return best
}
