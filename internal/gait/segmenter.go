package gait

import "github.com/equilog/ride-telemetry-go/internal/models"

// Segmenter folds the labelled sample stream into contiguous runs of equal
// gait. Runs open when the classifier label changes and close on the next
// change or at session end. A run's end time is the start time of its
// successor so run durations tile the session; the hop entering a run is
// charged to that run so run distances tile the session distance.
type Segmenter struct {
	th       Thresholds
	start    int64
	current  *run
	closed   []run
	finished bool
}

type run struct {
	gait       models.GaitLabel
	startIndex int
	endIndex   int
	startTime  int64
	endTime    int64
	lastTs     int64
	distance   float64
}

func (r run) durationSec() float64 {
	return float64(r.endTime-r.startTime) / 1000.0
}

// NewSegmenter creates an idle segmenter. The first run opens at the
// session start, not at its own first sample, so the interval spent
// waiting for the first fix is charged to that run and run durations
// tile the whole session.
func NewSegmenter(th Thresholds, start int64) *Segmenter {
	return &Segmenter{th: th, start: start}
}

// Observe consumes one labelled sample. Index is the sample's path index,
// ts its timestamp, and hopDistance the distance from the previous sample.
// Samples must arrive in admission order.
func (s *Segmenter) Observe(index int, ts int64, label models.GaitLabel, hopDistance float64) {
	if s.finished {
		return
	}
	if s.current == nil {
		open := s.start
		if ts < open {
			open = ts
		}
		s.current = &run{gait: label, startIndex: index, endIndex: index, startTime: open, endTime: ts, lastTs: ts}
		return
	}
	if label != s.current.gait {
		s.current.endTime = ts
		s.closed = append(s.closed, *s.current)
		s.current = &run{gait: label, startIndex: index, endIndex: index, startTime: ts, endTime: ts, lastTs: ts, distance: hopDistance}
		return
	}
	s.current.endIndex = index
	s.current.lastTs = ts
	s.current.distance += hopDistance
}

// Finish closes the open run at the given session end time, coalesces noise
// runs, fuses equal neighbours, and returns the final segments. The
// segmenter accepts no further samples afterwards.
func (s *Segmenter) Finish(endTime int64) []models.GaitSegment {
	if s.finished {
		return nil
	}
	s.finished = true

	runs := s.closed
	if s.current != nil {
		last := *s.current
		// a sample can arrive between the stop decision and the final
		// clock reading; never close the run before its last sample
		if endTime < last.lastTs {
			endTime = last.lastTs
		}
		last.endTime = endTime
		runs = append(runs, last)
		s.current = nil
	}

	runs = s.coalesce(runs)
	runs = fuse(runs)

	segments := make([]models.GaitSegment, 0, len(runs))
	for _, r := range runs {
		seg := models.GaitSegment{
			Gait:       r.gait,
			StartTime:  r.startTime,
			EndTime:    r.endTime,
			Duration:   r.durationSec(),
			Distance:   r.distance,
			StartIndex: r.startIndex,
			EndIndex:   r.endIndex,
		}
		if seg.Duration > 0 {
			seg.AverageSpeed = seg.Distance / seg.Duration
		}
		segments = append(segments, seg)
	}
	return segments
}

// coalesce merges runs below both noise thresholds into their predecessor,
// which keeps its label. A noisy leading run has no predecessor and is
// merged forward into the next closed run instead; if no run follows it is
// dropped entirely (the single-sample session case).
func (s *Segmenter) coalesce(runs []run) []run {
	if len(runs) == 0 {
		return nil
	}

	var out []run
	var leading *run
	for _, r := range runs {
		noisy := r.durationSec() < s.th.Noise.MaxDurationSec && r.distance < s.th.Noise.MaxDistanceM
		if noisy {
			if len(out) > 0 {
				prev := &out[len(out)-1]
				prev.endIndex = r.endIndex
				prev.endTime = r.endTime
				prev.distance += r.distance
			} else if leading == nil {
				head := r
				leading = &head
			} else {
				leading.endIndex = r.endIndex
				leading.endTime = r.endTime
				leading.distance += r.distance
			}
			continue
		}
		if leading != nil {
			r.startIndex = leading.startIndex
			r.startTime = leading.startTime
			r.distance += leading.distance
			leading = nil
		}
		out = append(out, r)
	}
	return out
}

// fuse merges adjacent runs left with equal labels after coalescing
func fuse(runs []run) []run {
	var out []run
	for _, r := range runs {
		if n := len(out); n > 0 && out[n-1].gait == r.gait {
			prev := &out[n-1]
			prev.endIndex = r.endIndex
			prev.endTime = r.endTime
			prev.distance += r.distance
			continue
		}
		out = append(out, r)
	}
	return out
}
