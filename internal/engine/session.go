package engine

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/equilog/ride-telemetry-go/internal/gait"
	"github.com/equilog/ride-telemetry-go/internal/locator"
	"github.com/equilog/ride-telemetry-go/internal/models"
	"github.com/equilog/ride-telemetry-go/internal/telemetry"
)

// sampleBuffer sizes the live sample channel; a lagging consumer loses
// samples from the channel, never from the path
const sampleBuffer = 64

// Session is a live recording handle. The pipeline runs on a single
// goroutine; Stop and Cancel join it before finalizing.
type Session struct {
	engine     *Engine
	id         string
	params     StartParams
	startTime  int64
	source     *telemetry.SampleSource
	path       *telemetry.PathAccumulator
	odometer   *telemetry.Odometer
	classifier *gait.Classifier
	segmenter  *gait.Segmenter

	samples   chan models.GeoSample
	cancelSub context.CancelFunc
	done      chan struct{}

	mu            sync.Mutex
	media         []models.MediaItem
	warmupErr     error
	invariantHits int
	finished      bool
	record        *models.TrainingSession
}

// ID returns the session identifier
func (s *Session) ID() string { return s.id }

// StartTime returns the session start in milliseconds
func (s *Session) StartTime() int64 { return s.startTime }

// Samples returns the live sequence of admitted samples. It is finite:
// the channel closes when the session stops or is canceled. Single
// consumer, not restartable.
func (s *Session) Samples() <-chan models.GeoSample {
	return s.samples
}

// Err reports a degraded session: locator.ErrUnavailable when no fix
// arrived within the warm-up deadline
func (s *Session) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.warmupErr
}

// Stats returns the source drop counters accumulated so far
func (s *Session) Stats() telemetry.DropStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.source.Stats()
}

// AttachMedia records an opaque media item on the session. Fails once the
// session is finalized: a finalized record is immutable.
func (s *Session) AttachMedia(item models.MediaItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.finished {
		return fmt.Errorf("failed to attach media: session %s is finalized", s.id)
	}
	s.media = append(s.media, item)
	return nil
}

// Stop ends recording, aggregates the gait analysis, persists the record,
// and returns it. Calling Stop on a finalized session returns the same
// record without re-persisting.
func (s *Session) Stop() (*models.TrainingSession, error) {
	return s.finalize()
}

// Cancel ends recording cooperatively. The final segment closes at the
// current clock reading and aggregation and persistence run as on Stop;
// only the returned record is discarded.
func (s *Session) Cancel() {
	if _, err := s.finalize(); err != nil {
		log.Printf("[RideEngine] Session %s canceled with persistence error: %v", s.id, err)
	}
}

// pump drives the pipeline: it observes the fix subscription and the
// warm-up deadline, which is disarmed by the first fix
func (s *Session) pump(fixes <-chan locator.Fix, warmup <-chan time.Time) {
	defer close(s.done)
	for {
		select {
		case f, ok := <-fixes:
			if !ok {
				return
			}
			warmup = nil
			s.ingest(f)
		case <-warmup:
			s.mu.Lock()
			s.warmupErr = locator.ErrUnavailable
			s.mu.Unlock()
			log.Printf("[RideEngine] Session %s: no fix within warm-up, recording degrades to an empty path", s.id)
			s.cancelSub()
			return
		}
	}
}

func (s *Session) ingest(f locator.Fix) {
	s.mu.Lock()
	admitted := s.source.Offer(f)
	s.mu.Unlock()
	if admitted != nil {
		s.process(*admitted)
	}
}

// process runs one admitted sample through the pipeline in admission order
func (s *Session) process(sample models.GeoSample) {
	if err := s.path.Append(sample); err != nil {
		// the source filter guarantees monotonic timestamps; a slip here
		// is dropped and counted rather than crashing the ride
		s.mu.Lock()
		s.invariantHits++
		s.mu.Unlock()
		log.Printf("[RideEngine] Session %s: dropped sample violating path order: %v", s.id, err)
		return
	}
	index := s.path.Size() - 1
	hop, speed := s.odometer.Observe(sample)
	label := s.classifier.Classify(speed)
	s.segmenter.Observe(index, sample.Timestamp, label, hop)

	select {
	case s.samples <- sample:
	default:
		// consumer lagging; the path keeps the sample
	}
}

func (s *Session) finalize() (*models.TrainingSession, error) {
	s.mu.Lock()
	if s.finished {
		record := s.record
		s.mu.Unlock()
		return record, nil
	}
	s.finished = true
	s.mu.Unlock()

	s.cancelSub()
	<-s.done

	// the cadence window still pending at stop belongs to the session
	s.mu.Lock()
	tail := s.source.Flush()
	s.mu.Unlock()
	if tail != nil {
		s.process(*tail)
	}
	close(s.samples)

	endTime := s.engine.clk.NowMillis()
	if last, ok := s.path.Last(); ok && last.Timestamp > endTime {
		endTime = last.Timestamp
	}

	path := s.path.Snapshot()
	startTime := s.startTime
	if len(path) > 0 && path[0].Timestamp < startTime {
		startTime = path[0].Timestamp
	}
	durationSec := float64(endTime-startTime) / 1000.0

	var analysis *models.GaitAnalysis
	segments := s.segmenter.Finish(endTime)
	if len(path) > 0 {
		a := gait.Aggregate(segments)
		analysis = &a
	}

	s.mu.Lock()
	media := append([]models.MediaItem(nil), s.media...)
	stats := s.source.Stats()
	s.mu.Unlock()

	record := &models.TrainingSession{
		ID:           s.id,
		UserID:       s.params.UserID,
		HorseID:      s.params.HorseID,
		HorseName:    s.params.HorseName,
		TrainingType: s.params.TrainingType,
		StartTime:    startTime,
		EndTime:      endTime,
		Duration:     durationSec,
		Distance:     s.odometer.Distance(),
		AverageSpeed: s.odometer.AverageSpeed(durationSec),
		MaxSpeed:     s.odometer.MaxSpeed(),
		Path:         path,
		Media:        media,
		GaitAnalysis: analysis,
	}

	s.mu.Lock()
	s.record = record
	s.mu.Unlock()
	s.engine.release()

	log.Printf("[RideEngine] Session %s finalized: %d samples, %.0fm, %d dropped fixes",
		s.id, len(path), record.Distance, stats.Dropped())

	if err := s.engine.repo.Put(*record); err != nil {
		return record, fmt.Errorf("failed to persist session %s: %w", s.id, err)
	}
	return record, nil
}
