package engine

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/equilog/ride-telemetry-go/internal/clock"
	"github.com/equilog/ride-telemetry-go/internal/gait"
	"github.com/equilog/ride-telemetry-go/internal/locator"
	"github.com/equilog/ride-telemetry-go/internal/models"
	"github.com/equilog/ride-telemetry-go/internal/repository"
	"github.com/equilog/ride-telemetry-go/internal/telemetry"
)

// Engine errors
var (
	ErrAlreadyRecording = errors.New("a session is already recording")
)

// Config holds the engine tuning knobs
type Config struct {
	Source   telemetry.SourceConfig
	Gait     gait.Thresholds
	WarmupMs int64 // deadline for the first fix after start
}

// DefaultConfig provides the default engine configuration
var DefaultConfig = Config{
	Source:   telemetry.DefaultSourceConfig,
	Gait:     gait.DefaultThresholds,
	WarmupMs: 15000,
}

// Engine records riding sessions. It owns no process-wide state: the
// locator, session repository, and clock are injected at construction.
type Engine struct {
	locator locator.Locator
	repo    *repository.SessionRepository
	clk     clock.Clock
	cfg     Config

	mu        sync.Mutex
	recording bool
}

// New creates an engine over the given collaborators
func New(loc locator.Locator, repo *repository.SessionRepository, clk clock.Clock, cfg Config) *Engine {
	if cfg.WarmupMs <= 0 {
		cfg.WarmupMs = DefaultConfig.WarmupMs
	}
	if cfg.Gait == (gait.Thresholds{}) {
		cfg.Gait = gait.DefaultThresholds
	}
	return &Engine{locator: loc, repo: repo, clk: clk, cfg: cfg}
}

// Repository exposes the session repository for read-side callers
func (e *Engine) Repository() *repository.SessionRepository {
	return e.repo
}

// StartParams identifies the ride being recorded. All fields are opaque
// references the engine stores without interpreting.
type StartParams struct {
	UserID       string
	HorseID      string
	HorseName    string
	TrainingType string
}

// Start requests locator permission and begins recording. It fails with
// locator.ErrPermissionDenied without creating a session, and with
// ErrAlreadyRecording while another session is live.
func (e *Engine) Start(ctx context.Context, params StartParams) (*Session, error) {
	if err := e.locator.RequestPermission(ctx); err != nil {
		return nil, fmt.Errorf("failed to start session: %w", err)
	}

	e.mu.Lock()
	if e.recording {
		e.mu.Unlock()
		return nil, ErrAlreadyRecording
	}
	e.recording = true
	e.mu.Unlock()

	subCtx, cancelSub := context.WithCancel(context.Background())
	fixes, err := e.locator.Subscribe(subCtx)
	if err != nil {
		cancelSub()
		e.release()
		return nil, fmt.Errorf("failed to subscribe to locator: %w", err)
	}

	startTime := e.clk.NowMillis()
	s := &Session{
		engine:     e,
		id:         uuid.NewString(),
		params:     params,
		startTime:  startTime,
		source:     telemetry.NewSampleSource(e.cfg.Source),
		path:       telemetry.NewPathAccumulator(),
		odometer:   telemetry.NewOdometer(),
		classifier: gait.NewClassifier(e.cfg.Gait),
		segmenter:  gait.NewSegmenter(e.cfg.Gait, startTime),
		samples:    make(chan models.GeoSample, sampleBuffer),
		cancelSub:  cancelSub,
		done:       make(chan struct{}),
	}

	log.Printf("[RideEngine] Session %s started (user=%s horse=%s)", s.id, params.UserID, params.HorseID)
	go s.pump(fixes, e.clk.After(time.Duration(e.cfg.WarmupMs)*time.Millisecond))
	return s, nil
}

func (e *Engine) release() {
	e.mu.Lock()
	e.recording = false
	e.mu.Unlock()
}
