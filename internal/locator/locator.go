package locator

import (
	"context"
	"errors"
)

// Fix is one raw GPS observation delivered by the platform locator,
// before any admission filtering
type Fix struct {
	Latitude  float64  `json:"latitude"`
	Longitude float64  `json:"longitude"`
	Timestamp int64    `json:"timestamp"` // milliseconds
	Accuracy  *float64 `json:"accuracy,omitempty"`
	Speed     *float64 `json:"speed,omitempty"`
}

// Locator errors
var (
	ErrPermissionDenied = errors.New("locator permission denied")
	ErrUnavailable      = errors.New("locator unavailable")
)

// Locator is the platform location provider the engine consumes.
// Implementations deliver raw fixes on the returned channel and close it
// when the subscription context is canceled or the source is exhausted.
type Locator interface {
	RequestPermission(ctx context.Context) error
	Subscribe(ctx context.Context) (<-chan Fix, error)
}
