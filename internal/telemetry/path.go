package telemetry

import (
	"errors"

	"github.com/equilog/ride-telemetry-go/internal/models"
)

// ErrNonMonotonic reports a sample whose timestamp does not advance past
// the last accumulated sample. Such samples are dropped; a non-monotonic
// sample reaching the accumulator means the source filter let one slip.
var ErrNonMonotonic = errors.New("non-monotonic sample timestamp")

// PathAccumulator maintains the growing ordered path of the current
// session. Append-only; indices are stable for the session lifetime.
type PathAccumulator struct {
	path models.Path
}

// NewPathAccumulator creates an empty accumulator
func NewPathAccumulator() *PathAccumulator {
	return &PathAccumulator{}
}

// Append adds a sample to the path. Timestamps must strictly increase.
func (a *PathAccumulator) Append(s models.GeoSample) error {
	if n := len(a.path); n > 0 && s.Timestamp <= a.path[n-1].Timestamp {
		return ErrNonMonotonic
	}
	a.path = append(a.path, s)
	return nil
}

// Size returns the number of accumulated samples
func (a *PathAccumulator) Size() int {
	return len(a.path)
}

// Last returns the most recent sample, if any
func (a *PathAccumulator) Last() (models.GeoSample, bool) {
	if len(a.path) == 0 {
		return models.GeoSample{}, false
	}
	return a.path[len(a.path)-1], true
}

// Snapshot returns a copy of the path so readers never observe later appends
func (a *PathAccumulator) Snapshot() models.Path {
	out := make(models.Path, len(a.path))
	copy(out, a.path)
	return out
}
