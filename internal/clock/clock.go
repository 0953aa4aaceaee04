package clock

import "time"

// Clock abstracts monotonic time so the engine can be driven
// deterministically in tests
type Clock interface {
	// NowMillis returns monotonic milliseconds
	NowMillis() int64
	// After returns a channel that fires once d has elapsed
	After(d time.Duration) <-chan time.Time
}

type systemClock struct {
	base time.Time
}

// NewSystem returns a Clock backed by the process monotonic clock,
// anchored to the Unix epoch at construction
func NewSystem() Clock {
	return &systemClock{base: time.Now()}
}

func (c *systemClock) NowMillis() int64 {
	// time.Since reads the monotonic reading captured at construction,
	// so wall-clock adjustments do not move this backwards
	return c.base.UnixMilli() + time.Since(c.base).Milliseconds()
}

func (c *systemClock) After(d time.Duration) <-chan time.Time {
	return time.After(d)
}
