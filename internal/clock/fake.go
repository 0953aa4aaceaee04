package clock

import (
	"sync"
	"time"
)

// Fake is a manually advanced Clock for tests
type Fake struct {
	mu     sync.Mutex
	now    int64
	timers []*fakeTimer
}

type fakeTimer struct {
	deadline int64
	ch       chan time.Time
}

// NewFake returns a Fake clock starting at the given millisecond reading
func NewFake(start int64) *Fake {
	return &Fake{now: start}
}

func (f *Fake) NowMillis() int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *Fake) After(d time.Duration) <-chan time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	t := &fakeTimer{deadline: f.now + d.Milliseconds(), ch: make(chan time.Time, 1)}
	f.timers = append(f.timers, t)
	return t.ch
}

// Advance moves the clock forward and fires any timers that come due
func (f *Fake) Advance(ms int64) {
	f.mu.Lock()
	f.now += ms
	var pending []*fakeTimer
	var due []*fakeTimer
	for _, t := range f.timers {
		if t.deadline <= f.now {
			due = append(due, t)
		} else {
			pending = append(pending, t)
		}
	}
	f.timers = pending
	now := f.now
	f.mu.Unlock()

	for _, t := range due {
		t.ch <- time.UnixMilli(now)
	}
}
