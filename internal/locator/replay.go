package locator

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
)

// ReplayLocator replays a recorded fix log, one JSON fix per line.
// Lines that fail to parse are skipped with a warning so a partially
// damaged log still replays.
type ReplayLocator struct {
	fixes []Fix
	done  chan struct{}
}

// NewReplay parses a JSONL fix log into a ReplayLocator
func NewReplay(r io.Reader) (*ReplayLocator, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var fixes []Fix
	line := 0
	skipped := 0
	for scanner.Scan() {
		line++
		raw := scanner.Bytes()
		if len(raw) == 0 {
			continue
		}
		var f Fix
		if err := json.Unmarshal(raw, &f); err != nil {
			skipped++
			continue
		}
		fixes = append(fixes, f)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read fix log: %w", err)
	}
	if skipped > 0 {
		log.Printf("[ReplayLocator] Skipped %d unparsable lines of %d", skipped, line)
	}
	return &ReplayLocator{fixes: fixes, done: make(chan struct{})}, nil
}

// Len returns the number of parsed fixes
func (l *ReplayLocator) Len() int { return len(l.fixes) }

// First returns the first fix in the log, if any
func (l *ReplayLocator) First() (Fix, bool) {
	if len(l.fixes) == 0 {
		return Fix{}, false
	}
	return l.fixes[0], true
}

// Last returns the last fix in the log, if any
func (l *ReplayLocator) Last() (Fix, bool) {
	if len(l.fixes) == 0 {
		return Fix{}, false
	}
	return l.fixes[len(l.fixes)-1], true
}

// Done closes once every fix has been delivered to the subscriber
func (l *ReplayLocator) Done() <-chan struct{} { return l.done }

func (l *ReplayLocator) RequestPermission(ctx context.Context) error { return nil }

func (l *ReplayLocator) Subscribe(ctx context.Context) (<-chan Fix, error) {
	out := make(chan Fix)
	go func() {
		defer close(out)
		for _, f := range l.fixes {
			select {
			case out <- f:
			case <-ctx.Done():
				return
			}
		}
		close(l.done)
	}()
	return out, nil
}
