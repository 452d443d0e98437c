package testutil

import (
	"sync"
	"testing"
	"time"
)

// Clock is a deterministic time source. Every call to Now advances it by
// Step so consecutive timestamps are strictly increasing.
type Clock struct {
	mu   sync.Mutex
	now  time.Time
	Step time.Duration
}

// NewClock parses start as RFC 3339 and returns a Clock stepping one second.
func NewClock(t *testing.T, start string) *Clock {
	t.Helper()

	ts, err := time.Parse(time.RFC3339, start)
	if err != nil {
		t.Fatalf("parsing clock start %q: %v", start, err)
	}
	return &Clock{now: ts, Step: time.Second}
}

// Now returns the current time and advances the clock.
func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now
	c.now = c.now.Add(c.Step)
	return now
}

// Set moves the clock to ts.
func (c *Clock) Set(ts time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.now = ts
}
