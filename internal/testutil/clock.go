package testutil

import (
	"sync"
	"time"
)

// Clock is a thread-safe deterministic wall clock for tests.
//
// Plug its Now method into store.WithNow to make created_at / attempted_at
// / updated_at values reproducible. A zero step freezes time entirely; a
// positive step advances the clock by that amount on every read, which
// keeps chronological orderings meaningful without real time.
type Clock struct {
	mu   sync.Mutex
	now  time.Time
	step time.Duration
}

// NewClock creates a clock starting at start, advancing by step per read.
func NewClock(start time.Time, step time.Duration) *Clock {
	return &Clock{now: start, step: step}
}

// Now returns the current time and advances the clock by the step.
func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := c.now
	c.now = c.now.Add(c.step)
	return t
}

// Set jumps the clock to t. The next Now returns t.
func (c *Clock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}
