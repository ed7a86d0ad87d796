package trigger

import (
	"time"
)

// ClickBurst detects rapid clicking: limit clicks within window.
type ClickBurst struct {
	limit  int
	window time.Duration
	clicks []time.Time
}

func NewClickBurst(limit int, window time.Duration) *ClickBurst {
	return &ClickBurst{limit: limit, window: window}
}

// Record adds a click at now and reports whether the burst threshold was
// reached. Reaching it clears the history.
func (c *ClickBurst) Record(now time.Time) bool {
	kept := c.clicks[:0]
	for _, t := range c.clicks {
		if now.Sub(t) <= c.window {
			kept = append(kept, t)
		}
	}
	c.clicks = append(kept, now)

	if len(c.clicks) >= c.limit {
		c.clicks = c.clicks[:0]
		return true
	}
	return false
}

func (c *ClickBurst) Len() int {
	return len(c.clicks)
}
