package clock

import (
	"github.com/donjan/intervalgate/gate"
)

// A ManualClock only moves when told to. Tests and simulations use it to
// drive gates deterministically, including across the 32-bit rollover.
//
// A ManualClock is not safe for concurrent use, same as the gates reading
// from it.
type ManualClock struct {
	now gate.Ticks
}

// NewManualClock creates a ManualClock holding the given start time.
func NewManualClock(start gate.Ticks) *ManualClock {
	return &ManualClock{
		now: start,
	}
}

// CurrentTime returns the time the clock currently holds.
func (c *ManualClock) CurrentTime() gate.Ticks {
	return c.now
}

// Set moves the clock to t.
func (c *ManualClock) Set(t gate.Ticks) {
	c.now = t
}

// Advance moves the clock forward by d, wrapping modulo 2^32.
func (c *ManualClock) Advance(d gate.Ticks) {
	c.now += d
}
