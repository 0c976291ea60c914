// Package clock provides time sources that gates can read from.
package clock

import (
	"time"

	"github.com/donjan/intervalgate/gate"
)

// A WallClock reports microseconds elapsed since its creation, truncated to
// 32 bits. It reads the process monotonic clock, so system time adjustments
// do not move it. The tick counter rolls over roughly every 71.6 minutes;
// gate arithmetic is modular, so gating across the rollover stays correct.
//
// A WallClock is a stateful object. Gates hold a reference to it and must
// not outlive it.
type WallClock struct {
	start time.Time
}

// NewWallClock creates a WallClock whose tick count starts at zero.
func NewWallClock() *WallClock {
	return &WallClock{
		start: time.Now(),
	}
}

// CurrentTime returns the microseconds elapsed since the clock was created,
// modulo 2^32.
func (c *WallClock) CurrentTime() gate.Ticks {
	return gate.Ticks(time.Since(c.start).Microseconds())
}
