// Package gate provides a poll-driven rate limiter for control loops: run an
// action no more often than every N ticks.
package gate

// A Gate runs an action at most once per interval. Call Do on every loop
// iteration; the action only runs when the configured interval has elapsed
// since the last fire.
//
// A Gate is not safe for concurrent use. It is meant to be polled from a
// single control loop.
type Gate struct {
	HookableBase

	// ID is a unique identifier assigned at construction.
	ID string

	timeTeller TimeTeller
	interval   Ticks
	lastFire   Ticks
	paused     bool
}

// NewGate creates a gate that fires at most once every interval, reading
// time from tt. The last-fire time is stamped at construction, so the first
// fire happens only after a full interval has elapsed.
//
// The gate keeps tt for its whole lifetime. If tt is backed by an external
// object, that object must outlive the gate.
func NewGate(tt TimeTeller, interval Ticks) *Gate {
	g := &Gate{
		ID:         GetIDGenerator().Generate(),
		timeTeller: tt,
		interval:   interval,
		lastFire:   tt.CurrentTime(),
	}

	return g
}

// SetInterval replaces the gating interval. The new interval applies from
// the next check on, including a check made after the currently running
// action changed it.
func (g *Gate) SetInterval(interval Ticks) {
	g.interval = interval
}

// Interval returns the current gating interval.
func (g *Gate) Interval() Ticks {
	return g.interval
}

// LastFire returns the time the action last ran, or the construction time if
// the gate has never fired.
func (g *Gate) LastFire() Ticks {
	return g.lastFire
}

// Pause stops the gate from firing until Resume is called.
func (g *Gate) Pause() {
	g.paused = true
}

// Resume reactivates a paused gate. The last-fire time is re-stamped to the
// current time, so the gate does not immediately fire to make up for the
// time spent paused.
func (g *Gate) Resume() {
	if !g.paused {
		return
	}

	g.paused = false
	g.lastFire = g.timeTeller.CurrentTime()
}

// Active returns false while the gate is paused.
func (g *Gate) Active() bool {
	return !g.paused
}

// Do invokes action if at least one interval has elapsed since the last
// fire, and does nothing otherwise. The last-fire time is stamped before the
// action runs, so the next window is measured from the start of this one and
// the action observes the updated gate state.
//
// Elapsed time is computed modulo 2^32, which keeps the decision correct
// across a rollover of the time counter. A gate that falls far behind fires
// once and restarts the window from now; missed windows are not replayed.
// With a zero interval the gate fires on every check.
//
// Panics from the action propagate unmodified. Do itself communicates
// nothing about whether the action fired.
func (g *Gate) Do(action func()) {
	if g.paused {
		return
	}

	now := g.timeTeller.CurrentTime()
	if Elapsed(now, g.lastFire) < g.interval {
		return
	}

	g.lastFire = now
	g.InvokeHook(HookCtx{
		Gate: g,
		Pos:  HookPosGateFire,
		Now:  now,
	})

	action()
}
