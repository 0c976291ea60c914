package gate

// A StaticGate is a gate specialized on a concrete time source type. Holding
// the source by value lets the compiler devirtualize and inline the time
// read, which matters when the gate guards a tight polling loop. It carries
// no pause flag and no hooks; when those are needed, use Gate instead.
//
// For identical timestamp sequences a StaticGate makes exactly the same
// fire decisions as a Gate.
type StaticGate[T TimeTeller] struct {
	timeTeller T
	interval   Ticks
	lastFire   Ticks
}

// NewStaticGate creates a gate specialized on tt's concrete type, firing at
// most once every interval.
func NewStaticGate[T TimeTeller](tt T, interval Ticks) *StaticGate[T] {
	return &StaticGate[T]{
		timeTeller: tt,
		interval:   interval,
		lastFire:   tt.CurrentTime(),
	}
}

// SetInterval replaces the gating interval, effective from the next check.
func (g *StaticGate[T]) SetInterval(interval Ticks) {
	g.interval = interval
}

// Interval returns the current gating interval.
func (g *StaticGate[T]) Interval() Ticks {
	return g.interval
}

// LastFire returns the time the action last ran, or the construction time if
// the gate has never fired.
func (g *StaticGate[T]) LastFire() Ticks {
	return g.lastFire
}

// Do invokes action if at least one interval has elapsed since the last
// fire, stamping the last-fire time before the action runs. The gating
// policy is identical to Gate.Do.
func (g *StaticGate[T]) Do(action func()) {
	now := g.timeTeller.CurrentTime()
	if Elapsed(now, g.lastFire) < g.interval {
		return
	}

	g.lastFire = now
	action()
}
