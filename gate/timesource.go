package gate

// Ticks is a point on a wrapping 32-bit time counter. The unit is whatever
// the time source counts in, conventionally microseconds. At microsecond
// resolution the counter rolls over roughly every 71.6 minutes; all
// elapsed-time math in this package is modular, so gating stays correct
// across the rollover.
type Ticks uint32

// Elapsed returns the duration from since to now on the wrapping counter.
// The subtraction is modulo 2^32, so the result is correct even when the
// counter rolled over between the two samples.
func Elapsed(now, since Ticks) Ticks {
	return now - since
}

// TimeTeller can be used to get the current time.
//
// Implementations must be monotonically increasing modulo the 32-bit
// rollover, and all gates compared together must read sources counting in
// the same unit.
type TimeTeller interface {
	CurrentTime() Ticks
}

// TimeTellerFunc adapts a plain function to the TimeTeller interface.
type TimeTellerFunc func() Ticks

// CurrentTime returns the time reported by the wrapped function.
func (f TimeTellerFunc) CurrentTime() Ticks {
	return f()
}
