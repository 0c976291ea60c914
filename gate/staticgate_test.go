package gate

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("StaticGate", func() {
	var (
		now Ticks
		g   *StaticGate[TimeTellerFunc]
	)

	BeforeEach(func() {
		now = 1000
		g = NewStaticGate(TimeTellerFunc(func() Ticks { return now }), 500)
	})

	It("should stamp the last-fire time at construction", func() {
		Expect(g.LastFire()).To(Equal(Ticks(1000)))
		Expect(g.Interval()).To(Equal(Ticks(500)))
	})

	It("should fire only when the interval elapsed", func() {
		fireCount := 0

		now = 1400
		g.Do(func() { fireCount++ })
		Expect(fireCount).To(Equal(0))
		Expect(g.LastFire()).To(Equal(Ticks(1000)))

		now = 1600
		g.Do(func() { fireCount++ })
		Expect(fireCount).To(Equal(1))
		Expect(g.LastFire()).To(Equal(Ticks(1600)))

		now = 1650
		g.Do(func() { fireCount++ })
		Expect(fireCount).To(Equal(1))
	})

	It("should fire across the counter rollover", func() {
		now = 4294967290
		g = NewStaticGate(TimeTellerFunc(func() Ticks { return now }), 10)

		fired := false
		now = 5
		g.Do(func() { fired = true })

		Expect(fired).To(BeTrue())
		Expect(g.LastFire()).To(Equal(Ticks(5)))
	})

	It("should fire on every check with a zero interval", func() {
		g.SetInterval(0)

		fireCount := 0
		for i := 0; i < 3; i++ {
			g.Do(func() { fireCount++ })
		}

		Expect(fireCount).To(Equal(3))
	})

	It("should use an interval set by the running action on the next check",
		func() {
			fireCount := 0

			now = 1600
			g.Do(func() {
				fireCount++
				g.SetInterval(40)
			})

			now = 1650
			g.Do(func() { fireCount++ })
			Expect(fireCount).To(Equal(2))
		})

	It("should make the same decisions as Gate for the same timestamps",
		func() {
			times := []Ticks{0, 400, 900, 1000, 1100, 4294967290, 5, 20}

			now = times[0]
			static := NewStaticGate(
				TimeTellerFunc(func() Ticks { return now }), 500)
			dynamic := NewGate(
				TimeTellerFunc(func() Ticks { return now }), 500)

			for _, t := range times[1:] {
				now = t

				staticFired := false
				dynamicFired := false
				static.Do(func() { staticFired = true })
				dynamic.Do(func() { dynamicFired = true })

				Expect(staticFired).To(Equal(dynamicFired))
				Expect(static.LastFire()).To(Equal(dynamic.LastFire()))
			}
		})
})
