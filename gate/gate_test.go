package gate

import (
	"bytes"
	"log"

	gomock "go.uber.org/mock/gomock"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Gate", func() {
	var (
		mockCtrl *gomock.Controller
		tt       *MockTimeTeller
	)

	BeforeEach(func() {
		mockCtrl = gomock.NewController(GinkgoT())
		tt = NewMockTimeTeller(mockCtrl)
	})

	AfterEach(func() {
		mockCtrl.Finish()
	})

	It("should stamp the last-fire time at construction", func() {
		tt.EXPECT().CurrentTime().Return(Ticks(1000))

		g := NewGate(tt, 500)

		Expect(g.LastFire()).To(Equal(Ticks(1000)))
		Expect(g.Interval()).To(Equal(Ticks(500)))
		Expect(g.Active()).To(BeTrue())
	})

	It("should not fire before the interval elapses", func() {
		tt.EXPECT().CurrentTime().Return(Ticks(1000))
		g := NewGate(tt, 500)

		fired := false
		tt.EXPECT().CurrentTime().Return(Ticks(1400))
		g.Do(func() { fired = true })

		Expect(fired).To(BeFalse())
		Expect(g.LastFire()).To(Equal(Ticks(1000)))
	})

	It("should fire once the interval elapsed and restart the window",
		func() {
			tt.EXPECT().CurrentTime().Return(Ticks(1000))
			g := NewGate(tt, 500)

			fireCount := 0

			tt.EXPECT().CurrentTime().Return(Ticks(1400))
			g.Do(func() { fireCount++ })
			Expect(fireCount).To(Equal(0))

			tt.EXPECT().CurrentTime().Return(Ticks(1600))
			g.Do(func() { fireCount++ })
			Expect(fireCount).To(Equal(1))
			Expect(g.LastFire()).To(Equal(Ticks(1600)))

			tt.EXPECT().CurrentTime().Return(Ticks(1650))
			g.Do(func() { fireCount++ })
			Expect(fireCount).To(Equal(1))
			Expect(g.LastFire()).To(Equal(Ticks(1600)))
		})

	It("should stamp the last-fire time before running the action", func() {
		tt.EXPECT().CurrentTime().Return(Ticks(1000))
		g := NewGate(tt, 500)

		tt.EXPECT().CurrentTime().Return(Ticks(1600))
		g.Do(func() {
			Expect(g.LastFire()).To(Equal(Ticks(1600)))
		})
	})

	It("should fire across the counter rollover", func() {
		tt.EXPECT().CurrentTime().Return(Ticks(4294967290))
		g := NewGate(tt, 10)

		fired := false
		tt.EXPECT().CurrentTime().Return(Ticks(5))
		g.Do(func() { fired = true })

		Expect(fired).To(BeTrue())
		Expect(g.LastFire()).To(Equal(Ticks(5)))
	})

	It("should fire on every check with a zero interval", func() {
		tt.EXPECT().CurrentTime().Return(Ticks(100))
		g := NewGate(tt, 0)

		fireCount := 0
		for i := 0; i < 3; i++ {
			tt.EXPECT().CurrentTime().Return(Ticks(100))
			g.Do(func() { fireCount++ })
		}

		Expect(fireCount).To(Equal(3))
	})

	It("should stay a no-op while time stands still", func() {
		tt.EXPECT().CurrentTime().Return(Ticks(1000))
		g := NewGate(tt, 500)

		fired := false
		for i := 0; i < 5; i++ {
			tt.EXPECT().CurrentTime().Return(Ticks(1400))
			g.Do(func() { fired = true })
		}

		Expect(fired).To(BeFalse())
		Expect(g.LastFire()).To(Equal(Ticks(1000)))
	})

	It("should use an interval set by the running action on the next check",
		func() {
			tt.EXPECT().CurrentTime().Return(Ticks(1000))
			g := NewGate(tt, 500)

			fireCount := 0

			tt.EXPECT().CurrentTime().Return(Ticks(1600))
			g.Do(func() {
				fireCount++
				g.SetInterval(40)
			})
			Expect(fireCount).To(Equal(1))

			tt.EXPECT().CurrentTime().Return(Ticks(1650))
			g.Do(func() { fireCount++ })
			Expect(fireCount).To(Equal(2))
		})

	It("should not fire while paused", func() {
		tt.EXPECT().CurrentTime().Return(Ticks(1000))
		g := NewGate(tt, 500)

		g.Pause()
		Expect(g.Active()).To(BeFalse())

		fired := false
		g.Do(func() { fired = true })
		Expect(fired).To(BeFalse())
	})

	It("should re-stamp the last-fire time on resume", func() {
		tt.EXPECT().CurrentTime().Return(Ticks(1000))
		g := NewGate(tt, 500)

		g.Pause()

		tt.EXPECT().CurrentTime().Return(Ticks(5000))
		g.Resume()
		Expect(g.Active()).To(BeTrue())
		Expect(g.LastFire()).To(Equal(Ticks(5000)))

		fired := false
		tt.EXPECT().CurrentTime().Return(Ticks(5100))
		g.Do(func() { fired = true })
		Expect(fired).To(BeFalse())

		tt.EXPECT().CurrentTime().Return(Ticks(5600))
		g.Do(func() { fired = true })
		Expect(fired).To(BeTrue())
	})

	It("should invoke hooks when firing", func() {
		tt.EXPECT().CurrentTime().Return(Ticks(1000))
		g := NewGate(tt, 500)

		hook := NewMockHook(mockCtrl)
		g.AcceptHook(hook)

		tt.EXPECT().CurrentTime().Return(Ticks(1400))
		g.Do(func() {})

		tt.EXPECT().CurrentTime().Return(Ticks(1600))
		hook.EXPECT().Func(HookCtx{
			Gate: g,
			Pos:  HookPosGateFire,
			Now:  Ticks(1600),
		})
		g.Do(func() {})
	})
})

var _ = Describe("TimeTellerFunc", func() {
	It("should gate identically to an interface time source", func() {
		now := Ticks(1000)
		g := NewGate(TimeTellerFunc(func() Ticks { return now }), 500)

		fireCount := 0

		now = 1400
		g.Do(func() { fireCount++ })
		Expect(fireCount).To(Equal(0))

		now = 1600
		g.Do(func() { fireCount++ })
		Expect(fireCount).To(Equal(1))
		Expect(g.LastFire()).To(Equal(Ticks(1600)))
	})
})

var _ = Describe("FireLogger", func() {
	It("should log the gate ID and the fire time", func() {
		now := Ticks(0)
		g := NewGate(TimeTellerFunc(func() Ticks { return now }), 500)

		buf := &bytes.Buffer{}
		g.AcceptHook(NewFireLogger(log.New(buf, "", 0)))

		now = 600
		g.Do(func() {})

		Expect(buf.String()).To(
			Equal("600, gate " + g.ID + " fired\n"))
	})
})
