package binding_test

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/sway/internal/binding"
	"github.com/san-kum/sway/internal/bridge"
	"github.com/san-kum/sway/internal/clock"
	"github.com/san-kum/sway/internal/host/loopback"
	"github.com/san-kum/sway/internal/loop"
	"github.com/san-kum/sway/internal/params"
)

var _ = Describe("Bindings", func() {
	var (
		clk  *clock.FakeClock
		lp   *loop.Loop
		host *loopback.Host
		opts binding.Options
	)

	tick := func() {
		clk.Advance(binding.DefaultPeriod)
		lp.RunDue()
	}

	BeforeEach(func() {
		clk = clock.Fake(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
		lp = loop.New(clk)
		host = loopback.New(loopback.Options{})
		opts = binding.Options{
			Adapter:   bridge.New(bridge.Static(host), nil),
			Scheduler: lp,
		}
	})

	Describe("without a host", func() {
		BeforeEach(func() {
			opts.Adapter = bridge.Absent()
		})

		It("stays detached and fully interactive", func() {
			c := binding.NewContinuous(params.Rate, 1.0, opts)
			c.Mount()
			defer c.Unmount()

			Expect(c.State()).To(Equal(binding.Detached))
			Expect(c.Value()).To(Equal(1.0))
			Expect(lp.Len()).To(BeZero())

			c.BeginDrag()
			c.SetValue(4.5)
			c.EndDrag()
			Expect(c.Value()).To(Equal(4.5))
		})

		It("maps normalized writes through the registry range", func() {
			c := binding.NewContinuous(params.Width, 100, opts)
			c.Mount()
			c.SetNormalized(0.25)
			Expect(c.Value()).To(Equal(50.0))
		})
	})

	Describe("Continuous", func() {
		var c *binding.Continuous

		BeforeEach(func() {
			Expect(host.Set(params.Mix, 30)).To(Succeed())
			c = binding.NewContinuous(params.Mix, 50, opts)
		})

		AfterEach(func() {
			c.Unmount()
		})

		It("adopts the host value on mount", func() {
			c.Mount()
			Expect(c.State()).To(Equal(binding.BoundIdle))
			Expect(c.Value()).To(Equal(30.0))
		})

		It("tracks host-side changes within one period", func() {
			c.Mount()
			Expect(host.Set(params.Mix, 80)).To(Succeed())
			Expect(c.Value()).To(Equal(30.0))

			tick()
			Expect(c.Value()).To(Equal(80.0))
		})

		It("writes through immediately", func() {
			c.Mount()
			c.SetValue(75)

			Expect(c.Value()).To(Equal(75.0))
			Expect(host.Value(params.Mix)).To(Equal(75.0))
			Expect(host.Gestures()).To(Equal([]loopback.Gesture{
				{Kind: loopback.ScaledWrite, ID: params.Mix, Value: 75},
			}))
		})

		It("ignores reconciliation while dragging", func() {
			c.Mount()
			c.BeginDrag()
			c.SetValue(60)
			Expect(c.State()).To(Equal(binding.BoundDragging))

			Expect(host.Set(params.Mix, 10)).To(Succeed())
			for range 10 {
				tick()
				Expect(c.Value()).To(Equal(60.0))
			}

			c.EndDrag()
			Expect(c.State()).To(Equal(binding.BoundIdle))
			tick()
			Expect(c.Value()).To(Equal(10.0))
		})

		It("reports normalized writes back in scaled units", func() {
			c.Mount()
			c.SetNormalized(0.9)
			Expect(c.Value()).To(BeNumerically("~", 90, 1e-9))
		})

		It("stops all updates after unmount", func() {
			updates := 0
			c.Watch(func(float64) { updates++ })
			c.Mount()
			Expect(updates).To(Equal(1))

			c.Unmount()
			Expect(c.State()).To(Equal(binding.Detached))
			Expect(lp.Len()).To(BeZero())

			reads := host.Reads()
			Expect(host.Set(params.Mix, 99)).To(Succeed())
			for range 5 {
				tick()
			}
			Expect(updates).To(Equal(1))
			Expect(host.Reads()).To(Equal(reads))
			Expect(c.Value()).To(Equal(30.0))
		})

		It("ends an open gesture on unmount", func() {
			c.Mount()
			c.BeginDrag()
			Expect(host.Dragging(params.Mix)).To(BeTrue())

			c.Unmount()
			Expect(host.Dragging(params.Mix)).To(BeFalse())
			Expect(c.Dragging()).To(BeFalse())
		})
	})

	It("brackets a drag on rate with the host gesture calls", func() {
		rate := binding.NewContinuous(params.Rate, 1.0, opts)
		rate.Mount()
		defer rate.Unmount()

		rate.BeginDrag()
		for _, v := range []float64{2.0, 5.0, 8.0} {
			rate.SetValue(v)
			Expect(host.Set(params.Rate, 0.5)).To(Succeed())
			tick()
			Expect(rate.Value()).To(Equal(v))
		}
		rate.EndDrag()

		Expect(host.Gestures()).To(Equal([]loopback.Gesture{
			{Kind: loopback.DragStarted, ID: params.Rate},
			{Kind: loopback.ScaledWrite, ID: params.Rate, Value: 2.0},
			{Kind: loopback.ScaledWrite, ID: params.Rate, Value: 5.0},
			{Kind: loopback.ScaledWrite, ID: params.Rate, Value: 8.0},
			{Kind: loopback.DragEnded, ID: params.Rate},
		}))
	})

	Describe("Choice", func() {
		var mode *binding.Choice

		BeforeEach(func() {
			mode = binding.NewChoice(params.Mode, 4, 0, opts)
			mode.Mount()
		})

		AfterEach(func() {
			mode.Unmount()
		})

		DescribeTable("round-trips every option through the host",
			func(k int) {
				mode.SetChoice(k)
				v, err := host.Value(params.Mode)
				Expect(err).NotTo(HaveOccurred())
				Expect(int(v + 0.5)).To(Equal(k))
				tick()
				Expect(mode.Value()).To(Equal(k))
			},
			Entry("chorus", 0),
			Entry("flanger", 1),
			Entry("phaser", 2),
			Entry("ensemble", 3),
		)

		It("rounds the host value to the nearest option", func() {
			Expect(host.Set(params.Mode, 2)).To(Succeed())
			tick()
			Expect(mode.Value()).To(Equal(2))
		})

		It("clamps out-of-range selections", func() {
			mode.SetChoice(9)
			Expect(mode.Value()).To(Equal(3))
			mode.SetChoice(-2)
			Expect(mode.Value()).To(Equal(0))
		})

		It("wraps when stepping", func() {
			mode.Step(-1)
			Expect(mode.Value()).To(Equal(3))
			mode.Step(1)
			Expect(mode.Value()).To(Equal(0))
		})
	})

	Describe("Toggle", func() {
		It("reconciles and writes through", func() {
			t := binding.NewToggle(params.Bypass, false, opts)
			t.Mount()
			defer t.Unmount()
			Expect(t.State()).To(Equal(binding.BoundIdle))

			t.Flip()
			Expect(t.Value()).To(BeTrue())
			Expect(host.Value(params.Bypass)).To(Equal(1.0))

			Expect(host.Set(params.Bypass, 0)).To(Succeed())
			tick()
			Expect(t.Value()).To(BeFalse())
		})

		It("is detached when the host has no such toggle", func() {
			t := binding.NewToggle(params.Mix, true, opts)
			t.Mount()
			defer t.Unmount()
			Expect(t.State()).To(Equal(binding.Detached))
			Expect(t.Value()).To(BeTrue())
		})
	})

	Describe("Bank", func() {
		var bank *binding.Bank

		BeforeEach(func() {
			bank = binding.NewBank(params.All(), opts)
			bank.Mount()
		})

		It("binds every registered parameter", func() {
			Expect(bank.Bound()).To(BeTrue())
			Expect(bank.IDs()).To(HaveLen(14))
			Expect(bank.Snapshot()).To(Equal(host.Values()))
			Expect(lp.Len()).To(Equal(14))
		})

		It("picks up a preset through reconciliation", func() {
			Expect(host.ApplyPreset(map[string]float64{
				params.Mode:     1,
				params.Feedback: 70,
				params.Bypass:   1,
			})).To(Succeed())
			tick()

			Expect(bank.Choice(params.Mode).Value()).To(Equal(1))
			Expect(bank.Continuous(params.Feedback).Value()).To(Equal(70.0))
			Expect(bank.Toggle(params.Bypass).Value()).To(BeTrue())
		})

		It("releases every timer on close", func() {
			bank.Close()
			Expect(lp.Len()).To(BeZero())
			Expect(bank.Bound()).To(BeFalse())
		})
	})
})
