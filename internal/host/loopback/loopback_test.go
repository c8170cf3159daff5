package loopback_test

import (
	"context"
	"errors"
	"math"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/sway/internal/clock"
	"github.com/san-kum/sway/internal/host/loopback"
	"github.com/san-kum/sway/internal/params"
	"github.com/san-kum/sway/internal/telemetry"
)

var _ = Describe("Host", func() {
	var h *loopback.Host

	BeforeEach(func() {
		h = loopback.New(loopback.Options{Seed: 7})
	})

	It("starts from the registry defaults", func() {
		for _, d := range params.All() {
			Expect(h.Value(d.ID)).To(Equal(d.Default), d.ID)
		}
	})

	It("serves sliders and toggles by kind", func() {
		_, err := h.SliderState(params.Rate)
		Expect(err).NotTo(HaveOccurred())
		_, err = h.SliderState(params.Bypass)
		Expect(err).To(HaveOccurred())
		_, err = h.ToggleState(params.Bypass)
		Expect(err).NotTo(HaveOccurred())
		_, err = h.SliderState("nope")
		Expect(errors.Is(err, params.ErrUnknownParam)).To(BeTrue())
	})

	It("clamps continuous writes and snaps stepped ones", func() {
		s, err := h.SliderState(params.Width)
		Expect(err).NotTo(HaveOccurred())
		Expect(s.SetScaledValue(500)).To(Succeed())
		Expect(s.ScaledValue()).To(Equal(200.0))

		v, err := h.SliderState(params.Voices)
		Expect(err).NotTo(HaveOccurred())
		Expect(v.SetScaledValue(2.7)).To(Succeed())
		Expect(v.ScaledValue()).To(Equal(3.0))
		Expect(v.NormalisedValue()).To(BeNumerically("~", 2.0/3.0, 1e-12))
	})

	It("exposes slider properties", func() {
		s, _ := h.SliderState(params.Shape)
		p, err := s.Properties()
		Expect(err).NotTo(HaveOccurred())
		Expect(p).To(HaveKeyWithValue("name", "Shape"))
		Expect(p).To(HaveKeyWithValue("numSteps", 4))
	})

	It("rejects presets with unknown ids atomically", func() {
		err := h.ApplyPreset(map[string]float64{params.Mix: 10, "bogus": 1})
		Expect(errors.Is(err, params.ErrUnknownParam)).To(BeTrue())
		Expect(h.Value(params.Mix)).To(Equal(50.0))
	})

	It("answers getPluginInfo with pluginInfo", func() {
		var info any
		_, err := h.Backend().AddEventListener("pluginInfo", func(p any) { info = p })
		Expect(err).NotTo(HaveOccurred())

		Expect(h.Backend().EmitEvent("getPluginInfo", nil)).To(Succeed())
		Expect(info).To(HaveKeyWithValue("name", "Sway"))
		Expect(h.Events().Emitted()).To(ConsistOf("getPluginInfo"))
	})

	Describe("telemetry", func() {
		It("follows rate, stereo phase and voice spread", func() {
			Expect(h.ApplyPreset(map[string]float64{
				params.Rate:        2,
				params.StereoPhase: 180,
				params.Voices:      4,
				params.Spread:      100,
				params.Depth:       100,
			})).To(Succeed())

			p := h.Step(100 * time.Millisecond)
			f := telemetry.Decode(p)

			Expect(f.LFOPhase).To(BeNumerically("~", 0.2, 1e-12))
			Expect(f.LFOValue).To(BeNumerically("~", math.Sin(0.4*math.Pi), 1e-12))
			Expect(f.ModDepthL).To(BeNumerically("~", math.Abs(f.LFOValue), 1e-12))
			for i, want := range []float64{0.2, 0.45, 0.7, 0.95} {
				Expect(f.VoicePhases[i]).To(BeNumerically("~", want, 1e-12))
			}
		})

		It("reports the selected mode and silences depth when bypassed", func() {
			Expect(h.Set(params.Mode, 2)).To(Succeed())
			Expect(h.Set(params.Bypass, 1)).To(Succeed())
			f := telemetry.Decode(h.Step(50 * time.Millisecond))
			Expect(f.Mode).To(Equal(2))
			Expect(f.ModDepthL).To(BeZero())
			Expect(f.ModDepthR).To(BeZero())
		})

		DescribeTable("shapes stay within [-1, 1]",
			func(shape float64) {
				Expect(h.Set(params.Shape, shape)).To(Succeed())
				Expect(h.Set(params.Rate, 7.3)).To(Succeed())
				for range 200 {
					f := telemetry.Decode(h.Step(10 * time.Millisecond))
					Expect(f.LFOValue).To(BeNumerically(">=", -1))
					Expect(f.LFOValue).To(BeNumerically("<=", 1))
					Expect(f.LFOPhase).To(BeNumerically(">=", 0))
					Expect(f.LFOPhase).To(BeNumerically("<", 1))
				}
			},
			Entry("sine", 0.0),
			Entry("triangle", 1.0),
			Entry("square", 2.0),
			Entry("random", 3.0),
		)

		It("emits on the clock until cancelled", func() {
			clk := clock.Fake(time.Unix(0, 0))
			frames := make(chan any, 16)
			_, err := h.Backend().AddEventListener(telemetry.DefaultEvent, func(p any) {
				select {
				case frames <- p:
				default:
				}
			})
			Expect(err).NotTo(HaveOccurred())

			ctx, cancel := context.WithCancel(context.Background())
			done := make(chan error, 1)
			go func() { done <- h.Run(ctx, clk, 60) }()

			Eventually(clk.Pending).Should(Equal(1))
			clk.Advance(time.Second / 60)
			Eventually(frames).Should(Receive())

			cancel()
			Eventually(done).Should(Receive(MatchError(context.Canceled)))
		})
	})
})
