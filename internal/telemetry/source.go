package telemetry

import (
	"log/slog"
	"math"
	"sync/atomic"
	"time"

	"github.com/san-kum/sway/internal/bridge"
	"github.com/san-kum/sway/internal/loop"
)

// Source produces frames. Latest is safe from any goroutine; Start and
// Stop belong to the loop goroutine.
type Source interface {
	Name() string
	Start()
	Latest() Frame
	Stop()
}

type Config struct {
	// Event is the host event name for HostFeed.
	Event string
	// FramePeriod is the Demo animation period.
	FramePeriod time.Duration
	// Increment is the Demo phase advance per tick, in radians.
	Increment float64
	// OnFrame, when set, sees every new frame on the goroutine that
	// produced it.
	OnFrame func(Frame)
	Logger  *slog.Logger
}

func DefaultConfig() Config {
	return Config{
		Event:       DefaultEvent,
		FramePeriod: time.Second / 60,
		Increment:   0.02,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.Event == "" {
		c.Event = d.Event
	}
	if c.FramePeriod <= 0 {
		c.FramePeriod = d.FramePeriod
	}
	if c.Increment == 0 {
		c.Increment = d.Increment
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
	return c
}

// slot is the single-frame mailbox shared by both sources: newer frames
// replace older ones and readers never block.
type slot struct {
	p       atomic.Pointer[Frame]
	onFrame func(Frame)
}

func (s *slot) store(f Frame) {
	s.p.Store(&f)
	if s.onFrame != nil {
		s.onFrame(f)
	}
}

func (s *slot) load() Frame {
	if f := s.p.Load(); f != nil {
		return *f
	}
	return Frame{}
}

// HostFeed replaces the current frame with each host delivery.
type HostFeed struct {
	adapter *bridge.Adapter
	event   string
	log     *slog.Logger

	slot    slot
	sub     *bridge.Subscription
	stopped atomic.Bool
}

func NewHostFeed(a *bridge.Adapter, cfg Config) *HostFeed {
	cfg = cfg.withDefaults()
	return &HostFeed{
		adapter: a,
		event:   cfg.Event,
		log:     cfg.Logger,
		slot:    slot{onFrame: cfg.OnFrame},
	}
}

func (h *HostFeed) Name() string { return "host" }

func (h *HostFeed) Start() {
	if h.sub != nil {
		return
	}
	h.stopped.Store(false)
	h.sub = h.adapter.Subscribe(h.event, func(payload any) {
		if h.stopped.Load() {
			return
		}
		h.slot.store(Decode(payload))
	})
	h.log.Debug("telemetry subscribed", "event", h.event, "active", h.sub.Active())
}

func (h *HostFeed) Latest() Frame { return h.slot.load() }

func (h *HostFeed) Stop() {
	if h.sub == nil {
		return
	}
	h.stopped.Store(true)
	h.sub.Unsubscribe()
	h.sub = nil
}

// Demo synthesizes frames from a local phase accumulator: a sine LFO
// with four voices a quarter cycle apart.
type Demo struct {
	sched     loop.Scheduler
	period    time.Duration
	increment float64

	phase float64
	slot  slot
	task  loop.Task
}

func NewDemo(s loop.Scheduler, cfg Config) *Demo {
	cfg = cfg.withDefaults()
	return &Demo{
		sched:     s,
		period:    cfg.FramePeriod,
		increment: cfg.Increment,
		slot:      slot{onFrame: cfg.OnFrame},
	}
}

func (d *Demo) Name() string { return "demo" }

// Start emits the first frame immediately, then one per period.
func (d *Demo) Start() {
	if d.task != nil {
		return
	}
	d.Tick()
	if d.sched != nil {
		d.task = d.sched.Every(d.period, d.Tick)
	}
}

// Tick advances the accumulator by one increment and publishes the
// resulting frame.
func (d *Demo) Tick() {
	d.phase += d.increment
	d.slot.store(DemoFrame(d.phase))
}

func (d *Demo) Latest() Frame { return d.slot.load() }

func (d *Demo) Stop() {
	if d.task != nil {
		d.task.Cancel()
		d.task = nil
	}
}

// DemoFrame is the synthetic frame for accumulator value phase, in
// radians.
func DemoFrame(phase float64) Frame {
	const tau = 2 * math.Pi
	cycle := func(p float64) float64 {
		c := math.Mod(p, tau) / tau
		if c < 0 {
			c += 1
		}
		return c
	}
	f := Frame{
		LFOPhase:     cycle(phase),
		LFOValue:     math.Sin(phase),
		StereoPhaseL: math.Sin(phase)*0.5 + 0.5,
		StereoPhaseR: math.Sin(phase+math.Pi/4)*0.5 + 0.5,
		ModDepthL:    math.Abs(math.Sin(phase)) * 0.7,
		ModDepthR:    math.Abs(math.Sin(phase+math.Pi/4)) * 0.7,
	}
	for i := range f.VoicePhases {
		f.VoicePhases[i] = cycle(phase + float64(i)*math.Pi/2)
	}
	return f
}
