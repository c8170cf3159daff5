package loopback

import (
	"context"
	"math"
	"math/rand/v2"
	"time"

	"github.com/san-kum/sway/internal/clock"
	"github.com/san-kum/sway/internal/params"
)

// lfo is the host-side modulation oscillator. Phases are in cycles.
type lfo struct {
	phase [2]float64
	held  [2]float64
	rng   *rand.Rand
}

func (l *lfo) random() float64 {
	return l.rng.Float64()*2 - 1
}

func (l *lfo) value(shape int, ch int, phase float64) float64 {
	switch shape {
	case 1:
		return 4*math.Abs(phase-0.5) - 1
	case 2:
		if phase < 0.5 {
			return 1
		}
		return -1
	case 3:
		if phase < l.phase[ch] {
			l.held[ch] = l.random()
		}
		return l.held[ch]
	default:
		return math.Sin(phase * 2 * math.Pi)
	}
}

func frac(x float64) float64 {
	x -= math.Floor(x)
	if x >= 1 {
		return 0
	}
	return x
}

// Step advances the LFO by dt using the current parameter values,
// publishes the resulting telemetry payload to UI listeners and returns
// it.
func (h *Host) Step(dt time.Duration) map[string]any {
	h.mu.Lock()
	rate := h.values[params.Rate]
	depth := h.values[params.Depth] / 100
	shape := int(h.values[params.Shape])
	stereo := h.values[params.StereoPhase] / 360
	voices := math.Max(1, h.values[params.Voices])
	spread := h.values[params.Spread] / 100
	mode := h.values[params.Mode]
	bypassed := h.values[params.Bypass] >= 0.5
	h.mu.Unlock()

	l := &h.lfo
	left := frac(l.phase[0] + rate*dt.Seconds())
	right := frac(left + stereo)
	lfoL := l.value(shape, 0, left)
	lfoR := l.value(shape, 1, right)
	l.phase = [2]float64{left, right}

	voicePhases := make([]any, 4)
	for i := range voicePhases {
		voicePhases[i] = frac(left + float64(i)/voices*spread)
	}

	modL, modR := depth*math.Abs(lfoL), depth*math.Abs(lfoR)
	if bypassed {
		modL, modR = 0, 0
	}

	payload := map[string]any{
		"lfoPhase":     left,
		"lfoValue":     lfoL,
		"stereoPhaseL": lfoL*0.5 + 0.5,
		"stereoPhaseR": lfoR*0.5 + 0.5,
		"modDepthL":    modL,
		"modDepthR":    modR,
		"voicePhases":  voicePhases,
		"mode":         mode,
		"bypassed":     bypassed,
	}
	h.backend.Publish(h.event, payload)
	return payload
}

// Run emits telemetry at rate Hz on c until ctx is done.
func (h *Host) Run(ctx context.Context, c clock.Clock, rate float64) error {
	if c == nil {
		c = clock.Real()
	}
	if rate <= 0 {
		rate = 60
	}
	period := time.Duration(float64(time.Second) / rate)
	t := c.NewTicker(period)
	defer t.Stop()

	h.log.Debug("telemetry emitter started", "event", h.event, "rate", rate)
	last := c.Now()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case now := <-t.C:
			h.Step(now.Sub(last))
			last = now
		}
	}
}
