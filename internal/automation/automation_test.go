package automation

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/san-kum/sway/internal/clock"
	"github.com/san-kum/sway/internal/config"
	"github.com/san-kum/sway/internal/host/loopback"
	"github.com/san-kum/sway/internal/params"
)

const sweep = `
name: sweep
description: rate sweep then a preset
steps:
  - at: 100ms
    param: rate
    value: 5
    ramp: 100ms
  - at: 0s
    param: mix
    value: 75
  - at: 300ms
    preset: jet-flanger
`

func near(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestParseSortsSteps(t *testing.T) {
	s, err := Parse([]byte(sweep))
	if err != nil {
		t.Fatal(err)
	}
	if s.Steps[0].Param != "mix" {
		t.Errorf("expected mix first, got %s", s.Steps[0].Param)
	}
	if s.Resolution != DefaultResolution {
		t.Errorf("expected default resolution, got %v", s.Resolution)
	}
	if s.Length() != 300*time.Millisecond {
		t.Errorf("unexpected length %v", s.Length())
	}
}

func TestParseRejects(t *testing.T) {
	if _, err := Parse([]byte("steps:\n  - param: nope\n")); !errors.Is(err, params.ErrUnknownParam) {
		t.Errorf("expected ErrUnknownParam, got %v", err)
	}
	if _, err := Parse([]byte("steps:\n  - preset: nope\n")); !errors.Is(err, config.ErrUnknownPreset) {
		t.Errorf("expected ErrUnknownPreset, got %v", err)
	}
	if _, err := Parse([]byte("steps:\n  - param: rate\n    at: -1s\n")); err == nil {
		t.Error("expected error for negative time")
	}
}

func TestPlaybackRamp(t *testing.T) {
	s, err := Parse([]byte(sweep))
	if err != nil {
		t.Fatal(err)
	}
	h := loopback.New(loopback.Options{})
	pb := NewPlayback(s, h, nil)

	steps := []struct {
		at   time.Duration
		rate float64
		done bool
	}{
		{0, 1, false},
		{100 * time.Millisecond, 1, false},
		{150 * time.Millisecond, 3, false},
		{200 * time.Millisecond, 5, false},
		{300 * time.Millisecond, 0.15, true},
	}
	for _, st := range steps {
		done, err := pb.Advance(st.at)
		if err != nil {
			t.Fatal(err)
		}
		rate, _ := h.Value("rate")
		if !near(rate, st.rate) {
			t.Errorf("at %v: rate %v, want %v", st.at, rate, st.rate)
		}
		if done != st.done {
			t.Errorf("at %v: done %v, want %v", st.at, done, st.done)
		}
	}

	if mix, _ := h.Value("mix"); mix != 50 {
		t.Errorf("preset should set mix to 50, got %v", mix)
	}
	if mode, _ := h.Value("mode"); mode != 1 {
		t.Errorf("preset should switch to flanger, got %v", mode)
	}
	if len(h.Gestures()) != 0 {
		t.Error("automation must not look like UI gestures")
	}
}

func TestPlaybackReset(t *testing.T) {
	s, _ := Parse([]byte("steps:\n  - at: 10ms\n    param: depth\n    value: 10\n"))
	h := loopback.New(loopback.Options{})
	pb := NewPlayback(s, h, nil)

	if done, _ := pb.Advance(20 * time.Millisecond); !done {
		t.Fatal("expected pass to finish")
	}
	h.Set("depth", 90)
	pb.Reset()
	if done, _ := pb.Advance(0); done {
		t.Error("step should not fire before its time")
	}
	pb.Advance(10 * time.Millisecond)
	if d, _ := h.Value("depth"); d != 10 {
		t.Errorf("expected depth 10 after replay, got %v", d)
	}
}

func TestPlayOnFakeClock(t *testing.T) {
	s, err := Parse([]byte("resolution: 10ms\nsteps:\n  - at: 20ms\n    param: width\n    value: 180\n"))
	if err != nil {
		t.Fatal(err)
	}
	h := loopback.New(loopback.Options{})
	clk := clock.Fake(time.Unix(0, 0))

	done := make(chan error, 1)
	go func() { done <- Play(context.Background(), s, h, clk, nil) }()

	deadline := time.Now().Add(2 * time.Second)
	for {
		select {
		case err := <-done:
			if err != nil {
				t.Fatal(err)
			}
			if w, _ := h.Value("width"); w != 180 {
				t.Errorf("expected width 180, got %v", w)
			}
			return
		default:
		}
		if time.Now().After(deadline) {
			t.Fatal("playback did not finish")
		}
		if clk.Pending() > 0 {
			clk.Advance(10 * time.Millisecond)
		}
		time.Sleep(time.Millisecond)
	}
}

func TestPlayCancel(t *testing.T) {
	s, _ := Parse([]byte("loop: true\nsteps:\n  - at: 1h\n    param: mix\n    value: 1\n"))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := Play(ctx, s, loopback.New(loopback.Options{}), clock.Fake(time.Unix(0, 0)), nil)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}
