package surface

import (
	"bytes"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/san-kum/sway/internal/binding"
	"github.com/san-kum/sway/internal/bridge"
	"github.com/san-kum/sway/internal/clock"
	"github.com/san-kum/sway/internal/host/loopback"
	"github.com/san-kum/sway/internal/loop"
	"github.com/san-kum/sway/internal/params"
	"github.com/san-kum/sway/internal/scene"
	"github.com/san-kum/sway/internal/telemetry"
)

type rig struct {
	host *loopback.Host
	clk  *clock.FakeClock
	lp   *loop.Loop
	bank *binding.Bank
	m    Model
}

func newRig(t *testing.T) *rig {
	t.Helper()
	h := loopback.New(loopback.Options{})
	clk := clock.Fake(time.Unix(0, 0))
	lp := loop.New(clk)
	a := bridge.New(bridge.Static(h), nil)

	bank := binding.NewBank(params.All(), binding.Options{Adapter: a, Scheduler: lp})
	bank.Mount()
	ch := telemetry.Open(a, lp, telemetry.Config{})
	t.Cleanup(func() {
		ch.Close()
		bank.Close()
	})

	m := New(Options{Bank: bank, Channel: ch, Loop: lp, Clock: clk, HostLabel: "loopback"})
	m.width = 120
	h.ClearGestures()
	return &rig{host: h, clk: clk, lp: lp, bank: bank, m: m}
}

func (r *rig) send(msg tea.Msg) {
	next, _ := r.m.Update(msg)
	r.m = next.(Model)
}

func (r *rig) key(s string) {
	switch s {
	case "up":
		r.send(tea.KeyMsg{Type: tea.KeyUp})
	case "down":
		r.send(tea.KeyMsg{Type: tea.KeyDown})
	case "tab":
		r.send(tea.KeyMsg{Type: tea.KeyTab})
	default:
		r.send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)})
	}
}

func (r *rig) frame(d time.Duration) {
	r.clk.Advance(d)
	r.send(frameMsg(r.clk.Now()))
}

func kinds(gs []loopback.Gesture) []loopback.GestureKind {
	out := make([]loopback.GestureKind, len(gs))
	for i, g := range gs {
		out[i] = g.Kind
	}
	return out
}

func TestControlsFollowMode(t *testing.T) {
	tests := []struct {
		mode scene.Mode
		want string
	}{
		{scene.Chorus, params.Voices},
		{scene.Flanger, params.Color},
		{scene.Phaser, params.Stages},
		{scene.Ensemble, params.Spread},
	}
	for _, tt := range tests {
		ids := Controls(tt.mode)
		if indexOf(ids, tt.want) == 0 {
			t.Errorf("%v: missing %s in %v", tt.mode, tt.want, ids)
		}
		if ids[0] != params.Mode || ids[len(ids)-1] != params.Bypass {
			t.Errorf("%v: unexpected order %v", tt.mode, ids)
		}
	}
}

func TestKeyboardGestureBracketsAdjustments(t *testing.T) {
	r := newRig(t)
	r.key("tab") // rate

	r.key("up")
	r.key("up")
	if !r.host.Dragging(params.Rate) {
		t.Fatal("keyboard adjustment should open a gesture")
	}
	rate, _ := r.host.Value(params.Rate)
	if want := 1.0 + 2*(20-0.01)/100; rate < want-0.011 || rate > want+0.011 {
		t.Errorf("rate %v, want about %v", rate, want)
	}

	r.frame(100 * time.Millisecond)
	if !r.host.Dragging(params.Rate) {
		t.Error("gesture ended too early")
	}
	r.frame(GestureIdle)
	if r.host.Dragging(params.Rate) {
		t.Error("gesture should end after going idle")
	}

	got := kinds(r.host.Gestures())
	want := []loopback.GestureKind{loopback.DragStarted, loopback.ScaledWrite, loopback.ScaledWrite, loopback.DragEnded}
	if len(got) != len(want) {
		t.Fatalf("gestures %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("gesture %d: %v, want %v", i, got[i], want[i])
		}
	}
}

func TestFocusChangeEndsGesture(t *testing.T) {
	r := newRig(t)
	r.key("tab")
	r.key("up")
	r.key("tab")
	if r.host.Dragging(params.Rate) {
		t.Error("moving focus should end the gesture")
	}
}

func TestModeKeySwitchesHost(t *testing.T) {
	r := newRig(t)
	r.key("m")
	if v, _ := r.host.Value(params.Mode); v != 1 {
		t.Errorf("expected flanger on the host, got %v", v)
	}
	if r.m.mode() != scene.Flanger {
		t.Errorf("surface should show flanger, got %v", r.m.mode())
	}
	if !strings.Contains(r.m.View(), "FLANGER") {
		t.Error("title should name the mode")
	}

	r.key("b")
	if v, _ := r.host.Value(params.Bypass); v != 1 {
		t.Error("bypass should reach the host")
	}
	if !strings.Contains(r.m.View(), "BYPASS") {
		t.Error("title should show bypass")
	}
}

func TestMouseDrag(t *testing.T) {
	r := newRig(t)
	cells := layout(r.m.controls(), r.m.width)
	var depth cell
	for _, c := range cells {
		if c.id == params.Depth {
			depth = c
		}
	}

	r.send(tea.MouseMsg{X: depth.x + 2, Y: depth.y + 2, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	if !r.host.Dragging(params.Depth) {
		t.Fatal("press should start a gesture")
	}
	r.send(tea.MouseMsg{X: depth.x + 2, Y: depth.y - 1, Action: tea.MouseActionMotion, Button: tea.MouseButtonLeft})
	// 3 rows up is 30 px of a 150 px sweep over 0..100.
	if v, _ := r.host.Value(params.Depth); v < 69.9 || v > 70.1 {
		t.Errorf("depth %v, want 70", v)
	}
	r.send(tea.MouseMsg{X: depth.x + 2, Y: depth.y - 1, Action: tea.MouseActionRelease, Button: tea.MouseButtonLeft})
	if r.host.Dragging(params.Depth) {
		t.Error("release should end the gesture")
	}
	if r.m.focused() != params.Depth {
		t.Errorf("press should focus the knob, got %s", r.m.focused())
	}
}

func TestFramePicksUpHostChanges(t *testing.T) {
	r := newRig(t)
	r.host.Set(params.Mix, 12)
	r.frame(binding.DefaultPeriod)
	if v, _ := r.bank.Value(params.Mix); v != 12 {
		t.Errorf("expected reconciled mix 12, got %v", v)
	}
	if len(r.m.history) != 1 {
		t.Errorf("expected one history sample, got %d", len(r.m.history))
	}
}

func TestViewShowsControls(t *testing.T) {
	r := newRig(t)
	r.frame(binding.DefaultPeriod)
	out := r.m.View()
	for _, want := range []string{"Rate", "Depth", "Voices", "Mix", "LFO", "OUTPUT", "loopback", "bound"} {
		if !strings.Contains(out, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestLiveRendererThrottles(t *testing.T) {
	var buf bytes.Buffer
	lr := NewLiveRenderer(&buf, 10, 40)
	values := map[string]float64{params.Rate: 2, params.Depth: 50, params.Voices: 2}
	t0 := time.Unix(0, 0)

	if !lr.OnFrame(t0, values, telemetry.DemoFrame(0.5)) {
		t.Fatal("first frame should draw")
	}
	if lr.OnFrame(t0.Add(50*time.Millisecond), values, telemetry.DemoFrame(0.6)) {
		t.Error("frame inside the period should be skipped")
	}
	if !lr.OnFrame(t0.Add(100*time.Millisecond), values, telemetry.DemoFrame(0.7)) {
		t.Error("frame after the period should draw")
	}
	if lr.Frames() != 2 {
		t.Errorf("expected 2 frames, got %d", lr.Frames())
	}
	if !strings.Contains(buf.String(), "Chorus") || !strings.Contains(buf.String(), "2.00Hz") {
		t.Errorf("unexpected output %q", buf.String())
	}
}
