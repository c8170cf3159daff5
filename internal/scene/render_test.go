package scene

import (
	"math"
	"reflect"
	"testing"
	"time"

	"github.com/san-kum/sway/internal/binding"
	"github.com/san-kum/sway/internal/bridge"
	"github.com/san-kum/sway/internal/clock"
	"github.com/san-kum/sway/internal/loop"
	"github.com/san-kum/sway/internal/params"
	"github.com/san-kum/sway/internal/telemetry"
)

func count(cmds []Command, match func(Command) bool) int {
	n := 0
	for _, c := range cmds {
		if match(c) {
			n++
		}
	}
	return n
}

func voiceDots(c Command) bool {
	return c.Kind == Circle && c.Filled && c.Radius == 6
}

func TestRenderIsPure(t *testing.T) {
	f := telemetry.DemoFrame(2.2)
	for _, m := range Modes {
		in := Inputs{Mode: m, Rate: 3.5, Depth: 0.6, Voices: 3, StereoPhase: 45}
		a, b := Render(in, f), Render(in, f)
		if !reflect.DeepEqual(a, b) {
			t.Errorf("%v: two renders differ", m)
		}
	}
}

func TestStandaloneChorusDrawsTwoVoices(t *testing.T) {
	c := clock.Fake(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	l := loop.New(c)
	opts := binding.Options{Adapter: bridge.Absent(), Scheduler: l}
	bank := binding.NewBank(params.All(), opts)
	bank.Mount()
	defer bank.Close()

	ch := telemetry.Open(opts.Adapter, l, telemetry.DefaultConfig())
	defer ch.Close()
	if ch.Source() != "demo" {
		t.Fatalf("expected demo source, got %s", ch.Source())
	}

	for i := 0; i < 30; i++ {
		c.Advance(time.Second / 60)
		l.RunDue()

		in := InputsFrom(bank.Snapshot())
		if in.Mode != Chorus || in.Rate != 1.0 || in.Depth != 0.5 || in.Voices != 2.0 {
			t.Fatalf("unexpected inputs %+v", in)
		}
		f := ch.Latest()
		if f.Mode != 0 {
			t.Fatalf("tick %d: frame mode %d", i, f.Mode)
		}
		cmds := Render(in, f)
		if n := count(cmds, voiceDots); n != 4 {
			t.Fatalf("tick %d: expected 2 voices (4 dots), got %d dots", i, n)
		}
	}
}

func TestVoicesClampToFramePhases(t *testing.T) {
	tests := []struct {
		voices float64
		want   int
	}{
		{0, 0},
		{1.4, 1},
		{2.5, 3},
		{4, 4},
		{9, 4},
		{-3, 0},
	}
	for _, tt := range tests {
		if got := VoiceCount(tt.voices); got != tt.want {
			t.Errorf("VoiceCount(%v) = %d, want %d", tt.voices, got, tt.want)
		}
		cmds := Render(Inputs{Mode: Ensemble, Depth: 1, Voices: tt.voices}, telemetry.Frame{})
		if n := count(cmds, voiceDots); n != 2*tt.want {
			t.Errorf("voices %v: %d dots, want %d", tt.voices, n, 2*tt.want)
		}
	}
}

func TestFlangerTeeth(t *testing.T) {
	f := telemetry.Frame{LFOPhase: 0.1, LFOValue: 0.5}
	cmds := Render(Inputs{Mode: Flanger, Depth: 1}, f)

	teeth := count(cmds, func(c Command) bool { return c.Kind == Line && c.Stroke == 3 })
	if teeth != 16 {
		t.Errorf("expected 16 teeth, got %d", teeth)
	}
	var sweep *Command
	for i := range cmds {
		if cmds[i].Kind == Glow {
			sweep = &cmds[i]
		}
	}
	if sweep == nil {
		t.Fatal("missing sweep glow")
	}
	if want := Width/2 + 0.5*80*0.8; math.Abs(sweep.Center.X-want) > 1e-9 {
		t.Errorf("sweep at %v, want %v", sweep.Center.X, want)
	}
}

func TestPhaserNotches(t *testing.T) {
	cmds := Render(Inputs{Mode: Phaser, Depth: 1}, telemetry.Frame{LFOPhase: 0.25})

	markers := count(cmds, func(c Command) bool { return c.Kind == Circle && c.Filled && c.Radius == 4 })
	// six notches plus the LFO dial indicator
	if markers != 7 {
		t.Errorf("expected 7 small markers, got %d", markers)
	}

	var curve []Point
	for _, c := range cmds {
		if c.Kind == Polyline && len(c.Points) > 3 {
			curve = c.Points
		}
	}
	if len(curve) != 161 {
		t.Fatalf("expected 161 curve samples, got %d", len(curve))
	}
	// the curve dips at the first notch center (freq 0.25 -> x 40)
	if curve[40].Y <= curve[20].Y {
		t.Errorf("expected a notch at x=40: y=%v vs y=%v", curve[40].Y, curve[20].Y)
	}
}

func TestStereoIndicatorOnlyWhenPhaseSet(t *testing.T) {
	f := telemetry.DemoFrame(1)
	arcs := func(stereo float64) int {
		cmds := Render(Inputs{Mode: Chorus, Depth: 0.5, Voices: 2, StereoPhase: stereo}, f)
		return count(cmds, func(c Command) bool { return c.Kind == Arc })
	}
	if n := arcs(0); n != 0 {
		t.Errorf("expected no stereo arcs at 0 degrees, got %d", n)
	}
	if n := arcs(90); n != 2 {
		t.Errorf("expected 2 stereo arcs, got %d", n)
	}
}

func TestRateLabel(t *testing.T) {
	cmds := Render(Inputs{Mode: Chorus, Rate: 2.345}, telemetry.Frame{})
	found := false
	for _, c := range cmds {
		if c.Kind == Text && c.Text == "2.3Hz" {
			found = true
		}
	}
	if !found {
		t.Error("missing rate label")
	}
}

func TestModeExtras(t *testing.T) {
	tests := []struct {
		mode Mode
		want []string
	}{
		{Chorus, []string{params.Voices, params.Spread, params.Warmth}},
		{Flanger, []string{params.Feedback, params.Color, params.Warmth}},
		{Phaser, []string{params.Stages, params.Feedback, params.Warmth}},
		{Ensemble, []string{params.Voices, params.Spread, params.Warmth}},
	}
	for _, tt := range tests {
		if got := tt.mode.Extras(); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("%v: got %v, want %v", tt.mode, got, tt.want)
		}
	}
}

func TestParseMode(t *testing.T) {
	m, err := ParseMode("phaser")
	if err != nil || m != Phaser {
		t.Errorf("ParseMode(phaser) = %v, %v", m, err)
	}
	if _, err := ParseMode("tremolo"); err == nil {
		t.Error("expected error for unknown mode")
	}
}

func TestHex(t *testing.T) {
	if c := Hex("#00d4ff"); c != (Color{0x00, 0xd4, 0xff, 0xff}) {
		t.Errorf("unexpected %v", c)
	}
	if c := Hex("#00000040"); c.A != 0x40 {
		t.Errorf("unexpected alpha %v", c.A)
	}
}

func TestDragValue(t *testing.T) {
	if v := DragValue(50, 75, 0, 100); v != 100 {
		t.Errorf("expected full travel to clamp at 100, got %v", v)
	}
	if v := DragValue(50, -15, 0, 100); math.Abs(v-40) > 1e-9 {
		t.Errorf("expected 40, got %v", v)
	}
	if a := KnobAngle(0.5); a != 0 {
		t.Errorf("expected centered knob to point up, got %v", a)
	}
}
