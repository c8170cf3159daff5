package surface

import (
	"testing"
	"time"

	"github.com/san-kum/sway/internal/host/loopback"
	"github.com/san-kum/sway/internal/params"
)

func TestPointerDragInCanvasPixels(t *testing.T) {
	r := newRig(t)
	p := NewPointer(r.bank, 1)

	p.Press(params.Rate, 300)
	if id, ok := p.Active(); !ok || id != params.Rate {
		t.Fatalf("expected rate drag, got %q %v", id, ok)
	}
	// half the sweep up from 1 Hz over 0.01..20
	p.Move(300 - 75)
	v, _ := r.host.Value(params.Rate)
	if want := 1 + (20-0.01)/2; v < want-0.02 || v > want+0.02 {
		t.Errorf("rate %v, want %v", v, want)
	}
	p.Move(0)
	if v, _ := r.host.Value(params.Rate); v < 19.999 || v > 20 {
		t.Errorf("drag past the end should clamp, got %v", v)
	}
	p.Release()
	if _, ok := p.Active(); ok || r.host.Dragging(params.Rate) {
		t.Error("release should end the drag")
	}
}

func TestPointerClicksChoicesAndToggles(t *testing.T) {
	r := newRig(t)
	p := NewPointer(r.bank, 1)

	p.Press(params.Shape, 0)
	if _, ok := p.Active(); ok {
		t.Error("choices do not drag")
	}
	if v, _ := r.host.Value(params.Shape); v != 1 {
		t.Errorf("shape %v, want 1", v)
	}

	p.Press(params.Bypass, 0)
	if v, _ := r.host.Value(params.Bypass); v != 1 {
		t.Error("click should flip bypass")
	}
	for _, g := range r.host.Gestures() {
		if g.Kind == loopback.DragStarted && g.ID == params.Bypass {
			t.Error("toggles should not open a drag")
		}
	}
}

func TestKeysResetIsOneGesture(t *testing.T) {
	r := newRig(t)
	r.host.Set(params.Depth, 10)
	r.host.ClearGestures()

	k := NewKeys(r.bank)
	k.Adjust(params.Depth, 1, true, time.Unix(0, 0))
	k.Reset(params.Depth)
	if _, ok := k.Active(); ok {
		t.Error("reset should close the open gesture")
	}
	if v, _ := r.host.Value(params.Depth); v != params.MustLookup(params.Depth).Default {
		t.Errorf("depth %v after reset", v)
	}

	var started, ended int
	for _, g := range r.host.Gestures() {
		switch g.Kind {
		case loopback.DragStarted:
			started++
		case loopback.DragEnded:
			ended++
		}
	}
	if started != 2 || ended != 2 {
		t.Errorf("expected two complete gestures, got %d starts %d ends", started, ended)
	}
}
