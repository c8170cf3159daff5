package storage

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/san-kum/sway/internal/telemetry"
)

func samples(n int) []Sample {
	out := make([]Sample, n)
	for i := range out {
		out[i] = Sample{T: float64(i) / 60, Frame: telemetry.DemoFrame(float64(i) * 0.02)}
	}
	return out
}

func TestSaveAndLoad(t *testing.T) {
	s := New(t.TempDir())
	if err := s.Init(); err != nil {
		t.Fatal(err)
	}

	params := map[string]float64{"rate": 1.5, "depth": 50}
	id, err := s.Save("loopback", 60, params, samples(5))
	if err != nil {
		t.Fatalf("save: %v", err)
	}

	meta, err := s.Load(id)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if meta.Source != "loopback" || meta.Frames != 5 || meta.Rate != 60 {
		t.Errorf("unexpected metadata %+v", meta)
	}
	if meta.Params["rate"] != 1.5 {
		t.Errorf("params not kept: %v", meta.Params)
	}

	got, err := s.LoadFrames(id)
	if err != nil {
		t.Fatalf("load frames: %v", err)
	}
	if len(got) != 5 {
		t.Fatalf("expected 5 samples, got %d", len(got))
	}
	want := telemetry.DemoFrame(0.08)
	f := got[4].Frame
	if diff := f.LFOPhase - want.LFOPhase; diff > 1e-5 || diff < -1e-5 {
		t.Errorf("lfoPhase %f, want %f", f.LFOPhase, want.LFOPhase)
	}
	if diff := f.VoicePhases[3] - want.VoicePhases[3]; diff > 1e-5 || diff < -1e-5 {
		t.Errorf("voice3 %f, want %f", f.VoicePhases[3], want.VoicePhases[3])
	}
}

func TestLoadMissing(t *testing.T) {
	s := New(t.TempDir())
	if _, err := s.Load("nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if _, err := s.LoadFrames("nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestListSkipsJunk(t *testing.T) {
	dir := t.TempDir()
	s := New(dir)

	if _, err := s.Save("demo", 60, nil, samples(2)); err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(filepath.Join(dir, "broken"), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "stray.txt"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	caps, err := s.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(caps) != 1 {
		t.Errorf("expected 1 capture, got %d", len(caps))
	}
}

func TestListMissingDir(t *testing.T) {
	caps, err := New(filepath.Join(t.TempDir(), "absent")).List()
	if err != nil || len(caps) != 0 {
		t.Errorf("expected empty list, got %v, %v", caps, err)
	}
}

func TestLoadFramesSkipsBadRows(t *testing.T) {
	dir := t.TempDir()
	s := New(dir)
	id, err := s.Save("demo", 60, nil, samples(1))
	if err != nil {
		t.Fatal(err)
	}

	path := filepath.Join(dir, id, "frames.csv")
	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		t.Fatal(err)
	}
	f.WriteString("oops,1,2\n")
	f.Close()

	got, err := s.LoadFrames(id)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 {
		t.Errorf("expected bad row to be skipped, got %d samples", len(got))
	}
}

func TestTrace(t *testing.T) {
	smp := samples(3)
	vals, err := Trace(smp, "lfoValue")
	if err != nil {
		t.Fatal(err)
	}
	if len(vals) != 3 {
		t.Fatalf("expected 3 values, got %d", len(vals))
	}
	if _, err := Trace(smp, "t"); err == nil {
		t.Error("time column should not be plottable")
	}
	if _, err := Trace(smp, "bogus"); err == nil {
		t.Error("expected error for unknown column")
	}
	if len(Columns()) != 11 {
		t.Errorf("expected 11 columns, got %d", len(Columns()))
	}
}
