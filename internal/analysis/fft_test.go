package analysis

import (
	"math"
	"testing"
)

func sine(hz, rate float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = math.Sin(2 * math.Pi * hz * float64(i) / rate)
	}
	return out
}

func TestDominantRate(t *testing.T) {
	tests := []struct {
		hz   float64
		rate float64
		n    int
	}{
		{2, 60, 240},
		{0.5, 60, 600},
		{5.3, 60, 300},
	}
	for _, tt := range tests {
		got, ok := DominantRate(sine(tt.hz, tt.rate, tt.n), tt.rate)
		if !ok {
			t.Errorf("%.1f Hz: no rate found", tt.hz)
			continue
		}
		if math.Abs(got-tt.hz) > 0.1 {
			t.Errorf("%.1f Hz: got %.3f", tt.hz, got)
		}
	}
}

func TestDominantRateFlat(t *testing.T) {
	flat := make([]float64, 64)
	for i := range flat {
		flat[i] = 0.3
	}
	if _, ok := DominantRate(flat, 60); ok {
		t.Error("flat trace has no rate")
	}
	if _, ok := DominantRate([]float64{1, 2}, 60); ok {
		t.Error("two samples are too few")
	}
}

func TestSpectrumBins(t *testing.T) {
	bins := Spectrum(sine(3, 60, 120), 60)
	if len(bins) != 61 {
		t.Fatalf("expected 61 bins, got %d", len(bins))
	}
	if bins[6].Freq != 3 {
		t.Errorf("bin 6 should be 3 Hz, got %v", bins[6].Freq)
	}
	if bins[6].Mag < 0.4 {
		t.Errorf("3 Hz bin too weak: %v", bins[6].Mag)
	}
}

func TestSummarize(t *testing.T) {
	s := Summarize([]float64{-1, 1, -1, 1})
	if s.Min != -1 || s.Max != 1 || s.Mean != 0 || s.RMS != 1 {
		t.Errorf("unexpected summary %+v", s)
	}
	if (Summarize(nil) != Summary{}) {
		t.Error("empty trace should give zero summary")
	}
}
