package analysis

import (
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
)

// Bin is one spectrum line.
type Bin struct {
	Freq float64
	Mag  float64
}

// Spectrum is the one-sided magnitude spectrum of data sampled at rate
// Hz, with the mean removed so the DC bin does not swamp the rest.
func Spectrum(data []float64, rate float64) []Bin {
	n := len(data)
	if n < 2 || rate <= 0 {
		return nil
	}

	mean := 0.0
	for _, v := range data {
		mean += v
	}
	mean /= float64(n)

	centered := make([]float64, n)
	for i, v := range data {
		centered[i] = v - mean
	}

	out := fft.FFTReal(centered)
	bins := make([]Bin, n/2+1)
	for k := range bins {
		bins[k] = Bin{Freq: float64(k) * rate / float64(n), Mag: cmplx.Abs(out[k]) / float64(n)}
	}
	return bins
}

// DominantRate is the frequency of the strongest non-DC component,
// refined by parabolic interpolation between neighbouring bins. ok is
// false for traces that are too short or flat.
func DominantRate(data []float64, rate float64) (hz float64, ok bool) {
	bins := Spectrum(data, rate)
	if len(bins) < 3 {
		return 0, false
	}

	peak := 1
	for k := 2; k < len(bins); k++ {
		if bins[k].Mag > bins[peak].Mag {
			peak = k
		}
	}
	if bins[peak].Mag < 1e-9 {
		return 0, false
	}

	offset := 0.0
	if peak+1 < len(bins) {
		a, b, c := bins[peak-1].Mag, bins[peak].Mag, bins[peak+1].Mag
		if d := a - 2*b + c; d != 0 {
			offset = 0.5 * (a - c) / d
		}
	}
	step := rate / float64(len(data))
	return bins[peak].Freq + offset*step, true
}

type Summary struct {
	Min, Max  float64
	Mean, RMS float64
}

func Summarize(data []float64) Summary {
	if len(data) == 0 {
		return Summary{}
	}
	s := Summary{Min: math.Inf(1), Max: math.Inf(-1)}
	var sum, sq float64
	for _, v := range data {
		s.Min = math.Min(s.Min, v)
		s.Max = math.Max(s.Max, v)
		sum += v
		sq += v * v
	}
	n := float64(len(data))
	s.Mean = sum / n
	s.RMS = math.Sqrt(sq / n)
	return s
}
