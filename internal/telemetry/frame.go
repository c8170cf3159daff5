// Package telemetry delivers the latest visualization frame, either
// pushed by the host or synthesized locally when no host is attached.
package telemetry

import "math"

// DefaultEvent is the host event carrying visualizer telemetry.
const DefaultEvent = "visualizerData"

// VoiceCount is the number of voice phases every frame carries.
const VoiceCount = 4

// Frame is one immutable snapshot of host modulation state. Phases are
// in cycles.
type Frame struct {
	LFOPhase     float64
	LFOValue     float64
	StereoPhaseL float64
	StereoPhaseR float64
	ModDepthL    float64
	ModDepthR    float64
	VoicePhases  [VoiceCount]float64
	Mode         int
}

// Decode builds a frame from a host payload. Missing, mistyped or
// non-finite fields fall back to zero one by one; a payload that is not
// an object yields the zero frame. voicePhases is truncated or zero
// padded to VoiceCount entries.
func Decode(payload any) Frame {
	m, ok := payload.(map[string]any)
	if !ok {
		return Frame{}
	}
	f := Frame{
		LFOPhase:     num(m["lfoPhase"]),
		LFOValue:     num(m["lfoValue"]),
		StereoPhaseL: num(m["stereoPhaseL"]),
		StereoPhaseR: num(m["stereoPhaseR"]),
		ModDepthL:    num(m["modDepthL"]),
		ModDepthR:    num(m["modDepthR"]),
		Mode:         int(math.Round(num(m["mode"]))),
	}
	switch vs := m["voicePhases"].(type) {
	case []any:
		for i := 0; i < len(vs) && i < VoiceCount; i++ {
			f.VoicePhases[i] = num(vs[i])
		}
	case []float64:
		for i := 0; i < len(vs) && i < VoiceCount; i++ {
			f.VoicePhases[i] = num(vs[i])
		}
	}
	return f
}

// Encode is the inverse of Decode, producing the payload shape the host
// sends.
func (f Frame) Encode() map[string]any {
	vp := make([]any, VoiceCount)
	for i, p := range f.VoicePhases {
		vp[i] = p
	}
	return map[string]any{
		"lfoPhase":     f.LFOPhase,
		"lfoValue":     f.LFOValue,
		"stereoPhaseL": f.StereoPhaseL,
		"stereoPhaseR": f.StereoPhaseR,
		"modDepthL":    f.ModDepthL,
		"modDepthR":    f.ModDepthR,
		"voicePhases":  vp,
		"mode":         f.Mode,
	}
}

func num(v any) float64 {
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case float32:
		f = float64(n)
	case int:
		f = float64(n)
	case int64:
		f = float64(n)
	case uint64:
		f = float64(n)
	case int32:
		f = float64(n)
	default:
		return 0
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}
