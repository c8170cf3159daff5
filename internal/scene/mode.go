// Package scene turns parameter values and the latest telemetry frame
// into a list of drawing commands on a fixed logical canvas. Rendering
// is a pure function: the same inputs always give the same commands.
package scene

import (
	"fmt"
	"math"
	"strings"

	"github.com/san-kum/sway/internal/params"
)

type Mode int

const (
	Chorus Mode = iota
	Flanger
	Phaser
	Ensemble
)

var Modes = []Mode{Chorus, Flanger, Phaser, Ensemble}

func (m Mode) String() string {
	if m >= 0 && int(m) < len(params.ModeNames) {
		return params.ModeNames[m]
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// ModeOf maps a choice value onto a mode.
func ModeOf(v int) Mode { return Mode(v) }

// ParseMode accepts a mode name, case-insensitively.
func ParseMode(s string) (Mode, error) {
	for _, m := range Modes {
		if strings.EqualFold(m.String(), s) {
			return m, nil
		}
	}
	return Chorus, fmt.Errorf("scene: unknown mode %q", s)
}

// Extras lists the mode-specific controls the surface shows beside the
// common LFO and output sections, in display order. Warmth closes every
// list.
func (m Mode) Extras() []string {
	switch m {
	case Chorus, Ensemble:
		return []string{params.Voices, params.Spread, params.Warmth}
	case Flanger:
		return []string{params.Feedback, params.Color, params.Warmth}
	case Phaser:
		return []string{params.Stages, params.Feedback, params.Warmth}
	default:
		return []string{params.Warmth}
	}
}

// Inputs are the parameter values the renderer reads. Depth is a
// fraction in [0, 1]; StereoPhase is in degrees.
type Inputs struct {
	Mode        Mode
	Rate        float64
	Depth       float64
	Voices      float64
	StereoPhase float64
}

// InputsFrom builds Inputs from scaled parameter values keyed by id.
func InputsFrom(values map[string]float64) Inputs {
	return Inputs{
		Mode:        ModeOf(int(math.Round(values[params.Mode]))),
		Rate:        values[params.Rate],
		Depth:       values[params.Depth] / 100,
		Voices:      values[params.Voices],
		StereoPhase: values[params.StereoPhase],
	}
}
