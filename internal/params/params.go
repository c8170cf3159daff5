// Package params is the contract with the host's parameter registry:
// the ids the control surface binds to, their kinds, scaled ranges and
// defaults.
package params

import (
	"fmt"
	"math"
	"strconv"
)

// Parameter ids registered by the host.
const (
	Mode        = "mode"
	Rate        = "rate"
	Depth       = "depth"
	Shape       = "shape"
	StereoPhase = "stereoPhase"
	Feedback    = "feedback"
	Voices      = "voices"
	Spread      = "spread"
	Warmth      = "warmth"
	Stages      = "stages"
	Color       = "color"
	Mix         = "mix"
	Width       = "width"
	Bypass      = "bypass"
)

type Kind int

const (
	// Continuous parameters are exposed by the host as slider state.
	Continuous Kind = iota
	// Toggle parameters are exposed as toggle state.
	Toggle
	// Choice parameters ride on slider state with integer scaled values
	// 0..len(Choices)-1.
	Choice
)

func (k Kind) String() string {
	switch k {
	case Continuous:
		return "continuous"
	case Toggle:
		return "toggle"
	case Choice:
		return "choice"
	default:
		return "unknown"
	}
}

// Def describes one registered parameter. Min, Max and Step are in
// scaled (human) units.
type Def struct {
	ID       string
	Name     string
	Kind     Kind
	Unit     string
	Min      float64
	Max      float64
	Step     float64
	Default  float64
	Decimals int
	Choices  []string
}

// ChoiceCount is the number of options of a Choice parameter, 2 for a
// Toggle and 0 otherwise.
func (d Def) ChoiceCount() int {
	switch d.Kind {
	case Choice:
		return len(d.Choices)
	case Toggle:
		return 2
	}
	return 0
}

// Clamp limits a scaled value to [Min, Max].
func (d Def) Clamp(scaled float64) float64 {
	return math.Max(d.Min, math.Min(d.Max, scaled))
}

// Snap clamps a scaled value and rounds it to the nearest step from Min.
func (d Def) Snap(scaled float64) float64 {
	v := d.Clamp(scaled)
	if d.Step <= 0 {
		return v
	}
	steps := math.Round((v - d.Min) / d.Step)
	return d.Clamp(d.Min + steps*d.Step)
}

// Normalize maps a scaled value to [0, 1].
func (d Def) Normalize(scaled float64) float64 {
	if d.Max <= d.Min {
		return 0
	}
	n := (scaled - d.Min) / (d.Max - d.Min)
	return math.Max(0, math.Min(1, n))
}

// Denormalize maps [0, 1] back to the scaled range.
func (d Def) Denormalize(normalized float64) float64 {
	normalized = math.Max(0, math.Min(1, normalized))
	return d.Min + normalized*(d.Max-d.Min)
}

// Format renders a scaled value the way the control surface labels it.
func (d Def) Format(scaled float64) string {
	switch d.Kind {
	case Choice:
		i := int(math.Round(scaled))
		if i >= 0 && i < len(d.Choices) {
			return d.Choices[i]
		}
		return strconv.Itoa(i)
	case Toggle:
		if scaled >= 0.5 {
			return "on"
		}
		return "off"
	}
	if d.Decimals == 0 {
		return fmt.Sprintf("%.0f%s", math.Round(scaled), d.Unit)
	}
	return strconv.FormatFloat(scaled, 'f', d.Decimals, 64) + d.Unit
}
