package config

import (
	"errors"
	"fmt"
	"sort"
)

var ErrUnknownPreset = errors.New("unknown preset")

// Presets map parameter ids to scaled values. Parameters a preset does
// not name keep their current value.
var Presets = map[string]map[string]float64{
	"lush-chorus": {
		"mode": 0, "rate": 0.8, "depth": 45, "shape": 0, "stereoPhase": 90,
		"voices": 3, "spread": 70, "warmth": 40, "mix": 50, "width": 140,
	},
	"jet-flanger": {
		"mode": 1, "rate": 0.15, "depth": 85, "shape": 1, "stereoPhase": 45,
		"feedback": 75, "color": 60, "warmth": 20, "mix": 50, "width": 100,
	},
	"slow-phaser": {
		"mode": 2, "rate": 0.25, "depth": 70, "shape": 0, "stereoPhase": 120,
		"stages": 8, "feedback": 40, "warmth": 30, "mix": 60, "width": 110,
	},
	"wide-ensemble": {
		"mode": 3, "rate": 0.5, "depth": 35, "shape": 0, "stereoPhase": 180,
		"voices": 4, "spread": 100, "warmth": 55, "mix": 45, "width": 200,
	},
}

func GetPreset(name string) (map[string]float64, error) {
	p, ok := Presets[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownPreset, name)
	}
	out := make(map[string]float64, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out, nil
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
