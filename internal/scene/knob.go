package scene

import "math"

// DragPixels is the pointer travel, in pixels, that sweeps a knob over
// its whole range.
const DragPixels = 150.0

// KnobAngle is the indicator angle in degrees for a normalized value:
// -135 at the minimum, +135 at the maximum, 0 pointing up.
func KnobAngle(norm float64) float64 {
	return -135 + math.Max(0, math.Min(1, norm))*270
}

// DragValue is the knob value after the pointer moved dy pixels up
// from where the drag started. The result is clamped to [lo, hi].
func DragValue(start, dy, lo, hi float64) float64 {
	v := start + dy/DragPixels*(hi-lo)
	return math.Max(lo, math.Min(hi, v))
}

// Knob draws a rotary control centered at c: the background track, the
// active track up to norm, and the indicator tick.
func Knob(c Point, r, norm float64, track, accent Color) []Command {
	const sweep = 1.5 * math.Pi
	// -135 degrees from up, in canvas radians (0 = +x, clockwise).
	start := math.Pi * 0.75
	norm = math.Max(0, math.Min(1, norm))

	a := (KnobAngle(norm) - 90) * math.Pi / 180
	inner := Point{c.X + math.Cos(a)*r*0.5, c.Y + math.Sin(a)*r*0.5}
	outer := Point{c.X + math.Cos(a)*r*0.75, c.Y + math.Sin(a)*r*0.75}

	return []Command{
		{Kind: Arc, Center: c, Radius: r, Start: start, End: start + sweep, Stroke: 4, Color: track},
		{Kind: Arc, Center: c, Radius: r, Start: start, End: start + norm*sweep, Stroke: 4, Color: accent},
		line(inner, outer, 3, accent),
	}
}
