package scene

import (
	"fmt"
	"math"

	"github.com/san-kum/sway/internal/telemetry"
)

const (
	flangerLines  = 16
	phaserNotches = 6
	dialRadius    = 30.0
)

// Render draws one tick of the visualization.
func Render(in Inputs, f telemetry.Frame) []Command {
	cx, cy := Width/2, Height/2
	maxRadius := math.Min(Width, Height) * 0.4
	pal := in.Mode.Palette()

	cmds := []Command{{
		Kind:   Fill,
		Center: Point{cx, cy},
		Radius: math.Max(Width, Height) / 2,
		Color:  backgroundInner,
		Color2: backgroundOuter,
	}}

	switch in.Mode {
	case Chorus, Ensemble:
		cmds = chorus(cmds, Point{cx, cy}, maxRadius, pal, f, VoiceCount(in.Voices), in.Depth, in.StereoPhase)
	case Flanger:
		cmds = flanger(cmds, Point{cx, cy}, maxRadius, pal, f, in.Depth)
	case Phaser:
		cmds = phaser(cmds, Point{cx, cy}, maxRadius, pal, f, in.Depth)
	}

	cmds = lfoDial(cmds, Point{Width - 50, Height - 50}, dialRadius, pal, f.LFOValue, in.Rate)
	if in.StereoPhase > 0 {
		cmds = stereoDial(cmds, Point{50, Height - 50}, dialRadius, pal, f.StereoPhaseL, f.StereoPhaseR)
	}
	return cmds
}

// VoiceCount is the number of orbits drawn for a voices value: rounded,
// and never more than the phases a frame carries.
func VoiceCount(voices float64) int {
	n := int(math.Round(voices))
	return max(0, min(n, telemetry.VoiceCount))
}

func chorus(cmds []Command, c Point, maxRadius float64, pal Palette, f telemetry.Frame, voices int, depth, stereo float64) []Command {
	cmds = append(cmds, circle(c, 8, pal.Secondary))

	for i := 0; i < voices; i++ {
		phase := f.VoicePhases[i]
		orbit := maxRadius * (0.4 + float64(i)/float64(voices)*0.6) * depth

		cmds = append(cmds, ring(c, orbit, 1, pal.Secondary.WithAlpha(0x40)))

		angleL := phase * 2 * math.Pi
		l := Point{c.X + math.Cos(angleL)*orbit*0.8, c.Y + math.Sin(angleL)*orbit}
		angleR := (phase + stereo/360) * 2 * math.Pi
		r := Point{c.X + math.Cos(angleR)*orbit*1.2, c.Y + math.Sin(angleR)*orbit}

		cmds = append(cmds, line(l, r, 2, pal.Primary.WithAlpha(0x60)))

		glow := 12 + f.ModDepthL*8
		cmds = append(cmds,
			circle(l, glow, pal.Glow),
			circle(l, 6, pal.Primary),
			circle(r, glow, pal.Glow),
			circle(r, 6, pal.Secondary),
		)
	}
	return cmds
}

func flanger(cmds []Command, c Point, maxRadius float64, pal Palette, f telemetry.Frame, depth float64) []Command {
	spacing := maxRadius * 2 / flangerLines
	half := float64(flangerLines) / 2

	for i := 0; i < flangerLines; i++ {
		x := c.X - maxRadius + float64(i)*spacing
		s := math.Sin(f.LFOPhase*2*math.Pi + float64(i)*0.3)
		offset := s * depth * 30
		h := maxRadius * 1.5 * (1 - math.Abs(float64(i)-half)/half*0.5)
		alpha := 0.3 + math.Abs(s)*0.7

		cmds = append(cmds, line(
			Point{x + offset, c.Y - h/2},
			Point{x + offset, c.Y + h/2},
			3, pal.Primary.WithAlpha(uint8(math.Floor(alpha*255))),
		))
	}

	sweep := c.X + f.LFOValue*maxRadius*0.8
	cmds = append(cmds,
		line(Point{sweep, c.Y - maxRadius*0.8}, Point{sweep, c.Y + maxRadius*0.8}, 2, pal.Primary),
		Command{Kind: Glow, Center: Point{sweep, c.Y}, Radius: 40, Color: pal.Glow},
	)
	return cmds
}

func notchCenter(lfoPhase float64, n int) float64 {
	return math.Mod(lfoPhase+float64(n)/phaserNotches, 1)
}

func phaser(cmds []Command, c Point, maxRadius float64, pal Palette, f telemetry.Frame, depth float64) []Command {
	span := int(maxRadius * 2)
	curve := make([]Point, 0, span+1)
	for x := 0; x <= span; x++ {
		freq := float64(x) / (maxRadius * 2)
		amp := 1.0
		for n := 0; n < phaserNotches; n++ {
			d := math.Abs(freq - notchCenter(f.LFOPhase, n))
			amp *= 1 - depth*0.8*math.Exp(-d*20)
		}
		y := c.Y - amp*maxRadius*0.6 + maxRadius*0.3
		curve = append(curve, Point{c.X - maxRadius + float64(x), y})
	}
	cmds = append(cmds, Command{Kind: Polyline, Points: curve, Stroke: 2, Color: pal.Primary})

	for n := 0; n < phaserNotches; n++ {
		x := c.X - maxRadius + notchCenter(f.LFOPhase, n)*maxRadius*2
		cmds = append(cmds,
			circle(Point{x, c.Y + maxRadius*0.3}, 4, pal.Secondary),
			line(Point{x, c.Y - maxRadius*0.3}, Point{x, c.Y + maxRadius*0.3}, 1, pal.Primary.WithAlpha(0x40)),
		)
	}

	rot := f.LFOValue * math.Pi
	at := func(x, y float64) Point {
		s, co := math.Sincos(rot)
		return Point{c.X + x*co - y*s, c.Y + x*s + y*co}
	}
	cmds = append(cmds,
		line(at(-20, 0), at(20, 0), 2, pal.Primary),
		Command{Kind: Polyline, Points: []Point{at(15, -5), at(20, 0), at(15, 5)}, Stroke: 2, Color: pal.Primary},
	)
	return cmds
}

func lfoDial(cmds []Command, c Point, r float64, pal Palette, lfoValue, rate float64) []Command {
	return append(cmds,
		circle(c, r, dialFill),
		ring(c, r, 1, pal.Secondary),
		circle(Point{c.X, c.Y - lfoValue*(r-4)}, 4, pal.Primary),
		label(Point{c.X, c.Y + r + 12}, fmt.Sprintf("%.1fHz", rate), labelColor),
	)
}

func stereoDial(cmds []Command, c Point, r float64, pal Palette, phaseL, phaseR float64) []Command {
	start := -math.Pi / 2
	return append(cmds,
		circle(c, r, dialFill),
		Command{Kind: Arc, Center: c, Radius: r - 4, Start: start, End: start + phaseL*2*math.Pi, Stroke: 3, Color: pal.Primary},
		Command{Kind: Arc, Center: c, Radius: r - 8, Start: start, End: start + phaseR*2*math.Pi, Stroke: 3, Color: pal.Secondary},
		label(Point{c.X, c.Y + r + 12}, "L/R", labelColor),
	)
}
