package gui

import (
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/san-kum/sway/internal/scene"
)

func rlColor(c scene.Color) rl.Color {
	return rl.NewColor(c.R, c.G, c.B, c.A)
}

// view maps logical canvas coordinates onto the window.
type view struct {
	origin rl.Vector2
	scale  float32
}

func (v view) point(p scene.Point) rl.Vector2 {
	return rl.NewVector2(v.origin.X+float32(p.X)*v.scale, v.origin.Y+float32(p.Y)*v.scale)
}

func (v view) length(l float64) float32 { return float32(l) * v.scale }

// execute draws scene commands into the window. Fill covers the
// logical canvas, so it is clipped to the canvas rectangle.
func (a *App) execute(cmds []scene.Command, v view) {
	for _, c := range cmds {
		switch c.Kind {
		case scene.Fill:
			rl.DrawRectangleV(v.origin, rl.NewVector2(v.length(scene.Width), v.length(scene.Height)), rlColor(c.Color2))
			p := v.point(c.Center)
			rl.DrawCircleGradient(int32(p.X), int32(p.Y), v.length(c.Radius), rlColor(c.Color), rlColor(c.Color2))
		case scene.Glow:
			p := v.point(c.Center)
			rl.DrawCircleGradient(int32(p.X), int32(p.Y), v.length(c.Radius), rlColor(c.Color), rlColor(c.Color.WithAlpha(0)))
		case scene.Circle:
			if c.Filled {
				rl.DrawCircleV(v.point(c.Center), v.length(c.Radius), rlColor(c.Color))
			} else {
				r, w := v.length(c.Radius), v.length(c.Stroke)/2
				rl.DrawRing(v.point(c.Center), r-w, r+w, 0, 360, 64, rlColor(c.Color))
			}
		case scene.Arc:
			r, w := v.length(c.Radius), v.length(c.Stroke)/2
			start := float32(c.Start * 180 / math.Pi)
			end := float32(c.End * 180 / math.Pi)
			rl.DrawRing(v.point(c.Center), r-w, r+w, start, end, 48, rlColor(c.Color))
		case scene.Line, scene.Polyline:
			for i := 1; i < len(c.Points); i++ {
				rl.DrawLineEx(v.point(c.Points[i-1]), v.point(c.Points[i]), max(1, v.length(c.Stroke)), rlColor(c.Color))
			}
		case scene.Text:
			size := v.length(c.Size)
			p := v.point(c.Center)
			m := rl.MeasureTextEx(a.Font, c.Text, size, 1)
			// text is anchored at the middle of its baseline
			rl.DrawTextEx(a.Font, c.Text, rl.NewVector2(p.X-m.X/2, p.Y-size*0.8), size, 1, rlColor(c.Color))
		}
	}
}
