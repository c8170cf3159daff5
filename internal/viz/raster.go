package viz

import (
	"math"

	"github.com/san-kum/sway/internal/scene"
)

// translucent fills are drawn as outlines; a solid braille disk would
// hide everything under it.
const solidAlpha = 0x80

// Rasterize draws scene commands onto c, scaling the logical canvas to
// the canvas' sub-pixel grid.
func Rasterize(c *Canvas, cmds []scene.Command) {
	sx := float64(c.Width*2) / scene.Width
	sy := float64(c.Height*4) / scene.Height
	pt := func(p scene.Point) (float64, float64) { return p.X * sx, p.Y * sy }
	ipt := func(p scene.Point) (int, int) {
		x, y := pt(p)
		return int(math.Round(x)), int(math.Round(y))
	}

	for _, cmd := range cmds {
		c.Pen = cmd.Color
		switch cmd.Kind {
		case scene.Fill:
			c.Clear()
		case scene.Circle:
			x, y := pt(cmd.Center)
			if cmd.Filled && cmd.Color.A >= solidAlpha {
				c.FillEllipse(x, y, cmd.Radius*sx, cmd.Radius*sy)
			} else {
				c.DrawArc(x, y, cmd.Radius*sx, cmd.Radius*sy, 0, 2*math.Pi)
			}
		case scene.Glow:
			x, y := pt(cmd.Center)
			c.DrawArc(x, y, cmd.Radius*sx/2, cmd.Radius*sy/2, 0, 2*math.Pi)
		case scene.Arc:
			x, y := pt(cmd.Center)
			c.DrawArc(x, y, cmd.Radius*sx, cmd.Radius*sy, cmd.Start, cmd.End)
		case scene.Line, scene.Polyline:
			for i := 1; i < len(cmd.Points); i++ {
				x0, y0 := ipt(cmd.Points[i-1])
				x1, y1 := ipt(cmd.Points[i])
				c.DrawLine(x0, y0, x1, y1)
			}
		case scene.Text:
			x, y := ipt(cmd.Center)
			col := x/2 - len([]rune(cmd.Text))/2
			c.Print(col, y/4, cmd.Text)
		}
	}
}

// RenderScene is the one-call path from commands to a colored string of
// w x h terminal cells.
func RenderScene(cmds []scene.Command, w, h int) string {
	c := NewCanvas(w, h)
	Rasterize(c, cmds)
	return c.Render()
}
