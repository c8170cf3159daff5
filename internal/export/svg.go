package export

import (
	"fmt"
	"html"
	"math"
	"strings"

	"github.com/san-kum/sway/internal/scene"
	"github.com/san-kum/sway/internal/viz"
)

// CommandsToSVG writes scene commands as an SVG document on the logical
// canvas, scaled by scale.
func CommandsToSVG(cmds []scene.Command, scale float64) string {
	if scale <= 0 {
		scale = 1
	}
	width := scene.Width * scale
	height := scene.Height * scale

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
`, width, height, scene.Width, scene.Height))

	var defs strings.Builder
	var body strings.Builder
	grad := 0

	for _, c := range cmds {
		switch c.Kind {
		case scene.Fill:
			grad++
			id := fmt.Sprintf("g%d", grad)
			defs.WriteString(radial(id, c.Color, c.Color2))
			body.WriteString(fmt.Sprintf(`<rect width="100%%" height="100%%" fill="url(#%s)"/>
`, id))
		case scene.Glow:
			grad++
			id := fmt.Sprintf("g%d", grad)
			defs.WriteString(radial(id, c.Color, c.Color.WithAlpha(0)))
			body.WriteString(fmt.Sprintf(`<rect x="%.2f" y="%.2f" width="%.2f" height="%.2f" fill="url(#%s)"/>
`, c.Center.X-c.Radius, c.Center.Y-c.Radius, 2*c.Radius, 2*c.Radius, id))
		case scene.Circle:
			if c.Filled {
				body.WriteString(fmt.Sprintf(`<circle cx="%.2f" cy="%.2f" r="%.2f" %s/>
`, c.Center.X, c.Center.Y, c.Radius, paint("fill", c.Color)))
			} else {
				body.WriteString(fmt.Sprintf(`<circle cx="%.2f" cy="%.2f" r="%.2f" fill="none" %s stroke-width="%g"/>
`, c.Center.X, c.Center.Y, c.Radius, paint("stroke", c.Color), c.Stroke))
			}
		case scene.Line, scene.Polyline:
			if len(c.Points) < 2 {
				continue
			}
			body.WriteString(fmt.Sprintf(`<path fill="none" %s stroke-width="%g" stroke-linecap="round" d="%s"/>
`, paint("stroke", c.Color), c.Stroke, pathData(c.Points)))
		case scene.Arc:
			body.WriteString(fmt.Sprintf(`<path fill="none" %s stroke-width="%g" d="%s"/>
`, paint("stroke", c.Color), c.Stroke, arcData(c)))
		case scene.Text:
			body.WriteString(fmt.Sprintf(`<text x="%.2f" y="%.2f" font-family="monospace" font-size="%g" text-anchor="middle" %s>%s</text>
`, c.Center.X, c.Center.Y, c.Size, paint("fill", c.Color), html.EscapeString(c.Text)))
		}
	}

	if defs.Len() > 0 {
		sb.WriteString("<defs>\n" + defs.String() + "</defs>\n")
	}
	sb.WriteString(body.String())
	sb.WriteString("</svg>")
	return sb.String()
}

func paint(attr string, c scene.Color) string {
	if c.A == 0xff {
		return fmt.Sprintf(`%s="%s"`, attr, c.Hex())
	}
	return fmt.Sprintf(`%s="%s" %s-opacity="%.3f"`, attr, c.Hex(), attr, c.Opacity())
}

func radial(id string, inner, outer scene.Color) string {
	return fmt.Sprintf(`<radialGradient id="%s"><stop offset="0" stop-color="%s" stop-opacity="%.3f"/><stop offset="1" stop-color="%s" stop-opacity="%.3f"/></radialGradient>
`, id, inner.Hex(), inner.Opacity(), outer.Hex(), outer.Opacity())
}

func pathData(pts []scene.Point) string {
	var sb strings.Builder
	for i, p := range pts {
		if i == 0 {
			sb.WriteString(fmt.Sprintf("M%.2f,%.2f", p.X, p.Y))
		} else {
			sb.WriteString(fmt.Sprintf(" L%.2f,%.2f", p.X, p.Y))
		}
	}
	return sb.String()
}

func arcData(c scene.Command) string {
	sweep := c.End - c.Start
	if math.Abs(sweep) >= 2*math.Pi-1e-9 {
		// a full turn cannot be one arc segment; split it in two
		dx, dy := math.Cos(c.Start)*c.Radius, math.Sin(c.Start)*c.Radius
		return fmt.Sprintf("M%.2f,%.2f A%.2f,%.2f 0 1 1 %.2f,%.2f A%.2f,%.2f 0 1 1 %.2f,%.2f",
			c.Center.X+dx, c.Center.Y+dy, c.Radius, c.Radius, c.Center.X-dx, c.Center.Y-dy,
			c.Radius, c.Radius, c.Center.X+dx, c.Center.Y+dy)
	}
	sx, sy := c.Center.X+math.Cos(c.Start)*c.Radius, c.Center.Y+math.Sin(c.Start)*c.Radius
	ex, ey := c.Center.X+math.Cos(c.End)*c.Radius, c.Center.Y+math.Sin(c.End)*c.Radius
	large, dir := 0, 1
	if math.Abs(sweep) > math.Pi {
		large = 1
	}
	if sweep < 0 {
		dir = 0
	}
	return fmt.Sprintf("M%.2f,%.2f A%.2f,%.2f 0 %d %d %.2f,%.2f", sx, sy, c.Radius, c.Radius, large, dir, ex, ey)
}

// CanvasToSVG converts a braille canvas to SVG dots, keeping each
// cell's color.
func CanvasToSVG(canvas *viz.Canvas, scale float64) string {
	if canvas == nil {
		return ""
	}

	width := float64(canvas.Width) * scale * 2
	height := float64(canvas.Height) * scale * 4

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="#0d0d1a"/>
`, width, height, width, height))

	pixelMap := [4][2]int{
		{0x01, 0x08},
		{0x02, 0x10},
		{0x04, 0x20},
		{0x40, 0x80},
	}
	dotRadius := scale * 0.4

	for row := 0; row < canvas.Height; row++ {
		for col := 0; col < canvas.Width; col++ {
			r := canvas.Grid[row][col]
			if r <= 0x2800 || r > 0x28ff {
				continue
			}
			pattern := int(r - 0x2800)
			fill := canvas.Colors[row][col].Hex()

			baseX := float64(col) * scale * 2
			baseY := float64(row) * scale * 4
			for dy := 0; dy < 4; dy++ {
				for dx := 0; dx < 2; dx++ {
					if pattern&pixelMap[dy][dx] != 0 {
						cx := baseX + float64(dx)*scale + scale/2
						cy := baseY + float64(dy)*scale + scale/2
						sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="%.1f" fill="%s"/>
`, cx, cy, dotRadius, fill))
					}
				}
			}
		}
	}

	sb.WriteString("</svg>")
	return sb.String()
}

// TraceToSVG plots one telemetry trace as a polyline, values in lo..hi.
func TraceToSVG(values []float64, lo, hi float64, width, height int, strokeColor string) string {
	if len(values) < 2 {
		return ""
	}
	rng := hi - lo
	if rng == 0 {
		rng = 1
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0d0d1a"/>
<path fill="none" stroke="%s" stroke-width="1.5" d="M`,
		width, height, width, height, strokeColor))

	for i, v := range values {
		x := float64(i) / float64(len(values)-1) * float64(width)
		y := float64(height) - (v-lo)/rng*float64(height)
		if i == 0 {
			sb.WriteString(fmt.Sprintf("%.1f,%.1f", x, y))
		} else {
			sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", x, y))
		}
	}

	sb.WriteString(`"/>
</svg>`)
	return sb.String()
}
